package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/snooze/internal/catalog"
	"github.com/five82/snooze/internal/reconcile"
	"github.com/five82/snooze/internal/session"
	"github.com/five82/snooze/internal/storyapi"
)

// Messages

// sessionStartedMsg carries the result of resuming the stored credential.
type sessionStartedMsg struct {
	sess *session.Session
	err  error
}

type catalogMsg struct {
	cat catalog.Catalog
	err error
}

// refreshedMsg carries a reloaded catalog and session. Either half may be
// missing when its fetch failed.
type refreshedMsg struct {
	username string
	sess     *session.Session
	cat      catalog.Catalog
	catErr   error
	sessErr  error
}

// authMsg is the outcome of a login or signup form.
type authMsg struct {
	sess *session.Session
	err  error
}

type loggedOutMsg struct {
	err error
}

// toggledMsg is the outcome of a favorite toggle for one story.
type toggledMsg struct {
	username string
	story    storyapi.Story
	favorite bool
	err      error
}

// mutatedMsg is the outcome of a create or delete plus the reconcile that
// follows it. When err is set and stage is stageMutate nothing changed.
type mutatedMsg struct {
	kind     reconcile.MutationKind
	username string
	story    storyapi.Story
	sess     *session.Session
	cat      catalog.Catalog
	stage    mutationStage
	err      error
}

type mutationStage int

const (
	stageMutate mutationStage = iota
	stageReconcile
	stageDone
)

type clearStatusMsg struct {
	seq int
}

// Commands

func (m Model) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(m.ctx, RequestTimeout)
}

func startSessionCmd(m Model) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()
		sess, err := m.sessions.Start(ctx)
		return sessionStartedMsg{sess: sess, err: err}
	}
}

func loadCatalogCmd(m Model) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()
		cat, err := m.stories.LoadAll(ctx)
		return catalogMsg{cat: cat, err: err}
	}
}

func refreshCmd(m Model, sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()
		msg := refreshedMsg{username: sess.Username()}
		msg.cat, msg.catErr = m.stories.LoadAll(ctx)
		msg.sess, msg.sessErr = m.sessions.Refresh(ctx, sess)
		return msg
	}
}

func loginCmd(m Model, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()
		sess, err := m.sessions.Login(ctx, username, password)
		return authMsg{sess: sess, err: err}
	}
}

func signupCmd(m Model, username, password, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()
		sess, err := m.sessions.CreateAccount(ctx, username, password, name)
		return authMsg{sess: sess, err: err}
	}
}

func logoutCmd(m Model) tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: m.sessions.Logout()}
	}
}

func toggleCmd(m Model, sess *session.Session, story storyapi.Story) tea.Cmd {
	favorite := !sess.IsFavorite(story.StoryID)
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()
		_, err := m.reconciler.ToggleFavorite(ctx, sess, story.StoryID)
		return toggledMsg{username: sess.Username(), story: story, favorite: favorite, err: err}
	}
}

func submitCmd(m Model, sess *session.Session, in storyapi.NewStory) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()
		msg := mutatedMsg{kind: reconcile.Create, username: sess.Username()}
		created, err := m.stories.Create(ctx, sess, in)
		if err != nil {
			msg.err = err
			return msg
		}
		msg.story = created
		msg.sess, msg.cat, msg.err = m.reconciler.AfterMutation(ctx, reconcile.Mutation{Kind: reconcile.Create, StoryID: created.StoryID}, sess)
		msg.stage = stageDone
		if msg.err != nil {
			msg.stage = stageReconcile
		}
		return msg
	}
}

func deleteCmd(m Model, sess *session.Session, story storyapi.Story) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()
		msg := mutatedMsg{kind: reconcile.Delete, username: sess.Username(), story: story}
		if err := m.stories.Remove(ctx, sess, story.StoryID); err != nil {
			msg.err = err
			return msg
		}
		msg.sess, msg.cat, msg.err = m.reconciler.AfterMutation(ctx, reconcile.Mutation{Kind: reconcile.Delete, StoryID: story.StoryID}, sess)
		msg.stage = stageDone
		if msg.err != nil {
			msg.stage = stageReconcile
		}
		return msg
	}
}

func clearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(StatusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
