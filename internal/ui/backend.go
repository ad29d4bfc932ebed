package ui

import (
	"context"

	"github.com/five82/snooze/internal/catalog"
	"github.com/five82/snooze/internal/reconcile"
	"github.com/five82/snooze/internal/session"
	"github.com/five82/snooze/internal/storyapi"
)

// Sessions is the session manager surface the UI drives.
type Sessions interface {
	Start(ctx context.Context) (*session.Session, error)
	Login(ctx context.Context, username, password string) (*session.Session, error)
	CreateAccount(ctx context.Context, username, password, name string) (*session.Session, error)
	Logout() error
	Refresh(ctx context.Context, s *session.Session) (*session.Session, error)
}

// Stories is the catalog surface the UI drives.
type Stories interface {
	LoadAll(ctx context.Context) (catalog.Catalog, error)
	Create(ctx context.Context, sess *session.Session, story storyapi.NewStory) (storyapi.Story, error)
	Remove(ctx context.Context, sess *session.Session, storyID string) error
}

// Reconciler applies favorite toggles and post-mutation refreshes.
type Reconciler interface {
	ToggleFavorite(ctx context.Context, sess *session.Session, storyID string) (*session.Session, error)
	AfterMutation(ctx context.Context, m reconcile.Mutation, sess *session.Session) (*session.Session, catalog.Catalog, error)
}
