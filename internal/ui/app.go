package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/snooze/internal/catalog"
	"github.com/five82/snooze/internal/reconcile"
	"github.com/five82/snooze/internal/session"
	"github.com/five82/snooze/internal/storyapi"
)

// View represents the current story list.
type View int

const (
	ViewAll View = iota
	ViewFavorites
	ViewMine
)

func (v View) label() string {
	switch v {
	case ViewFavorites:
		return "Favorites"
	case ViewMine:
		return "My Stories"
	default:
		return "All Stories"
	}
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Sessions   Sessions
	Stories    Stories
	Reconciler Reconciler
	ThemeName  string
	Logger     *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	sessions   Sessions
	stories    Stories
	reconciler Reconciler
	logger     *slog.Logger
	keys       keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state. session is nil while anonymous.
	session     *session.Session
	started     bool
	catalog     catalog.Catalog
	catalogErr  error
	lastUpdated time.Time

	// List state
	selectedRow   int
	pending       map[string]bool
	confirmDelete string

	form *form

	status    string
	statusErr bool
	statusSeq int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return Model{
		ctx:         ctx,
		sessions:    opts.Sessions,
		stories:     opts.Stories,
		reconciler:  opts.Reconciler,
		logger:      logger.With("component", "ui"),
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.ThemeName),
		currentView: ViewAll,
		pending:     make(map[string]bool),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(startSessionCmd(m), loadCatalogCmd(m))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case sessionStartedMsg:
		prev := m.selectedID()
		m.started = true
		m.session = msg.sess
		m.clampSelection(prev)
		if msg.err != nil {
			if errors.Is(msg.err, storyapi.ErrAuth) {
				return m, m.setError("Saved login expired; continuing anonymously")
			}
			return m, m.setError("Resume session: " + describeError(msg.err))
		}
		if m.session.Authenticated() {
			return m, m.setInfo("Welcome back, " + m.session.Username())
		}
		return m, nil

	case catalogMsg:
		if msg.err != nil {
			m.catalogErr = msg.err
			return m, m.setError("Load stories: " + describeError(msg.err))
		}
		m.applyCatalog(msg.cat)
		return m, nil

	case refreshedMsg:
		return m.handleRefreshed(msg)

	case authMsg:
		return m.handleAuth(msg)

	case loggedOutMsg:
		m.session = nil
		m.currentView = ViewAll
		m.clampSelection("")
		if msg.err != nil {
			return m, m.setError("Logged out, but the saved login could not be removed: " + describeError(msg.err))
		}
		return m, m.setInfo("Logged out")

	case toggledMsg:
		return m.handleToggled(msg)

	case mutatedMsg:
		return m.handleMutated(msg)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil
	}

	// Cursor blink and other input messages go to the open form.
	if m.form != nil {
		var cmd tea.Cmd
		m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.form != nil {
		return m.form.view(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.form != nil {
		return m.handleFormKey(msg)
	}

	if m.confirmDelete != "" {
		return m.handleConfirmDelete(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		return m, m.setInfo("Theme: " + m.theme.Name)

	case key.Matches(msg, m.keys.ViewAll):
		m.switchView(ViewAll)
		return m, loadCatalogCmd(m)

	case key.Matches(msg, m.keys.Escape):
		m.switchView(ViewAll)
		return m, nil

	case key.Matches(msg, m.keys.ViewFavorites):
		if !m.session.Authenticated() {
			return m, m.setInfo("Log in to see favorites")
		}
		m.switchView(ViewFavorites)
		return m, nil

	case key.Matches(msg, m.keys.ViewMine):
		if !m.session.Authenticated() {
			return m, m.setInfo("Log in to see your stories")
		}
		m.switchView(ViewMine)
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(refreshCmd(m, m.session), m.setInfo("Refreshing..."))

	case key.Matches(msg, m.keys.ToggleFavorite):
		return m.toggleSelected()

	case key.Matches(msg, m.keys.Delete):
		return m.askDelete()

	case key.Matches(msg, m.keys.Submit):
		if !m.session.Authenticated() {
			return m, m.setInfo("Log in to submit stories")
		}
		m.form = newForm(formSubmit, "")
		return m, nil

	case key.Matches(msg, m.keys.Login), key.Matches(msg, m.keys.Signup):
		if m.session.Authenticated() {
			return m, m.setInfo("Already logged in as " + m.session.Username())
		}
		kind := formLogin
		if key.Matches(msg, m.keys.Signup) {
			kind = formSignup
		}
		m.form = newForm(kind, "")
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		if !m.session.Authenticated() {
			return m, nil
		}
		return m, logoutCmd(m)
	}

	return m.handleListKey(msg)
}

// handleListKey moves the cursor.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.rows())
	if count == 0 {
		return m, nil
	}
	half := max(1, m.listHeight()/2)

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < count-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = count - 1
	case key.Matches(msg, m.keys.HalfPageDown):
		m.selectedRow = min(count-1, m.selectedRow+half)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.selectedRow = max(0, m.selectedRow-half)
	}
	return m, nil
}

func (m *Model) switchView(v View) {
	if m.currentView != v {
		m.currentView = v
		m.selectedRow = 0
	}
	m.confirmDelete = ""
}

func (m *Model) applyCatalog(cat catalog.Catalog) {
	prev := m.selectedID()
	m.catalog = cat
	m.catalogErr = nil
	m.lastUpdated = cat.LoadedAt
	m.clampSelection(prev)
}

// applySession replaces the session if it still belongs to the same user.
func (m *Model) applySession(username string, sess *session.Session) {
	if sess == nil || m.session.Username() != username {
		return
	}
	prev := m.selectedID()
	m.session = sess
	m.clampSelection(prev)
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	if !m.session.Authenticated() {
		return m, m.setInfo("Log in to mark favorites")
	}
	row, ok := m.selected()
	if !ok {
		return m, nil
	}
	id := row.story.StoryID
	if m.pending[id] {
		return m, m.setInfo("Favorite update already in progress")
	}
	m.pending[id] = true
	return m, toggleCmd(m, m.session, row.story)
}

func (m Model) handleToggled(msg toggledMsg) (tea.Model, tea.Cmd) {
	delete(m.pending, msg.story.StoryID)
	if msg.err != nil {
		m.logger.Info("toggle favorite failed", "story_id", msg.story.StoryID, "error", msg.err)
		return m, m.setError(describeError(msg.err))
	}
	if m.session.Username() != msg.username {
		return m, nil
	}
	prev := m.selectedID()
	m.session = m.session.WithFavorite(msg.story, msg.favorite)
	m.clampSelection(prev)
	if msg.favorite {
		return m, m.setInfo("Added to favorites: " + truncate(msg.story.Title, 40))
	}
	return m, m.setInfo("Removed from favorites: " + truncate(msg.story.Title, 40))
}

func (m Model) askDelete() (tea.Model, tea.Cmd) {
	row, ok := m.selected()
	if !ok {
		return m, nil
	}
	if !row.class.IsOwn {
		return m, m.setInfo("You can only delete your own stories")
	}
	m.confirmDelete = row.story.StoryID
	m.status = "Delete \"" + truncate(row.story.Title, 40) + "\"? y to confirm, any other key to cancel"
	m.statusErr = false
	m.statusSeq++
	return m, nil
}

func (m Model) handleConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.confirmDelete
	m.confirmDelete = ""
	if !key.Matches(msg, m.keys.ConfirmDelete) {
		return m, m.setInfo("Delete cancelled")
	}
	row, ok := m.selected()
	if !ok || row.story.StoryID != id {
		return m, m.setInfo("Delete cancelled")
	}
	return m, tea.Batch(deleteCmd(m, m.session, row.story), m.setInfo("Deleting..."))
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, cmd := m.form.update(msg, m.keys)
	switch action {
	case formCancel:
		m.form = nil
		return m, nil
	case formSubmitted:
		return m.submitForm()
	}
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	f := m.form
	switch f.kind {
	case formLogin:
		f.busy = true
		return m, loginCmd(m, f.value(0), f.value(1))
	case formSignup:
		f.busy = true
		return m, signupCmd(m, f.value(1), f.value(2), f.value(0))
	case formSubmit:
		if !m.session.Authenticated() {
			f.err = "Log in to submit stories"
			return m, nil
		}
		f.busy = true
		in := storyapi.NewStory{Author: f.value(0), Title: f.value(1), URL: f.value(2)}
		return m, submitCmd(m, m.session, in)
	}
	return m, nil
}

func (m Model) handleAuth(msg authMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if m.form != nil {
			m.form.busy = false
			m.form.err = describeError(msg.err)
		}
		return m, nil
	}
	m.form = nil
	prev := m.selectedID()
	m.session = msg.sess
	m.clampSelection(prev)
	return m, tea.Batch(loadCatalogCmd(m), m.setInfo("Logged in as "+m.session.Username()))
}

func (m Model) handleRefreshed(msg refreshedMsg) (tea.Model, tea.Cmd) {
	if msg.catErr == nil {
		m.applyCatalog(msg.cat)
	} else {
		m.catalogErr = msg.catErr
	}
	if msg.sessErr == nil {
		m.applySession(msg.username, msg.sess)
	}
	switch {
	case msg.catErr != nil:
		return m, m.setError("Load stories: " + describeError(msg.catErr))
	case msg.sessErr != nil:
		return m, m.setError("Refresh session: " + describeError(msg.sessErr))
	}
	return m, m.setInfo("Refreshed")
}

func (m Model) handleMutated(msg mutatedMsg) (tea.Model, tea.Cmd) {
	if msg.stage == stageMutate {
		if msg.kind == reconcile.Create && m.form != nil {
			m.form.busy = false
			m.form.err = describeError(msg.err)
			return m, nil
		}
		return m, m.setError(describeError(msg.err))
	}

	if msg.kind == reconcile.Create {
		m.form = nil
	}
	if !msg.cat.LoadedAt.IsZero() {
		m.applyCatalog(msg.cat)
	}
	if msg.stage == stageReconcile {
		return m, m.setError("Saved, but refresh failed: " + describeError(msg.err))
	}
	m.applySession(msg.username, msg.sess)

	if msg.kind == reconcile.Delete {
		return m, m.setInfo("Deleted: " + truncate(msg.story.Title, 40))
	}
	return m, m.setInfo("Submitted: " + truncate(msg.story.Title, 40))
}

func (m *Model) setInfo(text string) tea.Cmd {
	m.status = text
	m.statusErr = false
	m.statusSeq++
	return clearStatusCmd(m.statusSeq)
}

func (m *Model) setError(text string) tea.Cmd {
	m.status = text
	m.statusErr = true
	m.statusSeq++
	return clearStatusCmd(m.statusSeq)
}

// Run starts the Bubble Tea program. Cancelling opts.Context stops it
// without an error.
func Run(opts Options) error {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(opts.Context))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context.Err() != nil {
		return nil
	}
	return err
}
