package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/five82/snooze/internal/catalog"
	"github.com/five82/snooze/internal/session"
	"github.com/five82/snooze/internal/storyapi"
)

var (
	// ErrAnonymous is returned for favorite toggles without a session.
	ErrAnonymous = catalog.ErrAnonymous
	// ErrUnknownStory is returned when the story id is not in the current
	// catalog snapshot, typically a stale row.
	ErrUnknownStory = errors.New("story not in catalog")
	// ErrToggleInFlight is returned when a toggle for the same story has not
	// resolved yet.
	ErrToggleInFlight = errors.New("favorite toggle already in progress")
)

// FavoritesAPI adds and removes favorites on the service.
type FavoritesAPI interface {
	AddFavorite(ctx context.Context, username, token, storyID string) (storyapi.User, error)
	RemoveFavorite(ctx context.Context, username, token, storyID string) (storyapi.User, error)
}

// Sessions refreshes a session from the service.
type Sessions interface {
	Refresh(ctx context.Context, s *session.Session) (*session.Session, error)
}

// Stories reloads and exposes the catalog snapshot.
type Stories interface {
	LoadAll(ctx context.Context) (catalog.Catalog, error)
	Snapshot() catalog.Catalog
}

// MutationKind names a story-level mutation.
type MutationKind int

const (
	Create MutationKind = iota
	Delete
)

func (k MutationKind) String() string {
	if k == Delete {
		return "delete"
	}
	return "create"
}

// Mutation describes a completed story mutation. StoryID is optional.
type Mutation struct {
	Kind    MutationKind
	StoryID string
}

// Reconciler keeps session favorites and the catalog consistent across
// mutating actions. It is safe for concurrent use.
type Reconciler struct {
	favorites FavoritesAPI
	sessions  Sessions
	stories   Stories
	logger    *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// New builds a Reconciler. A nil logger discards output.
func New(favorites FavoritesAPI, sessions Sessions, stories Stories, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Reconciler{
		favorites: favorites,
		sessions:  sessions,
		stories:   stories,
		logger:    logger.With("component", "reconcile"),
		inflight:  make(map[string]struct{}),
	}
}

// ToggleFavorite flips the favorite state of storyID for sess. The id must be
// in the current catalog snapshot and no other toggle for it may be pending.
// On success the returned session has the toggled id applied to its local
// favorite set; other ids keep whatever state sess had. On failure sess is
// returned unchanged.
func (r *Reconciler) ToggleFavorite(ctx context.Context, sess *session.Session, storyID string) (*session.Session, error) {
	if !sess.Authenticated() {
		return sess, ErrAnonymous
	}
	story, ok := r.stories.Snapshot().Find(storyID)
	if !ok {
		return sess, fmt.Errorf("toggle %q: %w", storyID, ErrUnknownStory)
	}
	if !r.acquire(storyID) {
		return sess, fmt.Errorf("toggle %q: %w", storyID, ErrToggleInFlight)
	}
	defer r.release(storyID)

	username, token := sess.Credential.Username, sess.Credential.Token
	favorite := !sess.IsFavorite(storyID)

	var err error
	if favorite {
		_, err = r.favorites.AddFavorite(ctx, username, token, storyID)
	} else {
		_, err = r.favorites.RemoveFavorite(ctx, username, token, storyID)
	}
	if err != nil {
		r.logger.Info("toggle favorite failed", "story_id", storyID, "favorite", favorite, "error", err)
		return sess, fmt.Errorf("toggle %q: %w", storyID, err)
	}
	r.logger.Debug("favorite toggled", "story_id", storyID, "favorite", favorite)
	return sess.WithFavorite(story, favorite), nil
}

// InFlight reports whether a toggle for storyID is pending.
func (r *Reconciler) InFlight(storyID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.inflight[storyID]
	return ok
}

func (r *Reconciler) acquire(storyID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.inflight[storyID]; ok {
		return false
	}
	r.inflight[storyID] = struct{}{}
	return true
}

func (r *Reconciler) release(storyID string) {
	r.mu.Lock()
	delete(r.inflight, storyID)
	r.mu.Unlock()
}

// AfterMutation refetches both the catalog and the session after a story was
// created or removed. A deleted StoryID is also purged from the session's
// favorites. When the catalog reload fails the inputs are returned unchanged
// with the error; when only the session refresh fails the reloaded catalog is
// returned with the original session and the error.
func (r *Reconciler) AfterMutation(ctx context.Context, m Mutation, sess *session.Session) (*session.Session, catalog.Catalog, error) {
	cat, err := r.stories.LoadAll(ctx)
	if err != nil {
		return sess, r.stories.Snapshot(), fmt.Errorf("after %s: %w", m.Kind, err)
	}

	next, err := r.sessions.Refresh(ctx, sess)
	if err != nil {
		return sess, cat, fmt.Errorf("after %s: %w", m.Kind, err)
	}
	if m.Kind == Delete && m.StoryID != "" && next.IsFavorite(m.StoryID) {
		next = next.WithFavorite(storyapi.Story{StoryID: m.StoryID}, false)
	}
	r.logger.Debug("reconciled after mutation", "kind", m.Kind.String(), "stories", cat.Len())
	return next, cat, nil
}
