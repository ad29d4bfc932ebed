package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/five82/snooze/internal/session"
	"github.com/five82/snooze/internal/storyapi"
)

// ErrAnonymous is returned when a mutation is attempted without a session.
var ErrAnonymous = errors.New("login required")

// API is the subset of the story service the catalog needs.
type API interface {
	GetStories(ctx context.Context) ([]storyapi.Story, error)
	CreateStory(ctx context.Context, token string, story storyapi.NewStory) (storyapi.Story, error)
	DeleteStory(ctx context.Context, token, storyID string) error
}

// Service loads and mutates the story list. It holds only the most recently
// loaded snapshot, replaced wholesale by LoadAll.
type Service struct {
	api      API
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.RWMutex
	snapshot Catalog
}

// New builds a Service. A nil logger discards output.
func New(api API, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		api:      api,
		validate: newValidator(),
		logger:   logger.With("component", "catalog"),
		now:      time.Now,
	}
}

// LoadAll fetches the full story list and replaces the held snapshot. On
// error the previous snapshot is kept.
func (s *Service) LoadAll(ctx context.Context) (Catalog, error) {
	stories, err := s.api.GetStories(ctx)
	if err != nil {
		s.logger.Warn("load stories failed", "error", err)
		return Catalog{}, fmt.Errorf("load stories: %w", err)
	}
	next := Catalog{Stories: dedupe(stories), LoadedAt: s.now()}

	s.mu.Lock()
	s.snapshot = next
	s.mu.Unlock()

	s.logger.Debug("stories loaded", "count", next.Len())
	return next.Clone(), nil
}

// Snapshot returns a copy of the most recently loaded catalog.
func (s *Service) Snapshot() Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

// Create validates and submits a story as the session user and returns the
// stored story with its assigned id. The held snapshot is not patched; call
// LoadAll to see the new story in the catalog.
func (s *Service) Create(ctx context.Context, sess *session.Session, story storyapi.NewStory) (storyapi.Story, error) {
	if !sess.Authenticated() {
		return storyapi.Story{}, ErrAnonymous
	}
	story = normalize(story)
	if err := checkStory(s.validate, story); err != nil {
		return storyapi.Story{}, err
	}
	created, err := s.api.CreateStory(ctx, sess.Credential.Token, story)
	if err != nil {
		s.logger.Info("create story failed", "username", sess.Username(), "error", err)
		return storyapi.Story{}, fmt.Errorf("create story: %w", err)
	}
	s.logger.Info("story created", "username", sess.Username(), "story_id", created.StoryID)
	return created, nil
}

// Remove deletes a story. Ownership is enforced by the service; a story owned
// by someone else yields storyapi.ErrNotOwner.
func (s *Service) Remove(ctx context.Context, sess *session.Session, storyID string) error {
	if !sess.Authenticated() {
		return ErrAnonymous
	}
	storyID = strings.TrimSpace(storyID)
	if err := s.api.DeleteStory(ctx, sess.Credential.Token, storyID); err != nil {
		s.logger.Info("remove story failed", "username", sess.Username(), "story_id", storyID, "error", err)
		return fmt.Errorf("remove story: %w", err)
	}
	s.logger.Info("story removed", "username", sess.Username(), "story_id", storyID)
	return nil
}
