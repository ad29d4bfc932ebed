package session

import (
	"slices"
	"time"

	"github.com/five82/snooze/internal/credstore"
	"github.com/five82/snooze/internal/storyapi"
)

// User is the live view of the authenticated account.
type User struct {
	Username  string
	Name      string
	CreatedAt time.Time

	Favorites Refs
	Owned     Refs

	// Records as last reported by the service. A favorite may point at a story
	// that no longer exists in the catalog.
	FavoriteStories []storyapi.Story
	OwnStories      []storyapi.Story
}

// UserFromAPI converts a service user payload.
func UserFromAPI(u storyapi.User) User {
	return User{
		Username:        u.Username,
		Name:            u.Name,
		CreatedAt:       u.CreatedAt,
		Favorites:       refsFromStories(u.Favorites),
		Owned:           refsFromStories(u.Stories),
		FavoriteStories: slices.Clone(u.Favorites),
		OwnStories:      slices.Clone(u.Stories),
	}
}

// Session is an authenticated user plus the credential that produced it. A
// nil *Session is the anonymous session. Sessions are values: operations
// return a new Session instead of changing the receiver.
type Session struct {
	Credential credstore.Credential
	User       User
}

// Authenticated reports whether s represents a logged-in user.
func (s *Session) Authenticated() bool {
	return s != nil
}

// Username returns the session user's name, or "" when anonymous.
func (s *Session) Username() string {
	if s == nil {
		return ""
	}
	return s.User.Username
}

// IsFavorite reports whether storyID is a favorite of the session user.
func (s *Session) IsFavorite(storyID string) bool {
	return s != nil && s.User.Favorites.Has(storyID)
}

// Owns reports whether the session user created storyID.
func (s *Session) Owns(storyID string) bool {
	return s != nil && s.User.Owned.Has(storyID)
}

// WithFavorite returns a copy of s with story added to or removed from the
// favorites. The receiver is unchanged.
func (s *Session) WithFavorite(story storyapi.Story, favorite bool) *Session {
	if s == nil {
		return nil
	}
	next := *s
	id := story.StoryID
	if favorite {
		next.User.Favorites = s.User.Favorites.with(id)
		if !containsStory(s.User.FavoriteStories, id) {
			next.User.FavoriteStories = append(slices.Clone(s.User.FavoriteStories), story)
		}
		return &next
	}
	next.User.Favorites = s.User.Favorites.without(id)
	next.User.FavoriteStories = slices.DeleteFunc(slices.Clone(s.User.FavoriteStories), func(st storyapi.Story) bool {
		return st.StoryID == id
	})
	return &next
}

func containsStory(stories []storyapi.Story, id string) bool {
	return slices.ContainsFunc(stories, func(s storyapi.Story) bool { return s.StoryID == id })
}

// FavoriteStories returns the favorite story records as last reported by the
// service, plus any added locally since. Anonymous sessions have none.
func (s *Session) FavoriteStories() []storyapi.Story {
	if s == nil {
		return nil
	}
	return slices.Clone(s.User.FavoriteStories)
}

// OwnStories returns the records of stories the user created.
func (s *Session) OwnStories() []storyapi.Story {
	if s == nil {
		return nil
	}
	return slices.Clone(s.User.OwnStories)
}
