package devserver

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/five82/snooze/internal/storyapi"
)

var (
	errUserExists     = errors.New("username already taken")
	errBadCredentials = errors.New("invalid username or password")
	errNoUser         = errors.New("user not found")
	errNoStory        = errors.New("story not found")
	errNotOwner       = errors.New("story belongs to another user")
)

type account struct {
	username  string
	name      string
	hash      []byte
	createdAt time.Time
	updatedAt time.Time
	favorites []string
}

// Store holds users and stories in memory. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*account
	stories  []storyapi.Story // newest first

	now   func() time.Time
	newID func() string
	cost  int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*account),
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
		cost:     bcrypt.DefaultCost,
	}
}

func (s *Store) signup(username, password, name string) (storyapi.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return storyapi.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[username]; ok {
		return storyapi.User{}, errUserExists
	}
	now := s.now().UTC()
	acct := &account{username: username, name: name, hash: hash, createdAt: now, updatedAt: now}
	s.accounts[username] = acct
	return s.userLocked(acct), nil
}

func (s *Store) login(username, password string) (storyapi.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[username]
	if !ok {
		return storyapi.User{}, errBadCredentials
	}
	if bcrypt.CompareHashAndPassword(acct.hash, []byte(password)) != nil {
		return storyapi.User{}, errBadCredentials
	}
	return s.userLocked(acct), nil
}

func (s *Store) user(username string) (storyapi.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[username]
	if !ok {
		return storyapi.User{}, errNoUser
	}
	return s.userLocked(acct), nil
}

func (s *Store) list(skip, limit int) []storyapi.Story {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if skip >= len(s.stories) {
		return []storyapi.Story{}
	}
	out := s.stories[skip:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return slices.Clone(out)
}

func (s *Store) story(id string) (storyapi.Story, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return storyapi.Story{}, errNoStory
	}
	return s.stories[i], nil
}

func (s *Store) create(username string, in storyapi.NewStory) (storyapi.Story, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[username]; !ok {
		return storyapi.Story{}, errNoUser
	}
	now := s.now().UTC()
	story := storyapi.Story{
		StoryID:   s.newID(),
		Author:    in.Author,
		Title:     in.Title,
		URL:       in.URL,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.stories = slices.Insert(s.stories, 0, story)
	return story, nil
}

func (s *Store) remove(username, id string) (storyapi.Story, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return storyapi.Story{}, errNoStory
	}
	story := s.stories[i]
	if story.Username != username {
		return storyapi.Story{}, errNotOwner
	}
	s.stories = slices.Delete(s.stories, i, i+1)
	for _, acct := range s.accounts {
		acct.favorites = slices.DeleteFunc(acct.favorites, func(fav string) bool { return fav == id })
	}
	return story, nil
}

func (s *Store) setFavorite(username, id string, favorite bool) (storyapi.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[username]
	if !ok {
		return storyapi.User{}, errNoUser
	}
	if s.indexLocked(id) < 0 {
		return storyapi.User{}, errNoStory
	}
	has := slices.Contains(acct.favorites, id)
	switch {
	case favorite && !has:
		acct.favorites = append(acct.favorites, id)
	case !favorite && has:
		acct.favorites = slices.DeleteFunc(acct.favorites, func(fav string) bool { return fav == id })
	}
	acct.updatedAt = s.now().UTC()
	return s.userLocked(acct), nil
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.stories, func(st storyapi.Story) bool { return st.StoryID == id })
}

func (s *Store) userLocked(acct *account) storyapi.User {
	u := storyapi.User{
		Username:  acct.username,
		Name:      acct.name,
		CreatedAt: acct.createdAt,
		UpdatedAt: acct.updatedAt,
		Favorites: []storyapi.Story{},
		Stories:   []storyapi.Story{},
	}
	for _, id := range acct.favorites {
		if i := s.indexLocked(id); i >= 0 {
			u.Favorites = append(u.Favorites, s.stories[i])
		}
	}
	for _, st := range s.stories {
		if st.Username == acct.username {
			u.Stories = append(u.Stories, st)
		}
	}
	return u
}
