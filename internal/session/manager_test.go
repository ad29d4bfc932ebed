package session

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/five82/snooze/internal/credstore"
	"github.com/five82/snooze/internal/devserver"
	"github.com/five82/snooze/internal/storyapi"
)

func newBackend(t *testing.T) *storyapi.Client {
	t.Helper()
	srv, err := devserver.New(devserver.Config{Secret: []byte("test"), BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	client, err := storyapi.NewClient(ts.URL)
	require.NoError(t, err)
	return client
}

func newFileStore(t *testing.T) *credstore.File {
	t.Helper()
	return credstore.New(filepath.Join(t.TempDir(), "credentials.toml"))
}

type failingStore struct {
	cred    credstore.Credential
	ok      bool
	saveErr error
	cleared bool
}

func (f *failingStore) Load() (credstore.Credential, bool, error) { return f.cred, f.ok, nil }
func (f *failingStore) Save(credstore.Credential) error          { return f.saveErr }
func (f *failingStore) Clear() error {
	f.cleared = true
	return nil
}

func TestStart_NoCredentialIsAnonymous(t *testing.T) {
	m := NewManager(newBackend(t), newFileStore(t), nil)
	sess, err := m.Start(context.Background())
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestCreateAccount_PersistsAndResumes(t *testing.T) {
	ctx := context.Background()
	api := newBackend(t)
	store := newFileStore(t)
	m := NewManager(api, store, nil)

	sess, err := m.CreateAccount(ctx, " ada ", "pw", "Ada")
	require.NoError(t, err)
	require.Equal(t, "ada", sess.Username())
	require.Zero(t, sess.User.Favorites.Len())

	cred, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, sess.Credential, cred)

	resumed, err := NewManager(api, store, nil).Start(ctx)
	require.NoError(t, err)
	require.Equal(t, "ada", resumed.Username())
	require.Equal(t, "Ada", resumed.User.Name)
}

func TestCreateAccount_ConflictAndValidation(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newBackend(t), newFileStore(t), nil)

	_, err := m.CreateAccount(ctx, "ada", "pw", "")
	require.ErrorIs(t, err, storyapi.ErrValidation)

	_, err = m.CreateAccount(ctx, "ada", "pw", "Ada")
	require.NoError(t, err)
	_, err = m.CreateAccount(ctx, "ada", "pw2", "Ada")
	require.ErrorIs(t, err, storyapi.ErrConflict)
}

func TestLogin_BadPasswordIsAuthError(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	m := NewManager(newBackend(t), store, nil)
	_, err := m.CreateAccount(ctx, "ada", "pw", "Ada")
	require.NoError(t, err)
	require.NoError(t, m.Logout())

	_, err = m.Login(ctx, "ada", "nope")
	require.ErrorIs(t, err, storyapi.ErrAuth)
	_, ok, err := store.Load()
	require.NoError(t, err)
	require.False(t, ok)

	_, err = m.Login(ctx, "", "pw")
	require.ErrorIs(t, err, storyapi.ErrValidation)

	sess, err := m.Login(ctx, "ada", "pw")
	require.NoError(t, err)
	require.True(t, sess.Authenticated())
}

func TestStart_RejectedTokenClearsCredential(t *testing.T) {
	store := &failingStore{cred: credstore.Credential{Token: "bogus", Username: "ada"}, ok: true}
	m := NewManager(newBackend(t), store, nil)

	sess, err := m.Start(context.Background())
	require.ErrorIs(t, err, storyapi.ErrAuth)
	require.Nil(t, sess)
	require.True(t, store.cleared)
}

func TestLogin_PersistFailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	api := newBackend(t)
	_, err := api.Signup(ctx, "ada", "pw", "Ada")
	require.NoError(t, err)

	m := NewManager(api, &failingStore{saveErr: errors.New("disk full")}, nil)
	sess, err := m.Login(ctx, "ada", "pw")
	require.NoError(t, err)
	require.Equal(t, "ada", sess.Username())
}

func TestLogout_ClearsCredential(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	m := NewManager(newBackend(t), store, nil)
	_, err := m.CreateAccount(ctx, "ada", "pw", "Ada")
	require.NoError(t, err)

	require.NoError(t, m.Logout())
	sess, err := m.Start(ctx)
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestRefresh_PicksUpServerChangesWithoutTouchingStore(t *testing.T) {
	ctx := context.Background()
	api := newBackend(t)
	store := newFileStore(t)
	m := NewManager(api, store, nil)
	sess, err := m.CreateAccount(ctx, "ada", "pw", "Ada")
	require.NoError(t, err)
	before, _, err := store.Load()
	require.NoError(t, err)

	story, err := api.CreateStory(ctx, sess.Credential.Token, storyapi.NewStory{Author: "A", Title: "T", URL: "https://example.com"})
	require.NoError(t, err)
	_, err = api.AddFavorite(ctx, "ada", sess.Credential.Token, story.StoryID)
	require.NoError(t, err)

	next, err := m.Refresh(ctx, sess)
	require.NoError(t, err)
	require.True(t, next.Owns(story.StoryID))
	require.True(t, next.IsFavorite(story.StoryID))
	require.False(t, sess.IsFavorite(story.StoryID))
	require.Equal(t, sess.Credential, next.Credential)

	after, _, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, before, after)

	anon, err := m.Refresh(ctx, nil)
	require.NoError(t, err)
	require.Nil(t, anon)
}

func TestRefresh_ErrorReturnsOriginal(t *testing.T) {
	m := NewManager(newBackend(t), newFileStore(t), nil)
	orig := &Session{Credential: credstore.Credential{Token: "bad", Username: "ghost"}}
	got, err := m.Refresh(context.Background(), orig)
	require.ErrorIs(t, err, storyapi.ErrAuth)
	require.Same(t, orig, got)
}
