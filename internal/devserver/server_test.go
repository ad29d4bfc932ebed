package devserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/five82/snooze/internal/storyapi"
)

func newTestClient(t *testing.T, cfg Config) *storyapi.Client {
	t.Helper()
	if cfg.Secret == nil {
		cfg.Secret = []byte("test-secret")
	}
	cfg.BcryptCost = bcrypt.MinCost
	srv, err := New(cfg)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	client, err := storyapi.NewClient(ts.URL)
	require.NoError(t, err)
	return client
}

func sampleStory(title string) storyapi.NewStory {
	return storyapi.NewStory{Author: "Ada", Title: title, URL: "https://example.com/" + title}
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestSignupLoginAndGetUser(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, Config{})

	signed, err := client.Signup(ctx, "ada", "pw", "Ada L")
	require.NoError(t, err)
	require.NotEmpty(t, signed.Token)
	require.Equal(t, "ada", signed.User.Username)
	require.Equal(t, "Ada L", signed.User.Name)
	require.Empty(t, signed.User.Favorites)

	_, err = client.Signup(ctx, "ada", "other", "Ada")
	require.ErrorIs(t, err, storyapi.ErrConflict)

	_, err = client.Login(ctx, "ada", "wrong")
	require.ErrorIs(t, err, storyapi.ErrAuth)

	logged, err := client.Login(ctx, "ada", "pw")
	require.NoError(t, err)

	user, err := client.GetUser(ctx, "ada", logged.Token)
	require.NoError(t, err)
	require.Equal(t, "ada", user.Username)

	_, err = client.GetUser(ctx, "ada", "garbage")
	require.ErrorIs(t, err, storyapi.ErrAuth)
}

func TestSignup_ValidatesInput(t *testing.T) {
	client := newTestClient(t, Config{})
	_, err := client.Signup(context.Background(), "", "pw", "Ada")
	require.ErrorIs(t, err, storyapi.ErrValidation)
	_, err = client.Signup(context.Background(), "ada", "pw", "")
	require.ErrorIs(t, err, storyapi.ErrValidation)
}

func TestGetUser_RejectsOtherUsersToken(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, Config{})
	_, err := client.Signup(ctx, "ada", "pw", "Ada")
	require.NoError(t, err)
	bob, err := client.Signup(ctx, "bob", "pw", "Bob")
	require.NoError(t, err)

	_, err = client.GetUser(ctx, "ada", bob.Token)
	require.ErrorIs(t, err, storyapi.ErrAuth)
}

func TestStories_NewestFirstWithOwnership(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, Config{})
	ada, err := client.Signup(ctx, "ada", "pw", "Ada")
	require.NoError(t, err)

	first, err := client.CreateStory(ctx, ada.Token, sampleStory("one"))
	require.NoError(t, err)
	require.NotEmpty(t, first.StoryID)
	require.Equal(t, "ada", first.Username)
	second, err := client.CreateStory(ctx, ada.Token, sampleStory("two"))
	require.NoError(t, err)

	stories, err := client.GetStories(ctx)
	require.NoError(t, err)
	require.Len(t, stories, 2)
	require.Equal(t, second.StoryID, stories[0].StoryID)
	require.Equal(t, first.StoryID, stories[1].StoryID)

	user, err := client.GetUser(ctx, "ada", ada.Token)
	require.NoError(t, err)
	require.Len(t, user.Stories, 2)
}

func TestCreateStory_RequiresTokenAndValidFields(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, Config{})
	ada, err := client.Signup(ctx, "ada", "pw", "Ada")
	require.NoError(t, err)

	_, err = client.CreateStory(ctx, "", sampleStory("x"))
	require.ErrorIs(t, err, storyapi.ErrAuth)

	_, err = client.CreateStory(ctx, ada.Token, storyapi.NewStory{Author: "Ada", Title: "t", URL: "not a url"})
	require.ErrorIs(t, err, storyapi.ErrValidation)
}

func TestDeleteStory_EnforcesOwnershipAndPurgesFavorites(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, Config{})
	ada, err := client.Signup(ctx, "ada", "pw", "Ada")
	require.NoError(t, err)
	bob, err := client.Signup(ctx, "bob", "pw", "Bob")
	require.NoError(t, err)

	story, err := client.CreateStory(ctx, ada.Token, sampleStory("mine"))
	require.NoError(t, err)
	user, err := client.AddFavorite(ctx, "bob", bob.Token, story.StoryID)
	require.NoError(t, err)
	require.Len(t, user.Favorites, 1)

	err = client.DeleteStory(ctx, bob.Token, story.StoryID)
	require.ErrorIs(t, err, storyapi.ErrNotOwner)

	require.NoError(t, client.DeleteStory(ctx, ada.Token, story.StoryID))
	err = client.DeleteStory(ctx, ada.Token, story.StoryID)
	require.ErrorIs(t, err, storyapi.ErrNotFound)

	user, err = client.GetUser(ctx, "bob", bob.Token)
	require.NoError(t, err)
	require.Empty(t, user.Favorites)
}

func TestFavorites_AddRemoveIdempotent(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, Config{})
	ada, err := client.Signup(ctx, "ada", "pw", "Ada")
	require.NoError(t, err)
	story, err := client.CreateStory(ctx, ada.Token, sampleStory("fav"))
	require.NoError(t, err)

	for range 2 {
		user, err := client.AddFavorite(ctx, "ada", ada.Token, story.StoryID)
		require.NoError(t, err)
		require.Len(t, user.Favorites, 1)
	}
	user, err := client.RemoveFavorite(ctx, "ada", ada.Token, story.StoryID)
	require.NoError(t, err)
	require.Empty(t, user.Favorites)

	_, err = client.AddFavorite(ctx, "ada", ada.Token, "missing")
	require.ErrorIs(t, err, storyapi.ErrNotFound)
}

func TestListStories_SkipAndLimit(t *testing.T) {
	srv, err := New(Config{Secret: []byte("s"), BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	for _, title := range []string{"a", "b", "c"} {
		_, err := srv.store.signup("u"+title, "pw", "U")
		require.NoError(t, err)
		_, err = srv.store.create("u"+title, sampleStory(title))
		require.NoError(t, err)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stories?skip=1&limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"title":"b"`)
	require.NotContains(t, rec.Body.String(), `"title":"c"`)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stories?limit=-1", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	srv, err := New(Config{Secret: []byte("s")})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.True(t, strings.HasPrefix(rec.Body.String(), `{"error":`))
}

func TestRateLimit(t *testing.T) {
	srv, err := New(Config{Secret: []byte("s"), RatePerSecond: 0.001, Burst: 2})
	require.NoError(t, err)
	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stories", nil))
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestTokens_RejectsWrongSecret(t *testing.T) {
	a := tokens{secret: []byte("a")}
	b := tokens{secret: []byte("b")}
	raw, err := a.issue("ada", time.Now())
	require.NoError(t, err)
	_, err = b.username(raw)
	require.ErrorIs(t, err, errInvalidToken)
	name, err := a.username(raw)
	require.NoError(t, err)
	require.Equal(t, "ada", name)
}
