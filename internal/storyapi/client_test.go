package storyapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("  127.0.0.1:7480  ")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "127.0.0.1:7480" {
		t.Fatalf("url = %q, want http://127.0.0.1:7480", u.String())
	}

	u, err = parseBaseURL("https://example.com/x?y=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL without host returned nil error")
	}
}

func TestClient_EncodesRequests(t *testing.T) {
	t.Parallel()

	type seen struct {
		method string
		path   string
		token  string
		body   map[string]any
	}
	var (
		mu  sync.Mutex
		got []seen
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := seen{method: r.Method, path: r.URL.Path, token: r.URL.Query().Get("token")}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&entry.body)
		}
		mu.Lock()
		got = append(got, entry)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/login" || r.URL.Path == "/signup":
			_ = json.NewEncoder(w).Encode(AuthResponse{Token: "tok", User: User{Username: "alice", Name: "Alice"}})
		case r.URL.Path == "/stories" && r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(StoryListResponse{Stories: []Story{{StoryID: "s1"}, {StoryID: "s2"}}})
		case r.URL.Path == "/stories" && r.Method == http.MethodPost:
			_ = json.NewEncoder(w).Encode(StoryResponse{Story: Story{StoryID: "s3", Title: "T", Username: "alice"}})
		case strings.HasPrefix(r.URL.Path, "/stories/"):
			_ = json.NewEncoder(w).Encode(StoryResponse{Message: "deleted"})
		case strings.Contains(r.URL.Path, "/favorites/"):
			_ = json.NewEncoder(w).Encode(UserResponse{User: User{Username: "alice", Favorites: []Story{{StoryID: "s1"}}}})
		case strings.HasPrefix(r.URL.Path, "/users/"):
			_ = json.NewEncoder(w).Encode(UserResponse{User: User{Username: "alice", Stories: []Story{{StoryID: "s3"}}}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	auth, err := c.Login(ctx, "alice", "pw")
	if err != nil || auth.Token != "tok" || auth.User.Username != "alice" {
		t.Fatalf("Login = %#v, %v", auth, err)
	}
	if _, err := c.Signup(ctx, "alice", "pw", "Alice"); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	user, err := c.GetUser(ctx, "alice", "tok")
	if err != nil || len(user.Stories) != 1 {
		t.Fatalf("GetUser = %#v, %v", user, err)
	}
	stories, err := c.GetStories(ctx)
	if err != nil || len(stories) != 2 || stories[0].StoryID != "s1" {
		t.Fatalf("GetStories = %#v, %v", stories, err)
	}
	story, err := c.CreateStory(ctx, "tok", NewStory{Author: "A", Title: "T", URL: "http://x.io"})
	if err != nil || story.StoryID != "s3" {
		t.Fatalf("CreateStory = %#v, %v", story, err)
	}
	if err := c.DeleteStory(ctx, "tok", "s3"); err != nil {
		t.Fatalf("DeleteStory returned error: %v", err)
	}
	fav, err := c.AddFavorite(ctx, "alice", "tok", "s1")
	if err != nil || len(fav.Favorites) != 1 {
		t.Fatalf("AddFavorite = %#v, %v", fav, err)
	}
	if _, err := c.RemoveFavorite(ctx, "alice", "tok", "s1"); err != nil {
		t.Fatalf("RemoveFavorite returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 8 {
		t.Fatalf("server saw %d requests, want 8", len(got))
	}
	login := got[0].body["user"].(map[string]any)
	if login["username"] != "alice" || login["password"] != "pw" {
		t.Fatalf("login body = %#v", got[0].body)
	}
	signup := got[1].body["user"].(map[string]any)
	if signup["name"] != "Alice" {
		t.Fatalf("signup body = %#v", got[1].body)
	}
	if got[2].path != "/users/alice" || got[2].token != "tok" {
		t.Fatalf("GetUser request = %#v", got[2])
	}
	create := got[4].body
	if create["token"] != "tok" || create["story"].(map[string]any)["url"] != "http://x.io" {
		t.Fatalf("create body = %#v", create)
	}
	if got[5].method != http.MethodDelete || got[5].path != "/stories/s3" || got[5].token != "tok" {
		t.Fatalf("DeleteStory request = %#v", got[5])
	}
	if got[6].method != http.MethodPost || got[6].path != "/users/alice/favorites/s1" || got[6].body["token"] != "tok" {
		t.Fatalf("AddFavorite request = %#v", got[6])
	}
	if got[7].method != http.MethodDelete {
		t.Fatalf("RemoveFavorite method = %q, want DELETE", got[7].method)
	}
}

func TestClient_MapsErrorStatuses(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrValidation},
		{http.StatusUnauthorized, ErrAuth},
		{http.StatusForbidden, ErrNotOwner},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_ = json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorBody{Status: tc.status, Title: "t", Message: "boom"}})
			}))
			t.Cleanup(server.Close)

			c, err := NewClient(server.URL)
			if err != nil {
				t.Fatalf("NewClient returned error: %v", err)
			}
			_, err = c.GetStories(context.Background())
			if !errors.Is(err, tc.want) {
				t.Fatalf("GetStories error = %v, want %v", err, tc.want)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.Message != "boom" || apiErr.Status != tc.status {
				t.Fatalf("error = %#v, want APIError with message boom", err)
			}
		})
	}
}

func TestClient_ServerErrorHasNoKind(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.GetStories(context.Background())
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("GetStories error = %v, want status 500 error", err)
	}
	for _, kind := range []error{ErrAuth, ErrValidation, ErrNotFound, ErrNetwork} {
		if errors.Is(err, kind) {
			t.Fatalf("500 error matched %v", kind)
		}
	}
}

func TestClient_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not-json"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.GetStories(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("GetStories error = %v, want decode response error", err)
	}
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c, err := NewClient(url, WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.GetStories(context.Background())
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("GetStories error = %v, want ErrNetwork", err)
	}
}

func TestClient_RequiresIdentifiers(t *testing.T) {
	c, err := NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()
	if _, err := c.GetUser(ctx, " ", "tok"); !errors.Is(err, ErrValidation) {
		t.Fatalf("GetUser error = %v, want ErrValidation", err)
	}
	if err := c.DeleteStory(ctx, "tok", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("DeleteStory error = %v, want ErrValidation", err)
	}
	if _, err := c.AddFavorite(ctx, "alice", "tok", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("AddFavorite error = %v, want ErrValidation", err)
	}
}
