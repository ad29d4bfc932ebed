package devserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/five82/snooze/internal/storyapi"
)

// Config controls a Server.
type Config struct {
	// Secret signs tokens. Required.
	Secret []byte
	// TokenTTL bounds token lifetime. Zero issues tokens that never expire.
	TokenTTL time.Duration
	// RatePerSecond limits requests per client address. Zero disables it.
	RatePerSecond float64
	Burst         int
	// BcryptCost overrides the password hashing cost. Zero uses the default.
	BcryptCost int
	Logger     *slog.Logger
}

// Server serves the story API from a Store.
type Server struct {
	store    *Store
	tokens   tokens
	validate *validator.Validate
	logger   *slog.Logger
	handler  http.Handler
}

type signupInput struct {
	Username string `json:"username" validate:"required,alphanum,max=50"`
	Password string `json:"password" validate:"required,max=72"`
	Name     string `json:"name" validate:"required,max=100"`
}

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type storyInput struct {
	Author string `json:"author" validate:"required,max=200"`
	Title  string `json:"title" validate:"required,max=300"`
	URL    string `json:"url" validate:"required,http_url"`
}

// New builds a Server with an empty store.
func New(cfg Config) (*Server, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("devserver: secret required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	store := NewStore()
	if cfg.BcryptCost > 0 {
		store.cost = cfg.BcryptCost
	}
	s := &Server{
		store:    store,
		tokens:   tokens{secret: cfg.Secret, ttl: cfg.TokenTTL},
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With("component", "devserver"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	if cfg.RatePerSecond > 0 {
		r.Use(newLimiter(cfg.RatePerSecond, cfg.Burst).middleware)
	}

	r.Post("/signup", s.handleSignup)
	r.Post("/login", s.handleLogin)
	r.Route("/users/{username}", func(r chi.Router) {
		r.Get("/", s.handleGetUser)
		r.Post("/favorites/{storyID}", s.handleFavorite(true))
		r.Delete("/favorites/{storyID}", s.handleFavorite(false))
	})
	r.Route("/stories", func(r chi.Router) {
		r.Get("/", s.handleListStories)
		r.Post("/", s.handleCreateStory)
		r.Get("/{storyID}", s.handleGetStory)
		r.Delete("/{storyID}", s.handleDeleteStory)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "no such route")
	})
	s.handler = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		User signupInput `json:"user"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	in := body.User
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	if !s.check(w, in) {
		return
	}
	user, err := s.store.signup(in.Username, in.Password, in.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.respondAuth(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		User loginInput `json:"user"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if !s.check(w, body.User) {
		return
	}
	user, err := s.store.login(strings.TrimSpace(body.User.Username), body.User.Password)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.respondAuth(w, http.StatusOK, user)
}

func (s *Server) respondAuth(w http.ResponseWriter, status int, user storyapi.User) {
	token, err := s.tokens.issue(user.Username, time.Now())
	if err != nil {
		s.logger.Error("issue token failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, status, storyapi.AuthResponse{Token: token, User: user})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	username, ok := s.authorizeUser(w, r, r.URL.Query().Get("token"))
	if !ok {
		return
	}
	user, err := s.store.user(username)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, storyapi.UserResponse{User: user})
}

func (s *Server) handleFavorite(favorite bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Token string `json:"token"`
		}
		if !s.decode(w, r, &body) {
			return
		}
		username, ok := s.authorizeUser(w, r, tokenFrom(r, body.Token))
		if !ok {
			return
		}
		user, err := s.store.setFavorite(username, chi.URLParam(r, "storyID"), favorite)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		message := "Favorite Added Successfully!"
		if !favorite {
			message = "Favorite Removed Successfully!"
		}
		writeJSON(w, http.StatusOK, storyapi.UserResponse{Message: message, User: user})
	}
}

func (s *Server) handleListStories(w http.ResponseWriter, r *http.Request) {
	skip, err := intParam(r, "skip")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, storyapi.StoryListResponse{Stories: s.store.list(skip, limit)})
}

func (s *Server) handleGetStory(w http.ResponseWriter, r *http.Request) {
	story, err := s.store.story(chi.URLParam(r, "storyID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, storyapi.StoryResponse{Story: story})
}

func (s *Server) handleCreateStory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string     `json:"token"`
		Story storyInput `json:"story"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	username, err := s.tokens.username(tokenFrom(r, body.Token))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	in := storyInput{
		Author: strings.TrimSpace(body.Story.Author),
		Title:  strings.TrimSpace(body.Story.Title),
		URL:    strings.TrimSpace(body.Story.URL),
	}
	if !s.check(w, in) {
		return
	}
	story, err := s.store.create(username, storyapi.NewStory(in))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, storyapi.StoryResponse{Story: story})
}

func (s *Server) handleDeleteStory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	username, err := s.tokens.username(tokenFrom(r, body.Token))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	story, err := s.store.remove(username, chi.URLParam(r, "storyID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, storyapi.StoryResponse{Message: "Deleted Successfully!", Story: story})
}

// authorizeUser checks that token belongs to the {username} in the path.
func (s *Server) authorizeUser(w http.ResponseWriter, r *http.Request, token string) (string, bool) {
	username, err := s.tokens.username(token)
	if err != nil {
		writeStoreError(w, err)
		return "", false
	}
	if username != chi.URLParam(r, "username") {
		writeError(w, http.StatusUnauthorized, "token does not match user")
		return "", false
	}
	return username, true
}

// decode reads an optional JSON body. An empty body leaves dest untouched.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dest)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, "malformed JSON body")
	return false
}

func (s *Server) check(w http.ResponseWriter, v any) bool {
	err := s.validate.Struct(v)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		writeError(w, http.StatusBadRequest, strings.ToLower(fe.Field())+" failed "+fe.Tag()+" check")
		return false
	}
	writeError(w, http.StatusBadRequest, err.Error())
	return false
}

func tokenFrom(r *http.Request, bodyToken string) string {
	if bodyToken != "" {
		return bodyToken
	}
	return r.URL.Query().Get("token")
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New(name + " must be a non-negative integer")
	}
	return n, nil
}
