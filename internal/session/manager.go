package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/five82/snooze/internal/credstore"
	"github.com/five82/snooze/internal/storyapi"
)

// API is the subset of the story service the manager needs.
type API interface {
	Login(ctx context.Context, username, password string) (storyapi.AuthResponse, error)
	Signup(ctx context.Context, username, password, name string) (storyapi.AuthResponse, error)
	GetUser(ctx context.Context, username, token string) (storyapi.User, error)
}

// CredentialStore persists the credential between runs.
type CredentialStore interface {
	Load() (credstore.Credential, bool, error)
	Save(cred credstore.Credential) error
	Clear() error
}

// Manager turns credentials into sessions.
type Manager struct {
	api    API
	store  CredentialStore
	logger *slog.Logger
}

// NewManager builds a Manager. A nil logger discards output.
func NewManager(api API, store CredentialStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{api: api, store: store, logger: logger.With("component", "session")}
}

// Start resumes the stored credential, if any. With nothing stored it returns
// a nil (anonymous) session and no error. When the service rejects the stored
// token the credential is cleared and the storyapi.ErrAuth error is returned
// alongside the anonymous session.
func (m *Manager) Start(ctx context.Context) (*Session, error) {
	cred, ok, err := m.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	if !ok {
		return nil, nil
	}
	sess, err := m.Resume(ctx, cred)
	if err != nil {
		if errors.Is(err, storyapi.ErrAuth) {
			if clearErr := m.store.Clear(); clearErr != nil {
				m.logger.Warn("clear rejected credential failed", "error", clearErr)
			}
		}
		return nil, err
	}
	return sess, nil
}

// Resume validates a stored credential against the service and returns the
// fully populated session.
func (m *Manager) Resume(ctx context.Context, cred credstore.Credential) (*Session, error) {
	if !cred.Valid() {
		return nil, fmt.Errorf("resume: incomplete credential: %w", storyapi.ErrAuth)
	}
	user, err := m.api.GetUser(ctx, cred.Username, cred.Token)
	if err != nil {
		m.logger.Info("resume failed", "username", cred.Username, "error", err)
		return nil, fmt.Errorf("resume: %w", err)
	}
	m.logger.Info("session resumed", "username", user.Username)
	return &Session{Credential: cred, User: UserFromAPI(user)}, nil
}

// Login exchanges a username and password for a session and persists the
// resulting credential.
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("login: username and password required: %w", storyapi.ErrValidation)
	}
	resp, err := m.api.Login(ctx, username, password)
	if err != nil {
		m.logger.Info("login failed", "username", username, "error", err)
		return nil, fmt.Errorf("login: %w", err)
	}
	return m.establish(resp), nil
}

// CreateAccount registers a new account and logs it in. A taken username
// yields storyapi.ErrConflict.
func (m *Manager) CreateAccount(ctx context.Context, username, password, name string) (*Session, error) {
	username = strings.TrimSpace(username)
	name = strings.TrimSpace(name)
	if username == "" || password == "" || name == "" {
		return nil, fmt.Errorf("create account: name, username and password required: %w", storyapi.ErrValidation)
	}
	resp, err := m.api.Signup(ctx, username, password, name)
	if err != nil {
		m.logger.Info("signup failed", "username", username, "error", err)
		return nil, fmt.Errorf("create account: %w", err)
	}
	return m.establish(resp), nil
}

func (m *Manager) establish(resp storyapi.AuthResponse) *Session {
	cred := credstore.Credential{Token: resp.Token, Username: resp.User.Username}
	if err := m.store.Save(cred); err != nil {
		// The session is usable for this run even if it will not survive a restart.
		m.logger.Warn("persist credential failed", "username", cred.Username, "error", err)
	}
	m.logger.Info("session started", "username", cred.Username)
	return &Session{Credential: cred, User: UserFromAPI(resp.User)}
}

// Logout clears the persisted credential. There is no server-side call; the
// caller drops its Session and continues anonymously.
func (m *Manager) Logout() error {
	if err := m.store.Clear(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	m.logger.Info("session cleared")
	return nil
}

// Refresh refetches the user's favorites and stories and returns a new
// Session with the same credential. The stored credential is not touched.
func (m *Manager) Refresh(ctx context.Context, s *Session) (*Session, error) {
	if s == nil {
		return nil, nil
	}
	user, err := m.api.GetUser(ctx, s.Credential.Username, s.Credential.Token)
	if err != nil {
		return s, fmt.Errorf("refresh: %w", err)
	}
	return &Session{Credential: s.Credential, User: UserFromAPI(user)}, nil
}
