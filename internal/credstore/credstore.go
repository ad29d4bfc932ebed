// Package credstore persists the session credential between runs.
// The credential is stored in ~/.config/snooze/credentials.toml.
package credstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Credential is the persisted {token, username} pair.
type Credential struct {
	Token    string `toml:"token"`
	Username string `toml:"username"`
}

// Valid reports whether both fields are present.
func (c Credential) Valid() bool {
	return strings.TrimSpace(c.Token) != "" && strings.TrimSpace(c.Username) != ""
}

const defaultPath = "~/.config/snooze/credentials.toml"

// DefaultPath returns the default credentials file path.
func DefaultPath() string {
	return defaultPath
}

// File stores a Credential in a TOML file.
type File struct {
	path string
}

// New returns a File store for path. An empty path uses DefaultPath.
func New(path string) *File {
	return &File{path: path}
}

// Path returns the resolved file path, or the raw path when it cannot be
// resolved.
func (f *File) Path() string {
	resolved, err := resolvePath(f.path)
	if err != nil {
		return f.path
	}
	return resolved
}

// Load reads the stored credential. A missing, unreadable or partial record
// reports ok=false so the caller starts anonymous.
func (f *File) Load() (Credential, bool, error) {
	resolved, err := resolvePath(f.path)
	if err != nil {
		return Credential{}, false, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Credential{}, false, nil
		}
		return Credential{}, false, fmt.Errorf("open credentials: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Credential{}, false, fmt.Errorf("read credentials: %w", err)
	}

	var cred Credential
	if err := toml.Unmarshal(bytes, &cred); err != nil {
		return Credential{}, false, nil
	}
	cred.Token = strings.TrimSpace(cred.Token)
	cred.Username = strings.TrimSpace(cred.Username)
	if !cred.Valid() {
		return Credential{}, false, nil
	}
	return cred, true, nil
}

// Save writes the credential, creating directories as needed.
func (f *File) Save(cred Credential) error {
	if !cred.Valid() {
		return fmt.Errorf("credential requires token and username")
	}
	resolved, err := resolvePath(f.path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}

	bytes, err := toml.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Clear removes the stored credential. Clearing an absent record is not an
// error.
func (f *File) Clear() error {
	resolved, err := resolvePath(f.path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.Remove(resolved); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
