package sunsights

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sunsightshq/sunsights-cli/sunsights/fileutils"
)

// tokenFileName is the fixed key the bearer token is persisted under,
// the durable-storage equivalent of the browser's localStorage entry.
const tokenFileName = "token"

// TokenStore holds the persisted auth token. The token is read by the HTTP
// client on every request and written only by the auth flow.
type TokenStore interface {
	Token() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore persists the token as a single file under a config
// directory. Writes are atomic so a crashed write never leaves a truncated
// token behind.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore stores the token at path. An empty path uses
// DefaultTokenPath.
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	if path == "" {
		var err error
		path, err = DefaultTokenPath()
		if err != nil {
			return nil, err
		}
	}
	return &FileTokenStore{path: filepath.Clean(path)}, nil
}

// DefaultTokenPath is <user config dir>/sunsights/token.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "sunsights", tokenFileName), nil
}

func (s *FileTokenStore) Token() (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *FileTokenStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("save token: token is empty")
	}
	if err := fileutils.WriteFileAtomicSameDir(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// MemoryTokenStore keeps the token in memory only. Used by tests and by
// callers that manage persistence themselves.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryTokenStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// TokenExpired reports whether token is a JWT whose exp claim has passed.
// The signature is not verified; only the server can do that. A token that
// does not parse as a JWT, or carries no exp claim, is reported as not
// expired and left for the server to judge.
func TokenExpired(token string, now time.Time) bool {
	if strings.TrimSpace(token) == "" {
		return false
	}
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
