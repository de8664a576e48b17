package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"sweetconsole/internal/shared/config"
)

// Keys used by the auth session store.
const (
	KeyAuthToken = "authToken"
	KeyUser      = "user"
)

type (
	// Store is a durable key-value store backed by one file per key under
	// the configured data directory. Reads always go back to disk, so a
	// second process sharing the directory observes writes immediately.
	Store struct {
		dir    string
		mu     sync.Mutex
		logger zerolog.Logger
	}
)

func NewStore(cfg *config.Config, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, err
	}
	return &Store{
		dir:    cfg.DataDir,
		logger: logger.With().Str("component", "storage").Logger(),
	}, nil
}

// Get returns the stored value for key and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn().Err(err).Str("key", key).Msg("Failed to read key")
		}
		return "", false
	}
	return string(b), true
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return os.WriteFile(s.path(key), []byte(value), 0o600)
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Token returns the persisted API bearer token, if any.
func (s *Store) Token() (string, bool) {
	return s.Get(KeyAuthToken)
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key)
}
