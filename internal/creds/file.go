package creds

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileStore keeps the token pair in a YAML file with 0600 permissions,
// by default under the user config directory.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// DefaultPath returns the standard credentials file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "planhub", "credentials.yaml"), nil
}

// NewFileStore creates a store backed by the given path. The file is
// created lazily on first Save.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("credentials path is required")
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Load() (Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) Save(p Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(p)
}

func (s *FileStore) SetAccess(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.read()
	if err != nil {
		return err
	}
	p.Access = token
	return s.write(p)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (s *FileStore) read() (Pair, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Pair{}, nil
	}
	if err != nil {
		return Pair{}, fmt.Errorf("read credentials: %w", err)
	}
	var p Pair
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Pair{}, fmt.Errorf("decode credentials: %w", err)
	}
	return p, nil
}

// write replaces the file via rename so a concurrent reader never sees
// a partial pair.
func (s *FileStore) write(p Pair) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("create temp credentials: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close credentials: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace credentials: %w", err)
	}
	return nil
}
