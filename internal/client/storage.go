package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// PersistedSession is the part of State that survives restarts.
type PersistedSession struct {
	User            *User  `json:"current_user"`
	Token           string `json:"auth_token"`
	IsAuthenticated bool   `json:"is_authenticated"`
}

// SessionStorage loads and saves the persisted session.
// Load returns (nil, nil) when nothing has been saved.
type SessionStorage interface {
	Load(ctx context.Context) (*PersistedSession, error)
	Save(ctx context.Context, s *PersistedSession) error
	Clear(ctx context.Context) error
}

var (
	_ SessionStorage = (*MemoryStorage)(nil)
	_ SessionStorage = (*FileStorage)(nil)
	_ SessionStorage = (*RedisStorage)(nil)
)

// MemoryStorage keeps the session in process memory.
type MemoryStorage struct {
	mu      sync.Mutex
	session *PersistedSession
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(context.Context) (*PersistedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	cp := *m.session
	return &cp, nil
}

func (m *MemoryStorage) Save(_ context.Context, s *PersistedSession) error {
	if s == nil {
		return errors.New("session is nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.session = &cp
	return nil
}

func (m *MemoryStorage) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

// FileStorage persists the session as JSON in <dir>/<scope>.json.
type FileStorage struct {
	path string
}

// NewFileStorage returns a FileStorage rooted at dir. The directory is created on first save.
func NewFileStorage(dir, scope string) *FileStorage {
	return &FileStorage{path: filepath.Join(dir, scope+".json")}
}

// DefaultFileStorage stores under the user's config directory.
func DefaultFileStorage(scope string) (*FileStorage, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewFileStorage(filepath.Join(dir, "todo_backend"), scope), nil
}

// Path is the session file location.
func (f *FileStorage) Path() string {
	return f.path
}

func (f *FileStorage) Load(context.Context) (*PersistedSession, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s PersistedSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("corrupt session file %s: %w", f.path, err)
	}
	return &s, nil
}

// Save writes to a temporary file and renames it into place.
func (f *FileStorage) Save(_ context.Context, s *PersistedSession) error {
	if s == nil {
		return errors.New("session is nil")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *FileStorage) Clear(context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
