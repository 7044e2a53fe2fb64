package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
)

// ErrNotConnected is returned by memory sessions used before Connect
var ErrNotConnected = errors.New("session not connected")

// MemoryStore is an in-process remote store keeping files per directory.
// It backs end-to-end tests of the transfer flow.
type MemoryStore struct {
	mu    sync.Mutex
	files map[string]map[string]memoryFile
	now   func() time.Time
	// Sessions counts the sessions handed out
	Sessions int
	// Closed counts the sessions closed
	Closed int
}

type memoryFile struct {
	content    []byte
	modifiedAt time.Time
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string]map[string]memoryFile), now: time.Now}
}

// Put seeds a file
func (s *MemoryStore) Put(dir string, name string, content []byte, modifiedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dir = path.Clean(dir)
	if s.files[dir] == nil {
		s.files[dir] = make(map[string]memoryFile)
	}
	s.files[dir][name] = memoryFile{content: content, modifiedAt: modifiedAt}
}

// Files returns the sorted file names of a directory
func (s *MemoryStore) Files(dir string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.files[path.Clean(dir)]))
	for name := range s.files[path.Clean(dir)] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Content returns a stored file
func (s *MemoryStore) Content(dir string, name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, ok := s.files[path.Clean(dir)][name]
	return file.content, ok
}

// NewSession implements port.RemoteStore
func (s *MemoryStore) NewSession() port.RemoteSession {
	s.mu.Lock()
	s.Sessions++
	s.mu.Unlock()
	return &memorySession{store: s}
}

type memorySession struct {
	store     *MemoryStore
	connected bool
	dir       string
}

func (m *memorySession) Connect(_ context.Context, creds domain.Credentials) error {
	if creds.Host == "" {
		return fmt.Errorf("no host")
	}
	m.connected = true
	return nil
}

func (m *memorySession) EnsureDir(_ context.Context, dir string) error {
	if !m.connected {
		return ErrNotConnected
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	dir = path.Clean("/" + strings.TrimPrefix(dir, "/"))
	if m.store.files[dir] == nil {
		m.store.files[dir] = make(map[string]memoryFile)
	}
	m.dir = dir
	return nil
}

func (m *memorySession) List(_ context.Context) ([]domain.RemoteArtifact, error) {
	if !m.connected {
		return nil, ErrNotConnected
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	artifacts := make([]domain.RemoteArtifact, 0, len(m.store.files[m.dir]))
	for name, file := range m.store.files[m.dir] {
		modifiedAt := file.modifiedAt
		artifacts = append(artifacts, domain.RemoteArtifact{Name: name, Size: int64(len(file.content)), ModifiedAt: &modifiedAt})
	}
	return artifacts, nil
}

func (m *memorySession) Delete(_ context.Context, name string) error {
	if !m.connected {
		return ErrNotConnected
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if _, ok := m.store.files[m.dir][name]; !ok {
		return fmt.Errorf("%s: no such file", name)
	}
	delete(m.store.files[m.dir], name)
	return nil
}

func (m *memorySession) Upload(_ context.Context, name string, content io.Reader, _ int64) error {
	if !m.connected {
		return ErrNotConnected
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.files[m.dir][name] = memoryFile{content: data, modifiedAt: m.store.now()}
	return nil
}

func (m *memorySession) Close() error {
	m.store.mu.Lock()
	m.store.Closed++
	m.store.mu.Unlock()
	m.connected = false
	return nil
}
