package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/tjfontaine/polyglot-media-gateway/internal/storage"
)

// Store is an in-memory implementation of MediaStore
type Store struct {
	mu    sync.RWMutex
	files map[string][]byte
	now   storage.Clock
}

// New creates a new in-memory store
func New() *Store {
	return &Store{
		files: make(map[string][]byte),
		now:   time.Now,
	}
}

// NewWithClock creates an in-memory store using now for generated names.
func NewWithClock(now storage.Clock) *Store {
	s := New()
	s.now = now
	return s
}

func (s *Store) Save(ctx context.Context, dir, kind, ext string, data []byte) (string, error) {
	if dir == "" {
		dir = storage.DefaultDir
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	millis := s.now().UnixMilli()
	for {
		p := path.Join(dir, storage.FileName(kind, millis, ext))
		if _, exists := s.files[p]; !exists {
			s.files[p] = bytes.Clone(data)
			return p, nil
		}
		millis++
	}
}

func (s *Store) Write(ctx context.Context, p string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files[p] = bytes.Clone(data)
	return nil
}

func (s *Store) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.files[p]
	if !exists {
		return nil, fmt.Errorf("media %s not found", p)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Paths returns every stored path in sorted order.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
