package out

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	profileout "prapp/internal/modules/profile/port/out"
)

// FileLocalStorage keeps one file per key under dir. Writes go through a
// temp file and a rename so a reader never sees a half-written value.
type FileLocalStorage struct {
	dir string
	mu  sync.Mutex
}

func NewFileLocalStorage(dir string) profileout.LocalStorage {
	return &FileLocalStorage{dir: dir}
}

func (s *FileLocalStorage) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}

func (s *FileLocalStorage) GetItem(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read item %s: %w", key, err)
	}
	return raw, true, nil
}

func (s *FileLocalStorage) SetItem(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, ".item-*")
	if err != nil {
		return fmt.Errorf("create temp item: %w", err)
	}
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write item %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close item %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("commit item %s: %w", key, err)
	}
	return nil
}
