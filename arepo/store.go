package arepo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var (
	ErrStore = errors.New("could not store repository data")
	ErrLoad  = errors.New("could not load repository data")
)

// Store persists the data of a MemoryRepository as a whole.
type Store interface {
	Store(fileName string, data any) error
	Load(fileName string, data any) error
}

var NoopStore Store = noopStore{} //nolint:gochecknoglobals // pattern from std lib slog.DiscardHandler

type noopStore struct{}

func (noopStore) Store(string, any) error { return nil }
func (noopStore) Load(string, any) error  { return nil }

var _ Store = (*JSONStore)(nil)

// JSONStore writes one indented JSON file per repository into a directory.
// It is not schema aware: renaming struct fields loses the data stored under the old name.
// Use it for local development only.
type JSONStore struct {
	dir string
	mu  sync.Mutex
}

// NewJSONStore creates dir, if it does not exist yet.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:mnd // rwx for the user, rx for the group
		return nil, fmt.Errorf("%w: could not create directory %s: %v", ErrStore, dir, err)
	}

	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) Store(fileName string, data any) error {
	if fileName == "" {
		return fmt.Errorf("%w: missing file name", ErrStore)
	}

	if data == nil {
		return nil
	}

	b, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// write to a temporary file first, so a crash does not leave a truncated file behind
	tmp := filepath.Join(s.dir, "."+fileName+".tmp")
	if err := os.WriteFile(tmp, b, 0o600); err != nil { //nolint:mnd // rw for the user only
		return fmt.Errorf("%w: %v", ErrStore, err)
	}

	if err := os.Rename(tmp, filepath.Join(s.dir, fileName)); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}

	return nil
}

func (s *JSONStore) Load(fileName string, data any) error {
	if fileName == "" {
		return fmt.Errorf("%w: missing file name", ErrLoad)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(filepath.Join(s.dir, fileName))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(data); err != nil {
		return fmt.Errorf("%w: %v", ErrLoad, err)
	}

	return nil
}
