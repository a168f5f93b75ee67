package quotes

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"
)

// Repository persists the ordered quote list as a whole.
type Repository interface {
	Load() ([]string, error)
	Save(quotes []string) error
}

type record struct {
	Quotes []string `json:"quotes"`
}

// FileRepository keeps the quote list in a JSON file of the form {"quotes": [...]}.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &StorageError{Op: "ensure dir", Path: path, Err: err}
	}
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) Path() string { return r.path }

func (r *FileRepository) Load() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &StorageError{Op: "read", Path: r.path, Err: ErrNotFound}
		}
		return nil, &StorageError{Op: "read", Path: r.path, Err: err}
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &StorageError{Op: "decode", Path: r.path, Err: err}
	}
	return rec.Quotes, nil
}

// Save replaces the record atomically, so a reader never sees a partly
// written list.
func (r *FileRepository) Save(quotes []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if quotes == nil {
		quotes = []string{}
	}
	data, err := json.MarshalIndent(record{Quotes: quotes}, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", Path: r.path, Err: err}
	}
	if err := renameio.WriteFile(r.path, append(data, '\n'), 0o644); err != nil {
		return &StorageError{Op: "write", Path: r.path, Err: err}
	}
	return nil
}
