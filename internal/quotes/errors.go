package quotes

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when selecting from a store that holds no quotes.
	ErrEmpty = errors.New("quotes: empty collection")
	// ErrNotFound reports that the durable record does not exist yet.
	ErrNotFound = errors.New("quotes: record not found")
	// ErrBlankQuote rejects quotes that contain only whitespace.
	ErrBlankQuote = errors.New("quotes: blank quote")
)

// StorageError wraps a failure to read or write the durable record.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("quotes storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("quotes storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
