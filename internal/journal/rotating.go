package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultMaxBytes caps the active journal file when no limit is given.
const DefaultMaxBytes int64 = 1 << 20

// maxEntrySize bounds a single JSON line when reading back.
const maxEntrySize = 64 * 1024

// RotatedPath names the previous generation of the journal at path.
func RotatedPath(path string) string { return path + ".1" }

// File appends entries as JSON Lines. Once the next entry would grow the
// active file past its limit, the file becomes the previous generation
// (replacing any older one) and a fresh file is started, so the journal never
// holds more than two generations on disk.
type File struct {
	path     string
	maxBytes int64

	mu   sync.Mutex
	f    *os.File
	size int64
}

// Open creates or reopens the journal at path. maxBytes <= 0 selects
// DefaultMaxBytes.
func Open(path string, maxBytes int64) (*File, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure journal dir: %w", err)
	}
	j := &File{path: path, maxBytes: maxBytes}
	if err := j.openActive(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *File) Path() string { return j.path }

func (j *File) openActive() error {
	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat journal: %w", err)
	}
	j.f = f
	j.size = info.Size()
	return nil
}

// Append writes entry, rotating first when it would not fit. An entry larger
// than the limit is still written, alone, to a fresh file.
func (j *File) Append(entry Entry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	line = append(line, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.f == nil {
		return ErrClosed
	}
	if j.size > 0 && j.size+int64(len(line)) > j.maxBytes {
		if err := j.rotate(); err != nil {
			return err
		}
	}
	n, err := j.f.Write(line)
	j.size += int64(n)
	if err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	return nil
}

func (j *File) rotate() error {
	_ = j.f.Close()
	j.f = nil
	renameErr := os.Rename(j.path, RotatedPath(j.path))
	if err := j.openActive(); err != nil {
		return err
	}
	if renameErr != nil {
		return fmt.Errorf("rotate journal: %w", renameErr)
	}
	return nil
}

// Close releases the active file. Further appends return ErrClosed.
func (j *File) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.f == nil {
		return nil
	}
	err := j.f.Close()
	j.f = nil
	return err
}

// Recent returns the newest n entries of the journal at path, oldest first,
// reading the previous generation before the active one. n <= 0 returns
// everything kept. Missing files count as empty and lines that do not
// decode, such as one still being written, are skipped.
func Recent(path string, n int) ([]Entry, error) {
	var out []Entry
	for _, p := range []string{RotatedPath(path), path} {
		entries, err := readEntries(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
		if n > 0 && len(out) > n {
			out = out[len(out)-n:]
		}
	}
	return out, nil
}

func readEntries(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 4096), maxEntrySize)
	var entries []Entry
	for s.Scan() {
		var e Entry
		if err := json.Unmarshal(s.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read journal %s: %w", path, err)
	}
	return entries, nil
}
