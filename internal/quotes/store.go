// Package quotes keeps the rotating list of motivational quotes the dustbin
// speaks, persisted as a JSON record and served at random, per calendar day,
// or round-robin.
package quotes

import (
	"log"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"
)

// unixEpochOrdinal is the day number of 1970-01-01 when 0001-01-01 is day 1.
const unixEpochOrdinal = 719163

type Option func(*Store)

// WithRand replaces the generator used by GetRandom.
func WithRand(r *rand.Rand) Option {
	return func(s *Store) { s.rng = r }
}

// WithDefaults replaces the built-in list used to seed a missing record.
func WithDefaults(defaults []string) Option {
	return func(s *Store) {
		if len(defaults) > 0 {
			s.defaults = slices.Clone(defaults)
		}
	}
}

// Store is the in-memory quote list paired with its durable record.
// It is safe for concurrent use.
type Store struct {
	repo     Repository
	defaults []string

	mu     sync.Mutex
	quotes []string
	cursor int
	rng    *rand.Rand
}

// NewStore loads the record behind repo, seeding it with defaults when absent.
func NewStore(repo Repository, opts ...Option) *Store {
	s := &Store{
		repo:     repo,
		defaults: slices.Clone(DefaultQuotes),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Load()
	return s
}

// Load re-reads the durable record and returns the resulting list. A missing,
// unreadable or empty record is replaced by the defaults, which are written
// back; a record that needed deduplication is written back normalized. A
// failed write is logged and the in-memory list is still used.
func (s *Store) Load() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.repo.Load()
	if err != nil {
		log.Printf("quotes: using defaults, record unavailable: %v", err)
	}
	raw := len(loaded)
	loaded = dedupe(loaded)
	switch {
	case len(loaded) == 0:
		loaded = slices.Clone(s.defaults)
		if err := s.repo.Save(loaded); err != nil {
			log.Printf("quotes: failed to persist defaults: %v", err)
		}
	case len(loaded) != raw:
		log.Printf("quotes: dropped %d duplicate or blank entries", raw-len(loaded))
		if err := s.repo.Save(loaded); err != nil {
			log.Printf("quotes: failed to persist normalized list: %v", err)
		}
	}
	s.quotes = loaded
	if s.cursor >= len(s.quotes) {
		s.cursor = 0
	}
	return slices.Clone(s.quotes)
}

func (s *Store) GetRandom() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.quotes) == 0 {
		return "", ErrEmpty
	}
	return s.quotes[s.rng.IntN(len(s.quotes))], nil
}

// GetDaily returns the quote of the given calendar day. The choice depends
// only on the date and the list contents; it uses its own generator so the
// one behind GetRandom is left untouched.
func (s *Store) GetDaily(date time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.quotes) == 0 {
		return "", ErrEmpty
	}
	day := rand.New(rand.NewPCG(uint64(Ordinal(date)), 0))
	return s.quotes[day.IntN(len(s.quotes))], nil
}

// GetSequential returns the quote under the cursor and advances it, wrapping
// to the first quote after the last.
func (s *Store) GetSequential() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.quotes) == 0 {
		return "", ErrEmpty
	}
	q := s.quotes[s.cursor]
	s.cursor = (s.cursor + 1) % len(s.quotes)
	return q, nil
}

// Add appends text unless an identical quote exists and persists the list.
// If persisting fails the append is undone and the error is returned.
func (s *Store) Add(text string) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, ErrBlankQuote
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.quotes, text) {
		return false, nil
	}
	next := append(slices.Clone(s.quotes), text)
	if err := s.repo.Save(next); err != nil {
		return false, err
	}
	s.quotes = next
	return true, nil
}

// All returns a copy of the current list.
func (s *Store) All() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.quotes)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.quotes)
}

// Ordinal returns the proleptic Gregorian day number of date's calendar day
// in its own location, with 0001-01-01 as day 1.
func Ordinal(date time.Time) int64 {
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return midnight.Unix()/86400 + unixEpochOrdinal
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, q := range in {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}
