package dispatcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"smart-dustbin/internal/journal"
)

type recordingSpeaker struct {
	mu      sync.Mutex
	async   []string
	blocked []string
	spoken  chan string
}

func newRecordingSpeaker() *recordingSpeaker {
	return &recordingSpeaker{spoken: make(chan string, 64)}
}

func (r *recordingSpeaker) Speak(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blocked = append(r.blocked, text)
	return nil
}

func (r *recordingSpeaker) SpeakAsync(text string) bool {
	r.mu.Lock()
	r.async = append(r.async, text)
	r.mu.Unlock()
	r.spoken <- text
	return true
}

func (r *recordingSpeaker) Async() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.async...)
}

type fakeQuotes struct {
	items  []string
	cursor int
	days   []time.Time
	panic  bool
	err    error
}

func (f *fakeQuotes) GetSequential() (string, error) {
	if f.panic {
		panic("cursor corrupted")
	}
	if f.err != nil {
		return "", f.err
	}
	q := f.items[f.cursor]
	f.cursor = (f.cursor + 1) % len(f.items)
	return q, nil
}

func (f *fakeQuotes) GetDaily(date time.Time) (string, error) {
	f.days = append(f.days, date)
	return "daily:" + date.Format(time.DateOnly), nil
}

func (f *fakeQuotes) GetRandom() (string, error) { return "random", nil }

type fakeLink struct {
	lines   chan []byte
	err     error
	mu      sync.Mutex
	written []string
	closes  int
	failW   bool
}

func newFakeLink() *fakeLink { return &fakeLink{lines: make(chan []byte, 64)} }

func (f *fakeLink) Lines() <-chan []byte { return f.lines }
func (f *fakeLink) Err() error           { return f.err }

func (f *fakeLink) WriteLine(msg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failW {
		return errors.New("write failed")
	}
	f.written = append(f.written, msg)
	return nil
}

func (f *fakeLink) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return nil
}

func (f *fakeLink) Written() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.written...)
}

func (f *fakeLink) Closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

type memJournal struct {
	mu      sync.Mutex
	entries []journal.Entry
}

func (m *memJournal) Append(e journal.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memJournal) Entries() []journal.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]journal.Entry{}, m.entries...)
}
