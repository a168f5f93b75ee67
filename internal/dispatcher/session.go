// Package dispatcher reads commands sent by the dustbin's microcontroller and
// turns them into speech without ever waiting for the audio to finish.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"smart-dustbin/internal/journal"
	"smart-dustbin/internal/safe"
)

// Speaker is the speech sink.
type Speaker interface {
	Speak(ctx context.Context, text string) error
	SpeakAsync(text string) bool
}

// QuoteSource supplies text for commands that carry no literal payload.
type QuoteSource interface {
	GetSequential() (string, error)
	GetDaily(date time.Time) (string, error)
	GetRandom() (string, error)
}

// LineLink is the open connection to the microcontroller.
type LineLink interface {
	Lines() <-chan []byte
	Err() error
	WriteLine(msg string) error
	Close() error
}

type State int32

const (
	StateIdle State = iota
	StateListening
	StateProcessing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateProcessing:
		return "processing"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

type Option func(*Session)

// WithJournal records every received line.
func WithJournal(rec journal.Recorder) Option {
	return func(s *Session) { s.journal = rec }
}

// WithClock replaces time.Now for daily quote selection and journal stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session owns the link and the speech sink for the lifetime of the process.
type Session struct {
	link    LineLink
	speaker Speaker
	quotes  QuoteSource
	journal journal.Recorder
	now     func() time.Time

	state   atomic.Int32
	running atomic.Bool

	stop      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// New creates a session. link is nil when no device could be opened; the
// session then runs with device commands disabled and writes become no-ops.
func New(link LineLink, speaker Speaker, quotes QuoteSource, opts ...Option) *Session {
	s := &Session{
		link:    link,
		speaker: speaker,
		quotes:  quotes,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.running.Store(true)
	return s
}

func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) Running() bool { return s.running.Load() }

// Run consumes lines until ctx is done, Close is called or the link fails.
// Lines are handled one at a time in arrival order. The session is closed
// when Run returns; the returned error is the link failure, if any.
func (s *Session) Run(ctx context.Context) error {
	defer s.Close()

	if s.link == nil {
		log.Printf("Serial connection not available, device commands disabled")
		select {
		case <-ctx.Done():
		case <-s.stop:
		}
		return nil
	}
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateListening)) {
		return nil
	}

	log.Printf("Listening for microcontroller commands...")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stop:
			return nil
		case raw, ok := <-s.link.Lines():
			if !ok {
				if err := s.link.Err(); err != nil {
					log.Printf("serial link lost: %v", err)
					return err
				}
				return nil
			}
			if !s.running.Load() {
				return nil
			}
			s.state.CompareAndSwap(int32(StateListening), int32(StateProcessing))
			s.HandleLine(raw)
			s.state.CompareAndSwap(int32(StateProcessing), int32(StateListening))
		}
	}
}

// HandleLine classifies one raw line and triggers speech for it. A failure
// or panic while handling is logged and never escapes.
func (s *Session) HandleLine(raw []byte) {
	line := strings.TrimSpace(strings.ToValidUTF8(string(raw), "\uFFFD"))
	if line == "" {
		return
	}
	if err := safe.Run("dispatch", func() error { return s.dispatch(line) }); err != nil {
		log.Printf("failed to handle %q: %v", line, err)
	}
}

func (s *Session) dispatch(line string) error {
	cmd := Parse(line)
	log.Printf("Received from microcontroller: %q (%s)", line, cmd.Kind)

	text, err := s.resolve(cmd)
	entry := journal.Entry{
		Timestamp: s.now(),
		Line:      line,
		Command:   cmd.Kind.String(),
		Payload:   cmd.Payload,
		Spoken:    text,
	}
	if s.journal != nil {
		if jerr := s.journal.Append(entry); jerr != nil {
			log.Printf("failed to record command: %v", jerr)
		}
	}
	if err != nil {
		return err
	}
	if text == "" {
		if cmd.Kind == KindUnknown {
			log.Printf("Ignoring unrecognized command: %q", line)
		}
		return nil
	}
	s.speaker.SpeakAsync(text)
	return nil
}

// resolve returns the text to speak for cmd, or "" for none.
func (s *Session) resolve(cmd Command) (string, error) {
	switch cmd.Kind {
	case KindQuote, KindSpeak:
		if cmd.Payload != "" {
			return cmd.Payload, nil
		}
		return s.quote(KindNextQuote)
	case KindWelcome:
		return WelcomeMessage, nil
	case KindThankYou:
		return ThankYouMessage, nil
	case KindSanitize:
		return SanitizeMessage, nil
	case KindNextQuote, KindDailyQuote, KindRandomQuote:
		return s.quote(cmd.Kind)
	default:
		return "", nil
	}
}

func (s *Session) quote(kind Kind) (string, error) {
	if s.quotes == nil {
		return "", errors.New("no quote source configured")
	}
	var (
		q   string
		err error
	)
	switch kind {
	case KindDailyQuote:
		q, err = s.quotes.GetDaily(s.now())
	case KindRandomQuote:
		q, err = s.quotes.GetRandom()
	default:
		q, err = s.quotes.GetSequential()
	}
	if err != nil {
		return "", fmt.Errorf("select %s: %w", kind, err)
	}
	return q, nil
}

// Speak blocks until text has been spoken. It must not be called from the
// loop in Run.
func (s *Session) Speak(ctx context.Context, text string) error {
	return s.speaker.Speak(ctx, text)
}

// SpeakAsync starts speaking text and returns immediately.
func (s *Session) SpeakAsync(text string) bool {
	return s.speaker.SpeakAsync(text)
}

// SendToTransport writes message and a newline to the microcontroller. It is
// a no-op when no link was established or the session is closed.
func (s *Session) SendToTransport(message string) error {
	if s.link == nil || !s.running.Load() {
		return nil
	}
	if err := s.link.WriteLine(message); err != nil {
		return err
	}
	log.Printf("Sent to microcontroller: %q", message)
	return nil
}

// AnnounceDaily speaks today's quote and forwards it to the microcontroller
// as a QUOTE: line.
func (s *Session) AnnounceDaily(_ context.Context) error {
	q, err := s.quote(KindDailyQuote)
	if err != nil {
		return err
	}
	if err := s.SendToTransport(quotePrefix + q); err != nil {
		log.Printf("failed to forward daily quote: %v", err)
	}
	s.speaker.SpeakAsync(q)
	return nil
}

// Close stops intake and releases the link. Speech already started keeps
// playing. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.running.Store(false)
		s.state.Store(int32(StateClosed))
		close(s.stop)
		if s.link != nil {
			s.closeErr = s.link.Close()
		}
		log.Printf("Speech dispatcher closed")
	})
	return s.closeErr
}
