package serialport

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultPollInterval  = 100 * time.Millisecond
	defaultErrorBackoff  = time.Second
	defaultMaxReadErrors = 5
	defaultMaxLineLength = 4096
	readChunk            = 256
	maxBackoffFactor     = 8
)

// Options tune the reader goroutine of a Link.
type Options struct {
	// PollInterval is the shortest time between two reads that returned no data.
	PollInterval time.Duration
	// ErrorBackoff is the first pause after a failed read; later pauses grow
	// exponentially.
	ErrorBackoff time.Duration
	// MaxReadErrors consecutive failed reads end the link.
	MaxReadErrors int
	// MaxLineLength bounds a line; a longer line is dropped up to its terminator.
	MaxLineLength int
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.ErrorBackoff <= 0 {
		o.ErrorBackoff = defaultErrorBackoff
	}
	if o.MaxReadErrors <= 0 {
		o.MaxReadErrors = defaultMaxReadErrors
	}
	if o.MaxLineLength <= 0 {
		o.MaxLineLength = defaultMaxLineLength
	}
	return o
}

// Link delivers the lines read from a Port on a channel, in arrival order,
// and serialises writes to it. A single goroutine owns all reads.
type Link struct {
	name string
	port Port
	opts Options

	lines chan []byte
	stop  chan struct{}
	done  chan struct{}

	closeOnce sync.Once
	closeErr  error

	writeMu sync.Mutex

	errMu sync.Mutex
	err   error
}

// NewLink starts reading port in the background.
func NewLink(name string, port Port, opts Options) *Link {
	l := &Link{
		name:  name,
		port:  port,
		opts:  opts.withDefaults(),
		lines: make(chan []byte, 64),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go l.readLoop()
	return l
}

func (l *Link) Name() string { return l.name }

// Lines yields each received line without its terminator. The channel is
// closed when the link is closed or reading fails for good; Err then tells
// which.
func (l *Link) Lines() <-chan []byte { return l.lines }

// Err returns the error that ended reading, or nil if the link was closed
// deliberately or is still running.
func (l *Link) Err() error {
	l.errMu.Lock()
	defer l.errMu.Unlock()
	return l.err
}

func (l *Link) setErr(err error) {
	l.errMu.Lock()
	defer l.errMu.Unlock()
	l.err = err
}

func (l *Link) stopping() bool {
	select {
	case <-l.stop:
		return true
	default:
		return false
	}
}

// WriteLine sends msg followed by a newline.
func (l *Link) WriteLine(msg string) error {
	if l.stopping() {
		return ErrClosed
	}
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	if _, err := l.port.Write([]byte(msg + "\n")); err != nil {
		return &TransportError{Op: "write", Port: l.name, Err: err}
	}
	return nil
}

// Close stops the reader and releases the port. It is safe to call more than once.
func (l *Link) Close() error {
	l.closeOnce.Do(func() {
		close(l.stop)
		if err := l.port.Close(); err != nil {
			l.closeErr = &TransportError{Op: "close", Port: l.name, Err: err}
		}
		<-l.done
	})
	return l.closeErr
}

func (l *Link) readLoop() {
	defer close(l.done)
	defer close(l.lines)

	buf := make([]byte, readChunk)
	var pending []byte
	// discarding is set once an unterminated line overflows MaxLineLength;
	// everything up to the next newline belongs to that line and is dropped.
	discarding := false
	retry := l.newBackOff()

	for !l.stopping() {
		start := time.Now()
		n, err := l.port.Read(buf)
		if n > 0 {
			retry.Reset()
			pending = append(pending, buf[:n]...)
			for {
				i := bytes.IndexByte(pending, '\n')
				if i < 0 {
					break
				}
				line := bytes.Clone(pending[:i])
				pending = pending[i+1:]
				if discarding || len(line) > l.opts.MaxLineLength {
					discarding = false
					continue
				}
				if !l.deliver(line) {
					return
				}
			}
			if len(pending) > l.opts.MaxLineLength {
				if !discarding {
					log.Printf("serial %s: line exceeds %d bytes, discarding until next terminator", l.name, l.opts.MaxLineLength)
				}
				discarding = true
				pending = nil
			}
		}

		switch {
		case err == nil && n == 0:
			// nothing available; never poll faster than PollInterval
			if wait := l.opts.PollInterval - time.Since(start); wait > 0 && !l.sleep(wait) {
				return
			}
		case err == nil:
		case l.stopping():
			return
		case errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, os.ErrClosed):
			if len(pending) > 0 && !discarding {
				l.deliver(bytes.Clone(pending))
			}
			l.setErr(&TransportError{Op: "read", Port: l.name, Err: err})
			return
		default:
			wait := retry.NextBackOff()
			if wait == backoff.Stop {
				log.Printf("serial %s: read failed, giving up after %d attempts: %v", l.name, l.opts.MaxReadErrors, err)
				l.setErr(&TransportError{Op: "read", Port: l.name, Err: err})
				return
			}
			log.Printf("serial %s: read failed, retrying in %s: %v", l.name, wait.Round(time.Millisecond), err)
			if !l.sleep(wait) {
				return
			}
		}
	}
}

// newBackOff allows MaxReadErrors-1 retries after consecutive failed reads,
// starting at ErrorBackoff and doubling up to maxBackoffFactor times that.
func (l *Link) newBackOff() backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = l.opts.ErrorBackoff
	exp.MaxInterval = l.opts.ErrorBackoff * maxBackoffFactor
	exp.MaxElapsedTime = 0
	exp.Reset()
	return backoff.WithMaxRetries(exp, uint64(l.opts.MaxReadErrors-1))
}

func (l *Link) deliver(line []byte) bool {
	select {
	case l.lines <- line:
		return true
	case <-l.stop:
		return false
	}
}

func (l *Link) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-l.stop:
		return false
	}
}
