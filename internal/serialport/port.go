// Package serialport is the byte-stream link to the dustbin's microcontroller:
// it opens the serial device, splits the incoming stream into newline
// terminated lines and writes newline terminated messages back.
package serialport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"go.bug.st/serial"
)

// ErrClosed is returned when writing to a link that has been closed.
var ErrClosed = errors.New("serialport: link closed")

// Port is the raw byte stream. A serial.Port satisfies it; tests use pipes.
type Port interface {
	io.ReadWriteCloser
}

// TransportError reports a failed open, read or write on the link.
type TransportError struct {
	Op   string
	Port string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("serial %s %s: %v", e.Op, e.Port, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// OpenFunc opens a port. readTimeout bounds how long a single Read may wait
// for data; zero means block until data arrives.
type OpenFunc func(name string, baud int, readTimeout time.Duration) (Port, error)

// Open opens a serial device with 8N1 framing at the given baud rate.
func Open(name string, baud int, readTimeout time.Duration) (Port, error) {
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, &TransportError{Op: "open", Port: name, Err: err}
	}
	if readTimeout > 0 {
		if err := p.SetReadTimeout(readTimeout); err != nil {
			_ = p.Close()
			return nil, &TransportError{Op: "configure", Port: name, Err: err}
		}
	}
	return p, nil
}

// Dialer opens a port and wraps it in a Link.
type Dialer struct {
	Open OpenFunc
	// Settle is how long to wait after opening before reading; most boards
	// reset when the port is opened.
	Settle  time.Duration
	Options Options
}

// Dial opens name and returns a running Link. Bytes received while the board
// was settling are discarded when the port supports it.
func (d Dialer) Dial(ctx context.Context, name string, baud int) (*Link, error) {
	open := d.Open
	if open == nil {
		open = Open
	}
	opts := d.Options.withDefaults()
	port, err := open(name, baud, opts.PollInterval)
	if err != nil {
		var te *TransportError
		if errors.As(err, &te) {
			return nil, err
		}
		return nil, &TransportError{Op: "open", Port: name, Err: err}
	}
	if d.Settle > 0 {
		select {
		case <-time.After(d.Settle):
		case <-ctx.Done():
			_ = port.Close()
			return nil, &TransportError{Op: "open", Port: name, Err: ctx.Err()}
		}
	}
	if r, ok := port.(interface{ ResetInputBuffer() error }); ok {
		if err := r.ResetInputBuffer(); err != nil {
			log.Printf("serial %s: failed to flush input: %v", name, err)
		}
	}
	log.Printf("Serial connection established on %s (%d baud)", name, baud)
	return NewLink(name, port, opts), nil
}
