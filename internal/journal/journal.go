// Package journal keeps a bounded on-disk history of the lines received
// from the microcontroller and what the bin said in reply.
package journal

import (
	"errors"
	"time"
)

// ErrClosed is returned by Append after Close.
var ErrClosed = errors.New("journal closed")

// Entry records one line received from the microcontroller and how it was
// classified.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Line      string    `json:"line"`
	Command   string    `json:"command"`
	Payload   string    `json:"payload,omitempty"`
	Spoken    string    `json:"spoken,omitempty"`
}

// Recorder persists received commands.
// Implementations must be safe for concurrent use.
type Recorder interface {
	Append(entry Entry) error
}
