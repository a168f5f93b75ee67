package serialport

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"
)

// pipePort feeds Read from an io.Pipe and records everything written.
type pipePort struct {
	r *io.PipeReader
	w *io.PipeWriter

	mu      sync.Mutex
	written bytes.Buffer
	closes  int
	reset   int
}

func newPipePort() *pipePort {
	r, w := io.Pipe()
	return &pipePort{r: r, w: w}
}

func (p *pipePort) Read(b []byte) (int, error) { return p.r.Read(b) }

func (p *pipePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written.Write(b)
}

func (p *pipePort) Close() error {
	p.mu.Lock()
	p.closes++
	p.mu.Unlock()
	return p.r.Close()
}

func (p *pipePort) ResetInputBuffer() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset++
	return nil
}

func (p *pipePort) Written() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written.String()
}

func (p *pipePort) Closes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closes
}

// idlePort never has data, like a serial port with a read timeout.
type idlePort struct {
	mu     sync.Mutex
	reads  int
	closed bool
}

func (p *idlePort) Read([]byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reads++
	if p.closed {
		return 0, errors.New("port closed")
	}
	return 0, nil
}

func (p *idlePort) Write(b []byte) (int, error) { return len(b), nil }

func (p *idlePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *idlePort) Reads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reads
}

// flakyPort fails every read.
type flakyPort struct{ idlePort }

func (p *flakyPort) Read([]byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reads++
	time.Sleep(time.Millisecond)
	return 0, errors.New("framing error")
}
