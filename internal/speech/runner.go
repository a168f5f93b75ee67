package speech

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"smart-dustbin/internal/safe"
)

// Runner hands utterances to an Engine. SpeakAsync never waits for audio:
// each utterance runs in its own goroutine, optionally capped by a limit on
// concurrent utterances. Utterances already started are never cancelled.
type Runner struct {
	engine Engine
	sem    *semaphore.Weighted

	wg       sync.WaitGroup
	inFlight atomic.Int64
	dropped  atomic.Int64
}

// NewRunner wraps engine. maxConcurrent <= 0 leaves the number of
// simultaneous utterances unbounded; otherwise requests arriving while the
// limit is reached are dropped and logged.
func NewRunner(engine Engine, maxConcurrent int) *Runner {
	r := &Runner{engine: engine}
	if maxConcurrent > 0 {
		r.sem = semaphore.NewWeighted(int64(maxConcurrent))
	}
	return r
}

// Speak blocks until the engine has finished. Not for use inside a loop that
// must keep consuming input.
func (r *Runner) Speak(ctx context.Context, text string) error {
	log.Printf("Speaking: %q", text)
	start := time.Now()
	err := safe.Run("speech", func() error {
		return r.engine.Speak(ctx, text)
	})
	if err != nil {
		return err
	}
	log.Printf("Spoke %q in %s", text, time.Since(start).Round(time.Millisecond))
	return nil
}

// SpeakAsync starts speaking text in the background and returns at once.
// It reports false when the request was dropped because the concurrency
// limit was reached.
func (r *Runner) SpeakAsync(text string) bool {
	if r.sem != nil && !r.sem.TryAcquire(1) {
		r.dropped.Add(1)
		log.Printf("speech busy (%d in flight), dropping %q", r.inFlight.Load(), text)
		return false
	}
	r.wg.Add(1)
	r.inFlight.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.inFlight.Add(-1)
		if r.sem != nil {
			defer r.sem.Release(1)
		}
		if err := r.Speak(context.Background(), text); err != nil {
			log.Printf("speech failed: %v", err)
		}
	}()
	return true
}

// InFlight returns the number of utterances currently being spoken.
func (r *Runner) InFlight() int { return int(r.inFlight.Load()) }

// Dropped returns how many requests were refused by the concurrency limit.
func (r *Runner) Dropped() int { return int(r.dropped.Load()) }

// Wait blocks until every started utterance has finished or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
