package scheduler

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"smart-dustbin/internal/safe"
)

// Scheduler runs the daily quote announcement on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	announce func(ctx context.Context) error
	entry    cron.EntryID
}

// New creates a scheduler that interprets cron specs in loc (UTC when nil).
func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetAnnounceFunction sets the job run on every tick.
func (s *Scheduler) SetAnnounceFunction(f func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.announce = f
}

// Start registers the job under spec (standard five-field cron syntax) and
// starts the scheduler. An empty spec leaves the scheduler idle.
func (s *Scheduler) Start(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if spec == "" {
		log.Println("Daily quote schedule not set, announcements disabled")
		return nil
	}
	if s.announce == nil {
		return errors.New("scheduler: announce function not set")
	}

	id, err := s.cron.AddFunc(spec, s.run)
	if err != nil {
		return err
	}
	s.entry = id

	s.cron.Start()
	log.Printf("Scheduler started - daily quote announced at %q", spec)
	return nil
}

func (s *Scheduler) run() {
	s.mu.Lock()
	f := s.announce
	s.mu.Unlock()

	log.Println("Triggered daily quote announcement")
	if err := safe.Run("daily quote", func() error { return f(s.ctx) }); err != nil {
		log.Printf("Daily quote announcement failed: %v", err)
	}
}

// Next returns the time of the next announcement, or the zero time when none
// is scheduled.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entry == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entry).Next
}

// Stop waits for a running announcement to finish and stops the scheduler.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("Scheduler stopped")
}

// IsRunning reports whether an announcement is scheduled.
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
