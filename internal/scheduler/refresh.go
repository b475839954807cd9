package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// Refresher is anything that can re-read its data from the backend.
type Refresher interface {
	Init(ctx context.Context)
}

// RefreshScheduler periodically reloads the book list and categories so that
// changes made by other clients of the backend show up without user action.
// A tick that fires while the previous refresh is still in flight is skipped.
type RefreshScheduler struct {
	target   Refresher
	schedule string

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// ValidateSchedule checks a standard five-field cron expression or descriptor (e.g. "@every 5m").
func ValidateSchedule(schedule string) error {
	_, err := cron.ParseStandard(schedule)
	return err
}

func NewRefreshScheduler(target Refresher, schedule string) *RefreshScheduler {
	return &RefreshScheduler{
		target:   target,
		schedule: schedule,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Start begins the periodic refresh. An empty schedule leaves it disabled.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.schedule == "" {
		log.Printf("[SCHEDULER] Refresh disabled")
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunNow(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("[SCHEDULER] Refresh started with schedule '%s'", s.schedule)
	return nil
}

// Stop waits for a running refresh to finish.
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	log.Printf("[SCHEDULER] Refresh stopped")
}

func (s *RefreshScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// RunNow refreshes immediately on the caller's goroutine.
func (s *RefreshScheduler) RunNow(ctx context.Context) {
	s.target.Init(ctx)
}
