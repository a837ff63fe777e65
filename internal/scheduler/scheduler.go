package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/floodwatch-br/floodwatch/internal/chat"
)

// Scheduler runs the recurring chat resolution tick. Question handlers
// return immediately after enqueueing a placeholder; this tick is the only
// thing that turns placeholders into answers, so the serving path never
// blocks on the resolution delay.
type Scheduler struct {
	scheduler *gocron.Scheduler
	manager   *chat.Manager
	interval  time.Duration
}

// New creates a new Scheduler over the chat manager.
func New(manager *chat.Manager, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		manager:   manager,
		interval:  interval,
	}
}

// Start schedules the resolution tick and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	seconds := int(s.interval.Seconds())
	if seconds <= 0 {
		seconds = 2
	}

	_, err := s.scheduler.Every(seconds).Seconds().Do(func() {
		if n := s.manager.ResolveDue(time.Now()); n > 0 {
			log.Printf("scheduler: resolved %d pending chat answer(s)", n)
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future ticks.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
