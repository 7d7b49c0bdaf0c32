package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/cocktails/internal/tasks"
)

// DefaultSweepSchedule runs the sweep every six hours.
const DefaultSweepSchedule = "0 */6 * * *"

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// Enqueuer persists tasks on the background queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, tasks ...backlite.Task) ([]string, error)
}

// ThumbnailSweepScheduler periodically queues a thumbnail sweep.
type ThumbnailSweepScheduler struct {
	queue    Enqueuer
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewThumbnailSweepScheduler creates a scheduler; an empty schedule uses DefaultSweepSchedule.
func NewThumbnailSweepScheduler(queue Enqueuer, schedule string) *ThumbnailSweepScheduler {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	return &ThumbnailSweepScheduler{
		queue:    queue,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start registers the job and starts the cron loop. It stops when ctx is cancelled.
func (s *ThumbnailSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.enqueue(context.Background()); err != nil {
			log.Printf("Thumbnail sweep: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sweep job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Thumbnail sweep scheduler: started with schedule '%s'. Next run: %v",
		s.schedule, s.cron.Entry(entryID).Next)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *ThumbnailSweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("Thumbnail sweep scheduler: stopped")
}

// RunNow queues a sweep immediately and returns its task ID.
func (s *ThumbnailSweepScheduler) RunNow(ctx context.Context) (string, error) {
	return s.enqueue(ctx)
}

// IsRunning returns whether the scheduler is active.
func (s *ThumbnailSweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Schedule returns the cron expression in use.
func (s *ThumbnailSweepScheduler) Schedule() string {
	return s.schedule
}

// GetNextRunTime returns when the next sweep will be queued, or nil when stopped.
func (s *ThumbnailSweepScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return nil
	}
	next := entry.Next
	return &next
}

func (s *ThumbnailSweepScheduler) enqueue(ctx context.Context) (string, error) {
	if s.queue == nil {
		return "", fmt.Errorf("task queue not configured")
	}
	ids, err := s.queue.Enqueue(ctx, tasks.SweepThumbnailsTask{})
	if err != nil {
		return "", fmt.Errorf("enqueue sweep: %w", err)
	}
	log.Printf("Thumbnail sweep: queued task %s", ids[0])
	return ids[0], nil
}
