package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"habitfree/internal/logger"
	"habitfree/internal/service"
)

// Processor defines the behavior required by Scheduler.
type Processor interface {
	DeliverDue(ctx context.Context, date string) (service.DeliveryReport, error)
	DeliverToday(ctx context.Context) (service.DeliveryReport, error)
}

// Scheduler runs message delivery once at start and then every day at a
// fixed UTC wall-clock time.
type Scheduler struct {
	processor Processor
	hour      int
	minute    int
	now       func() time.Time
	after     func(time.Duration) <-chan time.Time
	logger    *log.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	// gen identifies the current loop so a stale one cannot reset state.
	gen     uint64
}

// ErrAlreadyRunning is emitted when start is called twice.
var ErrAlreadyRunning = errors.New("scheduler already running")

// ErrNotRunning is emitted when trying to stop an idle scheduler.
var ErrNotRunning = errors.New("scheduler not running")

// Options configures a Scheduler. Hour and Minute are in UTC.
type Options struct {
	Hour   int
	Minute int
	Now    func() time.Time
	// After defaults to time.After.
	After  func(time.Duration) <-chan time.Time
	Logger *log.Logger
}

// New builds a scheduler.
func New(processor Processor, opts Options) *Scheduler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	after := opts.After
	if after == nil {
		after = time.After
	}
	return &Scheduler{
		processor: processor,
		hour:      opts.Hour,
		minute:    opts.Minute,
		now:       now,
		after:     after,
		logger:    logger.Named(opts.Logger, "scheduler"),
	}
}

// Start begins the background loop. The first delivery runs immediately to
// catch up on anything missed while the service was down.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	if ctx == nil {
		ctx = context.Background()
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.gen++

	go s.run(loopCtx, s.gen)
	s.logger.Info("scheduler started", "at", clock(s.hour, s.minute))

	return nil
}

// Stop cancels the loop.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrNotRunning
	}

	s.cancel()
	s.running = false
	s.logger.Info("scheduler stopped")
	return nil
}

// IsRunning reports the scheduler state.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// RunNow delivers the messages of date, or of today when date is empty,
// regardless of whether the loop is running.
func (s *Scheduler) RunNow(ctx context.Context, date string) (service.DeliveryReport, error) {
	if date == "" {
		return s.processor.DeliverToday(ctx)
	}
	return s.processor.DeliverDue(ctx, date)
}

// NextRun returns the first occurrence of the daily delivery time strictly
// after now.
func (s *Scheduler) NextRun(now time.Time) time.Time {
	return nextRun(now, s.hour, s.minute)
}

func nextRun(now time.Time, hour, minute int) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *Scheduler) run(ctx context.Context, gen uint64) {
	defer s.exit(gen)
	s.execute(ctx)

	for {
		now := s.now()
		next := nextRun(now, s.hour, s.minute)
		s.logger.Debug("next delivery", "at", next)

		select {
		case <-ctx.Done():
			return
		case <-s.after(next.Sub(now)):
			s.execute(ctx)
		}
	}
}

// exit marks the scheduler idle when the loop of gen ends on its own, as when
// the context passed to Start is cancelled.
func (s *Scheduler) exit(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen || !s.running {
		return
	}
	s.cancel()
	s.running = false
	s.logger.Info("scheduler stopped", "reason", "context done")
}

func (s *Scheduler) execute(ctx context.Context) {
	report, err := s.processor.DeliverToday(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Error("scheduler iteration failed", "err", err)
		return
	}
	s.logger.Debug("scheduler iteration done", "run", report.RunID, "delivered", report.Delivered)
}

func clock(hour, minute int) string {
	return time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC).Format("15:04")
}
