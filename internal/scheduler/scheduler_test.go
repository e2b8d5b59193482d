package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"habitfree/internal/service"
)

type fakeProcessor struct {
	mu    sync.Mutex
	dates []string
	calls chan struct{}
	err   error
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{calls: make(chan struct{}, 10)}
}

func (p *fakeProcessor) DeliverDue(_ context.Context, date string) (service.DeliveryReport, error) {
	p.mu.Lock()
	p.dates = append(p.dates, date)
	p.mu.Unlock()
	p.calls <- struct{}{}
	return service.DeliveryReport{Date: date}, p.err
}

func (p *fakeProcessor) DeliverToday(ctx context.Context) (service.DeliveryReport, error) {
	return p.DeliverDue(ctx, "today")
}

func waitCall(t *testing.T, p *fakeProcessor) {
	t.Helper()
	select {
	case <-p.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("processor was not called")
	}
}

// fakeTimer hands out channels the test fires by hand.
type fakeTimer struct {
	mu    sync.Mutex
	waits []time.Duration
	ch    chan time.Time
}

func (f *fakeTimer) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waits = append(f.waits, d)
	return f.ch
}

func TestNextRun(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		hour   int
		minute int
		want   time.Time
	}{
		{
			name: "later today",
			now:  time.Date(2030, 6, 15, 8, 0, 0, 0, time.UTC),
			hour: 9,
			want: time.Date(2030, 6, 15, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "midnight rolls to tomorrow",
			now:  time.Date(2030, 6, 15, 8, 0, 0, 0, time.UTC),
			want: time.Date(2030, 6, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "exactly at the time",
			now:    time.Date(2030, 6, 15, 7, 30, 0, 0, time.UTC),
			hour:   7,
			minute: 30,
			want:   time.Date(2030, 6, 16, 7, 30, 0, 0, time.UTC),
		},
		{
			name: "non UTC input",
			now:  time.Date(2030, 6, 15, 23, 0, 0, 0, time.FixedZone("X", -3*3600)),
			hour: 1,
			want: time.Date(2030, 6, 16, 1, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextRun(tt.now, tt.hour, tt.minute)
			if !got.Equal(tt.want) {
				t.Errorf("nextRun() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSchedulerLifecycle(t *testing.T) {
	proc := newFakeProcessor()
	timer := &fakeTimer{ch: make(chan time.Time)}
	now := time.Date(2030, 6, 15, 23, 0, 0, 0, time.UTC)

	s := New(proc, Options{Now: func() time.Time { return now }, After: timer.After})

	if err := s.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !s.IsRunning() {
		t.Fatal("expected running")
	}
	if err := s.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	// catch-up run on start
	waitCall(t, proc)

	timer.ch <- now
	waitCall(t, proc)

	timer.mu.Lock()
	if len(timer.waits) == 0 || timer.waits[0] != time.Hour {
		t.Errorf("expected first wait of 1h, got %v", timer.waits)
	}
	timer.mu.Unlock()

	if err := s.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if s.IsRunning() {
		t.Fatal("expected stopped")
	}
}

func TestSchedulerStopsWithParentContext(t *testing.T) {
	proc := newFakeProcessor()
	timer := &fakeTimer{ch: make(chan time.Time)}
	s := New(proc, Options{After: timer.After})

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitCall(t, proc)
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for s.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("expected scheduler to stop once its context is cancelled")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := s.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	defer s.Stop()
	waitCall(t, proc)
	if !s.IsRunning() {
		t.Fatal("expected running after restart")
	}
}

func TestSchedulerSurvivesFailures(t *testing.T) {
	proc := newFakeProcessor()
	proc.err = errors.New("database down")
	timer := &fakeTimer{ch: make(chan time.Time)}

	s := New(proc, Options{After: timer.After})
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	waitCall(t, proc)
	timer.ch <- time.Now()
	waitCall(t, proc)
}

func TestRunNow(t *testing.T) {
	proc := newFakeProcessor()
	s := New(proc, Options{})

	report, err := s.RunNow(context.Background(), "2030-06-16")
	if err != nil {
		t.Fatalf("run now: %v", err)
	}
	if report.Date != "2030-06-16" {
		t.Errorf("unexpected date %q", report.Date)
	}

	if _, err := s.RunNow(context.Background(), ""); err != nil {
		t.Fatalf("run now today: %v", err)
	}

	proc.mu.Lock()
	defer proc.mu.Unlock()
	if len(proc.dates) != 2 || proc.dates[1] != "today" {
		t.Errorf("unexpected calls %v", proc.dates)
	}
	if s.IsRunning() {
		t.Error("RunNow must not start the loop")
	}
}
