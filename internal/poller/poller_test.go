package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"habitfree/internal/model"
)

func TestDebouncer(t *testing.T) {
	now := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)
	d := NewDebouncer(time.Second, func() time.Time { return now })

	if !d.Allow() {
		t.Fatal("first fetch must be allowed")
	}
	now = now.Add(500 * time.Millisecond)
	if d.Allow() {
		t.Fatal("fetch within the interval must be refused")
	}
	now = now.Add(500 * time.Millisecond)
	if !d.Allow() {
		t.Fatal("fetch after the interval must be allowed")
	}
}

func TestScreenTransitions(t *testing.T) {
	var s Screen
	if s.State() != Loading {
		t.Fatalf("expected initial Loading, got %v", s.State())
	}
	if err := s.Reload(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("reload while loading: %v", err)
	}

	if err := s.Succeed(); err != nil || s.State() != Ready {
		t.Fatalf("succeed: %v %v", err, s.State())
	}
	if err := s.Fail(errors.New("x")); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("fail while ready: %v", err)
	}

	if err := s.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	boom := errors.New("network down")
	if err := s.Fail(boom); err != nil || s.State() != Error || s.Err() != boom {
		t.Fatalf("fail: %v %v %v", err, s.State(), s.Err())
	}

	if err := s.Reload(); err != nil || s.Err() != nil {
		t.Fatalf("reload after error: %v %v", err, s.Err())
	}
}

type fakeAPI struct {
	deleted   []int64
	deleteErr error
	habitErr  error
}

func (f *fakeAPI) DeleteMessage(_ context.Context, _ int64, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) Habits(context.Context, int64) ([]model.Habit, error) {
	return []model.Habit{{ID: 1, Name: "Smoking"}}, f.habitErr
}

func (f *fakeAPI) Messages(context.Context, int64) ([]model.Message, error) {
	return []model.Message{{ID: 2, Text: "hi", SendDate: "2030-06-15"}}, nil
}

func TestDueQueue(t *testing.T) {
	messages := []model.Message{
		{ID: 5, SendDate: "2030-06-14"},
		{ID: 2, SendDate: "2030-06-15"},
		{ID: 9, SendDate: "2030-06-16"},
	}
	q := NewDueQueue(7, messages, "2030-06-15")
	if q.Len() != 2 {
		t.Fatalf("expected 2 due messages, got %d", q.Len())
	}

	head, _ := q.Current()
	if head.ID != 2 {
		t.Fatalf("expected oldest id first, got %d", head.ID)
	}

	api := &fakeAPI{deleteErr: errors.New("offline")}
	if err := q.Dismiss(context.Background(), api); err == nil {
		t.Fatal("expected dismiss error")
	}
	if q.Len() != 2 {
		t.Fatal("failed dismiss must keep the head")
	}

	api.deleteErr = nil
	for q.Len() > 0 {
		if err := q.Dismiss(context.Background(), api); err != nil {
			t.Fatalf("dismiss: %v", err)
		}
	}
	if len(api.deleted) != 2 || api.deleted[0] != 2 || api.deleted[1] != 5 {
		t.Errorf("unexpected deletions %v", api.deleted)
	}
	if _, ok := q.Current(); ok {
		t.Error("expected empty queue")
	}
	if err := q.Dismiss(context.Background(), api); err != nil {
		t.Errorf("dismiss on empty queue: %v", err)
	}
}

func TestFetch(t *testing.T) {
	now := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)
	snap, err := Fetch(context.Background(), &fakeAPI{}, 7, now)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(snap.Habits) != 1 || len(snap.Messages) != 1 || !snap.FetchedAt.Equal(now) {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	if _, err := Fetch(context.Background(), &fakeAPI{habitErr: errors.New("boom")}, 7, now); err == nil {
		t.Error("expected fetch error")
	}
}

func TestDueQueuePop(t *testing.T) {
	q := NewDueQueue(7, []model.Message{{ID: 1, SendDate: "2030-06-15"}, {ID: 2, SendDate: "2030-06-15"}}, "2030-06-15")

	if q.Pop(2) {
		t.Fatal("pop must only drop the head")
	}
	if !q.Pop(1) || q.Len() != 1 {
		t.Fatalf("expected head dropped, len %d", q.Len())
	}
}
