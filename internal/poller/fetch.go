package poller

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"habitfree/internal/model"
)

// Source is the part of the API client a refresh reads from.
type Source interface {
	Habits(ctx context.Context, userID int64) ([]model.Habit, error)
	Messages(ctx context.Context, userID int64) ([]model.Message, error)
}

// Snapshot is the data of one refresh.
type Snapshot struct {
	Habits    []model.Habit
	Messages  []model.Message
	FetchedAt time.Time
}

// Fetch loads habits and messages of userID concurrently. Either failure
// fails the whole snapshot.
func Fetch(ctx context.Context, src Source, userID int64, now time.Time) (Snapshot, error) {
	snap := Snapshot{FetchedAt: now}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		habits, err := src.Habits(ctx, userID)
		snap.Habits = habits
		return err
	})
	g.Go(func() error {
		messages, err := src.Messages(ctx, userID)
		snap.Messages = messages
		return err
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
