package repository

import (
	"context"

	"habitfree/internal/model"
)

// DueBatch is the outcome of taking a day's messages out of the store.
type DueBatch struct {
	Messages []model.DueMessage
	// Orphaned counts due messages left in place because their owner is missing.
	Orphaned int
}

// MessageRepository defines the database operations required for messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg model.Message) (model.Message, error)
	ListMessages(ctx context.Context, userID int64) ([]model.Message, error)
	DeleteMessage(ctx context.Context, userID, id int64) error
	ToggleMask(ctx context.Context, userID, id int64) (model.Message, error)
	// TakeDue removes every message scheduled for date in one transaction
	// and returns the removed rows with their owners.
	TakeDue(ctx context.Context, date string) (DueBatch, error)
}
