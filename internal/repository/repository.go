package repository

import (
	"context"
	"errors"

	"habitfree/internal/model"
)

var (
	// ErrNotFound is returned when a row does not exist or is not owned by the caller.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository defines the database operations required for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
}

// HabitRepository defines the database operations required for habits.
type HabitRepository interface {
	CreateHabit(ctx context.Context, habit model.Habit) (model.Habit, error)
	ListHabits(ctx context.Context, userID int64) ([]model.Habit, error)
	DeleteHabit(ctx context.Context, userID, id int64) error
}

// Store groups every repository backed by the same database.
type Store interface {
	UserRepository
	HabitRepository
	MessageRepository
}
