package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"habitfree/internal/model"
	"habitfree/internal/repository"
)

const maxHabitNameLength = 100

// HabitService manages a user's tracked habits.
type HabitService struct {
	habits repository.HabitRepository
	users  repository.UserRepository
	now    func() time.Time
}

// NewHabitService builds a HabitService. A nil now uses time.Now.
func NewHabitService(habits repository.HabitRepository, users repository.UserRepository, now func() time.Time) *HabitService {
	if now == nil {
		now = time.Now
	}
	return &HabitService{habits: habits, users: users, now: now}
}

// Create starts tracking a habit from now.
func (s *HabitService) Create(ctx context.Context, userID int64, name string) (model.Habit, error) {
	if userID <= 0 || name == "" {
		return model.Habit{}, validationError("User ID and habit name required")
	}
	if utf8.RuneCountInString(name) > maxHabitNameLength {
		return model.Habit{}, validationError(fmt.Sprintf("Habit name must be at most %d characters", maxHabitNameLength))
	}
	if err := ensureUser(ctx, s.users, userID); err != nil {
		return model.Habit{}, err
	}

	habit, err := s.habits.CreateHabit(ctx, model.Habit{
		UserID:        userID,
		Name:          name,
		StartDatetime: s.now().UTC(),
	})
	if err != nil {
		return model.Habit{}, fmt.Errorf("create habit: %w", err)
	}
	return habit, nil
}

// List returns the habits of userID.
func (s *HabitService) List(ctx context.Context, userID int64) ([]model.Habit, error) {
	if userID <= 0 {
		return nil, validationError("User ID required")
	}
	habits, err := s.habits.ListHabits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

// Delete removes a habit owned by userID.
func (s *HabitService) Delete(ctx context.Context, userID, id int64) error {
	if userID <= 0 {
		return validationError("User ID required")
	}
	if err := s.habits.DeleteHabit(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("Habit not found")
		}
		return fmt.Errorf("delete habit: %w", err)
	}
	return nil
}
