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

const maxMessageLength = 500

// MessageService manages scheduled messages on behalf of their owners.
type MessageService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	now      func() time.Time
}

// NewMessageService builds a MessageService. A nil now uses time.Now.
func NewMessageService(messages repository.MessageRepository, users repository.UserRepository, now func() time.Time) *MessageService {
	if now == nil {
		now = time.Now
	}
	return &MessageService{messages: messages, users: users, now: now}
}

// Create schedules a masked message for date (YYYY-MM-DD, UTC calendar).
func (s *MessageService) Create(ctx context.Context, userID int64, text, date string) (model.Message, error) {
	if userID <= 0 || text == "" || date == "" {
		return model.Message{}, validationError("All fields required")
	}
	if utf8.RuneCountInString(text) > maxMessageLength {
		return model.Message{}, validationError(fmt.Sprintf("Message must be at most %d characters", maxMessageLength))
	}

	sendDate, err := time.Parse(model.SendDateLayout, date)
	if err != nil {
		return model.Message{}, validationError("Invalid date, expected YYYY-MM-DD")
	}
	if sendDate.Before(today(s.now())) {
		return model.Message{}, validationError("Date must not be in the past")
	}

	if err := ensureUser(ctx, s.users, userID); err != nil {
		return model.Message{}, err
	}

	msg, err := s.messages.CreateMessage(ctx, model.Message{
		UserID:   userID,
		Text:     text,
		SendDate: sendDate.Format(model.SendDateLayout),
		IsMasked: true,
	})
	if err != nil {
		return model.Message{}, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

// List returns the messages of userID in creation order.
func (s *MessageService) List(ctx context.Context, userID int64) ([]model.Message, error) {
	if userID <= 0 {
		return nil, validationError("User ID required")
	}
	messages, err := s.messages.ListMessages(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// Delete removes a message owned by userID.
func (s *MessageService) Delete(ctx context.Context, userID, id int64) error {
	if userID <= 0 {
		return validationError("User ID required")
	}
	if err := s.messages.DeleteMessage(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("Message not found")
		}
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// ToggleMask flips the mask of a message owned by userID.
func (s *MessageService) ToggleMask(ctx context.Context, userID, id int64) (model.Message, error) {
	if userID <= 0 {
		return model.Message{}, validationError("User ID required")
	}
	msg, err := s.messages.ToggleMask(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Message{}, notFoundError("Message not found")
		}
		return model.Message{}, fmt.Errorf("toggle message mask: %w", err)
	}
	return msg, nil
}

// today truncates t to midnight of its UTC calendar date.
func today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
