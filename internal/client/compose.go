package client

import (
	"errors"
	"strings"
	"time"

	"habitfree/internal/model"
)

var (
	// ErrComposeIncomplete is returned for an empty message or a missing date.
	ErrComposeIncomplete = errors.New("message and a valid YYYY-MM-DD date are required")
	// ErrComposeNotFuture is returned for a date of today or earlier.
	ErrComposeNotFuture = errors.New("date must be after today")
)

// CheckCompose validates a message before it is sent to the server and
// returns the trimmed text. The server accepts today's date; composing only
// allows dates strictly after the UTC date of now.
func CheckCompose(text, date string, now time.Time) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" || date == "" {
		return "", ErrComposeIncomplete
	}

	day, err := time.Parse(model.SendDateLayout, date)
	if err != nil {
		return "", ErrComposeIncomplete
	}
	today, _ := time.Parse(model.SendDateLayout, model.Today(now))
	if !day.After(today) {
		return "", ErrComposeNotFuture
	}
	return text, nil
}
