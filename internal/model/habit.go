package model

import (
	"encoding/json"
	"time"

	"habitfree/internal/streak"
)

// Habit is a tracked behavior with an immutable start instant.
type Habit struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"-"`
	Name          string    `db:"name" json:"name"`
	StartDatetime time.Time `db:"start_datetime" json:"start_datetime"`
}

// MarshalJSON always renders start_datetime in UTC.
func (h Habit) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID            int64  `json:"id"`
		Name          string `json:"name"`
		StartDatetime string `json:"start_datetime"`
	}{
		ID:            h.ID,
		Name:          h.Name,
		StartDatetime: h.StartDatetime.UTC().Format(time.RFC3339Nano),
	})
}

// UnmarshalJSON accepts any ISO-8601 start_datetime, reading naive
// timestamps as UTC.
func (h *Habit) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID            int64  `json:"id"`
		Name          string `json:"name"`
		StartDatetime string `json:"start_datetime"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	start, err := streak.ParseStart(raw.StartDatetime)
	if err != nil {
		return err
	}

	h.ID, h.Name, h.StartDatetime = raw.ID, raw.Name, start
	return nil
}
