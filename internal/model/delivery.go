package model

import "time"

// Delivery is one message handed to the sinks by a run.
type Delivery struct {
	RunID       string    `json:"run_id"`
	MessageID   int64     `json:"message_id"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
	Text        string    `json:"message"`
	SendDate    string    `json:"send_date"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// DeliveredPage captures paginated delivery history.
type DeliveredPage struct {
	Deliveries []Delivery `json:"deliveries"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
}

// Today returns the UTC calendar date of t as YYYY-MM-DD.
func Today(t time.Time) string {
	return t.UTC().Format(SendDateLayout)
}
