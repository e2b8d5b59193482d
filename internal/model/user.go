package model

import "time"

// User owns habits and messages.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Email        *string   `db:"email" json:"email,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
