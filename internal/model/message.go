package model

import (
	"strings"
	"unicode/utf8"
)

// SendDateLayout is the calendar-date layout of Message.SendDate.
const SendDateLayout = "2006-01-02"

// Message is a user-authored note scheduled for display on SendDate.
type Message struct {
	ID       int64  `db:"id" json:"id"`
	UserID   int64  `db:"user_id" json:"-"`
	Text     string `db:"message" json:"message"`
	SendDate string `db:"send_date" json:"send_date"`
	IsMasked bool   `db:"is_masked" json:"is_masked"`
}

// DueMessage is a message taken out of the store by a delivery run,
// together with the username of its owner.
type DueMessage struct {
	Message
	Username string `json:"username"`
}

// maxMaskRunes caps the asterisks shown for a masked message.
const maxMaskRunes = 20

// Display returns the text to show for the message: the text itself, or one
// asterisk per character up to 20 while it is masked.
func (m Message) Display() string {
	if !m.IsMasked {
		return m.Text
	}
	n := utf8.RuneCountInString(m.Text)
	if n > maxMaskRunes {
		n = maxMaskRunes
	}
	return strings.Repeat("*", n)
}
