package poller

import (
	"context"
	"sort"

	"habitfree/internal/model"
)

// Deleter removes a message from the server.
type Deleter interface {
	DeleteMessage(ctx context.Context, userID, id int64) error
}

// DueQueue presents the messages whose send date has arrived one at a time,
// oldest first.
type DueQueue struct {
	userID int64
	items  []model.Message
}

// NewDueQueue keeps the messages of userID dated on or before today
// (YYYY-MM-DD, UTC).
func NewDueQueue(userID int64, messages []model.Message, today string) *DueQueue {
	q := &DueQueue{userID: userID}
	for _, m := range messages {
		if m.SendDate <= today {
			q.items = append(q.items, m)
		}
	}
	sort.SliceStable(q.items, func(i, j int) bool { return q.items[i].ID < q.items[j].ID })
	return q
}

// Len returns the number of messages left.
func (q *DueQueue) Len() int { return len(q.items) }

// Current returns the message at the head of the queue.
func (q *DueQueue) Current() (model.Message, bool) {
	if len(q.items) == 0 {
		return model.Message{}, false
	}
	return q.items[0], true
}

// Dismiss deletes the head from the server and advances. On error the head
// stays in place.
func (q *DueQueue) Dismiss(ctx context.Context, d Deleter) error {
	head, ok := q.Current()
	if !ok {
		return nil
	}
	if err := d.DeleteMessage(ctx, q.userID, head.ID); err != nil {
		return err
	}
	q.Pop(head.ID)
	return nil
}

// Pop drops the head if it is message id, for callers that delete the
// message themselves. It reports whether the head was dropped.
func (q *DueQueue) Pop(id int64) bool {
	if len(q.items) == 0 || q.items[0].ID != id {
		return false
	}
	q.items = q.items[1:]
	return true
}
