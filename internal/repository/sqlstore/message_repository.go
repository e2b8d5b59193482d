package sqlstore

import (
	"context"
	"database/sql"

	"habitfree/internal/model"
	"habitfree/internal/repository"
)

// CreateMessage inserts a message and returns it with its id.
func (s *Store) CreateMessage(ctx context.Context, msg model.Message) (model.Message, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, s.q(`
        INSERT INTO messages (user_id, message, send_date, is_masked)
        VALUES (?, ?, ?, ?)
        RETURNING id`), msg.UserID, msg.Text, msg.SendDate, msg.IsMasked).Scan(&msg.ID)
	})
	if err != nil {
		return model.Message{}, err
	}
	return msg, nil
}

// ListMessages returns the messages owned by userID in creation order.
func (s *Store) ListMessages(ctx context.Context, userID int64) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
        SELECT id, user_id, message, send_date, is_masked
        FROM messages
        WHERE user_id = ?
        ORDER BY id ASC`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var msg model.Message
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Text, &msg.SendDate, &msg.IsMasked); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// DeleteMessage removes a message owned by userID.
func (s *Store) DeleteMessage(ctx context.Context, userID, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.q(`DELETE FROM messages WHERE id = ? AND user_id = ?`), id, userID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

// ToggleMask flips is_masked of a message owned by userID and returns the
// persisted row.
func (s *Store) ToggleMask(ctx context.Context, userID, id int64) (model.Message, error) {
	var msg model.Message
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.q(`
        UPDATE messages
        SET is_masked = NOT is_masked
        WHERE id = ? AND user_id = ?`), id, userID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return repository.ErrNotFound
		}

		err = tx.QueryRowContext(ctx, s.q(`
        SELECT id, user_id, message, send_date, is_masked
        FROM messages
        WHERE id = ?`), id).Scan(&msg.ID, &msg.UserID, &msg.Text, &msg.SendDate, &msg.IsMasked)
		return notFound(err)
	})
	if err != nil {
		return model.Message{}, err
	}
	return msg, nil
}

// TakeDue deletes every message scheduled for date whose owner exists and
// returns them. A message only counts as taken when this transaction's
// delete removed it, so concurrent runs never hand out the same row twice.
func (s *Store) TakeDue(ctx context.Context, date string) (repository.DueBatch, error) {
	var batch repository.DueBatch
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		candidates, orphaned, err := s.selectDue(ctx, tx, date)
		if err != nil {
			return err
		}

		taken := make([]model.DueMessage, 0, len(candidates))
		for _, msg := range candidates {
			res, err := tx.ExecContext(ctx, s.q(`DELETE FROM messages WHERE id = ?`), msg.ID)
			if err != nil {
				return err
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 1 {
				taken = append(taken, msg)
			}
		}

		batch = repository.DueBatch{Messages: taken, Orphaned: orphaned}
		return nil
	})
	if err != nil {
		return repository.DueBatch{}, err
	}
	return batch, nil
}

func (s *Store) selectDue(ctx context.Context, tx *sql.Tx, date string) ([]model.DueMessage, int, error) {
	rows, err := tx.QueryContext(ctx, s.q(`
        SELECT m.id, m.user_id, m.message, m.send_date, m.is_masked, u.username
        FROM messages m
        LEFT JOIN users u ON u.id = m.user_id
        WHERE m.send_date = ?
        ORDER BY m.id ASC`), date)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		due      []model.DueMessage
		orphaned int
	)
	for rows.Next() {
		var msg model.DueMessage
		var username sql.NullString
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Text, &msg.SendDate, &msg.IsMasked, &username); err != nil {
			return nil, 0, err
		}
		if !username.Valid {
			orphaned++
			continue
		}
		msg.Username = username.String
		due = append(due, msg)
	}

	return due, orphaned, rows.Err()
}
