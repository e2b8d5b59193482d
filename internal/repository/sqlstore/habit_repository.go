package sqlstore

import (
	"context"
	"database/sql"

	"habitfree/internal/model"
	"habitfree/internal/repository"
)

// CreateHabit inserts a habit and returns it with its id.
func (s *Store) CreateHabit(ctx context.Context, habit model.Habit) (model.Habit, error) {
	habit.StartDatetime = habit.StartDatetime.UTC()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, s.q(`
        INSERT INTO habits (user_id, name, start_datetime)
        VALUES (?, ?, ?)
        RETURNING id`), habit.UserID, habit.Name, habit.StartDatetime).Scan(&habit.ID)
	})
	if err != nil {
		return model.Habit{}, err
	}
	return habit, nil
}

// ListHabits returns the habits owned by userID, oldest first.
func (s *Store) ListHabits(ctx context.Context, userID int64) ([]model.Habit, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
        SELECT id, user_id, name, start_datetime
        FROM habits
        WHERE user_id = ?
        ORDER BY id ASC`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []model.Habit{}
	for rows.Next() {
		var h model.Habit
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name, &h.StartDatetime); err != nil {
			return nil, err
		}
		h.StartDatetime = h.StartDatetime.UTC()
		habits = append(habits, h)
	}

	return habits, rows.Err()
}

// DeleteHabit removes a habit owned by userID.
func (s *Store) DeleteHabit(ctx context.Context, userID, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.q(`DELETE FROM habits WHERE id = ? AND user_id = ?`), id, userID)
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
