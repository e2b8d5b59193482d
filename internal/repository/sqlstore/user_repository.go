package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"habitfree/internal/model"
	"habitfree/internal/repository"
)

// CreateUser inserts a user and returns it with its id.
func (s *Store) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, s.q(`
        INSERT INTO users (username, password_hash, email, created_at)
        VALUES (?, ?, ?, ?)
        RETURNING id`), user.Username, user.PasswordHash, user.Email, user.CreatedAt).Scan(&user.ID)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, fmt.Errorf("user %q: %w", user.Username, repository.ErrDuplicate)
		}
		return model.User{}, err
	}
	return user, nil
}

// GetUser loads a user by id.
func (s *Store) GetUser(ctx context.Context, id int64) (model.User, error) {
	row := s.db.QueryRowContext(ctx, s.q(`
        SELECT id, username, password_hash, email, created_at
        FROM users
        WHERE id = ?`), id)
	return scanUser(row)
}

// GetUserByUsername loads a user by its unique username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	row := s.db.QueryRowContext(ctx, s.q(`
        SELECT id, username, password_hash, email, created_at
        FROM users
        WHERE username = ?`), username)
	return scanUser(row)
}

func scanUser(row *sql.Row) (model.User, error) {
	var user model.User
	var email sql.NullString
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &email, &user.CreatedAt); err != nil {
		return model.User{}, notFound(err)
	}
	if email.Valid {
		e := email.String
		user.Email = &e
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return user, nil
}
