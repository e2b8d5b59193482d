package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"habitfree/internal/model"
	"habitfree/internal/repository"
)

const (
	minPasswordLength = 4
	// bcrypt rejects longer inputs.
	maxPasswordLength = 72
)

// UserService registers and authenticates users.
type UserService struct {
	repo repository.UserRepository
	now  func() time.Time
	cost int
}

// UserServiceOptions configures UserService.
type UserServiceOptions struct {
	Now func() time.Time
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository, opts UserServiceOptions) *UserService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &UserService{repo: repo, now: now, cost: cost}
}

// Register creates a user with a hashed password.
func (s *UserService) Register(ctx context.Context, username, password string) (model.User, error) {
	if username == "" || password == "" {
		return model.User{}, validationError("Username and password required")
	}
	if !validUsername(username) {
		return model.User{}, validationError("Invalid username format")
	}
	if len(password) < minPasswordLength {
		return model.User{}, validationError("Password too short")
	}
	if len(password) > maxPasswordLength {
		return model.User{}, validationError("Password too long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, model.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.User{}, conflictError("Username already exists")
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login checks the credentials. Unknown users and wrong passwords fail with
// different messages.
func (s *UserService) Login(ctx context.Context, username, password string) (model.User, error) {
	if username == "" || password == "" {
		return model.User{}, validationError("Please enter both username and password")
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, authError(fmt.Sprintf("No account found with username %q. Please check your spelling or register a new account.", username))
		}
		return model.User{}, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, authError("Incorrect password. Please try again.")
	}

	return user, nil
}

// ensureUser fails with a not-found error when userID has no user row.
func ensureUser(ctx context.Context, repo repository.UserRepository, userID int64) error {
	if userID <= 0 {
		return validationError("User ID required")
	}
	if _, err := repo.GetUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("User not found")
		}
		return fmt.Errorf("get user: %w", err)
	}
	return nil
}

// validUsername accepts 3 to 15 ASCII letters and digits.
func validUsername(username string) bool {
	if len(username) < 3 || len(username) > 15 {
		return false
	}
	for _, r := range username {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !isDigit {
			return false
		}
	}
	return true
}
