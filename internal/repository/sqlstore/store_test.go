package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"habitfree/internal/config"
	"habitfree/internal/db"
	"habitfree/internal/model"
	"habitfree/internal/repository"
)

func setupTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()

	database, err := db.Connect(config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "habits.db"),
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := db.Migrate(context.Background(), database, config.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return New(database, config.DriverSQLite), database
}

func createUser(t *testing.T, s *Store, name string) model.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), model.User{
		Username:     name,
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func TestUserCRUD(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	alice := createUser(t, s, "alice")
	if alice.ID == 0 {
		t.Fatal("expected user id to be assigned")
	}

	byName, err := s.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if byName.ID != alice.ID || byName.PasswordHash != "hash" || byName.Email != nil {
		t.Errorf("unexpected user %+v", byName)
	}

	if _, err := s.GetUser(ctx, alice.ID); err != nil {
		t.Fatalf("get by id: %v", err)
	}

	if _, err := s.GetUser(ctx, 9999); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = s.CreateUser(ctx, model.User{Username: "alice", PasswordHash: "x", CreatedAt: time.Now()})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestHabitCRUD(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))
	habit, err := s.CreateHabit(ctx, model.Habit{UserID: alice.ID, Name: "Smoking", StartDatetime: start})
	if err != nil {
		t.Fatalf("create habit: %v", err)
	}

	habits, err := s.ListHabits(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list habits: %v", err)
	}
	if len(habits) != 1 || habits[0].Name != "Smoking" {
		t.Fatalf("unexpected habits %+v", habits)
	}
	if !habits[0].StartDatetime.Equal(start) || habits[0].StartDatetime.Location() != time.UTC {
		t.Errorf("start instant not preserved in UTC: %v", habits[0].StartDatetime)
	}

	if err := s.DeleteHabit(ctx, bob.ID, habit.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting another user's habit, got %v", err)
	}
	if habits, _ := s.ListHabits(ctx, alice.ID); len(habits) != 1 {
		t.Fatal("habit removed by non-owner")
	}

	if err := s.DeleteHabit(ctx, alice.ID, habit.ID); err != nil {
		t.Fatalf("delete habit: %v", err)
	}
	if habits, _ := s.ListHabits(ctx, alice.ID); len(habits) != 0 {
		t.Errorf("expected no habits, got %d", len(habits))
	}
}

func TestMessageMask(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	msg, err := s.CreateMessage(ctx, model.Message{UserID: alice.ID, Text: "Stay strong", SendDate: "2030-01-01", IsMasked: true})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}

	toggled, err := s.ToggleMask(ctx, alice.ID, msg.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if toggled.IsMasked {
		t.Error("expected message to be unmasked after one toggle")
	}

	toggled, err = s.ToggleMask(ctx, alice.ID, msg.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.IsMasked {
		t.Error("expected two toggles to restore the mask")
	}

	if _, err := s.ToggleMask(ctx, bob.ID, msg.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for non-owner toggle, got %v", err)
	}
	if err := s.DeleteMessage(ctx, bob.ID, msg.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for non-owner delete, got %v", err)
	}

	list, err := s.ListMessages(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || !list[0].IsMasked || list[0].SendDate != "2030-01-01" {
		t.Errorf("unexpected messages %+v", list)
	}
}

func TestTakeDue(t *testing.T) {
	s, database := setupTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")

	for _, m := range []model.Message{
		{UserID: alice.ID, Text: "today 1", SendDate: "2030-05-01", IsMasked: true},
		{UserID: alice.ID, Text: "tomorrow", SendDate: "2030-05-02", IsMasked: true},
		{UserID: alice.ID, Text: "today 2", SendDate: "2030-05-01", IsMasked: false},
	} {
		if _, err := s.CreateMessage(ctx, m); err != nil {
			t.Fatalf("create message: %v", err)
		}
	}

	// An orphaned message can only exist with foreign keys off.
	if _, err := database.Exec("PRAGMA foreign_keys = OFF"); err != nil {
		t.Fatalf("disable foreign keys: %v", err)
	}
	if _, err := s.CreateMessage(ctx, model.Message{UserID: 4242, Text: "orphan", SendDate: "2030-05-01"}); err != nil {
		t.Fatalf("create orphan: %v", err)
	}

	batch, err := s.TakeDue(ctx, "2030-05-01")
	if err != nil {
		t.Fatalf("take due: %v", err)
	}
	if len(batch.Messages) != 2 || batch.Orphaned != 1 {
		t.Fatalf("expected 2 taken and 1 orphan, got %d and %d", len(batch.Messages), batch.Orphaned)
	}
	if batch.Messages[0].Text != "today 1" || batch.Messages[0].Username != "alice" {
		t.Errorf("unexpected first message %+v", batch.Messages[0])
	}

	remaining, err := s.ListMessages(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Text != "tomorrow" {
		t.Errorf("expected only tomorrow's message to remain, got %+v", remaining)
	}

	again, err := s.TakeDue(ctx, "2030-05-01")
	if err != nil {
		t.Fatalf("second take: %v", err)
	}
	if len(again.Messages) != 0 {
		t.Errorf("expected second run to deliver nothing, got %d", len(again.Messages))
	}
}
