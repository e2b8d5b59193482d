package service

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"habitfree/internal/logger"
	"habitfree/internal/model"
	"habitfree/internal/repository"
)

// Sink receives each delivered message once its removal is committed.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, d model.Delivery) error
}

// Locker keeps concurrent instances from running the same delivery tick.
type Locker interface {
	Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, token string) error
}

// History lists past deliveries of a user, newest first.
type History interface {
	ListDelivered(ctx context.Context, userID int64, offset, limit int) ([]model.Delivery, int, error)
}

// DeliveryReport summarizes one run.
type DeliveryReport struct {
	RunID     string `json:"run_id"`
	Date      string `json:"date"`
	Delivered int    `json:"delivered"`
	Orphaned  int    `json:"orphaned"`
	// SinkErrors counts sink failures; the messages still count as delivered.
	SinkErrors int  `json:"sink_errors"`
	Locked     bool `json:"locked"`
}

// DeliveryService takes due messages out of the store and delivers them.
type DeliveryService struct {
	repo    repository.MessageRepository
	sinks   []Sink
	locker  Locker
	history History
	lockTTL time.Duration
	now     func() time.Time
	logger  *log.Logger
}

// DeliveryDependencies groups constructor requirements for DeliveryService.
// Locker and History are optional.
type DeliveryDependencies struct {
	Repo    repository.MessageRepository
	Sinks   []Sink
	Locker  Locker
	History History
}

// DeliveryServiceOptions configures DeliveryService.
type DeliveryServiceOptions struct {
	LockTTL time.Duration
	Now     func() time.Time
	Logger  *log.Logger
}

// NewDeliveryService builds a DeliveryService.
func NewDeliveryService(deps DeliveryDependencies, opts DeliveryServiceOptions) *DeliveryService {
	lockTTL := opts.LockTTL
	if lockTTL <= 0 {
		lockTTL = 5 * time.Minute
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &DeliveryService{
		repo:    deps.Repo,
		sinks:   deps.Sinks,
		locker:  deps.Locker,
		history: deps.History,
		lockTTL: lockTTL,
		now:     now,
		logger:  logger.Named(opts.Logger, "delivery"),
	}
}

// DeliverDue delivers every message scheduled for date. The store removal is
// all-or-nothing; sinks run after commit so each message is handed out at
// most once.
func (s *DeliveryService) DeliverDue(ctx context.Context, date string) (DeliveryReport, error) {
	if _, err := time.Parse(model.SendDateLayout, date); err != nil {
		return DeliveryReport{}, validationError("Invalid date, expected YYYY-MM-DD")
	}

	report := DeliveryReport{RunID: uuid.NewString(), Date: date}

	if s.locker != nil {
		key := "delivery_lock:" + date
		ok, err := s.locker.Acquire(ctx, key, report.RunID, s.lockTTL)
		switch {
		case err != nil:
			// TakeDue alone keeps delivery at-most-once.
			s.logger.Warn("delivery lock unavailable, running unlocked", "date", date, "run", report.RunID, "err", err)
		case !ok:
			report.Locked = true
			s.logger.Info("delivery run skipped, lock held elsewhere", "date", date, "run", report.RunID)
			return report, nil
		default:
			defer func() {
				if err := s.locker.Release(context.WithoutCancel(ctx), key, report.RunID); err != nil {
					s.logger.Warn("release delivery lock", "date", date, "err", err)
				}
			}()
		}
	}

	batch, err := s.repo.TakeDue(ctx, date)
	if err != nil {
		return report, fmt.Errorf("take due messages: %w", err)
	}
	report.Orphaned = batch.Orphaned

	deliveredAt := s.now().UTC()
	for _, msg := range batch.Messages {
		d := model.Delivery{
			RunID:       report.RunID,
			MessageID:   msg.ID,
			UserID:      msg.UserID,
			Username:    msg.Username,
			Text:        msg.Text,
			SendDate:    msg.SendDate,
			DeliveredAt: deliveredAt,
		}
		report.Delivered++

		for _, sink := range s.sinks {
			if err := sink.Deliver(ctx, d); err != nil {
				report.SinkErrors++
				s.logger.Error("sink failed", "sink", sink.Name(), "message", msg.ID, "err", err)
			}
		}
	}

	s.logger.Info("checked messages", "date", date, "run", report.RunID,
		"delivered", report.Delivered, "orphaned", report.Orphaned, "sink_errors", report.SinkErrors)

	return report, nil
}

// DeliverToday delivers the messages of the current UTC calendar date.
func (s *DeliveryService) DeliverToday(ctx context.Context) (DeliveryReport, error) {
	return s.DeliverDue(ctx, model.Today(s.now()))
}

// ListDelivered returns paginated delivery history for userID. Without a
// history backend the page is empty.
func (s *DeliveryService) ListDelivered(ctx context.Context, userID int64, page, limit int) (model.DeliveredPage, error) {
	if userID <= 0 {
		return model.DeliveredPage{}, validationError("User ID required")
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	result := model.DeliveredPage{Deliveries: []model.Delivery{}, Page: page, Limit: limit}
	if s.history == nil {
		return result, nil
	}

	offset := (page - 1) * limit
	items, total, err := s.history.ListDelivered(ctx, userID, offset, limit)
	if err != nil {
		return model.DeliveredPage{}, fmt.Errorf("list delivered: %w", err)
	}
	if items != nil {
		result.Deliveries = items
	}
	result.Total = total
	return result, nil
}
