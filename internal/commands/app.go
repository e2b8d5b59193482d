package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"habitfree/internal/config"
	"habitfree/internal/db"
	"habitfree/internal/logger"
	"habitfree/internal/notify"
	"habitfree/internal/repository/sqlstore"
	"habitfree/internal/service"
)

// app holds the server-side dependencies shared by serve and deliver.
type app struct {
	cfg      *config.Config
	logger   *log.Logger
	db       *sql.DB
	store    *sqlstore.Store
	redis    *redis.Client
	delivery *service.DeliveryService
	closers  []io.Closer
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	l, logFile, err := logger.New(logger.Config{Dir: cfg.Log.Dir, Debug: cfg.Log.Debug})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a := &app{cfg: cfg, logger: l, closers: []io.Closer{logFile}}

	a.db, err = db.Connect(cfg.Database)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	a.closers = append(a.closers, a.db)

	if err := db.Migrate(ctx, a.db, cfg.Database.Driver); err != nil {
		a.close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	a.store = sqlstore.New(a.db, cfg.Database.Driver)

	deps := service.DeliveryDependencies{
		Repo:  a.store,
		Sinks: []service.Sink{notify.NewLogSink(l)},
	}

	if cfg.Webhook.URL != "" {
		deps.Sinks = append(deps.Sinks, notify.NewWebhookSink(notify.WebhookOptions{
			URL:     cfg.Webhook.URL,
			AuthKey: cfg.Webhook.AuthKey,
			Timeout: cfg.Webhook.Timeout,
		}))
	}

	if cfg.Redis.Enabled() {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, a.redis)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := a.redis.Ping(pingCtx).Err(); err != nil {
			a.close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}

		ledger := notify.NewLedger(a.redis, 0)
		deps.Sinks = append(deps.Sinks, ledger)
		deps.Locker = ledger
		deps.History = ledger
	}

	a.delivery = service.NewDeliveryService(deps, service.DeliveryServiceOptions{
		LockTTL: cfg.Scheduler.LockTTL,
		Logger:  l,
	})

	return a, nil
}

// close releases resources in reverse order of acquisition.
func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
