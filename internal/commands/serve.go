package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"habitfree/internal/config"
	httpserver "habitfree/internal/http"
	"habitfree/internal/http/handler"
	"habitfree/internal/scheduler"
	"habitfree/internal/service"
)

func addServe(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP API and the daily delivery scheduler",
		Example: `
habitfree serve
DB_DRIVER=postgres REDIS_ADDR=localhost:6379 habitfree serve
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	topLevel.AddCommand(cmd)
}

func serve(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	l := a.logger
	l.Info("Habit Free startup", "driver", cfg.Database.Driver, "redis", cfg.Redis.Enabled(), "webhook", cfg.Webhook.URL != "")

	users := service.NewUserService(a.store, service.UserServiceOptions{})
	habits := service.NewHabitService(a.store, a.store, nil)
	messages := service.NewMessageService(a.store, a.store, nil)

	sched := scheduler.New(a.delivery, scheduler.Options{
		Hour:   cfg.Scheduler.Hour,
		Minute: cfg.Scheduler.Minute,
		Logger: l,
	})

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sched.Start(appCtx); err != nil {
		return err
	}

	router := httpserver.NewRouter(httpserver.Handlers{
		Auth:    handler.NewAuthHandler(users, l),
		Habit:   handler.NewHabitHandler(habits, l),
		Message: handler.NewMessageHandler(messages, a.delivery, l),
		Control: handler.NewControlHandler(sched, l),
	}, l)

	server := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		l.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		l.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			l.Error("http server error", "err", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Error("server shutdown error", "err", err)
	}

	if err := sched.Stop(); err != nil && !errors.Is(err, scheduler.ErrNotRunning) {
		l.Error("scheduler stop error", "err", err)
	}

	return nil
}
