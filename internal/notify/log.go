// Package notify holds the sinks a delivery run hands messages to.
package notify

import (
	"context"

	"github.com/charmbracelet/log"

	"habitfree/internal/logger"
	"habitfree/internal/model"
	"habitfree/internal/service"
)

var _ service.Sink = (*LogSink)(nil)

// LogSink writes each delivered message to the log.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink builds a LogSink.
func NewLogSink(l *log.Logger) *LogSink {
	return &LogSink{logger: logger.Named(l, "delivery")}
}

func (s *LogSink) Name() string { return "log" }

// Deliver logs the message for its owner.
func (s *LogSink) Deliver(_ context.Context, d model.Delivery) error {
	s.logger.Info("message for user", "user", d.Username, "id", d.MessageID, "date", d.SendDate, "message", d.Text)
	return nil
}
