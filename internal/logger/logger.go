package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Dir   string
	Debug bool
	// Console receives a copy of every record; nil means stderr.
	Console io.Writer
}

// New builds the service logger. Records go to the console and to a
// rotating file under cfg.Dir. The returned closer releases the file.
func New(cfg Config) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, nil, err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, "habitfree.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 10,
		MaxAge:     28, // days
		Compress:   true,
	}

	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}

	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	l := log.NewWithOptions(io.MultiWriter(console, fileWriter), log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "habitfree",
	})

	return l, fileWriter, nil
}

// Discard returns a logger that drops everything. Used when no logger is wired.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Named returns l with the given prefix, falling back to a discarding logger.
func Named(l *log.Logger, prefix string) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l.WithPrefix(prefix)
}
