package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
)

// Options configures New.
type Options struct {
	Level  string // logrus level name, default info
	Format string // "text" or "json"
	File   string // rotated log file path; empty logs to stdout only
}

// New builds the service logger. With a file configured, entries go to both
// stdout and an hourly rotated file kept for a week.
func New(opts Options) (*logrus.Logger, error) {
	logger := logrus.New()

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		level = parsed
	}
	logger.SetLevel(level)

	switch opts.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	if opts.File == "" {
		logger.SetOutput(os.Stdout)
		return logger, nil
	}

	writer, err := rotatelogs.New(
		opts.File+".%Y%m%d%H",
		rotatelogs.WithLinkName(opts.File),
		rotatelogs.WithRotationTime(time.Hour),
		rotatelogs.WithMaxAge(7*24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create log rotation: %w", err)
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, writer))
	return logger, nil
}
