package consoles

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
)

type Options struct {
	Level  string
	Format string
	Output io.Writer
}

type slogConsole struct {
	logger *slog.Logger
	prefix string
}

func NewStdOutConsole() Console {
	result, _ := NewConsole(&Options{})
	return result
}

func NewDiscardConsole() Console {
	return &slogConsole{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func NewConsole(opts *Options) (Console, error) {
	var level slog.Level
	switch strings.ToLower(opts.Level) {
	case "debug":
		level = slog.LevelDebug
	case "", "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, errors.Errorf("unknown log level: %v", opts.Level)
	}

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		handler = slog.NewTextHandler(output, handlerOpts)
	case "json":
		handler = slog.NewJSONHandler(output, handlerOpts)
	default:
		return nil, errors.Errorf("unknown log format: %v", opts.Format)
	}

	return &slogConsole{
		logger: slog.New(handler),
	}, nil
}

func (c *slogConsole) Debugf(format string, a ...any) {
	c.logger.Debug(c.format(format, a...))
}

func (c *slogConsole) Printf(format string, a ...any) {
	c.logger.Info(c.format(format, a...))
}

func (c *slogConsole) Warnf(format string, a ...any) {
	c.logger.Warn(c.format(format, a...))
}

func (c *slogConsole) Errorf(format string, a ...any) {
	c.logger.Error(c.format(format, a...))
}

func (c *slogConsole) WithPrefix(format string, a ...any) Console {
	return &slogConsole{
		logger: c.logger,
		prefix: c.prefix + fmt.Sprintf(format, a...),
	}
}

func (c *slogConsole) format(format string, a ...any) string {
	return c.prefix + strings.TrimRight(fmt.Sprintf(format, a...), "\n")
}
