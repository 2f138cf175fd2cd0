package middleware

import (
	"log/slog"
	"time"

	"github.com/strada-dev/strada/pkg/router"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Logger receives the request logs. Default: slog.Default().
	Logger *slog.Logger

	// Level is the level successful requests log at.
	// Default: slog.LevelInfo.
	Level slog.Level
}

// LoggingOption configures the request logging middleware.
type LoggingOption func(*LoggingConfig)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) LoggingOption {
	return func(c *LoggingConfig) {
		c.Logger = logger
	}
}

// WithLevel sets the level for successful requests.
func WithLevel(level slog.Level) LoggingOption {
	return func(c *LoggingConfig) {
		c.Level = level
	}
}

// Logging creates pipeline middleware that logs one line per completed
// request with route, method, status, and duration. It observes the
// outgoing response through a transform, so a short-circuit elsewhere in
// the pipeline produces no log line for this middleware.
func Logging(opts ...LoggingOption) router.Middleware {
	config := LoggingConfig{Level: slog.LevelInfo}
	for _, opt := range opts {
		opt(&config)
	}

	return func(c *router.Ctx) (router.Result, error) {
		logger := config.Logger
		if logger == nil {
			logger = slog.Default()
		}
		start := time.Now()

		return router.Transform(func(c *router.Ctx, resp *router.Response) (*router.Response, error) {
			level := config.Level
			if resp.Status >= 500 {
				level = slog.LevelError
			} else if resp.Status >= 400 {
				level = slog.LevelWarn
			}
			logger.Log(c.Context(), level, "request",
				"method", string(c.Method()),
				"route", c.Route().Path(),
				"path", c.Path(),
				"status", resp.Status,
				"duration", time.Since(start),
			)
			return resp, nil
		}), nil
	}
}
