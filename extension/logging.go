package extension

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/routekit"
)

// startedAtCapability carries the request start time between the incoming
// pass and the handled hook.
const startedAtCapability routekit.Capability = "extension.logging.started_at"

// LoggingConfig configures the request logging extension.
type LoggingConfig struct {
	// Skip defines a function to skip logging for specific messages
	Skip func(m *routekit.Message) bool

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// LogLevel for request logging (default: slog.LevelInfo)
	LogLevel slog.Level

	// SlowRequestThreshold logs requests slower than this at warn level.
	// Zero disables the slow-request escalation.
	SlowRequestThreshold time.Duration
}

type logging struct {
	cfg LoggingConfig
}

// Logging creates the request logging extension with default configuration.
func Logging() routekit.Factory {
	return LoggingWithConfig(LoggingConfig{})
}

// LoggingWithConfig creates the request logging extension with custom
// configuration. It records the start time before any decoration runs and
// emits one structured line per claimed request.
func LoggingWithConfig(cfg LoggingConfig) routekit.Factory {
	return func(app *routekit.App) (routekit.Extension, error) {
		if cfg.Logger == nil {
			cfg.Logger = slog.Default()
		}
		return &logging{cfg: cfg}, nil
	}
}

func (e *logging) Name() string { return "logging" }

func (e *logging) OnIncomingMessage(m *routekit.Message) error {
	if e.cfg.Skip != nil && e.cfg.Skip(m) {
		return nil
	}
	m.SetCapability(startedAtCapability, time.Now())
	return nil
}

func (e *logging) OnMessageHandled(m *routekit.Message, res routekit.Result) error {
	v, ok := m.Capability(startedAtCapability)
	if !ok {
		return nil
	}
	started, _ := v.(time.Time)
	duration := time.Since(started)

	attrs := []any{
		"method", m.Method(),
		"path", m.Path(),
		"status", m.StatusCode(),
		"duration", duration,
	}
	if id := RequestIDFrom(m); id != "" {
		attrs = append(attrs, "request_id", id)
	}

	level := e.cfg.LogLevel
	msg := "request handled"
	if e.cfg.SlowRequestThreshold > 0 && duration > e.cfg.SlowRequestThreshold {
		level = slog.LevelWarn
		msg = "slow request"
	}
	e.cfg.Logger.Log(m, level, msg, attrs...)
	return nil
}
