package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	// Get log level from environment
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	// Create handler options
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Create handler based on environment
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		// Use text handler for development (more readable)
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		// Use JSON handler for production (structured)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithEvent adds an event ID to logger context
func (l *Logger) WithEvent(eventID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("event_id", eventID)),
	}
}

// WithDevice adds a device ID to logger context
func (l *Logger) WithDevice(deviceID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("device_id", deviceID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
	)
}

// Business logic logging methods

// LogWaitlistJoined logs a successful waitlist join
func (l *Logger) LogWaitlistJoined(ctx context.Context, eventID, deviceID string) {
	l.Logger.InfoContext(ctx,
		"Waitlist Joined",
		slog.String("event_id", eventID),
		slog.String("device_id", deviceID),
	)
}

// LogDrawCompleted logs a completed lottery draw
func (l *Logger) LogDrawCompleted(ctx context.Context, eventID string, winners, replacements int) {
	l.Logger.InfoContext(ctx,
		"Draw Completed",
		slog.String("event_id", eventID),
		slog.Int("winners", winners),
		slog.Int("replacements", replacements),
	)
}

// LogCascadeOutcome logs the result of a decline replacement cascade
func (l *Logger) LogCascadeOutcome(ctx context.Context, eventID, declinedID, replacementID, source string, notified bool) {
	l.Logger.InfoContext(ctx,
		"Decline Cascade",
		slog.String("event_id", eventID),
		slog.String("declined_device_id", declinedID),
		slog.String("replacement_device_id", replacementID),
		slog.String("source", source),
		slog.Bool("replacement_notified", notified),
	)
}

// LogBroadcastSummary logs the outcome of a group notification broadcast
func (l *Logger) LogBroadcastSummary(ctx context.Context, eventID, group string, notified, failed int) {
	l.Logger.InfoContext(ctx,
		"Broadcast Completed",
		slog.String("event_id", eventID),
		slog.String("group", group),
		slog.Int("notified", notified),
		slog.Int("failed", failed),
	)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
