package utils

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines a unified logging interface that can be used across handlers and services
type Logger interface {
	// Basic logging methods
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// Context-aware logging methods
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)

	// Structured logging with key-value pairs
	With(args ...any) Logger
	WithGroup(name string) Logger

	// Handler-specific methods for HTTP request logging
	LogRequest(method, path string, statusCode int, duration string, args ...any)
	LogError(err error, msg string, args ...any)
}

type requestIDKey struct{}

// WithRequestID stores a request id that context-aware logging picks up
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the id stored by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ZapLogger implements Logger with a zap sugared logger
type ZapLogger struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

// NewZapLogger creates a new logger wrapper around zap.Logger
func NewZapLogger(logger *zap.Logger) Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{
		logger: logger,
		sugar:  logger.Sugar(),
	}
}

// NewZap builds the process logger: JSON at info level in production,
// console at debug level otherwise
func NewZap(environment string) *zap.Logger {
	if environment == "production" {
		return zap.Must(zap.NewProduction())
	}
	return zap.Must(zap.NewDevelopment())
}

// NewDefaultLogger creates a production logger
func NewDefaultLogger() Logger {
	return NewZapLogger(NewZap("production"))
}

// NewDevelopmentLogger creates a logger optimized for development
func NewDevelopmentLogger() Logger {
	return NewZapLogger(NewZap("development"))
}

// Basic logging methods
func (l *ZapLogger) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, args...)
}

func (l *ZapLogger) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

func (l *ZapLogger) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

func (l *ZapLogger) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}

// Context-aware logging methods
func (l *ZapLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.sugar.Debugw(msg, withContext(ctx, args)...)
}

func (l *ZapLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.sugar.Infow(msg, withContext(ctx, args)...)
}

func (l *ZapLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.sugar.Warnw(msg, withContext(ctx, args)...)
}

func (l *ZapLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.sugar.Errorw(msg, withContext(ctx, args)...)
}

func withContext(ctx context.Context, args []any) []any {
	if id := RequestIDFromContext(ctx); id != "" {
		return append([]any{"request_id", id}, args...)
	}
	return args
}

// Structured logging with key-value pairs
func (l *ZapLogger) With(args ...any) Logger {
	sugar := l.sugar.With(args...)
	return &ZapLogger{
		logger: sugar.Desugar(),
		sugar:  sugar,
	}
}

func (l *ZapLogger) WithGroup(name string) Logger {
	return NewZapLogger(l.logger.With(zap.Namespace(name)))
}

// Handler-specific methods for HTTP request logging
func (l *ZapLogger) LogRequest(method, path string, statusCode int, duration string, args ...any) {
	level := zapcore.InfoLevel
	if statusCode >= 400 {
		level = zapcore.WarnLevel
	}
	if statusCode >= 500 {
		level = zapcore.ErrorLevel
	}

	baseArgs := []any{
		"method", method,
		"path", path,
		"status_code", statusCode,
		"duration", duration,
	}

	l.sugar.Logw(level, "HTTP Request", append(baseArgs, args...)...)
}

func (l *ZapLogger) LogError(err error, msg string, args ...any) {
	allArgs := append([]any{"error", err}, args...)
	l.sugar.Errorw(msg, allArgs...)
}

// Zap returns the underlying zap.Logger for direct access when needed
func (l *ZapLogger) Zap() *zap.Logger {
	return l.logger
}

// LoggerMiddleware creates a Gin middleware for request logging
func LoggerMiddleware(logger Logger) func(*gin.Context) {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		// Log using our logger instead of default Gin logger
		logger.LogRequest(
			param.Method,
			param.Path,
			param.StatusCode,
			param.Latency.String(),
			"client_ip", param.ClientIP,
			"user_agent", param.Request.UserAgent(),
		)
		return "" // Return empty string as we're handling logging ourselves
	})
}

// ContextLogger adds logger to Gin context
func ContextLogger(logger Logger) func(*gin.Context) {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		requestLogger := logger.With(
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		if requestID != "" {
			c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), requestID))
		}
		c.Set("logger", requestLogger)
		c.Next()
	}
}

// GetLoggerFromContext retrieves logger from Gin context
func GetLoggerFromContext(c *gin.Context) Logger {
	if logger, exists := c.Get("logger"); exists {
		if typedLogger, ok := logger.(Logger); ok {
			return typedLogger
		}
	}
	return NewZapLogger(zap.L())
}

// ToZapLogger unwraps a Logger, falling back to the global zap logger
func ToZapLogger(logger Logger) *zap.Logger {
	if zapLogger, ok := logger.(*ZapLogger); ok {
		return zapLogger.Zap()
	}
	return zap.L()
}
