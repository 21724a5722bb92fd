package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SAP-F-2025/survey-service/internal/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *zap.Logger
	config LogConfig
}

type LogConfig struct {
	Service   string
	Component string
}

func NewServiceLogger(logger *zap.Logger, config LogConfig) *ServiceLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceLogger{
		logger: logger.With(zap.String("service", config.Service), zap.String("component", config.Component)),
		config: config,
	}
}

func (l *ServiceLogger) Logger() *zap.Logger {
	return l.logger
}

// ===== OPERATION LOGGING =====

func (l *ServiceLogger) LogOperation(ctx context.Context, operation string, resourceID string, resourceType string, duration time.Duration, err error) {
	level := zapcore.InfoLevel
	status := "success"

	if err != nil {
		level = zapcore.ErrorLevel
		status = "error"

		// Expected failures are not errors of the service
		switch {
		case IsValidation(err) || IsBusinessRule(err):
			level = zapcore.WarnLevel
			status = "validation_error"
		case IsNotFound(err):
			level = zapcore.InfoLevel
			status = "not_found"
		}
	}

	fields := []zap.Field{
		zap.String("operation", operation),
		zap.String("resource_id", resourceID),
		zap.String("resource_type", resourceType),
		zap.String("status", status),
		zap.Duration("duration", duration),
	}

	if err != nil {
		fields = append(fields, zap.Error(err))

		var validationErrs ValidationErrors
		var businessErr *BusinessRuleError
		var persistenceErr *PersistenceError
		switch {
		case errors.As(err, &validationErrs):
			fields = append(fields, zap.Int("validation_errors_count", len(validationErrs)))
		case errors.As(err, &businessErr):
			fields = append(fields, zap.String("business_rule", businessErr.Rule))
		case errors.As(err, &persistenceErr):
			fields = append(fields, zap.String("persistence_op", persistenceErr.Op))
		}
	}

	if requestID := utils.RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}

	if ce := l.logger.Check(level, fmt.Sprintf("%s operation %s", operation, status)); ce != nil {
		ce.Write(fields...)
	}
}

func (l *ServiceLogger) LogValidationError(ctx context.Context, operation string, validationErrors ValidationErrors) {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Int("error_count", len(validationErrors)),
	}

	for i, err := range validationErrors {
		if i >= 5 {
			break
		}
		fields = append(fields, zap.Dict(fmt.Sprintf("error_%d", i+1),
			zap.String("field", err.Field),
			zap.String("message", err.Message),
			zap.String("rule", err.Rule),
		))
	}

	l.logger.Warn("Validation failed", fields...)
}

func (l *ServiceLogger) LogBusinessRuleViolation(ctx context.Context, operation string, rule *BusinessRuleError) {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.String("rule", rule.Rule),
		zap.String("message", rule.Message),
	}
	for key, value := range rule.Context {
		fields = append(fields, zap.Any("context_"+key, SanitizeForLogging(value)))
	}

	l.logger.Warn("Business rule violation", fields...)
}

// ===== CONTEXTUAL LOGGER =====

// ContextualLogger times one operation and logs its outcome
type ContextualLogger struct {
	logger    *ServiceLogger
	operation string
	startTime time.Time
	ctx       context.Context
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation string) *ContextualLogger {
	return &ContextualLogger{
		logger:    l,
		operation: operation,
		startTime: time.Now(),
		ctx:       ctx,
	}
}

func (cl *ContextualLogger) LogResult(resourceID string, resourceType string, err error) {
	cl.logger.LogOperation(cl.ctx, cl.operation, resourceID, resourceType, time.Since(cl.startTime), err)

	if err == nil {
		return
	}
	var validationErrs ValidationErrors
	var businessErr *BusinessRuleError
	switch {
	case errors.As(err, &validationErrs):
		cl.logger.LogValidationError(cl.ctx, cl.operation, validationErrs)
	case errors.As(err, &businessErr):
		cl.logger.LogBusinessRuleViolation(cl.ctx, cl.operation, businessErr)
	}
}

// ===== ERROR FORMATTING HELPERS =====

func FormatError(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	result := map[string]interface{}{
		"message": err.Error(),
		"type":    "unknown",
	}

	var validationErrs ValidationErrors
	var businessErr *BusinessRuleError
	var persistenceErr *PersistenceError
	switch {
	case errors.As(err, &validationErrs):
		result["type"] = "validation"
		result["count"] = len(validationErrs)
	case errors.As(err, &businessErr):
		result["type"] = "business_rule"
		result["rule"] = businessErr.Rule
		result["context"] = businessErr.Context
	case errors.As(err, &persistenceErr):
		result["type"] = "persistence"
		result["op"] = persistenceErr.Op
	case IsNotFound(err):
		result["type"] = "not_found"
	case IsValidation(err):
		result["type"] = "validation"
	}

	return result
}

// SanitizeForLogging redacts participant contact details and secrets
func SanitizeForLogging(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		return sanitizeMap(v)
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = SanitizeForLogging(item)
		}
		return result
	default:
		return data
	}
}

var sensitiveKeys = []string{"token", "secret", "password", "contact_", "email", "phone"}

func sanitizeMap(m map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(m))
	for k, v := range m {
		lowerK := strings.ToLower(k)
		redacted := false
		for _, key := range sensitiveKeys {
			if strings.Contains(lowerK, key) {
				redacted = true
				break
			}
		}
		if redacted {
			result[k] = "[REDACTED]"
		} else {
			result[k] = SanitizeForLogging(v)
		}
	}
	return result
}
