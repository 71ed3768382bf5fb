package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType names an audited security event.
type EventType string

const (
	EventLoginFailed        EventType = "login_failed"
	EventLoginBlocked       EventType = "login_blocked"
	EventLoginSuccess       EventType = "login_success"
	EventBlockCreated       EventType = "block_created"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventStatusChanged      EventType = "status_changed"
)

// AuditEvent is one line of the audit trail.
type AuditEvent struct {
	Event        EventType
	SubjectType  string // "username", "ip", "submission"
	SubjectValue string
	IP           string
	UserAgent    string
	RequestID    string
	Details      map[string]interface{}
}

// AuditLogger writes security events as JSON lines through zap, separate
// from the application log so they can be shipped on their own.
type AuditLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var (
	defaultAudit     *AuditLogger
	defaultAuditOnce sync.Once
)

// NewAuditLogger builds a production zap logger writing to stdout.
func NewAuditLogger(serviceName, environment string) *AuditLogger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.MessageKey = "message"
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	zl, err := cfg.Build(zap.AddStacktrace(zapcore.FatalLevel))
	if err != nil {
		zl = zap.NewNop()
	}
	return NewAuditLoggerWith(zl, serviceName, environment)
}

// NewAuditLoggerWith wraps an existing zap logger.
func NewAuditLoggerWith(zl *zap.Logger, serviceName, environment string) *AuditLogger {
	return &AuditLogger{zapLogger: zl, serviceName: serviceName, environment: environment}
}

// DefaultAudit returns the process-wide audit logger.
func DefaultAudit() *AuditLogger {
	defaultAuditOnce.Do(func() {
		defaultAudit = NewAuditLogger("banjara-intake", environment())
	})
	return defaultAudit
}

func (a *AuditLogger) Log(ctx context.Context, e AuditEvent) {
	if a == nil {
		return
	}

	level := zapcore.WarnLevel
	switch e.Event {
	case EventLoginSuccess, EventStatusChanged:
		level = zapcore.InfoLevel
	case EventLoginBlocked, EventBlockCreated:
		level = zapcore.ErrorLevel
	}

	fields := []zap.Field{
		zap.String("service", a.serviceName),
		zap.String("env", a.environment),
		zap.String("event", string(e.Event)),
		zap.Time("at", time.Now().UTC()),
	}
	if e.SubjectType != "" {
		fields = append(fields,
			zap.String("subject_type", e.SubjectType),
			zap.String("subject_value", maskValue(e.SubjectType, e.SubjectValue)))
	}
	if e.IP != "" {
		fields = append(fields, zap.String("ip", e.IP))
	}
	if e.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", e.UserAgent))
	}
	if e.RequestID != "" {
		fields = append(fields, zap.String("request_id", e.RequestID))
	}
	if len(e.Details) > 0 {
		fields = append(fields, zap.Any("details", e.Details))
	}

	a.zapLogger.Log(level, string(e.Event), fields...)
}

func (a *AuditLogger) LoginFailed(ctx context.Context, username, ip, requestID, reason string) {
	a.Log(ctx, AuditEvent{
		Event:        EventLoginFailed,
		SubjectType:  "username",
		SubjectValue: username,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"reason": reason},
	})
}

func (a *AuditLogger) LoginBlocked(ctx context.Context, username, ip, requestID string) {
	a.Log(ctx, AuditEvent{
		Event:        EventLoginBlocked,
		SubjectType:  "username",
		SubjectValue: username,
		IP:           ip,
		RequestID:    requestID,
	})
}

func (a *AuditLogger) LoginSucceeded(ctx context.Context, username, ip, requestID string) {
	a.Log(ctx, AuditEvent{
		Event:        EventLoginSuccess,
		SubjectType:  "username",
		SubjectValue: username,
		IP:           ip,
		RequestID:    requestID,
	})
}

func (a *AuditLogger) BlockCreated(ctx context.Context, subjectType, subjectValue, ip, requestID string, d time.Duration) {
	a.Log(ctx, AuditEvent{
		Event:        EventBlockCreated,
		SubjectType:  subjectType,
		SubjectValue: subjectValue,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"duration_minutes": int(d.Minutes())},
	})
}

func (a *AuditLogger) RateLimited(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	a.Log(ctx, AuditEvent{
		Event:     EventRateLimitTriggered,
		IP:        ip,
		UserAgent: userAgent,
		RequestID: requestID,
		Details:   map[string]interface{}{"endpoint": endpoint},
	})
}

func (a *AuditLogger) StatusChanged(ctx context.Context, reviewer, collection, submissionID, from, to, requestID string) {
	a.Log(ctx, AuditEvent{
		Event:        EventStatusChanged,
		SubjectType:  "submission",
		SubjectValue: collection + "/" + submissionID,
		RequestID:    requestID,
		Details:      map[string]interface{}{"reviewer": reviewer, "from": from, "to": to},
	})
}

// Sync flushes buffered entries.
func (a *AuditLogger) Sync() error {
	if a == nil {
		return nil
	}
	return a.zapLogger.Sync()
}

// MaskUsername keeps the first character: "reviewer" -> "r***".
func MaskUsername(name string) string {
	if len(name) < 2 {
		return "***"
	}
	return name[:1] + "***"
}

// HashValue returns a short SHA-256 prefix for logging identifiers without PII.
func HashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:8])
}

func maskValue(subjectType, value string) string {
	switch subjectType {
	case "username":
		return MaskUsername(value)
	case "ip", "submission":
		return value
	default:
		return HashValue(value)
	}
}

func environment() string {
	if os.Getenv("GIN_MODE") == "release" {
		return "production"
	}
	return "development"
}
