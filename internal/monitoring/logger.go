package monitoring

import (
	"log/slog"
	"os"
	"time"
)

// Logger provides structured logging with domain-specific helpers
type Logger struct {
	*slog.Logger
}

// NewLogger creates a JSON logger writing to stdout
func NewLogger() *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})

	return &Logger{Logger: slog.New(handler)}
}

// RequestLogger logs HTTP request details
func (l *Logger) RequestLogger(method, path, ip string, statusCode int, duration time.Duration) {
	l.Info("HTTP Request",
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// EvaluationLogger logs the outcome of one safety gate evaluation
func (l *Logger) EvaluationLogger(dataset string, overallRisk float64, riskLevel string, shouldDeploy bool, duration time.Duration) {
	l.Info("Safety Evaluation",
		"dataset", dataset,
		"overall_risk", overallRisk,
		"risk_level", riskLevel,
		"should_deploy", shouldDeploy,
		"duration_ms", duration.Milliseconds(),
	)
}

// AlertLogger logs a threshold-violation alert as it fires
func (l *Logger) AlertLogger(alert Alert) {
	l.Warn("Metric Alert",
		"severity", string(alert.Severity),
		"metric", alert.MetricName,
		"value", alert.CurrentValue,
		"threshold", alert.Threshold,
		"message", alert.Message,
	)
}

// APIErrorLogger logs API errors with request context
func (l *Logger) APIErrorLogger(err error, method, path, ip string, statusCode int) {
	l.Error("API Error",
		"error", err.Error(),
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
	)
}

// SystemLogger logs system-level events
func (l *Logger) SystemLogger(event, details string) {
	l.Info("System Event",
		"event", event,
		"details", details,
		"uptime", time.Since(startTime).String(),
	)
}

var startTime = time.Now()
