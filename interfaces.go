package redisclient

import "time"

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

// F builds a log field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger interface for custom logging implementations
type Logger interface {
	// Debug logs a debug message with optional fields
	Debug(msg string, fields ...Field)

	// Info logs an info message with optional fields
	Info(msg string, fields ...Field)

	// Error logs an error message with optional fields
	Error(msg string, fields ...Field)
}

// MetricsCollector interface for driver metrics
type MetricsCollector interface {
	// RecordCommand records one completed command exchange with its duration
	RecordCommand(verb string, duration time.Duration)

	// RecordConnect records a successful connection establishment
	RecordConnect()

	// RecordReconnection records an explicit reconnect
	RecordReconnection()

	// RecordSentinelRound records one full pass over the sentinel endpoint list
	RecordSentinelRound()

	// RecordError records an error by category
	RecordError(errorType string)
}

// nopLogger discards all log output. It is the default so the driver is
// silent unless a logger is supplied.
type nopLogger struct{}

func (nopLogger) Debug(msg string, fields ...Field) {}
func (nopLogger) Info(msg string, fields ...Field)  {}
func (nopLogger) Error(msg string, fields ...Field) {}

// nopMetrics discards all metrics.
type nopMetrics struct{}

func (nopMetrics) RecordCommand(verb string, duration time.Duration) {}
func (nopMetrics) RecordConnect()                                    {}
func (nopMetrics) RecordReconnection()                               {}
func (nopMetrics) RecordSentinelRound()                              {}
func (nopMetrics) RecordError(errorType string)                      {}
