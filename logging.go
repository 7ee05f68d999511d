package redisclient

import "go.uber.org/zap"

// zapLogger adapts a zap.Logger to the driver's Logger interface.
type zapLogger struct {
	l *zap.Logger
}

// NewZapLogger wraps a zap logger so it can be passed to WithLogger.
//
// Example:
//
//	z, _ := zap.NewProduction()
//	conn, err := redisclient.Connect(
//		redisclient.WithAddr("localhost", 6379),
//		redisclient.WithLogger(redisclient.NewZapLogger(z)),
//	)
func NewZapLogger(l *zap.Logger) Logger {
	return &zapLogger{l: l}
}

func (z *zapLogger) Debug(msg string, fields ...Field) {
	z.l.Debug(msg, zapFields(fields)...)
}

func (z *zapLogger) Info(msg string, fields ...Field) {
	z.l.Info(msg, zapFields(fields)...)
}

func (z *zapLogger) Error(msg string, fields ...Field) {
	z.l.Error(msg, zapFields(fields)...)
}

func zapFields(fields []Field) []zap.Field {
	zf := make([]zap.Field, len(fields))
	for i, f := range fields {
		zf[i] = zap.Any(f.Key, f.Value)
	}
	return zf
}
