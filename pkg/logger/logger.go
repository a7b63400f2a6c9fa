package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu   sync.RWMutex
	base = zap.NewNop()

	serviceName = "default"
)

func SetServiceName(newName string) string {
	mu.Lock()
	defer mu.Unlock()

	oldName := serviceName
	serviceName = newName

	return oldName
}

// Init собирает production-логгер с нужным уровнем.
// До вызова Init все сообщения уходят в nop-логгер.
func Init(level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.Set(level); err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	Set(l)

	return l, nil
}

// Set подменяет базовый логгер (в тестах удобно передать zaptest/observer).
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	base = l
	mu.Unlock()
}

// L возвращает логгер с полем service.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With(zap.String("service", serviceName))
}

func Sync() { _ = L().Sync() }

func Debug(format string, args ...interface{}) {
	L().Debug(fmt.Sprintf(format, args...))
}

func Info(format string, args ...interface{}) {
	L().Info(fmt.Sprintf(format, args...))
}

func Warn(format string, args ...interface{}) {
	L().Warn(fmt.Sprintf(format, args...))
}

func Error(format string, args ...interface{}) {
	L().Error(fmt.Sprintf(format, args...))
}

func Fatal(format string, args ...interface{}) {
	L().Fatal(fmt.Sprintf(format, args...))
}
