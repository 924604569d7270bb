// Package logger provides the process-wide zap logger with package-level
// helpers so call sites stay terse.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

func init() {
	log = build(zapcore.InfoLevel)
}

func build(level zapcore.Level) *zap.Logger {
	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		NameKey:      "logger",
		CallerKey:    "caller",
		MessageKey:   "msg",
		LineEnding:   zapcore.DefaultLineEnding,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(os.Stdout),
		level,
	)

	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

// SetDebug lowers the level threshold to debug.
func SetDebug() {
	log = build(zapcore.DebugLevel)
}

// L returns the underlying zap logger for callers that want typed fields.
func L() *zap.Logger { return zap.New(log.Core()) }

func Debug(msg string, fields ...zap.Field) { log.Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { log.Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { log.Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { log.Error(msg, fields...) }

func Debugf(format string, args ...interface{}) { log.Debug(fmt.Sprintf(format, args...)) }

func Infof(format string, args ...interface{}) { log.Info(fmt.Sprintf(format, args...)) }

func Warnf(format string, args ...interface{}) { log.Warn(fmt.Sprintf(format, args...)) }

func Errorf(format string, args ...interface{}) { log.Error(fmt.Sprintf(format, args...)) }
