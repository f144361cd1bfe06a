// Package log provides the prefixed, colored console logger used by every
// component of the service.
package log

import (
	"errors"
	"fmt"
	"io"

	"github.com/beka-birhanu/wilson-render/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ErrNilWriter = errors.New("logger writer is nil")

// Logger writes leveled lines tagged with a colored component name.
type Logger struct {
	zl *zap.Logger
}

// New creates a Logger that tags lines with prefix rendered in color.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if w == nil {
		return nil, ErrNilWriter
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "name",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05"),
		EncodeLevel:      levelEncoder,
		EncodeName:       nameEncoder(color),
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)

	return &Logger{zl: zap.New(core).Named(prefix)}, nil
}

func nameEncoder(color string) zapcore.NameEncoder {
	return func(name string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(fmt.Sprintf("%s[%s]%s", color, name, config.ColorReset))
	}
}

func levelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch l {
	case zapcore.ErrorLevel:
		enc.AppendString(config.LogErrorColor + "[ERROR]" + config.LogColorReset)
	case zapcore.WarnLevel:
		enc.AppendString(config.LogWarnColor + "[WARNING]" + config.LogColorReset)
	case zapcore.InfoLevel:
		enc.AppendString(config.LogInfoColor + "[INFO]" + config.LogColorReset)
	default:
		enc.AppendString("[" + l.CapitalString() + "]")
	}
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.zl.Info(msg)
}

// Warning logs a recoverable problem.
func (l *Logger) Warning(msg string) {
	l.zl.Warn(msg)
}

// Error logs a failure.
func (l *Logger) Error(msg string) {
	l.zl.Error(msg)
}

// Debug logs diagnostic detail.
func (l *Logger) Debug(msg string) {
	l.zl.Debug(msg)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zl.Sync()
}
