package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls the level and encoding of the process logger.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Format is console or json.
	Format string
	// Output defaults to stderr so that command output on stdout stays clean.
	Output io.Writer
}

// New builds a zap logger from cfg.
func New(cfg Config) *zap.Logger {
	level := zap.NewAtomicLevel()
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "warn":
		level.SetLevel(zapcore.WarnLevel)
	case "error":
		level.SetLevel(zapcore.ErrorLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if strings.ToLower(cfg.Format) == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var out io.Writer = os.Stderr
	if cfg.Output != nil {
		out = cfg.Output
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(out), level)
	return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))
}

// ValidLevel reports whether name is a level New understands.
func ValidLevel(name string) bool {
	switch strings.ToLower(name) {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// ValidFormat reports whether name is a known encoding.
func ValidFormat(name string) bool {
	switch strings.ToLower(name) {
	case "console", "json":
		return true
	}
	return false
}
