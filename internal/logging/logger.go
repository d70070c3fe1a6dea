package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level enumerates supported logging granularities.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format enumerates supported logger output encodings.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

var levelMapping = map[Level]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

// Factory builds zap loggers with consistent configuration.
type Factory struct {
	// OutputPaths defaults to stderr so that log lines never mix with prompts.
	OutputPaths []string
}

// NewFactory constructs a logger factory writing to stderr.
func NewFactory() *Factory {
	return &Factory{OutputPaths: []string{"stderr"}}
}

// CreateLogger produces a zap.Logger honoring the requested level and format.
func (f *Factory) CreateLogger(level Level, format Format) (*zap.Logger, error) {
	zapLevel, ok := levelMapping[level]
	if !ok {
		return nil, fmt.Errorf("unsupported log level: %s", level)
	}
	var cfg zap.Config
	switch format {
	case FormatConsole:
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	case FormatJSON:
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.OutputPaths = f.OutputPaths
	cfg.ErrorOutputPaths = f.OutputPaths
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
