// Package observability wires structured logging for the CLI and server.
package observability

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLILogger is the process-wide logger. It starts as a no-op so packages
// can log before InitCLILogger runs (e.g. during flag parsing errors).
var CLILogger = zap.NewNop()

// InitCLILogger builds the process logger.
//
// level is a zap level name ("debug", "info", "warn", "error").
// profile selects the encoder: "STRUCTURED" emits JSON lines, "CONSOLE"
// emits human-readable output. Both write to stderr so command output on
// stdout stays machine-consumable.
func InitCLILogger(level, profile string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	switch strings.ToUpper(profile) {
	case "", "STRUCTURED":
		cfg.Encoding = "json"
	case "CONSOLE", "HUMAN":
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	default:
		return fmt.Errorf("unknown logging profile %q", profile)
	}

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	CLILogger = logger
	return nil
}

// Sync flushes buffered log entries. Errors are ignored; stderr sync
// failures are not actionable.
func Sync() {
	_ = CLILogger.Sync()
}
