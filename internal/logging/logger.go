// Package logging builds the zap loggers used by the CLI and the TUI.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls where and how much the logger writes.
type Options struct {
	// Verbose enables debug level output.
	Verbose bool
	// Format is "console" or "json". Empty means console.
	Format string
	// Output receives log lines. Nil means stderr.
	Output io.Writer
}

// Level returns the minimum level for the options.
func (o Options) Level() zapcore.Level {
	if o.Verbose {
		return zapcore.DebugLevel
	}
	return zapcore.WarnLevel
}

// New creates a logger from options.
func New(opts Options) (*zap.Logger, error) {
	encoder, err := newEncoder(opts.Format)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(out), opts.Level())
	return zap.New(core), nil
}

// NewFile creates a logger that appends to path, creating parent
// directories as needed. The returned close func syncs and closes the file.
func NewFile(path string, opts Options) (*zap.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	opts.Output = f
	logger, err := New(opts)
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	closeFn := func() error {
		_ = Sync(logger)
		return f.Close()
	}
	return logger, closeFn, nil
}

// newEncoder creates JSON or console encoder.
func newEncoder(format string) (zapcore.Encoder, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	switch format {
	case "", "console":
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encoderCfg), nil
	case "json":
		return zapcore.NewJSONEncoder(encoderCfg), nil
	default:
		return nil, fmt.Errorf("format must be 'json' or 'console', got %q", format)
	}
}

// Sync flushes any buffered log entries.
func Sync(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}
	err := logger.Sync()
	// Ignore sync errors on stdout/stderr (common on Linux)
	if err != nil && isStdoutSyncError(err) {
		return nil
	}
	return err
}

// isStdoutSyncError checks if error is harmless stdout/stderr sync error.
func isStdoutSyncError(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EINVAL || errno == syscall.ENOTTY
	}
	return false
}
