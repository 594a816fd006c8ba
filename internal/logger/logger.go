// Package logger hands out named zap loggers that write to the console and to
// the log file configured in config.Settings.
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hyperjump/ragassist/internal/config"
)

// TimeLayout is the timestamp layout of every log line.
const TimeLayout = "2006-01-02 15:04:05,000"

type entry struct {
	logger *zap.Logger
	sinks  int
}

// Factory is a registry of named loggers. Each name gets its sinks attached
// exactly once; later calls return the same logger.
type Factory struct {
	settings config.Settings
	console  zapcore.WriteSyncer

	mu      sync.Mutex
	file    *os.File
	loggers map[string]*entry
}

// Option configures a Factory.
type Option func(*Factory)

// WithConsole sets the console sink writer. Defaults to os.Stderr.
func WithConsole(w io.Writer) Option {
	return func(f *Factory) {
		f.console = zapcore.Lock(consoleSyncer{zapcore.AddSync(w)})
	}
}

// consoleSyncer drops the errors terminals and pipes return from fsync.
type consoleSyncer struct {
	zapcore.WriteSyncer
}

func (c consoleSyncer) Sync() error {
	err := c.WriteSyncer.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}

// NewFactory creates a Factory for settings. No file is touched until Get is called.
func NewFactory(settings config.Settings, opts ...Option) *Factory {
	f := &Factory{
		settings: settings,
		console:  zapcore.Lock(consoleSyncer{os.Stderr}),
		loggers:  make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ParseLevel resolves a level name case-insensitively. "notset", "warning" and
// "critical" are accepted as aliases; empty or unknown names resolve to info.
func ParseLevel(name string) zapcore.Level {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "notset":
		return zapcore.DebugLevel
	case "warning":
		return zapcore.WarnLevel
	case "critical":
		return zapcore.FatalLevel
	case "dpanic", "panic":
		return zapcore.InfoLevel
	default:
		level, err := zapcore.ParseLevel(n)
		if err != nil {
			return zapcore.InfoLevel
		}
		return level
	}
}

// Get returns the logger registered under name, creating it with a console
// sink and a file sink on first use. The log directory is created if missing.
func (f *Factory) Get(name string) (*zap.Logger, error) {
	path := f.settings.LogFile
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory for %s: %w", path, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if e, ok := f.loggers[name]; ok {
		return e.logger, nil
	}

	if f.file == nil {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		f.file = file
	}

	level := ParseLevel(f.settings.LogLevel)
	enc := zapcore.NewConsoleEncoder(lineEncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(enc, f.console, level),
		zapcore.NewCore(enc.Clone(), zapcore.Lock(f.file), level),
	}
	l := zap.New(zapcore.NewTee(cores...)).Named(name)
	f.loggers[name] = &entry{logger: l, sinks: len(cores)}
	return l, nil
}

// Sinks reports how many sinks are attached to the logger named name.
func (f *Factory) Sinks(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.loggers[name]; ok {
		return e.sinks
	}
	return 0
}

// Sync flushes every registered logger. Console sinks that cannot be synced
// (terminals, pipes) are not reported.
func (f *Factory) Sync() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var firstErr error
	for _, e := range f.loggers {
		if err := e.logger.Sync(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close flushes the loggers and closes the log file. The registry is reset, so
// a later Get reopens the file and returns new loggers. Loggers obtained before
// Close keep writing to the console, but their file writes fail and are only
// reported to zap's error output.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.loggers {
		_ = e.logger.Sync()
	}
	f.loggers = make(map[string]*entry)
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	if err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}

// lineEncoderConfig renders "[time] [LEVEL] name: message" followed by any fields.
func lineEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: " ",
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("[" + t.Format(TimeLayout) + "]")
		},
		EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("[" + l.CapitalString() + "]")
		},
		EncodeName: func(name string, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(name + ":")
		},
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}
