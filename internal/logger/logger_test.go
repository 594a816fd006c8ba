package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hyperjump/ragassist/internal/config"
)

func testSettings(t *testing.T, level string) config.Settings {
	t.Helper()
	return config.Settings{
		HFToken:  "hf_abc123",
		LogFile:  filepath.Join(t.TempDir(), "nested", "logs", "app.log"),
		LogLevel: level,
	}
}

func TestFactory_GetCreatesDirectoryAndFile(t *testing.T) {
	s := testSettings(t, "INFO")
	f := NewFactory(s, WithConsole(&bytes.Buffer{}))
	defer f.Close()

	if _, err := os.Stat(filepath.Dir(s.LogFile)); !os.IsNotExist(err) {
		t.Fatalf("log directory should not exist before Get: %v", err)
	}
	if _, err := f.Get("research"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(s.LogFile); err != nil {
		t.Errorf("log file should exist after Get: %v", err)
	}
}

func TestFactory_GetIsIdempotent(t *testing.T) {
	f := NewFactory(testSettings(t, "INFO"), WithConsole(&bytes.Buffer{}))
	defer f.Close()

	first, err := f.Get("research")
	if err != nil {
		t.Fatal(err)
	}
	afterFirst := f.Sinks("research")
	second, err := f.Get("research")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("Get should return the same logger for the same name")
	}
	if got := f.Sinks("research"); got != afterFirst || got != 2 {
		t.Errorf("sinks after second Get = %d, after first = %d, want 2", got, afterFirst)
	}
	if f.Sinks("other") != 0 {
		t.Error("unknown logger should have no sinks")
	}
}

func TestFactory_GetConcurrentFirstUse(t *testing.T) {
	f := NewFactory(testSettings(t, "INFO"), WithConsole(&bytes.Buffer{}))
	defer f.Close()

	const workers = 16
	loggers := make([]*zap.Logger, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l, err := f.Get("shared")
			if err != nil {
				t.Error(err)
				return
			}
			loggers[i] = l
		}(i)
	}
	wg.Wait()
	for i := 1; i < workers; i++ {
		if loggers[i] != loggers[0] {
			t.Fatalf("worker %d got a different logger", i)
		}
	}
	if got := f.Sinks("shared"); got != 2 {
		t.Errorf("sinks = %d, want 2", got)
	}
}

func TestFactory_WritesLineFormatToBothSinks(t *testing.T) {
	s := testSettings(t, "info")
	var console bytes.Buffer
	f := NewFactory(s, WithConsole(&console))

	l, err := f.Get("app.ingest")
	if err != nil {
		t.Fatal(err)
	}
	l.Info("Logger initialized successfully.")
	l.Debug("hidden at info level")
	l.Warn("Test warning message.", zap.Int("top_k", 5))
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(s.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	for name, out := range map[string]string{"file": string(data), "console": console.String()} {
		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 2 {
			t.Fatalf("%s: got %d lines, want 2:\n%s", name, len(lines), out)
		}
		if !strings.HasPrefix(lines[0], "[") || !strings.Contains(lines[0], "] [INFO] app.ingest: Logger initialized successfully.") {
			t.Errorf("%s: unexpected info line %q", name, lines[0])
		}
		if !strings.Contains(lines[1], "[WARN] app.ingest: Test warning message.") || !strings.Contains(lines[1], `"top_k": 5`) {
			t.Errorf("%s: unexpected warn line %q", name, lines[1])
		}
	}
}

func TestFactory_AppendsToExistingFile(t *testing.T) {
	s := testSettings(t, "INFO")
	if err := os.MkdirAll(filepath.Dir(s.LogFile), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.LogFile, []byte("previous run\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f := NewFactory(s, WithConsole(&bytes.Buffer{}))
	l, err := f.Get("research")
	if err != nil {
		t.Fatal(err)
	}
	l.Error("Test error message.")
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(s.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "previous run\n") {
		t.Errorf("existing content should be preserved, got %q", data)
	}
	if !strings.Contains(string(data), "[ERROR] research: Test error message.") {
		t.Errorf("new entry missing, got %q", data)
	}
}

func TestFactory_LevelFiltersBothSinks(t *testing.T) {
	s := testSettings(t, "WARNING")
	var console bytes.Buffer
	f := NewFactory(s, WithConsole(&console))
	l, err := f.Get("quiet")
	if err != nil {
		t.Fatal(err)
	}
	l.Info("dropped")
	l.Warn("kept")
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(s.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	for name, out := range map[string]string{"file": string(data), "console": console.String()} {
		if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
			t.Errorf("%s: level filter not applied: %q", name, out)
		}
	}
}

func TestFactory_GetFailsWhenDirectoryCannotBeCreated(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	f := NewFactory(config.Settings{LogFile: filepath.Join(blocker, "logs", "app.log")}, WithConsole(&bytes.Buffer{}))
	if _, err := f.Get("research"); err == nil {
		t.Fatal("expected error when the log directory cannot be created")
	}
	if f.Sinks("research") != 0 {
		t.Error("failed Get must not register a logger")
	}
}

func TestFactory_GetAfterCloseReopens(t *testing.T) {
	s := testSettings(t, "INFO")
	f := NewFactory(s, WithConsole(&bytes.Buffer{}))
	before, err := f.Get("research")
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	l, err := f.Get("research")
	if err != nil {
		t.Fatal(err)
	}
	if l == before {
		t.Error("Get after Close should build a new logger on the reopened file")
	}
	l.Info("after reopen")
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(s.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "after reopen") {
		t.Errorf("expected entry after reopen, got %q", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"INFO", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"Warning", zapcore.WarnLevel},
		{"warn", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"CRITICAL", zapcore.FatalLevel},
		{"NOTSET", zapcore.DebugLevel},
		{"panic", zapcore.InfoLevel},
		{"DPANIC", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFactory_GetFailsWhenFileCannotBeOpened(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "app.log")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	f := NewFactory(config.Settings{LogFile: dir}, WithConsole(&bytes.Buffer{}))
	if _, err := f.Get("research"); err == nil {
		t.Fatal("expected error when the log file path is a directory")
	}
	if f.Sinks("research") != 0 {
		t.Error("failed Get must not register a logger")
	}
}

// syncWriter is a console writer whose Sync returns err.
type syncWriter struct {
	bytes.Buffer
	err error
}

func (w *syncWriter) Sync() error { return w.err }

func TestFactory_SyncIgnoresUnsyncableConsole(t *testing.T) {
	for name, errno := range map[string]syscall.Errno{"einval": syscall.EINVAL, "enotty": syscall.ENOTTY} {
		t.Run(name, func(t *testing.T) {
			console := &syncWriter{err: &os.PathError{Op: "sync", Path: "/dev/stderr", Err: errno}}
			f := NewFactory(testSettings(t, "INFO"), WithConsole(console))
			defer f.Close()
			l, err := f.Get("research")
			if err != nil {
				t.Fatal(err)
			}
			l.Info("flushed")
			if err := f.Sync(); err != nil {
				t.Errorf("Sync() = %v, want nil", err)
			}
		})
	}
}

func TestFactory_SyncReportsConsoleFailure(t *testing.T) {
	console := &syncWriter{err: &os.PathError{Op: "sync", Path: "/dev/stderr", Err: syscall.EIO}}
	f := NewFactory(testSettings(t, "INFO"), WithConsole(console))
	defer f.Close()
	if _, err := f.Get("research"); err != nil {
		t.Fatal(err)
	}
	if err := f.Sync(); !errors.Is(err, syscall.EIO) {
		t.Errorf("Sync() = %v, want EIO", err)
	}
}
