package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{" Info ", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"invalid", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr && err == nil {
				t.Errorf("expected error for input %q", tt.input)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for input %q: %v", tt.input, err)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("expected %v, got %v for input %q", tt.expected, got, tt.input)
			}
		})
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(LevelWarn)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	output := buf.String()
	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Errorf("messages below WARN should be dropped, got %q", output)
	}
	if !strings.Contains(output, "[WARN] warn message") {
		t.Error("warn message should be logged at WARN level")
	}
	if !strings.Contains(output, "[ERROR] error message") {
		t.Error("error message should be logged at WARN level")
	}
}

func TestLogger_EnvVars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "estimator.log")
	t.Setenv(EnvLevel, "debug")
	t.Setenv(EnvFile, path)

	l := New()
	if l.level != LevelDebug {
		t.Errorf("expected debug level from env var, got %v", l.level)
	}

	l.Debug("zip %s accepted", "98101")
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "[DEBUG] zip 98101 accepted") {
		t.Errorf("log file missing message, got %q", content)
	}
}

func TestLogger_Configure(t *testing.T) {
	t.Setenv(EnvLevel, "")
	t.Setenv(EnvFile, "")
	l := New()

	if err := l.Configure("bogus", ""); err == nil {
		t.Error("expected error for invalid level")
	}

	path := filepath.Join(t.TempDir(), "configured.log")
	if err := l.Configure("error", path); err != nil {
		t.Fatalf("configure: %v", err)
	}
	l.Warn("dropped")
	l.Error("kept")
	_ = l.Close()

	content, _ := os.ReadFile(path)
	if strings.Contains(string(content), "dropped") || !strings.Contains(string(content), "kept") {
		t.Errorf("unexpected log content %q", content)
	}

	// Closing twice is harmless
	if err := l.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	var buf bytes.Buffer
	Default.SetOutput(&buf)
	Default.SetLevel(LevelDebug)
	defer Default.SetLevel(LevelInfo)

	Debug("debug %s", "test")
	Info("info %s", "test")
	Warn("warn %s", "test")
	Error("error %s", "test")

	output := buf.String()
	for _, want := range []string{"debug test", "info test", "warn test", "error test"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q", want)
		}
	}
}
