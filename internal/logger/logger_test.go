package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

func restoreLogger(t *testing.T) {
	t.Helper()
	level, formatter := Logger.GetLevel(), Logger.Formatter
	t.Cleanup(func() {
		Logger.SetLevel(level)
		Logger.SetFormatter(formatter)
		Logger.SetOutput(os.Stdout)
	})
}

func TestSetLevel(t *testing.T) {
	restoreLogger(t)

	tests := []struct {
		input    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"DEBUG", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"", logrus.InfoLevel},
		{"verbose", logrus.InfoLevel},
	}

	for _, tt := range tests {
		SetLevel(tt.input)
		if got := Logger.GetLevel(); got != tt.expected {
			t.Errorf("SetLevel(%q) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestConfigure_Formats(t *testing.T) {
	restoreLogger(t)

	Configure("warn", "TEXT")
	if _, ok := Logger.Formatter.(*logrus.TextFormatter); !ok {
		t.Errorf("Expected text formatter, got %T", Logger.Formatter)
	}
	if Logger.GetLevel() != logrus.WarnLevel {
		t.Errorf("Expected warn level, got %s", Logger.GetLevel())
	}

	Configure("info", "")
	if _, ok := Logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("Expected JSON formatter, got %T", Logger.Formatter)
	}
}

func TestComponent(t *testing.T) {
	restoreLogger(t)
	Configure("info", "json")

	var buf bytes.Buffer
	SetOutput(&buf)
	Component("capture").WithField("fps", 30).Info("Capture rate")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON line, got %q", buf.String())
	}
	if entry["component"] != "capture" || entry["msg"] != "Capture rate" || entry["fps"] != float64(30) {
		t.Errorf("Unexpected entry: %v", entry)
	}
}
