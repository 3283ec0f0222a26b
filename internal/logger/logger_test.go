package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	err := Init(Config{
		Debug:     false,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message", "pillar", "BODY")
	Error("Test error message")

	data, err := os.ReadFile(filepath.Join(logDir, "pillars.log"))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "Test info message") {
		t.Errorf("info message should be filtered at warn level, got %q", out)
	}
	if !strings.Contains(out, "Test warning message") {
		t.Errorf("warning message missing from log file, got %q", out)
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestLevel(t *testing.T) {
	tests := []struct {
		cfg  Config
		want log.Level
	}{
		{Config{}, log.WarnLevel},
		{Config{Level: "info"}, log.InfoLevel},
		{Config{Level: " ERROR "}, log.ErrorLevel},
		{Config{Level: "bogus"}, log.WarnLevel},
		{Config{Level: "error", Debug: true}, log.DebugLevel},
	}
	for _, tt := range tests {
		if got := tt.cfg.level(); got != tt.want {
			t.Errorf("level(%+v) = %v, want %v", tt.cfg, got, tt.want)
		}
	}
}
