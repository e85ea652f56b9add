package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/goatcast/goatcast/pkg/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{
			name:   "json format info level",
			level:  "INFO",
			format: "json",
		},
		{
			name:   "text format debug level",
			level:  "DEBUG",
			format: "text",
		},
		{
			name:   "invalid level falls back to info",
			level:  "NOISY",
			format: "json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.LoggingConfig{
				Level:  tt.level,
				Format: tt.format,
			}
			if err := InitLogger(cfg); err != nil {
				t.Fatalf("InitLogger() error: %v", err)
			}
			if Logger == nil {
				t.Fatal("InitLogger() left Logger nil")
			}
			if !Logger.Core().Enabled(zapcore.ErrorLevel) {
				t.Error("error level should always be enabled")
			}
		})
	}
}

func TestGetLoggerFallback(t *testing.T) {
	old := Logger
	defer func() { Logger = old }()

	Logger = nil
	if GetLogger() == nil {
		t.Error("GetLogger() should never return nil")
	}
}

func TestWithComponent(t *testing.T) {
	logger := WithComponent("feed-engine")
	if logger == nil {
		t.Fatal("WithComponent() returned nil")
	}
}
