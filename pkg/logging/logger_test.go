package logging

import (
	"testing"

	"github.com/chirpnet/chirp/pkg/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"json info", "INFO", "json"},
		{"text debug", "DEBUG", "text"},
		{"invalid level falls back", "bogus", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.LoggingConfig{Level: tt.level, Format: tt.format}
			if err := InitLogger(cfg); err != nil {
				t.Fatalf("Failed to initialize logger: %v", err)
			}
			if Logger == nil {
				t.Fatal("Expected logger to be set")
			}
		})
	}
}

func TestWithComponent(t *testing.T) {
	if err := InitLogger(&config.LoggingConfig{Level: "INFO", Format: "json"}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if WithComponent("feed") == nil {
		t.Fatal("Expected component logger")
	}
}
