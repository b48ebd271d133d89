package logging

import (
	"testing"

	"randrd/internal/config"
)

func TestNewSupportsBothFormats(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		logger, err := New(Options{Level: "debug", Format: format})
		if err != nil {
			t.Fatalf("New(%s): %v", format, err)
		}
		logger.Debug("probe")
		_ = logger.Sync()
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Options{Level: "trace"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewFromConfigUsesDefaultsForNil(t *testing.T) {
	logger, err := NewFromConfig(nil)
	if err != nil {
		t.Fatalf("NewFromConfig(nil): %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger")
	}
}

func TestNewFromConfigHonorsConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "warn"
	cfg.Logging.Format = "json"
	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if logger.Core().Enabled(0) { // 0 == InfoLevel
		t.Fatal("expected info to be disabled at warn level")
	}
}
