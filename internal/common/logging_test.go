package common

import (
	"bytes"
	"testing"
)

func TestNewLogger_FluentAPI(t *testing.T) {
	logger := NewLogger("error")
	if logger == nil {
		t.Fatal("NewLogger returned nil")
	}
	// Must not panic
	logger.Info().Str("tool", "issue_search").Msg("dispatch")
	logger.Warn().Int("status", 404).Msg("unknown tool")
	logger.Error().Err(nil).Msg("handler fault")
	logger.Debug().Int64("duration_ms", 12).Bool("ok", true).Msg("upstream")
}

func TestNewLoggerFromConfig_DefaultsApplied(t *testing.T) {
	logger := NewLoggerFromConfig(LoggingConfig{})
	if logger == nil {
		t.Fatal("NewLoggerFromConfig returned nil")
	}
	logger.Info().Msg("defaults")
}

func TestNewLoggerWithOutput_WritesToProvidedWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)
	logger.Info().Str("key", "value").Msg("hello")

	if buf.Len() == 0 {
		t.Error("expected output on provided writer")
	}
}

func TestNewSilentLogger_DiscardsOutput(t *testing.T) {
	logger := NewSilentLogger()
	logger.Info().Str("key", "value").Msg("discarded")
	logger.Error().Msg("discarded")
}

func TestWithCorrelationId_ReturnsNewLogger(t *testing.T) {
	base := NewSilentLogger()
	tagged := base.WithCorrelationId("req-1")
	if tagged == nil || tagged == base {
		t.Fatal("expected a distinct logger")
	}
	tagged.Info().Msg("tagged")
}
