package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"bogus":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for input, want := range cases {
		assert.Equal(t, want, ParseLevel(input), "level %q", input)
	}
}

func TestNewWritesJSONToConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger := New(Config{Level: "debug", Format: "json", Console: &console, Path: dir})
	t.Cleanup(func() { _ = logger.Close() })

	WithComponent(logger.Logger, "ledger").Info().Int64("subject_id", 42).Msg("recorded")

	assert.Contains(t, console.String(), `"component":"ledger"`)
	assert.Contains(t, console.String(), `"subject_id":42`)

	data, err := os.ReadFile(filepath.Join(dir, "animesift.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"recorded"`)
}

func TestNewRespectsLevel(t *testing.T) {
	var console bytes.Buffer
	logger := New(Config{Level: "warn", Format: "json", Console: &console})

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "shown")
	assert.NoError(t, logger.Close())
}
