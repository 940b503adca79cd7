package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "warn")
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Str("input", "junk").Msg("bad request line")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "bad request line")
	assert.Contains(t, out, "input=junk")
}

func TestNewDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "")
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewBadLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud")
	assert.Error(t, err)
}

func TestVerbosity(t *testing.T) {
	assert.Equal(t, "info", Verbosity(false, false))
	assert.Equal(t, "error", Verbosity(true, false))
	assert.Equal(t, "debug", Verbosity(false, true))
}
