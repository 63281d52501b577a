package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "warn")
	require.NoError(t, err)

	ctx := context.Background()
	log.Debug(ctx, "drop me")
	log.Info(ctx, "drop me too")
	log.Warn(ctx, "kept warning")
	log.Error(ctx, "kept error")

	out := buf.String()
	assert.NotContains(t, out, "drop me")
	assert.Contains(t, out, "kept warning")
	assert.Contains(t, out, "kept error")
}

func TestNew_LevelAliases(t *testing.T) {
	for _, lvl := range []string{"", "info", "INFO", " warning ", "debug", "error"} {
		_, err := New(&bytes.Buffer{}, lvl)
		assert.NoError(t, err, "level %q", lvl)
	}

	_, err := New(&bytes.Buffer{}, "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info")
	require.NoError(t, err)

	log.Info(context.Background(), "detected",
		String("body", "mercury"),
		Int("count", 4),
		Float64("orb", 1.5),
		Error(errors.New("boom")),
	)

	out := buf.String()
	assert.Contains(t, out, "body=mercury")
	assert.Contains(t, out, "count=4")
	assert.Contains(t, out, "orb=1.5")
	assert.Contains(t, out, "error=boom")
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info")
	require.NoError(t, err)

	log.Named("aspects").Info(context.Background(), "scan done", Int("events", 7))

	// WithGroup scopes the attrs, not the message.
	assert.Contains(t, buf.String(), "aspects.events=7")
	assert.Contains(t, buf.String(), "scan done")
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Info(context.Background(), "silent")
	log.Named("sub").Error(context.Background(), "still silent")
}
