package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextTagsUser(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithConfig(Config{Level: LevelDebug, Format: "json", Writer: &buf}))

	ctx := ContextWithUser(context.Background(), 4242)
	WithContext(ctx).Info("meal logged", "diet_level", "strict")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "meal logged", entry["msg"])
	assert.Equal(t, float64(4242), entry["user_id"])
	assert.Equal(t, "strict", entry["diet_level"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithConfig(Config{Level: LevelWarn, Format: "text", Writer: &buf}))

	Info("hidden")
	Debug("hidden too")
	assert.Zero(t, buf.Len())

	Warn("shown", "k", 1)
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "k=1")
}
