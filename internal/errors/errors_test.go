package errors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorIsMatchesTypeAndCode(t *testing.T) {
	err := NewInvalidError(CodeInvalidSeverity, "severity %d out of range", 7)

	assert.True(t, errors.Is(err, New(ErrorTypeValidation, CodeInvalidSeverity, "")))
	assert.False(t, errors.Is(err, New(ErrorTypeValidation, CodeInvalidInput, "")))
	assert.Equal(t, CodeInvalidSeverity, CodeOf(fmt.Errorf("wrapped: %w", err)))
	assert.True(t, IsType(err, ErrorTypeValidation))
	assert.Contains(t, err.Error(), "severity 7 out of range")
}

func TestWrapUnwrapsInternal(t *testing.T) {
	base := errors.New("connection refused")
	err := NewDatabaseError(base)

	assert.ErrorIs(t, err, base)
	assert.True(t, errors.Is(err, ErrDatabaseError))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSchemaErrorListsProblems(t *testing.T) {
	err := NewSchemaError([]string{"missing summary", "calories cannot be negative"})

	assert.Equal(t, CodeInvalidSchema, err.Code)
	assert.Equal(t, "missing summary; calories cannot be negative", err.Message)
	assert.Len(t, err.Context["problems"], 2)
}

func TestHandlerLogsByType(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewTextHandler(&buf, nil)))

	h.Handle(context.Background(), nil)
	assert.Zero(t, buf.Len())

	h.Handle(context.Background(), ErrRateLimitExceeded)
	require.Contains(t, buf.String(), "Rate limit error")

	buf.Reset()
	h.Handle(context.Background(), errors.New("boom"))
	assert.Contains(t, buf.String(), "Unhandled error")
}

func TestConstructorsMatchSentinels(t *testing.T) {
	timeout := NewTimeoutError(context.DeadlineExceeded, "gemini")
	assert.ErrorIs(t, timeout, ErrTimeout)
	assert.ErrorIs(t, timeout, context.DeadlineExceeded)
	assert.Equal(t, "gemini", timeout.Context["operation"])

	assert.ErrorIs(t, NewExternalAPIError(errors.New("503"), "openai"), ErrExternalAPI)
	assert.NotErrorIs(t, NewExternalAPIError(errors.New("503"), "openai"), ErrTimeout)
}
