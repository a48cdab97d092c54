package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
)

func TestRateLimiterBurstPerUser(t *testing.T) {
	rl := NewRateLimiter(1, 2)

	require.NoError(t, rl.Allow(1))
	require.NoError(t, rl.Allow(1))
	assert.ErrorIs(t, rl.Allow(1), apperrors.ErrRateLimitExceeded)

	assert.NoError(t, rl.Allow(2))
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		require.NoError(t, rl.Allow(7))
	}
}
