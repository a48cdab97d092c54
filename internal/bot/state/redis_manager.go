package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
	"github.com/vladimiradmaev/carnivore-helper/internal/logger"
)

// stateTTL drops abandoned conversations.
const stateTTL = 24 * time.Hour

// RedisManager manages user states using Redis
type RedisManager struct {
	client  *redis.Client
	timeout time.Duration
}

var _ StateManager = (*RedisManager)(nil)

// NewRedisManager connects to addr and pings it.
func NewRedisManager(addr string) (*RedisManager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           0,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, apperrors.NewExternalAPIError(fmt.Errorf("failed to connect to Redis: %w", err), "redis")
	}

	return newRedisManager(client), nil
}

func newRedisManager(client *redis.Client) *RedisManager {
	return &RedisManager{client: client, timeout: 3 * time.Second}
}

func stateKey(userID int64) string { return fmt.Sprintf("user:%d:state", userID) }
func tempKey(userID int64) string  { return fmt.Sprintf("user:%d:temp", userID) }

func (m *RedisManager) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.timeout)
}

func logRedisErr(op string, userID int64, err error) {
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.Warn("Redis state operation failed", "op", op, "user_id", userID, "error", err)
	}
}

// SetUserState sets the state for a user with TTL
func (m *RedisManager) SetUserState(userID int64, state string) {
	ctx, cancel := m.ctx()
	defer cancel()
	if state == None {
		logRedisErr("del_state", userID, m.client.Del(ctx, stateKey(userID)).Err())
		return
	}
	logRedisErr("set_state", userID, m.client.Set(ctx, stateKey(userID), state, stateTTL).Err())
}

// GetUserState falls back to None on a miss or any Redis error.
func (m *RedisManager) GetUserState(userID int64) string {
	ctx, cancel := m.ctx()
	defer cancel()
	val, err := m.client.Get(ctx, stateKey(userID)).Result()
	if err != nil {
		logRedisErr("get_state", userID, err)
		return None
	}
	return val
}

// ClearUserState clears the state for a user
func (m *RedisManager) ClearUserState(userID int64) {
	m.SetUserState(userID, None)
}

// SetTempData stores one field of the user's temp hash and refreshes its TTL.
func (m *RedisManager) SetTempData(userID int64, key string, value string) {
	ctx, cancel := m.ctx()
	defer cancel()
	pipe := m.client.TxPipeline()
	pipe.HSet(ctx, tempKey(userID), key, value)
	pipe.Expire(ctx, tempKey(userID), stateTTL)
	_, err := pipe.Exec(ctx)
	logRedisErr("set_temp", userID, err)
}

// GetTempData gets temporary data for a user
func (m *RedisManager) GetTempData(userID int64, key string) (string, bool) {
	ctx, cancel := m.ctx()
	defer cancel()
	val, err := m.client.HGet(ctx, tempKey(userID), key).Result()
	if err != nil {
		logRedisErr("get_temp", userID, err)
		return "", false
	}
	return val, true
}

// ClearTempData clears all temporary data for a user
func (m *RedisManager) ClearTempData(userID int64) {
	ctx, cancel := m.ctx()
	defer cancel()
	logRedisErr("del_temp", userID, m.client.Del(ctx, tempKey(userID)).Err())
}

// Close closes the Redis connection
func (m *RedisManager) Close() error {
	return m.client.Close()
}
