package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zvitly/gradewatch-backend/internal/config"
)

// Dialogues are short-lived; an abandoned one expires on its own.
const dialogueTTL = 30 * time.Minute

// RedisStateStore keeps dialogue state in Redis so the bot survives restarts
// mid-dialogue and multiple instances see the same state.
type RedisStateStore struct {
	client *redis.Client
}

// NewRedisStateStore creates a new RedisStateStore.
func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

// Get returns the chat's dialogue state, or ErrNoState.
func (s *RedisStateStore) Get(ctx context.Context, chatID int64) (*DialogueState, error) {
	data, err := s.client.Get(ctx, config.CacheKey.RegistrationStateKey(chatID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoState
		}
		return nil, err
	}

	var state DialogueState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Set stores the chat's dialogue state.
func (s *RedisStateStore) Set(ctx context.Context, chatID int64, state *DialogueState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, config.CacheKey.RegistrationStateKey(chatID), data, dialogueTTL).Err()
}

// Clear removes the chat's dialogue state.
func (s *RedisStateStore) Clear(ctx context.Context, chatID int64) error {
	return s.client.Del(ctx, config.CacheKey.RegistrationStateKey(chatID)).Err()
}
