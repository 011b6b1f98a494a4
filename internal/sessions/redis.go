package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const KEY_PREFIX = "recipebot:session:"

// RedisStore shares sessions between webhook instances. Entries expire after
// TTL of inactivity.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
}

// NewRedisStore connects and verifies the server is reachable.
func NewRedisStore(ctx context.Context, addr string, password string, db int, ttl time.Duration, logger *zap.Logger) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.Info("Redis session store connected", zap.String("addr", addr))
	if ttl <= 0 {
		ttl = DEFAULT_TTL
	}
	return &RedisStore{Client: rdb, TTL: ttl, Logger: logger}, nil
}

func _key(userId string) string {
	return KEY_PREFIX + userId
}

func (rs *RedisStore) Get(ctx context.Context, userId string, chatId int64) (*Session, error) {
	payload, err := rs.Client.Get(ctx, _key(userId)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewSession(userId, chatId), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		rs.Logger.Warn("Discarding unreadable session", zap.String("userId", userId), zap.Error(err))
		return NewSession(userId, chatId), nil
	}
	session.ChatId = chatId
	return &session, nil
}

func (rs *RedisStore) Save(ctx context.Context, session *Session) error {
	session.UpdatedAt = time.Now()
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := rs.Client.Set(ctx, _key(session.UserId), payload, rs.TTL).Err(); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	rs.Logger.Debug("Saved session", zap.String("userId", session.UserId), zap.String("state", string(session.State)))
	return nil
}
