package cache

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"job-portal/internal/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	unreadKeyPrefix = "notifications:unread:"
	defaultTTL      = 600 * time.Second
	pingTimeout     = 2 * time.Second
)

var ErrUnavailable = errors.New("redis unavailable")

// releaseScript deletes the lock only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Redis is an optional cache. When the server could not be reached at start
// every read misses and every write is a no-op.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger

	warnedUnavailable atomic.Bool
}

func NewRedis(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) *Redis {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "cache"))

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, bypassing cache", zap.String("addr", cfg.Addr()), zap.Error(err))
		_ = client.Close()
		return &Redis{ttl: cfg.TTL, log: log}
	}

	log.Info("redis connected", zap.String("addr", cfg.Addr()))
	return NewRedisWithClient(client, cfg.TTL, log)
}

func NewRedisWithClient(client *redis.Client, ttl time.Duration, log *zap.Logger) *Redis {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Redis{client: client, ttl: ttl, log: log}
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.log.Warn("redis command failed, bypassing cache", zap.Error(err))
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.isUnavailable() {
		return ErrUnavailable
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r.isUnavailable() {
		return nil
	}
	return r.client.Close()
}

func unreadKey(userID uuid.UUID) string {
	return unreadKeyPrefix + userID.String()
}

func (r *Redis) GetUnread(ctx context.Context, userID uuid.UUID) (int, bool, error) {
	if r.isUnavailable() {
		return 0, false, nil
	}
	raw, err := r.client.Get(ctx, unreadKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		r.warnUnavailableOnce(err)
		return 0, false, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// corrupt entry; treat as a miss and let the caller overwrite it
		return 0, false, nil
	}
	return n, true, nil
}

func (r *Redis) SetUnread(ctx context.Context, userID uuid.UUID, count int) error {
	if r.isUnavailable() {
		return nil
	}
	if err := r.client.Set(ctx, unreadKey(userID), count, r.ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) InvalidateUnread(ctx context.Context, userID uuid.UUID) error {
	if r.isUnavailable() {
		return nil
	}
	if err := r.client.Del(ctx, unreadKey(userID)).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// InvalidateAllUnread deletes every cached unread count.
func (r *Redis) InvalidateAllUnread(ctx context.Context) error {
	if r.isUnavailable() {
		return nil
	}
	iter := r.client.Scan(ctx, 0, unreadKeyPrefix+"*", 100).Iterator()
	keys := make([]string, 0, 100)
	flush := func() error {
		if len(keys) == 0 {
			return nil
		}
		err := r.client.Del(ctx, keys...).Err()
		keys = keys[:0]
		return err
	}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == cap(keys) {
			if err := flush(); err != nil {
				r.warnUnavailableOnce(err)
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	if err := flush(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// TryLock takes key with SET NX and a random token. release only deletes the
// key while the token still matches, so an expired lock retaken by another
// holder is left alone.
func (r *Redis) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	if r.isUnavailable() {
		return nil, false, ErrUnavailable
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		if err := releaseScript.Run(ctx, r.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			r.log.Warn("release lock failed", zap.String("key", key), zap.Error(err))
		}
	}
	return release, true, nil
}
