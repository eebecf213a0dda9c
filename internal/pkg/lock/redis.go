package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still carries our token, so an
// expired holder can never release a lock that someone else acquired since.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every process talking to the same Redis.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
}

// RedisOption customizes a Redis locker.
type RedisOption func(*Redis)

// WithTTL bounds how long a crashed holder can keep a key. Default 10s.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) { r.ttl = ttl }
}

// WithRetryInterval sets the polling interval while waiting. Default 25ms.
func WithRetryInterval(d time.Duration) RedisOption {
	return func(r *Redis) { r.retry = d }
}

// WithPrefix namespaces lock keys. Default "lock:".
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = prefix }
}

func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client,
		prefix: "lock:",
		ttl:    10 * time.Second,
		retry:  25 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewRedisClient parses a redis:// URL into a client.
func NewRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return redis.NewClient(opt), nil
}

func (r *Redis) Acquire(ctx context.Context, key string, wait time.Duration) (Release, error) {
	fullKey := r.prefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(wait)

	for {
		ok, err := r.client.SetNX(ctx, fullKey, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire redis lock %s: %w", fullKey, err)
		}
		if ok {
			var once sync.Once
			var releaseErr error
			return func() error {
				once.Do(func() {
					// The caller's ctx may already be cancelled; release must still happen.
					releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
					defer cancel()
					releaseErr = releaseScript.Run(releaseCtx, r.client, []string{fullKey}, token).Err()
				})
				return releaseErr
			}, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, ErrTimeout
		}

		timer := time.NewTimer(min(r.retry, remaining))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
