package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const script = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter shares windows across replicas. It fails open when Redis
// is unreachable.
type RedisLimiter struct {
	client  redis.Scripter
	script  *redis.Script
	prefix  string
	timeout time.Duration
	logger  *slog.Logger
}

func NewRedisLimiter(client redis.Scripter, prefix string, logger *slog.Logger) *RedisLimiter {
	return &RedisLimiter{
		client:  client,
		script:  redis.NewScript(script),
		prefix:  prefix,
		timeout: 250 * time.Millisecond,
		logger:  logger,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	allowed, err := l.script.Run(ctx, l.client, []string{l.prefix + ":" + key}, ttl, limit).Int64()
	if err != nil {
		l.logger.WarnContext(ctx, "rate limiter unavailable, allowing request", "key", key, "error", err)
		return true
	}
	return allowed == 1
}
