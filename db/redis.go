package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"plinkoServer/config"
	"plinkoServer/game"

	"github.com/redis/go-redis/v9"
)

var (
	// RedisClient is the global Redis client instance
	RedisClient *redis.Client
)

// InitRedis initializes the Redis client connection
func InitRedis(cfg *config.Config) error {
	log.Println("🔌 Connecting to Redis...")

	RedisClient = redis.NewClient(&redis.Options{
		Addr:         cfg.RedisURL,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := RedisClient.Ping(ctx).Err(); err != nil {
		RedisClient.Close()
		RedisClient = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("✅ Redis connected successfully - URL: %s", cfg.RedisURL)
	return nil
}

// CloseRedis closes the Redis connection
func CloseRedis() error {
	if RedisClient != nil {
		log.Println("🔌 Closing Redis connection...")
		return RedisClient.Close()
	}
	return nil
}

/* =========================
   RATE LIMITING (Fixed Window)
   Redis Key: plinko:ratelimit:{clientIp} -> counter, expires with the window
========================= */

// rateLimitScript increments the counter and gives it an expiry whenever it
// has none, in one atomic step. A counter is never left without a window.
var rateLimitScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RedisLimiter allows up to limit requests per key in each window
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Allow counts one request for key and reports whether it is within the limit.
// A limit of zero disables limiting.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}

	redisKey := fmt.Sprintf(config.RedisRateLimitKey, key)

	count, err := rateLimitScript.Run(ctx, l.client, []string{redisKey}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	return count <= int64(l.limit), nil
}

/* =========================
   REVEALED ROUND CACHE
   Redis Key: plinko:round:{roundId} -> JSON round
========================= */

// RedisRoundCache caches revealed rounds, which never change again
type RedisRoundCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRoundCache(client *redis.Client, ttl time.Duration) *RedisRoundCache {
	return &RedisRoundCache{
		client: client,
		ttl:    ttl,
	}
}

// SetRound caches a revealed round. Rounds in any other status are ignored.
func (c *RedisRoundCache) SetRound(ctx context.Context, round *game.Round) error {
	if round.Status != game.StatusRevealed {
		return nil
	}

	data, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %w", err)
	}

	key := fmt.Sprintf(config.RedisRoundKey, round.ID)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache round: %w", err)
	}

	return nil
}

// GetRound returns the cached round, or nil if it is not cached
func (c *RedisRoundCache) GetRound(ctx context.Context, id string) (*game.Round, error) {
	key := fmt.Sprintf(config.RedisRoundKey, id)

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached round: %w", err)
	}

	var round game.Round
	if err := json.Unmarshal(data, &round); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached round: %w", err)
	}

	return &round, nil
}

// HealthCheck checks if Redis is healthy
func HealthCheck(ctx context.Context) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis not initialized")
	}
	return RedisClient.Ping(ctx).Err()
}
