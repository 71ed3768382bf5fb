package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"banjara-intake-backend/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig controls reviewer lockout after repeated failures.
type LoginTrackerConfig struct {
	MaxAttempts   int           // failures before a block (default 5)
	AttemptWindow time.Duration // counter lifetime (default 15m)
	BlockDuration time.Duration // block lifetime (default 15m)
	UseIPTracking bool          // also count and block the client IP
}

func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
		UseIPTracking: true,
	}
}

// LoginTracker counts failed reviewer logins in Redis and blocks the
// username (and optionally the IP) once MaxAttempts is reached.
// Without Redis it never blocks.
type LoginTracker struct {
	config LoginTrackerConfig
	audit  *AuditLogger
	client func() *goredis.Client
}

func NewLoginTracker(config LoginTrackerConfig, audit *AuditLogger) *LoginTracker {
	return newLoginTracker(config, audit, redis.Client)
}

// NewLoginTrackerWithClient pins the tracker to a specific Redis client.
func NewLoginTrackerWithClient(config LoginTrackerConfig, audit *AuditLogger, client *goredis.Client) *LoginTracker {
	return newLoginTracker(config, audit, func() *goredis.Client { return client })
}

func newLoginTracker(config LoginTrackerConfig, audit *AuditLogger, client func() *goredis.Client) *LoginTracker {
	def := DefaultLoginTrackerConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = def.MaxAttempts
	}
	if config.AttemptWindow <= 0 {
		config.AttemptWindow = def.AttemptWindow
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = def.BlockDuration
	}
	return &LoginTracker{config: config, audit: audit, client: client}
}

const (
	failLoginUserPrefix    = "fail:login:user:"
	failLoginIPPrefix      = "fail:login:ip:"
	blockedLoginUserPrefix = "blocked:login:user:"
	blockedLoginIPPrefix   = "blocked:login:ip:"
)

// KEYS[1] = counter key, ARGV[1] = TTL in seconds
var incrWithTTL = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`)

// IsBlocked reports whether username or ip is currently blocked.
func (lt *LoginTracker) IsBlocked(ctx context.Context, username, ip string) (bool, error) {
	client := lt.client()
	if client == nil {
		return false, nil
	}

	keys := []string{blockedLoginUserPrefix + username}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, blockedLoginIPPrefix+ip)
	}
	n, err := client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, fmt.Errorf("check login block: %w", err)
	}
	return n > 0, nil
}

// RecordFailure counts a failed login and creates a block once the
// threshold is hit. It returns whether the subject is now blocked.
func (lt *LoginTracker) RecordFailure(ctx context.Context, username, ip, requestID string) (bool, int, error) {
	lt.audit.LoginFailed(ctx, username, ip, requestID, "invalid_credentials")

	client := lt.client()
	if client == nil {
		return false, 0, nil
	}

	ttl := int(lt.config.AttemptWindow.Seconds())
	count, err := incrWithTTL.Run(ctx, client, []string{failLoginUserPrefix + username}, ttl).Int()
	if err != nil {
		return false, 0, fmt.Errorf("count failed login: %w", err)
	}
	if lt.config.UseIPTracking && ip != "" {
		_ = incrWithTTL.Run(ctx, client, []string{failLoginIPPrefix + ip}, ttl).Err()
	}

	if count < lt.config.MaxAttempts {
		return false, count, nil
	}

	if err := client.Set(ctx, blockedLoginUserPrefix+username, "1", lt.config.BlockDuration).Err(); err != nil {
		return true, count, fmt.Errorf("set login block: %w", err)
	}
	if lt.config.UseIPTracking && ip != "" {
		_ = client.Set(ctx, blockedLoginIPPrefix+ip, "1", lt.config.BlockDuration).Err()
	}
	lt.audit.BlockCreated(ctx, "username", username, ip, requestID, lt.config.BlockDuration)
	return true, count, nil
}

// Clear resets the failure counters after a successful login.
func (lt *LoginTracker) Clear(ctx context.Context, username, ip string) error {
	client := lt.client()
	if client == nil {
		return nil
	}

	keys := []string{failLoginUserPrefix + username}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, failLoginIPPrefix+ip)
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("clear login attempts: %w", err)
	}
	return nil
}

// RemainingAttempts returns how many failures are left before a block.
func (lt *LoginTracker) RemainingAttempts(ctx context.Context, username string) (int, error) {
	client := lt.client()
	if client == nil {
		return lt.config.MaxAttempts, nil
	}

	count, err := client.Get(ctx, failLoginUserPrefix+username).Int()
	if errors.Is(err, goredis.Nil) {
		return lt.config.MaxAttempts, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get login attempts: %w", err)
	}
	if remaining := lt.config.MaxAttempts - count; remaining > 0 {
		return remaining, nil
	}
	return 0, nil
}
