package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "identity:2fa:pending"

// NewRedisClient parses url, connects and pings before returning.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

// RedisPending keeps pending secrets in redis with a TTL so abandoned
// enrollments expire on their own.
type RedisPending struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisPending(client redis.UniversalClient, prefix string) *RedisPending {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisPending{client: client, prefix: prefix}
}

func (r *RedisPending) key(accountID string) string {
	return r.prefix + ":" + accountID
}

func (r *RedisPending) Put(ctx context.Context, accountID, secret string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = PendingTwoFactorTTL
	}
	if err := r.client.Set(ctx, r.key(accountID), secret, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (r *RedisPending) Get(ctx context.Context, accountID string) (string, error) {
	secret, err := r.client.Get(ctx, r.key(accountID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return secret, nil
}

func (r *RedisPending) Delete(ctx context.Context, accountID string) error {
	if err := r.client.Del(ctx, r.key(accountID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (r *RedisPending) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
