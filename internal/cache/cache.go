// Package cache holds analysis results in Redis so repeated reads of an
// unchanged session skip the store round trip.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/blackwell-systems/usermanual/internal/assessment"
)

// ResultCache stores analysis results per session.
type ResultCache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, sessionID string) (*assessment.AnalysisResult, error)
	Set(ctx context.Context, sessionID string, result assessment.AnalysisResult) error
	Invalidate(ctx context.Context, sessionID string) error
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis returns a ResultCache backed by client. Entries expire after ttl.
func NewRedis(client *redis.Client, ttl time.Duration) ResultCache {
	return &redisCache{client: client, ttl: ttl}
}

// Dial connects to addr and checks the connection.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return client, nil
}

func (c *redisCache) key(sessionID string) string {
	return fmt.Sprintf("usermanual:analysis:%s", sessionID)
}

func (c *redisCache) Get(ctx context.Context, sessionID string) (*assessment.AnalysisResult, error) {
	data, err := c.client.Get(ctx, c.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result assessment.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *redisCache) Set(ctx context.Context, sessionID string, result assessment.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(sessionID), data, c.ttl).Err()
}

func (c *redisCache) Invalidate(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.key(sessionID)).Err()
}

// Nop is a ResultCache that never holds anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (*assessment.AnalysisResult, error) { return nil, nil }

func (Nop) Set(context.Context, string, assessment.AnalysisResult) error { return nil }

func (Nop) Invalidate(context.Context, string) error { return nil }
