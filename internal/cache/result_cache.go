package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/betjuliano/sefa-dashboard/internal/model"
)

// ResultCache handles Redis operations for processed survey results.
// Results are keyed by content fingerprint, question set and goal, so the
// same upload reprocessed under a different selection caches independently.
type ResultCache interface {
	Get(ctx context.Context, fingerprint string, set model.QuestionSet, goal float64) (*model.ProcessedData, error)
	Set(ctx context.Context, fingerprint string, set model.QuestionSet, goal float64, data *model.ProcessedData) error
	Invalidate(ctx context.Context, fingerprint string) error
}

type resultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultCache creates a new result cache
func NewResultCache(client *redis.Client) ResultCache {
	return &resultCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *resultCache) resultKey(fingerprint string, set model.QuestionSet, goal float64) string {
	return fmt.Sprintf("result:%s:%s:%.2f", fingerprint, set, goal)
}

func (c *resultCache) Get(ctx context.Context, fingerprint string, set model.QuestionSet, goal float64) (*model.ProcessedData, error) {
	data, err := c.client.Get(ctx, c.resultKey(fingerprint, set, goal)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result model.ProcessedData
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *resultCache) Set(ctx context.Context, fingerprint string, set model.QuestionSet, goal float64, data *model.ProcessedData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.resultKey(fingerprint, set, goal), raw, c.ttl).Err()
}

func (c *resultCache) Invalidate(ctx context.Context, fingerprint string) error {
	iter := c.client.Scan(ctx, 0, fmt.Sprintf("result:%s:*", fingerprint), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
