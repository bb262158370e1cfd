package service

import (
	"context"
	"encoding/json"
	"time"

	"study_quiz_backend/internal/model"

	"github.com/go-redis/redis/v8"
)

// RedisQuestionCache 缓存生成好的题目，重新开始同一测验时不再调用生成接口
type RedisQuestionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisQuestionCache(client *redis.Client, ttl time.Duration) *RedisQuestionCache {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &RedisQuestionCache{client: client, ttl: ttl}
}

// Get 未命中时返回 (nil, nil)
func (c *RedisQuestionCache) Get(ctx context.Context, key string) (*model.QuestionSet, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var set model.QuestionSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

func (c *RedisQuestionCache) Set(ctx context.Context, key string, set *model.QuestionSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *RedisQuestionCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
