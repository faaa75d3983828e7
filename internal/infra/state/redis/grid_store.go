package redisstate

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"

	"github.com/flxzt/pxtogether/internal/repository"
)

// RedisGridStore 是 GridStore 接口的 Redis 实现。
// 每个网格保存为一个字符串 key，另有一个 set 记录所有名称。
type RedisGridStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisGridStore 创建 RedisGridStore 实例
func NewRedisGridStore(client *redis.Client, keyPrefix string) *RedisGridStore {
	if client == nil {
		panic("redis client cannot be nil for RedisGridStore")
	}
	if keyPrefix == "" {
		keyPrefix = "px:" // 默认前缀 "px:" (pxtogether)
	}
	return &RedisGridStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// --- Key Generation Helpers ---
func (r *RedisGridStore) gridKey(name string) string {
	return fmt.Sprintf("%sgrid:%s", r.keyPrefix, name)
}

func (r *RedisGridStore) indexKey() string {
	return r.keyPrefix + "grids"
}

// Open 读取网格数据
func (r *RedisGridStore) Open(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", repository.ErrInvalidName)
	}
	key := r.gridKey(name)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrGridNotFound
		}
		return nil, fmt.Errorf("redis: failed to get grid '%s' from %s: %w", name, key, err)
	}
	return data, nil
}

// Save 在一个 MULTI/EXEC 事务中写入数据并更新名称索引
func (r *RedisGridStore) Save(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", repository.ErrInvalidName)
	}
	key := r.gridKey(name)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, 0)
		pipe.SAdd(ctx, r.indexKey(), name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: failed to save grid '%s' on key %s: %w", name, key, err)
	}
	return nil
}

// List 返回所有已保存的名称
func (r *RedisGridStore) List(ctx context.Context) ([]string, error) {
	names, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: failed to list grids from %s: %w", r.indexKey(), err)
	}
	sort.Strings(names)
	return names, nil
}
