package services

import (
	"context"
	"encoding/json"
	"propman-http-service/config"
	"time"

	"github.com/go-redis/redis/v8"
)

// InterfaceRedisService 定义Redis缓存服务接口
type InterfaceRedisService interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	CacheAnalytics(scope, key string, data interface{}) error
	GetAnalytics(scope, key string, dest interface{}) error
	PurgeAnalytics(scope string) error
	Ping() error
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
	ttl    time.Duration
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) InterfaceRedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "", // No password set
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	return &RedisService{
		Client: client,
		Ctx:    ctx,
		ttl:    time.Duration(cfg.AnalyticsCacheTTL) * time.Second,
	}
}

// Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// CacheAnalytics 缓存分析汇总结果，如 analytics:maintenance:summary
func (s *RedisService) CacheAnalytics(scope, key string, data interface{}) error {
	return s.Set("analytics:"+scope+":"+key, data, s.ttl)
}

// GetAnalytics 获取缓存的分析汇总结果
func (s *RedisService) GetAnalytics(scope, key string, dest interface{}) error {
	return s.Get("analytics:"+scope+":"+key, dest)
}

// PurgeAnalytics 清除某一类分析缓存
func (s *RedisService) PurgeAnalytics(scope string) error {
	iter := s.Client.Scan(s.Ctx, 0, "analytics:"+scope+":*", 0).Iterator()
	for iter.Next(s.Ctx) {
		if err := s.Client.Del(s.Ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Ping 检测Redis连通性
func (s *RedisService) Ping() error {
	return s.Client.Ping(s.Ctx).Err()
}
