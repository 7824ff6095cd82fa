package services

import (
	"context"
	"encoding/json"
	"time"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// InterfaceRedisService defines the Redis service interface
type InterfaceRedisService interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	CacheVisitorByCode(visitor *models.Visitor, expiration time.Duration) error
	GetVisitorByCode(code string) (*models.Visitor, error)
	InvalidateVisitorCode(code string) error
	Ping() error
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) InterfaceRedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "", // No password set
		DB:       cfg.RedisDB,
	})

	return &RedisService{
		Client: client,
		Ctx:    context.Background(),
	}
}

// 1 Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// 2 Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// 3 Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// 4 CacheVisitorByCode 按通行码缓存访客记录，用于闸口扫码热路径。
// 状态转换后必须调用 InvalidateVisitorCode，避免缓存旧状态。
func (s *RedisService) CacheVisitorByCode(visitor *models.Visitor, expiration time.Duration) error {
	if visitor.Code == nil {
		return nil
	}
	return s.Set("visitor_code:"+*visitor.Code, visitor, expiration)
}

// 5 GetVisitorByCode 从缓存按通行码读取访客记录
func (s *RedisService) GetVisitorByCode(code string) (*models.Visitor, error) {
	var visitor models.Visitor
	if err := s.Get("visitor_code:"+code, &visitor); err != nil {
		return nil, err
	}
	return &visitor, nil
}

// 6 InvalidateVisitorCode 使通行码缓存失效
func (s *RedisService) InvalidateVisitorCode(code string) error {
	return s.Delete("visitor_code:" + code)
}

// 7 Ping 测试Redis连接
func (s *RedisService) Ping() error {
	ctx, cancel := context.WithTimeout(s.Ctx, 2*time.Second)
	defer cancel()
	return s.Client.Ping(ctx).Err()
}
