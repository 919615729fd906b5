package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ruda-paints/internal/config"

	"github.com/redis/go-redis/v9"
)

var (
	client *redis.Client
	prefix = "ruda"
)

// Init 按配置创建 Redis 客户端，未启用时所有操作退化为空操作
func Init(cfg *config.RedisConfig) {
	if cfg == nil || !cfg.Enabled {
		client = nil
		return
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	if p := strings.TrimSpace(cfg.Prefix); p != "" {
		prefix = p
	}
	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Enabled 缓存是否可用
func Enabled() bool {
	return client != nil
}

// Client 返回底层客户端，未启用时为 nil
func Client() *redis.Client {
	return client
}

// Ping 健康检查
func Ping(ctx context.Context) error {
	if !Enabled() {
		return nil
	}
	return client.Ping(ctx).Err()
}

// Close 关闭连接
func Close() error {
	if !Enabled() {
		return nil
	}
	return client.Close()
}

// Key 拼接带前缀的键
func Key(parts ...string) string {
	return prefix + ":" + strings.Join(parts, ":")
}

// GetJSON 读取 JSON 缓存，未命中返回 false
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !Enabled() {
		return false, nil
	}
	raw, err := client.Get(ctx, Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 写入 JSON 缓存
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !Enabled() {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, Key(key), payload, ttl).Err()
}

// Del 删除缓存
func Del(ctx context.Context, key string) error {
	if !Enabled() {
		return nil
	}
	return client.Del(ctx, Key(key)).Err()
}
