package redis

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/config"
)

// setupTestRedis はテスト用Redisに接続する（未起動ならスキップ）
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := NewClient(&config.RedisConfig{Host: "localhost", Port: "6379", DB: 15})
	if err := Ping(context.Background(), client); err != nil {
		client.Close()
		t.Skip("Redis not available")
	}
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}
