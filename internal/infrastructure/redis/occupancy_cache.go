package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

const occupiedKey = "seats:occupied"

// OccupancyCache は全予約の使用中座席集合をキャッシュする
// 値は seat.Set.Key() の正規文字列で、予約の書き込みごとに無効化される
type OccupancyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOccupancyCache は新しいOccupancyCacheインスタンスを作成する
func NewOccupancyCache(client *redis.Client, ttl time.Duration) *OccupancyCache {
	return &OccupancyCache{client: client, ttl: ttl}
}

// Get はキャッシュされた使用中座席を返す
func (c *OccupancyCache) Get(ctx context.Context) (seat.Set, error) {
	val, err := c.client.Get(ctx, occupiedKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return seat.Set{}, ErrCacheMiss
		}
		return seat.Set{}, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	occupied, err := seat.ParseKey(val)
	if err != nil {
		// 壊れた値はミス扱いにして作り直させる
		return seat.Set{}, ErrCacheMiss
	}
	return occupied, nil
}

// Set は使用中座席を保存する
func (c *OccupancyCache) Set(ctx context.Context, occupied seat.Set) error {
	if err := c.client.Set(ctx, occupiedKey, occupied.Key(), c.ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はキャッシュを無効化する
func (c *OccupancyCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, occupiedKey).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}
