package application

import (
	"context"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"
)

// OccupancyCache は使用中座席集合のキャッシュ
// redis.OccupancyCache が実装する。nil の場合は毎回リポジトリから計算する
type OccupancyCache interface {
	Get(ctx context.Context) (seat.Set, error)
	Set(ctx context.Context, occupied seat.Set) error
	Invalidate(ctx context.Context) error
}
