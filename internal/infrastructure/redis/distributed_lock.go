package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"
)

var (
	ErrLockNotAcquired = errors.New("ロックを取得できませんでした")
	ErrLockNotOwned    = errors.New("ロックの所有者ではありません")
)

const seatLockPrefix = "lock:seats:"

// 所有者トークンが一致する場合のみ削除する
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// 所有者トークンが一致する場合のみ有効期限を延長する
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// SeatLock は座席集合に対して取得した分散ロック
type SeatLock struct {
	client *redis.Client
	key    string
	token  string
	seats  seat.Set
}

// Seats はロック対象の座席集合を返す
func (l *SeatLock) Seats() seat.Set {
	return l.seats
}

// RetryPolicy はロック取得のリトライ設定
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetryPolicy は予約確定時に使うリトライ設定
var DefaultRetryPolicy = RetryPolicy{Attempts: 5, Delay: 50 * time.Millisecond}

// LockManager は座席集合単位の分散ロックを管理する
// キーは正規化された集合文字列なので、同じ座席の組み合わせは選択順に関係なく同じキーになる
type LockManager struct {
	client *redis.Client
}

func NewLockManager(client *redis.Client) *LockManager {
	return &LockManager{client: client}
}

// LockKey は座席集合のロックキーを返す
func LockKey(seats seat.Set) string {
	return seatLockPrefix + seats.Key()
}

// LockSeats は座席集合のロックを1回だけ試みる
func (m *LockManager) LockSeats(ctx context.Context, seats seat.Set, ttl time.Duration) (*SeatLock, error) {
	key := LockKey(seats)
	token := uuid.NewString()

	ok, err := m.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("ロック取得に失敗: %w", err)
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}
	return &SeatLock{client: m.client, key: key, token: token, seats: seats}, nil
}

// LockSeatsWithRetry は policy に従って取得を繰り返す
func (m *LockManager) LockSeatsWithRetry(ctx context.Context, seats seat.Set, ttl time.Duration, policy RetryPolicy) (*SeatLock, error) {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		lock, err := m.LockSeats(ctx, seats, ttl)
		if err == nil {
			return lock, nil
		}
		if !errors.Is(err, ErrLockNotAcquired) {
			return nil, err
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(policy.Delay):
		}
	}
	return nil, lastErr
}

// Release はロックを解放する
func (l *SeatLock) Release(ctx context.Context) error {
	n, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Int()
	if err != nil {
		return fmt.Errorf("ロック解放に失敗: %w", err)
	}
	if n == 0 {
		return ErrLockNotOwned
	}
	return nil
}

// Extend はロックの有効期限を延長する
func (l *SeatLock) Extend(ctx context.Context, ttl time.Duration) error {
	n, err := extendScript.Run(ctx, l.client, []string{l.key}, l.token, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("ロック延長に失敗: %w", err)
	}
	if n == 0 {
		return ErrLockNotOwned
	}
	return nil
}
