package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/pkg/metrics"
	redislock "github.com/sanosuguru/go-restaurant-seat-reservation/internal/infrastructure/redis"
)

// ErrSeatsBusy は同じ座席集合を別のリクエストが確定処理中であることを示す
var ErrSeatsBusy = errors.New("座席が他のリクエストによって処理中です")

const seatLockTTL = 10 * time.Second

type ReservationService struct {
	repo        reservation.Repository
	lockManager *redislock.LockManager
	cache       OccupancyCache
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewReservationService は予約サービスを作成する。lm と cache は nil でもよい
func NewReservationService(repo reservation.Repository, lm *redislock.LockManager, cache OccupancyCache, m *metrics.Metrics) *ReservationService {
	return &ReservationService{repo: repo, lockManager: lm, cache: cache, metrics: m, now: time.Now}
}

// WithClock は現在時刻の取得元を差し替える
func (s *ReservationService) WithClock(now func() time.Time) *ReservationService {
	s.now = now
	return s
}

// List は予約一覧を返す。customer が空でなければ顧客名の部分一致（大文字小文字無視）で絞り込む
func (s *ReservationService) List(ctx context.Context, customer string) ([]*reservation.Reservation, error) {
	list, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	return reservation.FilterByCustomer(list, customer), nil
}

func (s *ReservationService) Get(ctx context.Context, id string) (*reservation.Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

// Create は新しい予約を確定する
func (s *ReservationService) Create(ctx context.Context, v reservation.Values) (*reservation.Reservation, error) {
	const op = "create"
	if err := v.Validate(); err != nil {
		s.metrics.RecordReservation(op, "validation")
		return nil, err
	}
	if err := v.ValidateSchedule(s.now()); err != nil {
		s.metrics.RecordReservation(op, "validation")
		return nil, err
	}

	var res *reservation.Reservation
	err := s.withSeatLock(ctx, op, v.SelectedSeats, func() error {
		var err error
		res, err = s.repo.Add(ctx, v)
		return err
	})
	if err != nil {
		return nil, s.fail(op, "", v.SelectedSeats, err)
	}

	s.metrics.RecordReservation(op, "success")
	logger.Info("予約を作成しました",
		zap.String("reservation_id", res.ID),
		logger.Seats("seats", res.SelectedSeats),
	)
	s.afterWrite(ctx)
	return res, nil
}

// Update は既存の予約を書き換える。失敗した場合は保存済みの予約は変更されない
// 予約日時は過去でも許可する（作成後に時間が経過した予約を編集できるようにするため）
func (s *ReservationService) Update(ctx context.Context, id string, v reservation.Values) (*reservation.Reservation, error) {
	const op = "update"
	if err := v.Validate(); err != nil {
		s.metrics.RecordReservation(op, "validation")
		return nil, err
	}

	var res *reservation.Reservation
	err := s.withSeatLock(ctx, op, v.SelectedSeats, func() error {
		var err error
		res, err = s.repo.Update(ctx, id, v)
		return err
	})
	if err != nil {
		return nil, s.fail(op, id, v.SelectedSeats, err)
	}

	s.metrics.RecordReservation(op, "success")
	logger.Info("予約を更新しました",
		zap.String("reservation_id", res.ID),
		logger.Seats("seats", res.SelectedSeats),
	)
	s.afterWrite(ctx)
	return res, nil
}

// Remove は予約を削除し、その座席を解放する
func (s *ReservationService) Remove(ctx context.Context, id string) error {
	const op = "remove"
	if err := s.repo.Remove(ctx, id); err != nil {
		return s.fail(op, id, seat.Set{}, err)
	}
	s.metrics.RecordReservation(op, "success")
	logger.Info("予約を削除しました", zap.String("reservation_id", id))
	s.afterWrite(ctx)
	return nil
}

// Occupied は使用中の座席を返す。excludeID の予約が持つ座席は使用中に含めない
func (s *ReservationService) Occupied(ctx context.Context, excludeID string) (seat.Set, error) {
	if excludeID == "" {
		return s.occupiedAll(ctx)
	}
	list, err := s.repo.ListActive(ctx)
	if err != nil {
		return seat.Set{}, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	return reservation.OccupiedSeats(list, excludeID), nil
}

// HasChanges は編集中の値が保存済みの予約から変わっているかを返す
// id が空（新規作成）の場合は常に true
func (s *ReservationService) HasChanges(ctx context.Context, id string, current reservation.Values) (bool, error) {
	if id == "" {
		return reservation.HasChanges(nil, current), nil
	}
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return reservation.HasChanges(reservation.TakeSnapshot(res), current), nil
}

// SeedSample は予約が1件もない場合にサンプル予約を登録する
func (s *ReservationService) SeedSample(ctx context.Context) error {
	list, err := s.repo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	if len(list) > 0 {
		return nil
	}
	res, err := s.repo.Add(ctx, reservation.Values{
		CustomerName:    "张三",
		ContactInfo:     "13800138000",
		ReservationTime: s.now().UTC().Truncate(time.Minute),
		NumberOfGuests:  2,
		SelectedSeats:   seat.NewSet(seat.New(1, 2), seat.New(1, 3)),
	})
	if err != nil {
		return fmt.Errorf("サンプル予約の登録に失敗: %w", err)
	}
	logger.Info("サンプル予約を登録しました", zap.String("reservation_id", res.ID))
	s.afterWrite(ctx)
	return nil
}

// withSeatLock は Redis が設定されていれば座席集合のロックを取得して fn を実行する
// 競合の最終判定はリポジトリが行うため、ロックは同じ組み合わせへの同時確定を直列化するだけ
func (s *ReservationService) withSeatLock(ctx context.Context, op string, seats seat.Set, fn func() error) error {
	if s.lockManager == nil {
		return fn()
	}
	start := time.Now()
	lock, err := s.lockManager.LockSeatsWithRetry(ctx, seats, seatLockTTL, redislock.DefaultRetryPolicy)
	if err != nil {
		s.metrics.ObserveLock(op, "failed", time.Since(start))
		if errors.Is(err, redislock.ErrLockNotAcquired) {
			return ErrSeatsBusy
		}
		return fmt.Errorf("ロック取得に失敗: %w", err)
	}
	s.metrics.ObserveLock(op, "success", time.Since(start))
	defer func() {
		if err := lock.Release(ctx); err != nil {
			logger.Warn("ロック解放エラー", logger.Seats("seats", seats), zap.Error(err))
		}
	}()
	return fn()
}

// fail はエラーの種類に応じてメトリクスとログを記録し、エラーをそのまま返す
func (s *ReservationService) fail(op, id string, seats seat.Set, err error) error {
	fields := []zap.Field{zap.String("operation", op), zap.Error(err)}
	if id != "" {
		fields = append(fields, zap.String("reservation_id", id))
	}
	if !seats.IsEmpty() {
		fields = append(fields, logger.Seats("seats", seats))
	}
	switch {
	case errors.Is(err, reservation.ErrSeatConflict):
		s.metrics.RecordReservation(op, "conflict")
		logger.Warn("座席が競合しました", fields...)
	case errors.Is(err, ErrSeatsBusy):
		s.metrics.RecordReservation(op, "lock_failed")
		logger.Warn("座席ロックを取得できませんでした", fields...)
	case errors.Is(err, reservation.ErrReservationNotFound):
		s.metrics.RecordReservation(op, "not_found")
	default:
		s.metrics.RecordReservation(op, "error")
		logger.Error("予約操作に失敗", fields...)
	}
	return err
}

// afterWrite はキャッシュを無効化し、使用中座席数のゲージを更新する
func (s *ReservationService) afterWrite(ctx context.Context) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			logger.Warn("キャッシュ無効化エラー", zap.Error(err))
		}
	}
	if s.metrics == nil {
		return
	}
	occupied, err := s.occupiedAll(ctx)
	if err != nil {
		logger.Warn("使用中座席の集計に失敗", zap.Error(err))
		return
	}
	s.metrics.OccupiedSeats.Set(float64(occupied.Len()))
}

func (s *ReservationService) occupiedAll(ctx context.Context) (seat.Set, error) {
	if s.cache != nil {
		occupied, err := s.cache.Get(ctx)
		if err == nil {
			logger.Debug("キャッシュヒット", logger.Seats("occupied", occupied))
			return occupied, nil
		}
		if !errors.Is(err, redislock.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	list, err := s.repo.ListActive(ctx)
	if err != nil {
		return seat.Set{}, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	occupied := reservation.OccupiedSeats(list, "")

	if s.cache != nil {
		if err := s.cache.Set(ctx, occupied); err != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(err))
		}
	}
	return occupied, nil
}
