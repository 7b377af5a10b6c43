package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/reservation"
)

// ReservationRepository はメモリ上の予約ストア
// Add/Update は書き込みロック下で座席の占有を再確認する
type ReservationRepository struct {
	mu    sync.RWMutex
	items map[string]*reservation.Reservation
	order []string
	now   func() time.Time
}

// NewReservationRepository は空のストアを作成する
func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{
		items: make(map[string]*reservation.Reservation),
		now:   time.Now,
	}
}

// WithClock は時刻の取得元を差し替える
func (r *ReservationRepository) WithClock(now func() time.Time) *ReservationRepository {
	r.now = now
	return r
}

func (r *ReservationRepository) ListActive(ctx context.Context) ([]*reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(), nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.items[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	return res.Clone(), nil
}

func (r *ReservationRepository) Add(ctx context.Context, v reservation.Values) (*reservation.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conflict := reservation.Conflicts(r.snapshot(), "", v.SelectedSeats); !conflict.IsEmpty() {
		return nil, fmt.Errorf("%w: %s", reservation.ErrSeatConflict, conflict)
	}

	res := reservation.NewReservation(v, r.now())
	res.ID = uuid.New().String()
	r.items[res.ID] = res
	r.order = append(r.order, res.ID)
	return res.Clone(), nil
}

func (r *ReservationRepository) Update(ctx context.Context, id string, v reservation.Values) (*reservation.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	if conflict := reservation.Conflicts(r.snapshot(), id, v.SelectedSeats); !conflict.IsEmpty() {
		return nil, fmt.Errorf("%w: %s", reservation.ErrSeatConflict, conflict)
	}

	// 検証を通過してから丸ごと差し替える（部分更新はしない）
	updated := current.Clone()
	updated.Apply(v, r.now())
	r.items[id] = updated
	return updated.Clone(), nil
}

func (r *ReservationRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return reservation.ErrReservationNotFound
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// snapshot は作成順の予約コピーを返す（ロック保持中に呼ぶこと）
func (r *ReservationRepository) snapshot() []*reservation.Reservation {
	out := make([]*reservation.Reservation, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id].Clone())
	}
	return out
}

var _ reservation.Repository = (*ReservationRepository)(nil)
