package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/selection"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/pkg/metrics"
)

// ErrSessionNotFound は座席選択セッションが存在しない（確定・破棄・期限切れ）ことを示す
var ErrSessionNotFound = errors.New("座席選択セッションが見つかりません")

// OccupancyResolver はセッション開始時の占有座席を解決する
type OccupancyResolver interface {
	Occupied(ctx context.Context, excludeID string) (seat.Set, error)
}

// OpenSelectionInput はセッション開始の入力
// ReservationID を指定すると、その予約が持つ座席は占有扱いにならない（編集フロー）
type OpenSelectionInput struct {
	Target        int
	Preselected   seat.Set
	ReservationID string
}

// SelectionSnapshot はセッションのある時点の状態
type SelectionSnapshot struct {
	ID            string
	ReservationID string
	State         selection.State
	Target        int
	Selected      seat.Set
	Remaining     int
	CanConfirm    bool
	Tables        []selection.TableView
}

type sessionEntry struct {
	session       *selection.Session
	reservationID string
	lastAccess    time.Time
}

// SelectionService は進行中の座席選択セッションをメモリ上で管理する
type SelectionService struct {
	occupancy OccupancyResolver
	metrics   *metrics.Metrics
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

func NewSelectionService(occupancy OccupancyResolver, m *metrics.Metrics) *SelectionService {
	return &SelectionService{
		occupancy: occupancy,
		metrics:   m,
		now:       time.Now,
		sessions:  make(map[string]*sessionEntry),
	}
}

// WithClock は現在時刻の取得元を差し替える
func (s *SelectionService) WithClock(now func() time.Time) *SelectionService {
	s.now = now
	return s
}

// Open は占有状態を解決して新しいセッションを開始する
func (s *SelectionService) Open(ctx context.Context, input OpenSelectionInput) (*SelectionSnapshot, error) {
	occupied, err := s.occupancy.Occupied(ctx, input.ReservationID)
	if err != nil {
		return nil, fmt.Errorf("占有座席の取得に失敗: %w", err)
	}
	session, err := selection.Open(input.Target, occupied, input.Preselected)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	entry := &sessionEntry{session: session, reservationID: input.ReservationID, lastAccess: s.now()}

	s.mu.Lock()
	s.sessions[id] = entry
	active := len(s.sessions)
	snap := entry.snapshot(id)
	s.mu.Unlock()

	s.metrics.RecordSelection("opened")
	s.setActive(active)
	logger.Debug("座席選択セッション開始",
		zap.String("session_id", id),
		zap.Int("target", input.Target),
		logger.Seats("occupied", occupied),
	)
	return snap, nil
}

// Get はセッションの現在状態を返す
func (s *SelectionService) Get(id string) (*SelectionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.touch(id)
	if err != nil {
		return nil, err
	}
	return entry.snapshot(id), nil
}

// Toggle は座席の選択を切り替え、変化があったかと新しい状態を返す
func (s *SelectionService) Toggle(id string, x seat.Seat) (*SelectionSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.touch(id)
	if err != nil {
		return nil, false, err
	}
	changed := entry.session.Toggle(x)
	return entry.snapshot(id), changed, nil
}

// Confirm は選択を確定して座席集合を返す。成功したセッションはレジストリから外れる
func (s *SelectionService) Confirm(id string) (seat.Set, error) {
	s.mu.Lock()
	entry, err := s.touch(id)
	if err != nil {
		s.mu.Unlock()
		return seat.Set{}, err
	}
	seats, err := entry.session.Confirm()
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, selection.ErrSeatCountMismatch) {
			s.metrics.RecordSelection("mismatch")
		}
		return seat.Set{}, err
	}
	delete(s.sessions, id)
	active := len(s.sessions)
	s.mu.Unlock()

	s.metrics.RecordSelection("confirmed")
	s.setActive(active)
	return seats, nil
}

// Abandon はセッションを破棄する
func (s *SelectionService) Abandon(id string) error {
	s.mu.Lock()
	entry, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	entry.session.Abandon()
	delete(s.sessions, id)
	active := len(s.sessions)
	s.mu.Unlock()

	s.metrics.RecordSelection("abandoned")
	s.setActive(active)
	return nil
}

// SweepIdle は ttl より長く操作されていないセッションを破棄し、その件数を返す
func (s *SelectionService) SweepIdle(ttl time.Duration) int {
	deadline := s.now().Add(-ttl)

	s.mu.Lock()
	var expired int
	for id, entry := range s.sessions {
		if entry.lastAccess.Before(deadline) {
			entry.session.Abandon()
			delete(s.sessions, id)
			expired++
		}
	}
	active := len(s.sessions)
	s.mu.Unlock()

	for i := 0; i < expired; i++ {
		s.metrics.RecordSelection("expired")
	}
	s.setActive(active)
	return expired
}

// Len は進行中のセッション数を返す
func (s *SelectionService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// touch はセッションを取り出し最終アクセス時刻を更新する。呼び出し側で mu を保持すること
func (s *SelectionService) touch(id string) (*sessionEntry, error) {
	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	entry.lastAccess = s.now()
	return entry, nil
}

func (s *SelectionService) setActive(n int) {
	if s.metrics != nil {
		s.metrics.ActiveSelectionSessions.Set(float64(n))
	}
}

func (e *sessionEntry) snapshot(id string) *SelectionSnapshot {
	return &SelectionSnapshot{
		ID:            id,
		ReservationID: e.reservationID,
		State:         e.session.State(),
		Target:        e.session.Target(),
		Selected:      e.session.Selected(),
		Remaining:     e.session.Remaining(),
		CanConfirm:    e.session.CanConfirm(),
		Tables:        e.session.View(),
	}
}
