package selection

import (
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"
)

// State は座席選択セッションの状態
type State string

const (
	StateSelecting State = "selecting"
	StateReady     State = "ready"
	StateConfirmed State = "confirmed"
	StateAbandoned State = "abandoned"
)

// Session は人数分の座席を選ぶ対話的な状態機械
// 占有状態は Open 時に一度だけ取得し、以降は再確認しない
// 並行利用は想定しておらず、呼び出し側で排他すること
type Session struct {
	grid     *seat.Grid
	target   int
	occupied seat.Set
	selected seat.Set
	closed   State
}

// Open はセッションを開始する
// preselected のうち占有済みまたはグリッド外の座席は黙って取り除かれる
func Open(target int, occupied, preselected seat.Set) (*Session, error) {
	return OpenOnGrid(seat.DefaultGrid(), target, occupied, preselected)
}

// OpenOnGrid は指定したグリッドでセッションを開始する
func OpenOnGrid(g *seat.Grid, target int, occupied, preselected seat.Set) (*Session, error) {
	if target < 1 {
		return nil, ErrInvalidTarget
	}
	free := g.Universe().Difference(occupied)
	if free.Len() < target {
		return nil, ErrInsufficientSeats
	}

	selected := preselected.Intersect(free)
	// 以前より人数が減った場合、正規順序で先頭から target 件だけ残す
	if selected.Len() > target {
		selected = seat.NewSet(selected.Seats()[:target]...)
	}

	return &Session{
		grid:     g,
		target:   target,
		occupied: occupied.Intersect(g.Universe()),
		selected: selected,
	}, nil
}

// Toggle は座席の選択状態を切り替え、状態が変わったかを返す
// 占有済みの座席、グリッド外の座席、上限到達時の追加は何もしない
func (s *Session) Toggle(x seat.Seat) bool {
	if s.closed != "" || !s.grid.Contains(x) || s.occupied.Contains(x) {
		return false
	}
	if s.selected.Contains(x) {
		s.selected = s.selected.Toggle(x)
		return true
	}
	if s.selected.Len() >= s.target {
		return false
	}
	s.selected = s.selected.Toggle(x)
	return true
}

// Confirm は人数分の座席が選ばれていれば正規化された集合を返しセッションを終了する
func (s *Session) Confirm() (seat.Set, error) {
	if s.closed != "" {
		return seat.Set{}, ErrSessionClosed
	}
	if s.selected.Len() != s.target {
		return seat.Set{}, &SeatCountMismatchError{Have: s.selected.Len(), Want: s.target}
	}
	s.closed = StateConfirmed
	return s.selected, nil
}

// Abandon はセッションを破棄する（永続化の副作用は無い）
func (s *Session) Abandon() {
	if s.closed == "" {
		s.closed = StateAbandoned
	}
}

// State は現在の状態を返す
func (s *Session) State() State {
	if s.closed != "" {
		return s.closed
	}
	if s.selected.Len() == s.target {
		return StateReady
	}
	return StateSelecting
}

// Target は必要な座席数を返す
func (s *Session) Target() int {
	return s.target
}

// Selected は選択中の座席集合を返す
func (s *Session) Selected() seat.Set {
	return s.selected
}

// Occupied はセッション開始時の占有座席集合を返す
func (s *Session) Occupied() seat.Set {
	return s.occupied
}

// Remaining はあと何席選ぶ必要があるかを返す
func (s *Session) Remaining() int {
	return s.target - s.selected.Len()
}

// CanConfirm は確定可能かを返す
func (s *Session) CanConfirm() bool {
	return s.State() == StateReady
}
