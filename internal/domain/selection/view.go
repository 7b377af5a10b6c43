package selection

import "github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"

// SeatView は描画用の座席状態
type SeatView struct {
	Seat     seat.Seat
	Occupied bool
	Selected bool
}

// TableView は描画用のテーブル状態
type TableView struct {
	Number int
	Seats  []SeatView
}

// View はセッションの現在状態をテーブル単位で返す
func (s *Session) View() []TableView {
	return Layout(s.grid, s.occupied, s.selected)
}

// Layout は占有・選択の集合からグリッドの描画用状態を組み立てる
func Layout(g *seat.Grid, occupied, selected seat.Set) []TableView {
	tables := g.Tables()
	out := make([]TableView, len(tables))
	for i, t := range tables {
		seats := make([]SeatView, len(t.Seats))
		for j, x := range t.Seats {
			seats[j] = SeatView{Seat: x, Occupied: occupied.Contains(x), Selected: selected.Contains(x)}
		}
		out[i] = TableView{Number: t.Number, Seats: seats}
	}
	return out
}
