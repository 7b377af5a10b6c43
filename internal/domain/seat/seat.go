package seat

import "fmt"

// Seat はテーブル番号と座席番号の組で識別される座席を表す
// この組そのものが座席の同一性であり、構造的に比較できる
type Seat struct {
	Table  int `json:"table"`
	Number int `json:"seat"`
}

// New は座席を作成する（グリッド範囲外でもエラーにはしない）
func New(table, number int) Seat {
	return Seat{Table: table, Number: number}
}

// Less は正規順序（テーブル昇順、座席昇順）で s が o より前かを返す
func (s Seat) Less(o Seat) bool {
	if s.Table != o.Table {
		return s.Table < o.Table
	}
	return s.Number < o.Number
}

// Validate はグリッド上の座席かを検証する
func (s Seat) Validate() error {
	if s.Table < 1 || s.Table > TableCount {
		return fmt.Errorf("%w: テーブル番号 %d", ErrSeatOutOfGrid, s.Table)
	}
	if s.Number < 1 || s.Number > SeatsPerTable {
		return fmt.Errorf("%w: 座席番号 %d", ErrSeatOutOfGrid, s.Number)
	}
	return nil
}

// String は表示用ラベル（例: T1-S2）を返す
func (s Seat) String() string {
	return fmt.Sprintf("T%d-S%d", s.Table, s.Number)
}
