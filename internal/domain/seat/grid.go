package seat

const (
	// TableCount はレストランのテーブル数
	TableCount = 10
	// SeatsPerTable は1テーブルあたりの座席数
	SeatsPerTable = 4
	// Capacity はグリッド全体の座席数
	Capacity = TableCount * SeatsPerTable
)

// Table は同じテーブル番号を共有する座席の固定列
type Table struct {
	Number int
	Seats  [SeatsPerTable]Seat
}

// Grid はテーブルと座席の不変レイアウト
type Grid struct {
	tables []Table
}

var defaultGrid = newGrid()

// DefaultGrid は10テーブル×4席のグリッドを返す
func DefaultGrid() *Grid {
	return defaultGrid
}

func newGrid() *Grid {
	tables := make([]Table, TableCount)
	for t := 1; t <= TableCount; t++ {
		tables[t-1].Number = t
		for n := 1; n <= SeatsPerTable; n++ {
			tables[t-1].Seats[n-1] = New(t, n)
		}
	}
	return &Grid{tables: tables}
}

// AllSeats は全座席をテーブル昇順、座席昇順で返す
func (g *Grid) AllSeats() []Seat {
	seats := make([]Seat, 0, Capacity)
	for _, t := range g.tables {
		seats = append(seats, t.Seats[:]...)
	}
	return seats
}

// Tables はテーブル一覧のコピーを返す
func (g *Grid) Tables() []Table {
	tables := make([]Table, len(g.tables))
	copy(tables, g.tables)
	return tables
}

// Contains は座席がグリッド上に存在するかを返す
func (g *Grid) Contains(s Seat) bool {
	return s.Validate() == nil
}

// Universe は全座席の集合を返す
func (g *Grid) Universe() Set {
	return NewSet(g.AllSeats()...)
}
