package seat

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Set は座席の集合。重複を持たず、要素は常に正規順序で保持される
// 値は不変であり、すべての操作は新しい Set を返す
type Set struct {
	seats []Seat
}

// NewSet は任意順序・重複ありの座席列から正規化された集合を作成する
func NewSet(seats ...Seat) Set {
	if len(seats) == 0 {
		return Set{}
	}
	sorted := make([]Seat, len(seats))
	copy(sorted, seats)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	out := sorted[:1]
	for _, s := range sorted[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return Set{seats: out}
}

// Len は要素数を返す
func (s Set) Len() int {
	return len(s.seats)
}

// IsEmpty は空集合かを返す
func (s Set) IsEmpty() bool {
	return len(s.seats) == 0
}

// Seats は正規順序の座席列のコピーを返す
func (s Set) Seats() []Seat {
	out := make([]Seat, len(s.seats))
	copy(out, s.seats)
	return out
}

// Contains は座席が含まれるかを返す
func (s Set) Contains(x Seat) bool {
	i := s.search(x)
	return i < len(s.seats) && s.seats[i] == x
}

// Equal は正規順序で並べた要素列が一致するかを返す
func (s Set) Equal(o Set) bool {
	if len(s.seats) != len(o.seats) {
		return false
	}
	for i := range s.seats {
		if s.seats[i] != o.seats[i] {
			return false
		}
	}
	return true
}

// Toggle は x が無ければ追加、あれば削除した新しい集合を返す
func (s Set) Toggle(x Seat) Set {
	i := s.search(x)
	if i < len(s.seats) && s.seats[i] == x {
		out := make([]Seat, 0, len(s.seats)-1)
		out = append(out, s.seats[:i]...)
		return Set{seats: append(out, s.seats[i+1:]...)}
	}
	out := make([]Seat, 0, len(s.seats)+1)
	out = append(out, s.seats[:i]...)
	out = append(out, x)
	return Set{seats: append(out, s.seats[i:]...)}
}

// Union は和集合を返す
func (s Set) Union(o Set) Set {
	all := make([]Seat, 0, len(s.seats)+len(o.seats))
	all = append(all, s.seats...)
	return NewSet(append(all, o.seats...)...)
}

// Intersect は積集合を返す
func (s Set) Intersect(o Set) Set {
	out := make([]Seat, 0)
	for _, x := range s.seats {
		if o.Contains(x) {
			out = append(out, x)
		}
	}
	return Set{seats: out}
}

// Difference は s から o の要素を除いた集合を返す
func (s Set) Difference(o Set) Set {
	out := make([]Seat, 0, len(s.seats))
	for _, x := range s.seats {
		if !o.Contains(x) {
			out = append(out, x)
		}
	}
	return Set{seats: out}
}

// Validate はすべての座席がグリッド上にあるかを検証する
func (s Set) Validate() error {
	for _, x := range s.seats {
		if err := x.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Hash は正規順序の要素列から計算したハッシュを返す（Equal と整合する）
func (s Set) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, x := range s.seats {
		binary.BigEndian.PutUint32(buf[:4], uint32(x.Table))
		binary.BigEndian.PutUint32(buf[4:], uint32(x.Number))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// Key はロックキーやキャッシュキーに使う正規文字列を返す（例: 1.2,1.3）
func (s Set) Key() string {
	parts := make([]string, len(s.seats))
	for i, x := range s.seats {
		parts[i] = strconv.Itoa(x.Table) + "." + strconv.Itoa(x.Number)
	}
	return strings.Join(parts, ",")
}

// ParseKey は Key の出力から集合を復元する
func ParseKey(key string) (Set, error) {
	if key == "" {
		return Set{}, nil
	}
	parts := strings.Split(key, ",")
	seats := make([]Seat, 0, len(parts))
	for _, p := range parts {
		t, n, ok := strings.Cut(p, ".")
		if !ok {
			return Set{}, fmt.Errorf("%w: %q", ErrInvalidKey, p)
		}
		table, err := strconv.Atoi(t)
		if err != nil {
			return Set{}, fmt.Errorf("%w: %q", ErrInvalidKey, p)
		}
		number, err := strconv.Atoi(n)
		if err != nil {
			return Set{}, fmt.Errorf("%w: %q", ErrInvalidKey, p)
		}
		seats = append(seats, New(table, number))
	}
	return NewSet(seats...), nil
}

// String は表示用文字列を返す（例: T1-S2, T1-S3）
func (s Set) String() string {
	if len(s.seats) == 0 {
		return "None"
	}
	parts := make([]string, len(s.seats))
	for i, x := range s.seats {
		parts[i] = x.String()
	}
	return strings.Join(parts, ", ")
}

// MarshalJSON は正規順序の配列として出力する
func (s Set) MarshalJSON() ([]byte, error) {
	if s.seats == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.seats)
}

// UnmarshalJSON は配列を読み込み正規化する
func (s *Set) UnmarshalJSON(data []byte) error {
	var seats []Seat
	if err := json.Unmarshal(data, &seats); err != nil {
		return err
	}
	*s = NewSet(seats...)
	return nil
}

func (s Set) search(x Seat) int {
	return sort.Search(len(s.seats), func(i int) bool { return !s.seats[i].Less(x) })
}
