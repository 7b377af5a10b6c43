package seat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeat_Validate(t *testing.T) {
	tests := []struct {
		name    string
		seat    Seat
		wantErr bool
	}{
		{"先頭の座席", New(1, 1), false},
		{"末尾の座席", New(10, 4), false},
		{"テーブル0", New(0, 1), true},
		{"テーブル11", New(11, 1), true},
		{"座席0", New(1, 0), true},
		{"座席5", New(1, 5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.seat.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrSeatOutOfGrid)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSeat_String(t *testing.T) {
	assert.Equal(t, "T1-S2", New(1, 2).String())
	assert.Equal(t, "T10-S4", New(10, 4).String())
}

func TestSeat_Less(t *testing.T) {
	assert.True(t, New(1, 4).Less(New(2, 1)))
	assert.True(t, New(2, 1).Less(New(2, 2)))
	assert.False(t, New(2, 2).Less(New(2, 2)))
	assert.False(t, New(3, 1).Less(New(2, 4)))
}

func TestGrid_AllSeats(t *testing.T) {
	g := DefaultGrid()
	seats := g.AllSeats()

	require.Len(t, seats, 40)
	assert.Equal(t, New(1, 1), seats[0])
	assert.Equal(t, New(1, 4), seats[3])
	assert.Equal(t, New(2, 1), seats[4])
	assert.Equal(t, New(10, 4), seats[39])

	for i := 1; i < len(seats); i++ {
		assert.True(t, seats[i-1].Less(seats[i]), "順序が崩れている: %v %v", seats[i-1], seats[i])
	}
}

func TestGrid_Tables(t *testing.T) {
	g := DefaultGrid()
	tables := g.Tables()

	require.Len(t, tables, TableCount)
	for i, tb := range tables {
		assert.Equal(t, i+1, tb.Number)
		for j, s := range tb.Seats {
			assert.Equal(t, New(i+1, j+1), s)
		}
	}

	// 返されたコピーを変更してもグリッドは変わらない
	tables[0].Number = 99
	assert.Equal(t, 1, g.Tables()[0].Number)
}

func TestGrid_Contains(t *testing.T) {
	g := DefaultGrid()
	assert.True(t, g.Contains(New(5, 3)))
	assert.False(t, g.Contains(New(11, 1)))
	assert.Equal(t, Capacity, g.Universe().Len())
}
