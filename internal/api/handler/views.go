package handler

import (
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/selection"
)

// SeatViewResponse は座席1つ分の表示状態
type SeatViewResponse struct {
	Table    int    `json:"table" example:"1"`
	Seat     int    `json:"seat" example:"2"`
	Label    string `json:"label" example:"T1-S2"`
	Occupied bool   `json:"occupied"`
	Selected bool   `json:"selected"`
}

// TableViewResponse はテーブル1卓分の表示状態
type TableViewResponse struct {
	Number int                `json:"number" example:"1"`
	Seats  []SeatViewResponse `json:"seats"`
}

func toTableViews(tables []selection.TableView) []TableViewResponse {
	out := make([]TableViewResponse, len(tables))
	for i, t := range tables {
		seats := make([]SeatViewResponse, len(t.Seats))
		for j, s := range t.Seats {
			seats[j] = SeatViewResponse{
				Table: s.Seat.Table, Seat: s.Seat.Number, Label: s.Seat.String(),
				Occupied: s.Occupied, Selected: s.Selected,
			}
		}
		out[i] = TableViewResponse{Number: t.Number, Seats: seats}
	}
	return out
}

// SeatRequest は座席の指定
type SeatRequest struct {
	Table int `json:"table" validate:"min=1,max=10" example:"1"`
	Seat  int `json:"seat" validate:"min=1,max=4" example:"2"`
}

func (r SeatRequest) toSeat() seat.Seat {
	return seat.New(r.Table, r.Seat)
}
