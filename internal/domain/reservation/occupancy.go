package reservation

import "github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"

// OccupiedSeats は excludeID 以外の全予約の座席の和集合を返す
// 編集中の予約自身の座席を占有扱いにしないため、編集時はその予約IDを渡す
func OccupiedSeats(reservations []*Reservation, excludeID string) seat.Set {
	var all []seat.Seat
	for _, r := range reservations {
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		all = append(all, r.SelectedSeats.Seats()...)
	}
	return seat.NewSet(all...)
}

// Conflicts は seats のうち、excludeID 以外の予約と重なるものを返す
func Conflicts(reservations []*Reservation, excludeID string, seats seat.Set) seat.Set {
	return seats.Intersect(OccupiedSeats(reservations, excludeID))
}
