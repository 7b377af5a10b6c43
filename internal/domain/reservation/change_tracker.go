package reservation

import (
	"time"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"
)

// Snapshot は編集開始時点の予約値
type Snapshot struct {
	customerName    string
	contactInfo     string
	reservationTime time.Time
	numberOfGuests  int
	selectedSeats   seat.Set
}

// TakeSnapshot は予約の現在値を値として保存する
func TakeSnapshot(r *Reservation) *Snapshot {
	return &Snapshot{
		customerName:    r.CustomerName,
		contactInfo:     r.ContactInfo,
		reservationTime: r.ReservationTime,
		numberOfGuests:  r.NumberOfGuests,
		selectedSeats:   seat.NewSet(r.SelectedSeats.Seats()...),
	}
}

// Values はスナップショットの値を返す（変更破棄時の復元に使う）
func (s *Snapshot) Values() Values {
	return Values{
		CustomerName:    s.customerName,
		ContactInfo:     s.contactInfo,
		ReservationTime: s.reservationTime,
		NumberOfGuests:  s.numberOfGuests,
		SelectedSeats:   s.selectedSeats,
	}
}

// HasChanges は編集中の値がスナップショットと異なるかを返す
// スナップショットが無い（未保存の新規予約）場合は常に true
// 予約時刻は分単位で比較し、秒以下の差は無視する
func HasChanges(snap *Snapshot, current Values) bool {
	if snap == nil {
		return true
	}
	return snap.customerName != current.CustomerName ||
		snap.contactInfo != current.ContactInfo ||
		snap.numberOfGuests != current.NumberOfGuests ||
		!sameMinute(snap.reservationTime, current.ReservationTime) ||
		!snap.selectedSeats.Equal(current.SelectedSeats)
}

func sameMinute(a, b time.Time) bool {
	return a.Truncate(time.Minute).Equal(b.Truncate(time.Minute))
}
