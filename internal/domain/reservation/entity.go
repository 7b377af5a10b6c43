package reservation

import (
	"strings"
	"time"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"
)

const (
	// MinGuests は1予約あたりの最小人数
	MinGuests = 1
	// MaxGuests は1予約あたりの最大人数
	MaxGuests = 20
)

// Values は予約の編集可能なフィールドをまとめたもの
type Values struct {
	CustomerName    string
	ContactInfo     string
	ReservationTime time.Time
	NumberOfGuests  int
	SelectedSeats   seat.Set
}

// Reservation は予約エンティティを表す
type Reservation struct {
	ID              string
	CustomerName    string
	ContactInfo     string
	ReservationTime time.Time
	NumberOfGuests  int
	SelectedSeats   seat.Set
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewReservation は新しい予約を作成する（IDはリポジトリが採番する）
func NewReservation(v Values, now time.Time) *Reservation {
	r := &Reservation{CreatedAt: now}
	r.Apply(v, now)
	return r
}

// Apply は編集値を予約に反映する
func (r *Reservation) Apply(v Values, now time.Time) {
	r.CustomerName = v.CustomerName
	r.ContactInfo = v.ContactInfo
	r.ReservationTime = v.ReservationTime
	r.NumberOfGuests = v.NumberOfGuests
	r.SelectedSeats = v.SelectedSeats
	r.UpdatedAt = now
}

// Values は予約の現在の編集値を返す
func (r *Reservation) Values() Values {
	return Values{
		CustomerName:    r.CustomerName,
		ContactInfo:     r.ContactInfo,
		ReservationTime: r.ReservationTime,
		NumberOfGuests:  r.NumberOfGuests,
		SelectedSeats:   r.SelectedSeats,
	}
}

// Clone は予約のコピーを返す（座席集合は不変なので共有してよい）
func (r *Reservation) Clone() *Reservation {
	c := *r
	return &c
}

// IsUpcoming は予約時刻が now より後かを返す
func (r *Reservation) IsUpcoming(now time.Time) bool {
	return r.ReservationTime.After(now)
}

// MatchesCustomer は顧客名が部分一致するかを返す（大文字小文字を区別しない、空は全件一致）
func (r *Reservation) MatchesCustomer(filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.CustomerName), strings.ToLower(filter))
}

// FilterByCustomer は顧客名で予約一覧を絞り込む
func FilterByCustomer(list []*Reservation, filter string) []*Reservation {
	out := make([]*Reservation, 0, len(list))
	for _, r := range list {
		if r.MatchesCustomer(filter) {
			out = append(out, r)
		}
	}
	return out
}

// Validate は保存時の検証を行う
func (v Values) Validate() error {
	if strings.TrimSpace(v.CustomerName) == "" {
		return NewValidationError(FieldCustomerName, "顧客名を入力してください")
	}
	if strings.TrimSpace(v.ContactInfo) == "" {
		return NewValidationError(FieldContactInfo, "連絡先を入力してください")
	}
	if v.NumberOfGuests < MinGuests || v.NumberOfGuests > MaxGuests {
		return NewValidationError(FieldNumberOfGuests, "人数は1〜20名で指定してください")
	}
	if err := v.SelectedSeats.Validate(); err != nil {
		return NewValidationError(FieldSelectedSeats, err.Error())
	}
	if v.SelectedSeats.Len() != v.NumberOfGuests {
		return NewValidationError(FieldSelectedSeats, "座席数と人数が一致しません")
	}
	return nil
}

// ValidateSchedule は新規予約の時刻が過去でないかを検証する（分単位）
func (v Values) ValidateSchedule(now time.Time) error {
	if v.ReservationTime.IsZero() {
		return NewValidationError(FieldReservationTime, "予約時刻を入力してください")
	}
	if v.ReservationTime.Truncate(time.Minute).Before(now.Truncate(time.Minute)) {
		return NewValidationError(FieldReservationTime, "予約時刻は現在以降を指定してください")
	}
	return nil
}
