package reservation

import (
	"errors"
	"fmt"
)

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound = errors.New("予約が見つかりません")
	ErrSeatConflict        = errors.New("座席は既に他の予約で使用されています")
	ErrValidation          = errors.New("入力内容が不正です")
)

// Field は検証エラーの対象フィールド
type Field string

const (
	FieldCustomerName    Field = "customer_name"
	FieldContactInfo     Field = "contact_info"
	FieldReservationTime Field = "reservation_time"
	FieldNumberOfGuests  Field = "number_of_guests"
	FieldSelectedSeats   Field = "selected_seats"
)

// ValidationError は保存時の入力エラー
type ValidationError struct {
	Field   Field
	Message string
}

// NewValidationError は ValidationError を作成する
func NewValidationError(field Field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
