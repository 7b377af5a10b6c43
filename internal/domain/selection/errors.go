package selection

import (
	"errors"
	"fmt"
)

// Selection ドメインのエラー定義
var (
	ErrSeatCountMismatch = errors.New("選択した座席数が人数と一致しません")
	ErrSessionClosed     = errors.New("座席選択セッションは終了しています")
	ErrInvalidTarget     = errors.New("人数は1以上である必要があります")
	ErrInsufficientSeats = errors.New("空席が人数に足りません")
)

// SeatCountMismatchError は確定時の座席数不一致を表す
type SeatCountMismatchError struct {
	Have int
	Want int
}

func (e *SeatCountMismatchError) Error() string {
	return fmt.Sprintf("%s（選択 %d / 必要 %d）", ErrSeatCountMismatch.Error(), e.Have, e.Want)
}

func (e *SeatCountMismatchError) Unwrap() error {
	return ErrSeatCountMismatch
}
