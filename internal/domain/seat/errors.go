package seat

import "errors"

// Seat ドメインのエラー定義
var (
	ErrSeatOutOfGrid = errors.New("座席がグリッドの範囲外です")
	ErrInvalidKey    = errors.New("座席キーの形式が不正です")
)
