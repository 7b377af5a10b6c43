package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/application"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/selection"
)

// ToHTTPError はドメインエラーをHTTPステータスに対応付ける
// 元のエラーは Internal に保持され、エラーハンドラーが詳細の出力に使う
func ToHTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	code := http.StatusInternalServerError
	message := "内部サーバーエラー"
	switch {
	case errors.Is(err, reservation.ErrReservationNotFound),
		errors.Is(err, application.ErrSessionNotFound):
		code, message = http.StatusNotFound, err.Error()
	case errors.Is(err, reservation.ErrSeatConflict),
		errors.Is(err, application.ErrSeatsBusy),
		errors.Is(err, selection.ErrInsufficientSeats),
		errors.Is(err, selection.ErrSessionClosed):
		code, message = http.StatusConflict, err.Error()
	case errors.Is(err, selection.ErrSeatCountMismatch):
		code, message = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, reservation.ErrValidation),
		errors.Is(err, selection.ErrInvalidTarget):
		code, message = http.StatusBadRequest, err.Error()
	}
	return echo.NewHTTPError(code, message).SetInternal(err)
}
