package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/api"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"
)

type ReservationHandler struct {
	service ReservationServiceInterface
	now     func() time.Time
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s, now: time.Now}
}

// ReservationRequest は予約の作成・更新・変更確認で共通の入力
// 必須チェックや座席数の整合はドメイン側で行い、フィールド単位のエラーとして返す
type ReservationRequest struct {
	CustomerName    string    `json:"customer_name" validate:"max=100" example:"田中太郎"`
	ContactInfo     string    `json:"contact_info" validate:"max=100" example:"090-1234-5678"`
	ReservationTime time.Time `json:"reservation_time" example:"2025-12-24T19:00:00+09:00"`
	NumberOfGuests  int       `json:"number_of_guests" example:"2"`
	SelectedSeats   seat.Set  `json:"selected_seats"`
}

func (r ReservationRequest) toValues() reservation.Values {
	return reservation.Values{
		CustomerName:    r.CustomerName,
		ContactInfo:     r.ContactInfo,
		ReservationTime: r.ReservationTime,
		NumberOfGuests:  r.NumberOfGuests,
		SelectedSeats:   r.SelectedSeats,
	}
}

type ReservationResponse struct {
	ID              string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	CustomerName    string    `json:"customer_name" example:"田中太郎"`
	ContactInfo     string    `json:"contact_info" example:"090-1234-5678"`
	ReservationTime time.Time `json:"reservation_time"`
	NumberOfGuests  int       `json:"number_of_guests" example:"2"`
	SelectedSeats   seat.Set  `json:"selected_seats"`
	SeatLabel       string    `json:"seat_label" example:"T1-S2, T1-S3"`
	Upcoming        bool      `json:"upcoming"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type HasChangesResponse struct {
	HasChanges bool `json:"has_changes"`
}

func toReservationResponse(r *reservation.Reservation, now time.Time) ReservationResponse {
	return ReservationResponse{
		ID: r.ID, CustomerName: r.CustomerName, ContactInfo: r.ContactInfo,
		ReservationTime: r.ReservationTime, NumberOfGuests: r.NumberOfGuests,
		SelectedSeats: r.SelectedSeats, SeatLabel: r.SelectedSeats.String(),
		Upcoming:  r.IsUpcoming(now),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func (h *ReservationHandler) bind(c echo.Context) (reservation.Values, error) {
	var req ReservationRequest
	if err := c.Bind(&req); err != nil {
		return reservation.Values{}, echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return reservation.Values{}, err
	}
	return req.toValues(), nil
}

// Create godoc
// @Summary 予約を作成
// @Description 選択済みの座席で予約を確定します。確定時に座席の競合を再確認します
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body ReservationRequest true "予約情報"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "座席が他の予約で使用中"
// @Router /reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	v, err := h.bind(c)
	if err != nil {
		return err
	}
	r, err := h.service.Create(c.Request().Context(), v)
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toReservationResponse(r, h.now()))
}

// List godoc
// @Summary 予約一覧を取得
// @Tags reservations
// @Produce json
// @Param customer query string false "顧客名（部分一致・大文字小文字を区別しない）"
// @Success 200 {array} ReservationResponse
// @Router /reservations [get]
func (h *ReservationHandler) List(c echo.Context) error {
	list, err := h.service.List(c.Request().Context(), c.QueryParam("customer"))
	if err != nil {
		return api.ToHTTPError(err)
	}
	now := h.now()
	resp := make([]ReservationResponse, len(list))
	for i, r := range list {
		resp[i] = toReservationResponse(r, now)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary 予約を取得
// @Tags reservations
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetByID(c echo.Context) error {
	r, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r, h.now()))
}

// Update godoc
// @Summary 予約を更新
// @Description 失敗した場合、保存済みの予約は変更されません
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path string true "予約ID"
// @Param request body ReservationRequest true "予約情報"
// @Success 200 {object} ReservationResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /reservations/{id} [put]
func (h *ReservationHandler) Update(c echo.Context) error {
	v, err := h.bind(c)
	if err != nil {
		return err
	}
	r, err := h.service.Update(c.Request().Context(), c.Param("id"), v)
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r, h.now()))
}

// Delete godoc
// @Summary 予約を削除
// @Tags reservations
// @Param id path string true "予約ID"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Delete(c echo.Context) error {
	if err := h.service.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return api.ToHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// HasChanges godoc
// @Summary 未保存の変更があるか確認
// @Description 編集中の値が保存済みの予約と異なるかを返します。IDなし（新規作成）は常に true です
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path string false "予約ID"
// @Param request body ReservationRequest true "編集中の値"
// @Success 200 {object} HasChangesResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /reservations/{id}/changes [post]
func (h *ReservationHandler) HasChanges(c echo.Context) error {
	var req ReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	changed, err := h.service.HasChanges(c.Request().Context(), c.Param("id"), req.toValues())
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, HasChangesResponse{HasChanges: changed})
}
