package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/api"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/application"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"
)

type SelectionHandler struct {
	service SelectionServiceInterface
}

func NewSelectionHandler(s SelectionServiceInterface) *SelectionHandler {
	return &SelectionHandler{service: s}
}

type OpenSelectionRequest struct {
	Target        int           `json:"target" validate:"min=1,max=20" example:"2"`
	Preselected   []SeatRequest `json:"preselected" validate:"dive"`
	ReservationID string        `json:"reservation_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
}

type SelectionResponse struct {
	ID            string              `json:"id" example:"8d3f0c1e-8a4b-4f0e-9a39-2f3f4b7a9c11"`
	ReservationID string              `json:"reservation_id,omitempty"`
	State         string              `json:"state" example:"selecting"`
	Target        int                 `json:"target" example:"2"`
	Remaining     int                 `json:"remaining" example:"1"`
	CanConfirm    bool                `json:"can_confirm"`
	Selected      seat.Set            `json:"selected"`
	SelectedLabel string              `json:"selected_label" example:"T1-S2"`
	Changed       *bool               `json:"changed,omitempty"`
	Tables        []TableViewResponse `json:"tables"`
}

type ConfirmSelectionResponse struct {
	Seats seat.Set `json:"seats"`
	Label string   `json:"label" example:"T1-S2, T1-S3"`
}

func toSelectionResponse(s *application.SelectionSnapshot) SelectionResponse {
	return SelectionResponse{
		ID: s.ID, ReservationID: s.ReservationID, State: string(s.State),
		Target: s.Target, Remaining: s.Remaining, CanConfirm: s.CanConfirm,
		Selected: s.Selected, SelectedLabel: s.Selected.String(),
		Tables: toTableViews(s.Tables),
	}
}

// Open godoc
// @Summary 座席選択を開始
// @Description 人数分の座席を選ぶセッションを開始します。reservation_id を指定すると編集中の予約の座席は空席として扱います
// @Tags selections
// @Accept json
// @Produce json
// @Param request body OpenSelectionRequest true "開始条件"
// @Success 201 {object} SelectionResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "空席不足"
// @Router /selections [post]
func (h *SelectionHandler) Open(c echo.Context) error {
	var req OpenSelectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	pre := make([]seat.Seat, len(req.Preselected))
	for i, s := range req.Preselected {
		pre[i] = s.toSeat()
	}
	snap, err := h.service.Open(c.Request().Context(), application.OpenSelectionInput{
		Target:        req.Target,
		Preselected:   seat.NewSet(pre...),
		ReservationID: req.ReservationID,
	})
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toSelectionResponse(snap))
}

// Get godoc
// @Summary 座席選択の状態を取得
// @Tags selections
// @Produce json
// @Param id path string true "セッションID"
// @Success 200 {object} SelectionResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /selections/{id} [get]
func (h *SelectionHandler) Get(c echo.Context) error {
	snap, err := h.service.Get(c.Param("id"))
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toSelectionResponse(snap))
}

// Toggle godoc
// @Summary 座席の選択を切り替え
// @Description 使用中の座席や人数に達した後の追加は無視され、changed=false が返ります
// @Tags selections
// @Accept json
// @Produce json
// @Param id path string true "セッションID"
// @Param request body SeatRequest true "座席"
// @Success 200 {object} SelectionResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /selections/{id}/toggle [post]
func (h *SelectionHandler) Toggle(c echo.Context) error {
	var req SeatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	snap, changed, err := h.service.Toggle(c.Param("id"), req.toSeat())
	if err != nil {
		return api.ToHTTPError(err)
	}
	resp := toSelectionResponse(snap)
	resp.Changed = &changed
	return c.JSON(http.StatusOK, resp)
}

// Confirm godoc
// @Summary 座席選択を確定
// @Tags selections
// @Produce json
// @Param id path string true "セッションID"
// @Success 200 {object} ConfirmSelectionResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 422 {object} api.ErrorResponse "座席数が人数と一致しない"
// @Router /selections/{id}/confirm [post]
func (h *SelectionHandler) Confirm(c echo.Context) error {
	seats, err := h.service.Confirm(c.Param("id"))
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, ConfirmSelectionResponse{Seats: seats, Label: seats.String()})
}

// Abandon godoc
// @Summary 座席選択を破棄
// @Tags selections
// @Param id path string true "セッションID"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Router /selections/{id} [delete]
func (h *SelectionHandler) Abandon(c echo.Context) error {
	if err := h.service.Abandon(c.Param("id")); err != nil {
		return api.ToHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
