package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/api"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/selection"
)

// GridHandler は座席グリッドの参照ハンドラー
type GridHandler struct {
	occupancy OccupancyServiceInterface
	grid      *seat.Grid
}

func NewGridHandler(o OccupancyServiceInterface) *GridHandler {
	return &GridHandler{occupancy: o, grid: seat.DefaultGrid()}
}

// GridResponse はグリッド全体の状態
type GridResponse struct {
	Capacity int                 `json:"capacity" example:"40"`
	Occupied int                 `json:"occupied" example:"2"`
	Free     int                 `json:"free" example:"38"`
	Tables   []TableViewResponse `json:"tables"`
}

// Get godoc
// @Summary 座席グリッドを取得
// @Description 全テーブルの座席と使用中かどうかを返します。exclude を指定するとその予約の座席は空席として扱います
// @Tags grid
// @Produce json
// @Param exclude query string false "除外する予約ID（編集時）"
// @Success 200 {object} GridResponse
// @Router /grid [get]
func (h *GridHandler) Get(c echo.Context) error {
	occupied, err := h.occupancy.Occupied(c.Request().Context(), c.QueryParam("exclude"))
	if err != nil {
		return api.ToHTTPError(err)
	}
	capacity := h.grid.Universe().Len()
	return c.JSON(http.StatusOK, GridResponse{
		Capacity: capacity,
		Occupied: occupied.Len(),
		Free:     capacity - occupied.Len(),
		Tables:   toTableViews(selection.Layout(h.grid, occupied, seat.Set{})),
	})
}
