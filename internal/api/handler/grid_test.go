package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"
)

func TestGridHandler_Get(t *testing.T) {
	e := NewTestEcho()

	t.Run("使用中の座席を含むグリッドを返す", func(t *testing.T) {
		mockService := new(MockOccupancyService)
		mockService.On("Occupied", mock.Anything, "").Return(seat.NewSet(seat.New(1, 2), seat.New(1, 3)), nil)
		handler := NewGridHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/grid", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, handler.Get(e.NewContext(req, rec)))

		var resp GridResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 40, resp.Capacity)
		assert.Equal(t, 2, resp.Occupied)
		assert.Equal(t, 38, resp.Free)
		require.Len(t, resp.Tables, 10)
		assert.Equal(t, "T1-S2", resp.Tables[0].Seats[1].Label)
		assert.True(t, resp.Tables[0].Seats[1].Occupied)
		assert.False(t, resp.Tables[0].Seats[0].Occupied)
	})

	t.Run("excludeを渡す", func(t *testing.T) {
		mockService := new(MockOccupancyService)
		mockService.On("Occupied", mock.Anything, "res-1").Return(seat.NewSet(), nil)
		handler := NewGridHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/grid?exclude=res-1", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, handler.Get(e.NewContext(req, rec)))
		assert.Contains(t, rec.Body.String(), `"free":40`)
		mockService.AssertExpectations(t)
	})

	t.Run("サービスエラーは500", func(t *testing.T) {
		mockService := new(MockOccupancyService)
		mockService.On("Occupied", mock.Anything, "").Return(seat.Set{}, errors.New("db down"))
		handler := NewGridHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/grid", nil)
		var he *echo.HTTPError
		require.ErrorAs(t, handler.Get(e.NewContext(req, httptest.NewRecorder())), &he)
		assert.Equal(t, http.StatusInternalServerError, he.Code)
	})
}
