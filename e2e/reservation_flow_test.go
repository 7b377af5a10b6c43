package e2e

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/api"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/api/handler"
)

func seatReq(table, seat int) map[string]int {
	return map[string]int{"table": table, "seat": seat}
}

func reservationBody(name string, guests int, at time.Time, seats ...map[string]int) map[string]interface{} {
	return map[string]interface{}{
		"customer_name":    name,
		"contact_info":     "090-1234-5678",
		"reservation_time": at.Format(time.RFC3339),
		"number_of_guests": guests,
		"selected_seats":   seats,
	}
}

// TestE2E_HealthCheck はヘルスチェックをテスト
func TestE2E_HealthCheck(t *testing.T) {
	server := NewTestServer(t)

	rec := server.Request(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.HealthResponse
	decode(t, rec, &resp)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "memory", resp.Store)
}

// TestE2E_CompleteReservationJourney は座席選択から予約の編集・削除までをテスト
func TestE2E_CompleteReservationJourney(t *testing.T) {
	server := NewTestServer(t)
	at := time.Now().Add(48 * time.Hour).Truncate(time.Minute)

	var sessionID, reservationID string

	t.Run("空のグリッド", func(t *testing.T) {
		rec := server.Request(http.MethodGet, "/api/v1/grid", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp handler.GridResponse
		decode(t, rec, &resp)
		assert.Equal(t, 40, resp.Capacity)
		assert.Equal(t, 0, resp.Occupied)
		assert.Equal(t, 40, resp.Free)
		assert.Len(t, resp.Tables, 10)
	})

	t.Run("座席選択を開始", func(t *testing.T) {
		rec := server.Request(http.MethodPost, "/api/v1/selections", map[string]interface{}{"target": 2})
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp handler.SelectionResponse
		decode(t, rec, &resp)
		sessionID = resp.ID
		assert.NotEmpty(t, sessionID)
		assert.Equal(t, "selecting", resp.State)
		assert.Equal(t, 2, resp.Remaining)
		assert.False(t, resp.CanConfirm)
	})

	t.Run("人数分に満たないと確定できない", func(t *testing.T) {
		rec := server.Request(http.MethodPost, "/api/v1/selections/"+sessionID+"/confirm", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("座席を2つ選ぶ", func(t *testing.T) {
		for _, s := range []map[string]int{seatReq(2, 1), seatReq(2, 2)} {
			rec := server.Request(http.MethodPost, "/api/v1/selections/"+sessionID+"/toggle", s)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp handler.SelectionResponse
			decode(t, rec, &resp)
			require.NotNil(t, resp.Changed)
			assert.True(t, *resp.Changed)
		}

		rec := server.Request(http.MethodGet, "/api/v1/selections/"+sessionID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp handler.SelectionResponse
		decode(t, rec, &resp)
		assert.Equal(t, "ready", resp.State)
		assert.True(t, resp.CanConfirm)
		assert.Equal(t, "T2-S1, T2-S2", resp.SelectedLabel)
	})

	t.Run("3つ目は選べない", func(t *testing.T) {
		rec := server.Request(http.MethodPost, "/api/v1/selections/"+sessionID+"/toggle", seatReq(3, 1))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp handler.SelectionResponse
		decode(t, rec, &resp)
		require.NotNil(t, resp.Changed)
		assert.False(t, *resp.Changed)
		assert.Equal(t, 0, resp.Remaining)
	})

	t.Run("選択を確定", func(t *testing.T) {
		rec := server.Request(http.MethodPost, "/api/v1/selections/"+sessionID+"/confirm", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp handler.ConfirmSelectionResponse
		decode(t, rec, &resp)
		assert.Equal(t, "T2-S1, T2-S2", resp.Label)
		assert.Equal(t, 2, resp.Seats.Len())

		// 確定したセッションは残らない
		rec = server.Request(http.MethodGet, "/api/v1/selections/"+sessionID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("予約作成", func(t *testing.T) {
		body := reservationBody("田中太郎", 2, at, seatReq(2, 2), seatReq(2, 1))
		rec := server.Request(http.MethodPost, "/api/v1/reservations", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp handler.ReservationResponse
		decode(t, rec, &resp)
		reservationID = resp.ID
		assert.NotEmpty(t, reservationID)
		assert.Equal(t, "T2-S1, T2-S2", resp.SeatLabel)
		assert.True(t, resp.Upcoming)
	})

	t.Run("グリッドに反映される", func(t *testing.T) {
		rec := server.Request(http.MethodGet, "/api/v1/grid", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp handler.GridResponse
		decode(t, rec, &resp)
		assert.Equal(t, 2, resp.Occupied)
		assert.Equal(t, 38, resp.Free)
		assert.True(t, resp.Tables[1].Seats[0].Occupied)
		assert.True(t, resp.Tables[1].Seats[1].Occupied)
		assert.False(t, resp.Tables[1].Seats[2].Occupied)
	})

	t.Run("同じ座席での予約は409", func(t *testing.T) {
		body := reservationBody("山田花子", 1, at, seatReq(2, 1))
		rec := server.Request(http.MethodPost, "/api/v1/reservations", body)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("使用中の座席は選択できない", func(t *testing.T) {
		rec := server.Request(http.MethodPost, "/api/v1/selections", map[string]interface{}{"target": 1})
		require.Equal(t, http.StatusCreated, rec.Code)
		var open handler.SelectionResponse
		decode(t, rec, &open)

		rec = server.Request(http.MethodPost, "/api/v1/selections/"+open.ID+"/toggle", seatReq(2, 1))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp handler.SelectionResponse
		decode(t, rec, &resp)
		require.NotNil(t, resp.Changed)
		assert.False(t, *resp.Changed)

		rec = server.Request(http.MethodDelete, "/api/v1/selections/"+open.ID, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("編集時は自分の座席を選び直せる", func(t *testing.T) {
		body := map[string]interface{}{
			"target":         3,
			"reservation_id": reservationID,
			"preselected":    []map[string]int{seatReq(2, 1), seatReq(2, 2)},
		}
		rec := server.Request(http.MethodPost, "/api/v1/selections", body)
		require.Equal(t, http.StatusCreated, rec.Code)
		var open handler.SelectionResponse
		decode(t, rec, &open)
		assert.Equal(t, 1, open.Remaining)
		assert.Equal(t, reservationID, open.ReservationID)

		rec = server.Request(http.MethodPost, "/api/v1/selections/"+open.ID+"/toggle", seatReq(2, 3))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = server.Request(http.MethodPost, "/api/v1/selections/"+open.ID+"/confirm", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var confirmed handler.ConfirmSelectionResponse
		decode(t, rec, &confirmed)
		assert.Equal(t, "T2-S1, T2-S2, T2-S3", confirmed.Label)
	})

	t.Run("変更の有無を確認", func(t *testing.T) {
		same := reservationBody("田中太郎", 2, at.Add(20*time.Second), seatReq(2, 1), seatReq(2, 2))
		rec := server.Request(http.MethodPost, "/api/v1/reservations/"+reservationID+"/changes", same)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp handler.HasChangesResponse
		decode(t, rec, &resp)
		assert.False(t, resp.HasChanges)

		changed := reservationBody("田中太郎", 3, at, seatReq(2, 1), seatReq(2, 2), seatReq(2, 3))
		rec = server.Request(http.MethodPost, "/api/v1/reservations/"+reservationID+"/changes", changed)
		require.Equal(t, http.StatusOK, rec.Code)
		decode(t, rec, &resp)
		assert.True(t, resp.HasChanges)

		rec = server.Request(http.MethodPost, "/api/v1/reservations/changes", same)
		require.Equal(t, http.StatusOK, rec.Code)
		decode(t, rec, &resp)
		assert.True(t, resp.HasChanges)
	})

	t.Run("予約更新", func(t *testing.T) {
		body := reservationBody("田中太郎", 3, at, seatReq(2, 1), seatReq(2, 2), seatReq(2, 3))
		rec := server.Request(http.MethodPut, "/api/v1/reservations/"+reservationID, body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp handler.ReservationResponse
		decode(t, rec, &resp)
		assert.Equal(t, 3, resp.NumberOfGuests)
		assert.Equal(t, "T2-S1, T2-S2, T2-S3", resp.SeatLabel)
	})

	t.Run("顧客名で検索", func(t *testing.T) {
		rec := server.Request(http.MethodGet, "/api/v1/reservations?customer=%E7%94%B0%E4%B8%AD", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp []handler.ReservationResponse
		decode(t, rec, &resp)
		require.Len(t, resp, 1)
		assert.Equal(t, reservationID, resp[0].ID)
	})

	t.Run("予約削除", func(t *testing.T) {
		rec := server.Request(http.MethodDelete, "/api/v1/reservations/"+reservationID, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = server.Request(http.MethodGet, "/api/v1/reservations/"+reservationID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = server.Request(http.MethodGet, "/api/v1/grid", nil)
		var grid handler.GridResponse
		decode(t, rec, &grid)
		assert.Equal(t, 0, grid.Occupied)
	})
}

// TestE2E_ValidationErrors は入力エラーのレスポンス形式をテスト
func TestE2E_ValidationErrors(t *testing.T) {
	server := NewTestServer(t)
	at := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"顧客名が空", reservationBody(" ", 1, at, seatReq(1, 1)), "customer_name"},
		{"人数と座席数が不一致", reservationBody("田中太郎", 2, at, seatReq(1, 1)), "selected_seats"},
		{"過去の時刻", reservationBody("田中太郎", 1, time.Now().Add(-time.Hour), seatReq(1, 1)), "reservation_time"},
		{"範囲外の座席", reservationBody("田中太郎", 1, at, seatReq(11, 1)), "selected_seats"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := server.Request(http.MethodPost, "/api/v1/reservations", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var resp api.ErrorResponse
			decode(t, rec, &resp)
			assert.Equal(t, tt.field, resp.Field)
		})
	}

	t.Run("人数が範囲外の座席選択", func(t *testing.T) {
		rec := server.Request(http.MethodPost, "/api/v1/selections", map[string]interface{}{"target": 21})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

// TestE2E_ConcurrentReservations は同じ座席への同時予約で1件だけ成功することをテスト
func TestE2E_ConcurrentReservations(t *testing.T) {
	server := NewTestServer(t)
	at := time.Now().Add(24 * time.Hour)

	const workers = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = map[int]int{}
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := reservationBody(fmt.Sprintf("客%d", i), 1, at, seatReq(5, 4))
			rec := server.Request(http.MethodPost, "/api/v1/reservations", body)
			mu.Lock()
			statuses[rec.Code]++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, statuses[http.StatusCreated])
	assert.Equal(t, workers-1, statuses[http.StatusConflict])
}

// TestE2E_Metrics は /metrics でアプリケーションのメトリクスが公開されることをテスト
func TestE2E_Metrics(t *testing.T) {
	server := NewTestServer(t)

	rec := server.Request(http.MethodPost, "/api/v1/reservations",
		reservationBody("田中太郎", 1, time.Now().Add(time.Hour), seatReq(1, 1)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = server.Request(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `reservations_total{operation="create",status="success"} 1`), body)
	assert.Contains(t, body, "occupied_seats 1")
	assert.Contains(t, body, "http_requests_total")
}
