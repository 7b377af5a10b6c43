package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthCheck は依存コンポーネントの疎通確認
type HealthCheck func(ctx context.Context) error

// HealthHandler はヘルスチェックハンドラー
type HealthHandler struct {
	store  string
	checks map[string]HealthCheck
}

// NewHealthHandler はHealthHandlerを作成する
// checks には PostgreSQL や Redis など、設定されている依存だけを渡す
func NewHealthHandler(store string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{store: store, checks: checks}
}

// HealthResponse はヘルスチェックのレスポンス
type HealthResponse struct {
	Status     string            `json:"status"`
	Store      string            `json:"store"`
	Components map[string]string `json:"components,omitempty"`
	Timestamp  string            `json:"timestamp"`
}

// Check はヘルスチェックを行う
// @Summary ヘルスチェック
// @Description アプリケーションと依存コンポーネントの健全性を確認する
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Store: h.store, Timestamp: time.Now().Format(time.RFC3339)}
	code := http.StatusOK
	if len(h.checks) > 0 {
		resp.Components = make(map[string]string, len(h.checks))
	}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			resp.Components[name] = err.Error()
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Components[name] = "ok"
	}
	return c.JSON(code, resp)
}
