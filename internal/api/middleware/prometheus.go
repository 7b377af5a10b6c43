package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/api"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/pkg/metrics"
)

// PrometheusMiddleware はHTTPメトリクスを収集するミドルウェア
// パスはルート定義（/api/v1/reservations/:id）で集計し、IDごとに系列が増えないようにする
func PrometheusMiddleware(m *metrics.Metrics, skipPaths ...string) echo.MiddlewareFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			if _, ok := skip[c.Path()]; ok {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			duration := time.Since(start).Seconds()

			// エラーはエラーハンドラーがレスポンスを書く前なので、ステータスはエラーから求める
			status := c.Response().Status
			if err != nil {
				status = api.ToHTTPError(err).Code
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method

			m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)

			return err
		}
	}
}
