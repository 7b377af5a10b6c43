package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/api"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/pkg/logger"
)

// RequestLogger はリクエストの構造化ログを出力するミドルウェア
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			log := logger.Named("http")

			err := next(c)

			req := c.Request()
			res := c.Response()
			status := res.Status
			if err != nil {
				status = api.ToHTTPError(err).Code
			}

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = res.Header().Get(echo.HeaderXRequestID)
			}

			fields := []zap.Field{
				zap.String("request_id", requestID),
				zap.String("method", req.Method),
				zap.String("route", c.Path()),
				zap.String("path", req.URL.Path),
				zap.String("query", req.URL.RawQuery),
				zap.Int("status", status),
				zap.Int64("size", res.Size),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_ip", c.RealIP()),
			}
			if id := c.Param("id"); id != "" {
				fields = append(fields, zap.String("resource_id", id))
			}

			switch {
			case status >= 500:
				if err != nil {
					fields = append(fields, zap.Error(err))
				}
				log.Error("server error", fields...)
			case status >= 400:
				if err != nil {
					fields = append(fields, zap.String("reason", err.Error()))
				}
				log.Warn("client error", fields...)
			default:
				log.Info("request completed", fields...)
			}

			return err
		}
	}
}
