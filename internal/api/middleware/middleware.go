package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// 予約リクエストは座席40件が上限なので小さくてよい
const bodyLimit = "64K"

// SetupMiddleware は共通ミドルウェアを設定する
func SetupMiddleware(e *echo.Echo, allowOrigins []string) {
	// リクエストID（UUID）
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	// 構造化リクエストログ（zap）
	e.Use(RequestLogger())

	// パニックリカバリー
	e.Use(middleware.Recover())

	e.Use(middleware.BodyLimit(bodyLimit))

	// CORS
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.POST, echo.DELETE},
	}))
}
