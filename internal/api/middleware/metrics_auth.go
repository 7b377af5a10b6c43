package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/config"
)

// MetricsBasicAuth は /metrics エンドポイント用の Basic 認証ミドルウェア
// ユーザーとパスワードの両方が設定されている場合のみ認証を要求する
func MetricsBasicAuth(cfg config.MetricsConfig) echo.MiddlewareFunc {
	if !cfg.AuthEnabled() {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	user, pass := []byte(cfg.User), []byte(cfg.Password)
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Realm: "metrics",
		Validator: func(username, password string, c echo.Context) (bool, error) {
			// 両方を必ず比較して、どちらが違ったかで応答時間が変わらないようにする
			userMatch := subtle.ConstantTimeCompare([]byte(username), user)
			passMatch := subtle.ConstantTimeCompare([]byte(password), pass)
			return userMatch&passMatch == 1, nil
		},
	})
}
