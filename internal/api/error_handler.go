package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/pkg/logger"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
// ハンドラーがドメインエラーをそのまま返した場合もここでステータスに変換する
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	he := ToHTTPError(err)
	resp := ErrorResponse{Code: he.Code}
	if m, ok := he.Message.(string); ok {
		resp.Error = m
	} else {
		resp.Error = http.StatusText(he.Code)
	}

	var verr *reservation.ValidationError
	if errors.As(err, &verr) {
		resp.Field = string(verr.Field)
		resp.Details = verr.Message
	}

	// エラーログを出力（5xx エラーの場合）
	if he.Code >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", he.Code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(he.Code)
	} else {
		err = c.JSON(he.Code, resp)
	}
	if err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}
