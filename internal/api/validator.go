package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator はEcho用のカスタムバリデーター
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator は新しいバリデーターを作成する
func NewValidator() *CustomValidator {
	v := validator.New()
	// エラーメッセージには Go のフィールド名ではなく JSON 名を出す
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate はリクエストのバリデーションを実行する
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		if fe.Param() != "" {
			msgs[i] = fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param())
		} else {
			msgs[i] = fmt.Sprintf("%s: %s", fe.Field(), fe.Tag())
		}
	}
	return echo.NewHTTPError(http.StatusBadRequest, strings.Join(msgs, ", "))
}
