package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/api"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/api/handler"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/config"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/pkg/metrics"
)

const metricsPath = "/metrics"

// Options はルーター構築に必要な依存
type Options struct {
	Reservations handler.ReservationServiceInterface
	Occupancy    handler.OccupancyServiceInterface
	Selections   handler.SelectionServiceInterface
	Health       *handler.HealthHandler

	// Metrics が nil の場合は /metrics を公開しない
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	AllowOrigins []string
	MetricsAuth  config.MetricsConfig
}

// New はミドルウェアとルートを設定した Echo を返す
func New(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	middleware.SetupMiddleware(e, opts.AllowOrigins)
	if opts.Metrics != nil {
		e.Use(middleware.PrometheusMiddleware(opts.Metrics, metricsPath))
		gatherer := opts.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		e.GET(metricsPath, echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})),
			middleware.MetricsBasicAuth(opts.MetricsAuth))
	}

	health := opts.Health
	if health == nil {
		health = handler.NewHealthHandler("", nil)
	}
	e.GET("/health", health.Check)

	grid := handler.NewGridHandler(opts.Occupancy)
	selections := handler.NewSelectionHandler(opts.Selections)
	reservations := handler.NewReservationHandler(opts.Reservations)

	v1 := e.Group("/api/v1")
	v1.GET("/grid", grid.Get)

	v1.POST("/selections", selections.Open)
	v1.GET("/selections/:id", selections.Get)
	v1.POST("/selections/:id/toggle", selections.Toggle)
	v1.POST("/selections/:id/confirm", selections.Confirm)
	v1.DELETE("/selections/:id", selections.Abandon)

	v1.POST("/reservations", reservations.Create)
	v1.GET("/reservations", reservations.List)
	v1.POST("/reservations/changes", reservations.HasChanges)
	v1.GET("/reservations/:id", reservations.GetByID)
	v1.PUT("/reservations/:id", reservations.Update)
	v1.DELETE("/reservations/:id", reservations.Delete)
	v1.POST("/reservations/:id/changes", reservations.HasChanges)

	return e
}
