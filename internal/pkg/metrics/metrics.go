package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約操作の総数（operation: create/update/remove, status: success/conflict/lock_failed/validation/not_found/error）
	ReservationsTotal *prometheus.CounterVec

	// 分散ロックの操作時間（operation: acquire/release, status: success/failed）
	DistributedLockDuration *prometheus.HistogramVec

	// 現在占有されている座席数
	OccupiedSeats prometheus.Gauge

	// 座席選択セッションのイベント数（event: opened/confirmed/mismatch/abandoned/expired）
	SelectionSessionsTotal *prometheus.CounterVec

	// 進行中の座席選択セッション数
	ActiveSelectionSessions prometheus.Gauge
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservations_total",
				Help: "Total number of reservation write attempts",
			},
			[]string{"operation", "status"},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		OccupiedSeats: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "occupied_seats",
				Help: "Number of seats currently claimed by reservations",
			},
		),
		SelectionSessionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "selection_sessions_total",
				Help: "Seat selection session lifecycle events",
			},
			[]string{"event"},
		),
		ActiveSelectionSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_selection_sessions",
				Help: "Current number of open seat selection sessions",
			},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReservationsTotal,
		m.DistributedLockDuration,
		m.OccupiedSeats,
		m.SelectionSessionsTotal,
		m.ActiveSelectionSessions,
	)

	return m
}

// NewNop はどのレジストリにも登録しないメトリクスを返す（テストやメトリクス無効時用）
func NewNop() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// RecordReservation は予約操作の結果を記録する
func (m *Metrics) RecordReservation(operation, status string) {
	if m == nil {
		return
	}
	m.ReservationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordSelection は座席選択セッションのイベントを記録する
func (m *Metrics) RecordSelection(event string) {
	if m == nil {
		return
	}
	m.SelectionSessionsTotal.WithLabelValues(event).Inc()
}

// ObserveLock は分散ロック取得にかかった時間を記録する
func (m *Metrics) ObserveLock(operation, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.DistributedLockDuration.WithLabelValues(operation, status).Observe(d.Seconds())
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
