package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 参加リクエスト作成の結果（result: pending, confirmed, duplicate, full, rejected, error）
	ParticipationRequestsTotal *prometheus.CounterVec

	// 一括承認・却下で決定した件数（status: CONFIRMED, REJECTED）
	BatchDecisionsTotal *prometheus.CounterVec

	// 分散ロックの操作時間（operation: acquire/release, status: success/failed）
	DistributedLockDuration *prometheus.HistogramVec

	// 競合によるトランザクション再試行回数（operation）
	TransactionRetriesTotal *prometheus.CounterVec

	// ステータスごとの参加リクエスト数
	ParticipationRequests *prometheus.GaugeVec
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
		ParticipationRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "participation_requests_total",
				Help: "Total number of participation request attempts by result",
			},
			[]string{"result"},
		),
		BatchDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "batch_decisions_total",
				Help: "Total number of requests decided by organizer batch updates",
			},
			[]string{"status"},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		TransactionRetriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transaction_retries_total",
				Help: "Total number of transaction retries caused by serialization conflicts",
			},
			[]string{"operation"},
		),
		ParticipationRequests: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "participation_requests",
				Help: "Current number of participation requests by status",
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ParticipationRequestsTotal,
		m.BatchDecisionsTotal,
		m.DistributedLockDuration,
		m.TransactionRetriesTotal,
		m.ParticipationRequests,
	)

	return m
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
