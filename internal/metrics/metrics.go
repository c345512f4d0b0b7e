// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// トランスポート、クエリ、ミューテーション、セッションから利用する。
type MetricsCollector interface {
	RecordRequest(method string, statusCode int, duration time.Duration)
	RecordMutation(name string, success bool)
	RecordQueryDiscarded(name string)
	SetAuthenticated(authenticated bool)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	requests       *prometheus.CounterVec
	requestLatency prometheus.Histogram
	mutations      *prometheus.CounterVec
	discarded      *prometheus.CounterVec
	authenticated  prometheus.Gauge
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "suivi_http_requests_total",
			Help: "メソッドとステータスコード別のAPIリクエスト数",
		}, []string{"method", "status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "suivi_http_request_duration_seconds",
			Help:    "APIリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "suivi_mutations_total",
			Help: "ミューテーション名と結果別の実行数",
		}, []string{"mutation", "result"}),
		discarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "suivi_query_discarded_total",
			Help: "新しいフェッチに置き換えられて破棄された結果の数",
		}, []string{"query"}),
		authenticated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "suivi_session_authenticated",
			Help: "セッションが認証済みなら1",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.requestLatency,
		c.mutations,
		c.discarded,
		c.authenticated,
	)

	return c
}

// RecordRequest はAPIリクエストの結果を記録する。
// トランスポートエラーはステータスコード0として記録する。
func (c *Collector) RecordRequest(method string, statusCode int, duration time.Duration) {
	c.requests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	c.requestLatency.Observe(duration.Seconds())
}

// RecordMutation はミューテーションの成否を記録する。
func (c *Collector) RecordMutation(name string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.mutations.WithLabelValues(name, result).Inc()
}

// RecordQueryDiscarded は古いフェッチ結果の破棄を記録する。
func (c *Collector) RecordQueryDiscarded(name string) {
	c.discarded.WithLabelValues(name).Inc()
}

// SetAuthenticated はセッションの認証状態を記録する。
func (c *Collector) SetAuthenticated(authenticated bool) {
	if authenticated {
		c.authenticated.Set(1)
		return
	}
	c.authenticated.Set(0)
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
