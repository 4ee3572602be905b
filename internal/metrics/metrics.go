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
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestDuration(duration time.Duration)
	RecordAuthAttempt(result string)
	RecordItemMutation(operation string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus      *prometheus.CounterVec
	requestDuration prometheus.Histogram
	authAttempts    *prometheus.CounterVec
	itemMutations   *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "panier_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "panier_request_duration_seconds",
			Help:    "HTTPリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "panier_auth_attempts_total",
			Help: "認証試行の結果別合計数",
		}, []string{"result"}),
		itemMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "panier_item_mutations_total",
			Help: "買い物アイテムの操作別合計数",
		}, []string{"operation"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestDuration,
		c.authAttempts,
		c.itemMutations,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration はリクエスト処理時間を記録する。
func (c *Collector) RecordRequestDuration(duration time.Duration) {
	c.requestDuration.Observe(duration.Seconds())
}

// RecordAuthAttempt は認証試行の結果を記録する。
// resultは"success"または"failure"。
func (c *Collector) RecordAuthAttempt(result string) {
	c.authAttempts.WithLabelValues(result).Inc()
}

// RecordItemMutation はアイテム操作を記録する。
// operationは"create"、"update"、"delete"のいずれか。
func (c *Collector) RecordItemMutation(operation string) {
	c.itemMutations.WithLabelValues(operation).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

// statusCapturingWriter はメトリクス記録用にステータスコードを捕捉する。
type statusCapturingWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (scw *statusCapturingWriter) WriteHeader(code int) {
	if !scw.written {
		scw.statusCode = code
		scw.written = true
	}
	scw.ResponseWriter.WriteHeader(code)
}

func (scw *statusCapturingWriter) Write(b []byte) (int, error) {
	if !scw.written {
		scw.statusCode = http.StatusOK
		scw.written = true
	}
	return scw.ResponseWriter.Write(b)
}

// NewHTTPMetricsMiddleware はレスポンスのステータスコードと処理時間を記録するミドルウェアを返す。
func NewHTTPMetricsMiddleware(collector MetricsCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			scw := &statusCapturingWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(scw, r)

			collector.RecordHTTPStatus(scw.statusCode)
			collector.RecordRequestDuration(time.Since(start))
		})
	}
}
