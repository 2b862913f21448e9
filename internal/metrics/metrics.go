// Package metrics はPrometheus形式のリクエストメトリクスを提供します。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics はプロセス全体で共有されるメトリクスレジストリです。
// Prometheusのプリミティブはアトミックなので、複数リクエストからの
// 同時更新に追加のロックは不要です。
type Metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	todoItems prometheus.Gauge
}

// New はメトリクスを登録済みのMetricsを作成します。起動時に一度だけ呼びます。
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todoapp_requests_total",
			Help: "Total number of handled HTTP requests.",
		}, []string{"method", "route", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "todoapp_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		todoItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "todoapp_todo_items",
			Help: "Current number of rows in the todos table.",
		}),
	}
	m.registry.MustRegister(m.requests, m.durations, m.todoItems)
	return m
}

// SetTodoItems はtodosテーブルの現在行数ゲージを更新します。
func (m *Metrics) SetTodoItems(n int) {
	m.todoItems.Set(float64(n))
}

// Middleware は処理結果にかかわらず、リクエスト1件につきカウンターを
// ちょうど1回インクリメントし、レイテンシをちょうど1回観測します。
// カウンターは (method, route, status)、ヒストグラムは (method, route) で
// ラベル付けされます。
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// 未登録パス (404) を生のURLでラベル付けするとカーディナリティが
		// 無制限に増えるため、固定ラベルにまとめる
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.requests.WithLabelValues(method, route, status).Inc()
		m.durations.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler は /metrics 用のテキストエクスポジションハンドラーを返します。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
