package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEngine(m *Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	return r
}

func TestMiddleware_RecordsOneCounterAndOneObservation(t *testing.T) {
	m := New()
	r := setupEngine(m)

	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.requests.WithLabelValues("GET", "/ping", "200")))
	// ラベルの組み合わせは (GET, /ping) の1つだけ
	assert.Equal(t, 1, promtestutil.CollectAndCount(m.durations))
}

func TestMiddleware_LabelsByStatus(t *testing.T) {
	m := New()
	r := setupEngine(m)

	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	req, _ := http.NewRequest(http.MethodGet, "/fail", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 2.0, promtestutil.ToFloat64(m.requests.WithLabelValues("GET", "/ping", "200")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.requests.WithLabelValues("GET", "/fail", "500")))
}

func TestMiddleware_UnmatchedRouteUsesFixedLabel(t *testing.T) {
	m := New()
	r := setupEngine(m)

	// 未登録パスを生のURLでラベル付けしない
	req, _ := http.NewRequest(http.MethodGet, "/no/such/route", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}

func TestSetTodoItems(t *testing.T) {
	m := New()

	m.SetTodoItems(42)
	assert.Equal(t, 42.0, promtestutil.ToFloat64(m.todoItems))

	// ゲージは現在値なので減少もする
	m.SetTodoItems(7)
	assert.Equal(t, 7.0, promtestutil.ToFloat64(m.todoItems))
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	r := setupEngine(m)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	m.SetTodoItems(3)

	req, _ = http.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, `todoapp_requests_total{method="GET",route="/ping",status="200"} 1`)
	assert.Contains(t, body, `todoapp_request_duration_seconds_count{method="GET",route="/ping"} 1`)
	assert.Contains(t, body, "todoapp_todo_items 3")
}
