package web

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/observer-go/internal/config"
	"github.com/yourusername/observer-go/internal/metrics"
)

// newTestServer 构造带隔离Registry的测试服务器
func newTestServer(t *testing.T) (*Server, *metrics.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment:        "test",
		WebPort:            8000,
		SimulateMinDelayMs: 0,
		SimulateMaxDelayMs: 1,
		SimulateErrorRate:  0.1,
		WSPushIntervalSec:  1,
		VersionFile:        ".version",
		LogLevel:           "INFO",
	}

	m := metrics.New()
	return NewServer(cfg, m), m
}

// perform 发起一次测试请求
func perform(s *Server, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	s.engine.ServeHTTP(w, req)
	return w
}

func TestMetricsMiddlewareRecordsSuccess(t *testing.T) {
	s, m := newTestServer(t)

	w := perform(s, "GET", "/health")
	require.Equal(t, http.StatusOK, w.Code)

	// 请求计数恰好+1，且只出现这一个标签组合
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestsTotal))

	// 成功请求不触发错误计数
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("/health")))

	// 在途数回到基线
	assert.Equal(t, int64(0), m.InFlight())
}

func TestMetricsMiddlewareRecordsHandledError(t *testing.T) {
	s, m := newTestServer(t)

	w := perform(s, "GET", "/error")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/error", "500")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("/error")))
	assert.Equal(t, int64(0), m.InFlight())
}

func TestMetricsMiddlewareErrorBoundary(t *testing.T) {
	s, m := newTestServer(t)

	// 399不计错误，400计错误
	s.engine.GET("/teapot-minus", func(c *gin.Context) { c.Status(399) })
	s.engine.GET("/bad-request", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	perform(s, "GET", "/teapot-minus")
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("/teapot-minus")))

	perform(s, "GET", "/bad-request")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("/bad-request")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/bad-request", "400")))
}

func TestMetricsMiddlewareRecordsPanic(t *testing.T) {
	s, m := newTestServer(t)

	s.engine.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	// panic由最外层recovery转为500响应，调用方仍能观察到失败
	w := perform(s, "GET", "/panic")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	// panic按500记账
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/panic", "500")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("/panic")))

	// 在途数配对恢复，即使handler异常退出
	assert.Equal(t, int64(0), m.InFlight())

	// 耗时也记录了一次
	summary, err := m.Summarize()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), summary.LatencyCount)
}

func TestMetricsMiddlewareObservesLatencyOnce(t *testing.T) {
	s, m := newTestServer(t)

	perform(s, "GET", "/health")
	perform(s, "GET", "/health")

	summary, err := m.Summarize()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), summary.LatencyCount)
	assert.GreaterOrEqual(t, summary.AvgLatencyMs, float64(0))
}

func TestMetricsMiddlewareConcurrentSimulate(t *testing.T) {
	s, m := newTestServer(t)

	const total = 100

	var wg sync.WaitGroup
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			perform(s, "GET", "/simulate")
		}()
	}
	wg.Wait()

	// 200和500之和等于总请求数（/simulate按约10%比例随机出错）
	ok := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/simulate", "200"))
	failed := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/simulate", "500"))
	assert.Equal(t, float64(total), ok+failed)

	// 在途数回到基线
	assert.Equal(t, int64(0), m.InFlight())

	summary, err := m.Summarize()
	require.NoError(t, err)
	assert.Equal(t, uint64(total), summary.LatencyCount)
}

func TestMetricsMiddlewareUnmatchedRouteFallsBackToRawPath(t *testing.T) {
	s, m := newTestServer(t)

	w := perform(s, "GET", "/no-such-route")
	require.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/no-such-route", "404")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("/no-such-route")))
}

func TestMetricsEndpointExposition(t *testing.T) {
	s, _ := newTestServer(t)

	// 先产生一次流量再抓取
	perform(s, "GET", "/health")

	w := perform(s, "GET", "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain; version=0.0.4; charset=utf-8")

	body := w.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, "http_errors_total")
	assert.Contains(t, body, "http_request_duration_seconds")
	assert.Contains(t, body, "active_connections")
}

func TestMetricsExpositionShowsErrorCounterBeforeFirstError(t *testing.T) {
	s, _ := newTestServer(t)

	// 只发成功请求：错误计数的零值子序列已预置，仍应出现在输出里
	perform(s, "GET", "/health")

	w := perform(s, "GET", "/metrics")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "# TYPE http_errors_total counter")
	assert.Contains(t, body, `http_errors_total{endpoint="/health"} 0`)
}
