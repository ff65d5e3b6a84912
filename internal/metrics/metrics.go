package metrics

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 请求指标集合，注册在独立的Registry上
//
// 四个指标在进程启动时创建一次，生命周期与进程相同。
// 注入式Registry便于测试构造隔离实例，避免包级全局状态。
type Metrics struct {
	registry *prometheus.Registry

	// http_requests_total{method,endpoint,status} 每个完成的请求计一次
	RequestsTotal *prometheus.CounterVec
	// http_errors_total{endpoint} 状态码>=400或handler panic时计一次
	ErrorsTotal *prometheus.CounterVec
	// http_request_duration_seconds 每个完成的请求记录一次耗时
	RequestDuration prometheus.Histogram
	// active_connections 当前在途请求数
	ActiveConnections prometheus.Gauge

	// 在途计数的可读副本，供/health和WebSocket推送直接读取
	inFlight atomic.Int64
}

// New 创建指标集合（使用独立Registry）
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry 在指定Registry上创建并注册指标集合
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_errors_total",
				Help: "Total HTTP errors",
			},
			[]string{"endpoint"},
		),
		RequestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
		),
		ActiveConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_connections",
				Help: "Number of active connections",
			},
		),
	}

	reg.MustRegister(m.RequestsTotal)
	reg.MustRegister(m.ErrorsTotal)
	reg.MustRegister(m.RequestDuration)
	reg.MustRegister(m.ActiveConnections)

	return m
}

// SeedEndpoint 预创建endpoint的错误计数子序列
//
// 没有子序列的CounterVec不会出现在/metrics输出里，
// 注册路由时预置零值，错误指标从第一次抓取起就可见。
func (m *Metrics) SeedEndpoint(endpoint string) {
	m.ErrorsTotal.WithLabelValues(endpoint)
}

// Registry 获取底层Registry（用于/metrics暴露和快照）
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// EnterRequest 请求进入，在途数+1
func (m *Metrics) EnterRequest() {
	m.inFlight.Add(1)
	m.ActiveConnections.Inc()
}

// LeaveRequest 请求退出，在途数-1
func (m *Metrics) LeaveRequest() {
	m.inFlight.Add(-1)
	m.ActiveConnections.Dec()
}

// InFlight 当前在途请求数
func (m *Metrics) InFlight() int64 {
	return m.inFlight.Load()
}

// RecordRequest 记录一个完成的请求
//
// 状态码>=400时同时累加错误计数。每个请求只能调用一次。
func (m *Metrics) RecordRequest(method, endpoint string, status int, latency time.Duration) {
	m.RequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	if status >= 400 {
		m.ErrorsTotal.WithLabelValues(endpoint).Inc()
	}
	m.RequestDuration.Observe(latency.Seconds())
}
