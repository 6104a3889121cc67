package metrics

import (
	"net/http"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector 指标收集器
type MetricsCollector struct {
	registry *prometheus.Registry

	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// 业务指标
	prizesDistributed    prometheus.Counter
	participationPoints  prometheus.Counter
	withdrawalsProcessed *prometheus.CounterVec
	pushDeliveries       *prometheus.CounterVec
	uploadsRejected      *prometheus.CounterVec
	couponRedemptions    prometheus.Counter

	// 应用指标
	activeGoroutines prometheus.Gauge
	memoryUsage      prometheus.Gauge
}

// NewMetricsCollector 创建指标收集器，每个实例使用独立的 registry
func NewMetricsCollector() *MetricsCollector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &MetricsCollector{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),

		prizesDistributed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "contest_prize_distributions_total",
				Help: "Number of campaigns whose prizes were distributed",
			},
		),

		participationPoints: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "contest_participation_points_awarded_total",
				Help: "Participation points credited to non-winning participants",
			},
		),

		withdrawalsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contest_withdrawals_processed_total",
				Help: "Withdrawals processed by resulting status",
			},
			[]string{"status"},
		),

		pushDeliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contest_push_deliveries_total",
				Help: "Push notification deliveries by target and result",
			},
			[]string{"target", "result"},
		),

		uploadsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contest_uploads_rejected_total",
				Help: "Uploads rejected before storage",
			},
			[]string{"reason"},
		),

		couponRedemptions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "contest_coupon_redemptions_total",
				Help: "Coupons redeemed",
			},
		),

		activeGoroutines: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_goroutines",
				Help: "Number of active goroutines",
			},
		),

		memoryUsage: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "memory_usage_bytes",
				Help: "Memory usage in bytes",
			},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint string, status int, duration time.Duration, responseSize int) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	if responseSize > 0 {
		m.httpResponseSize.WithLabelValues(method, endpoint).Observe(float64(responseSize))
	}
}

// RecordPrizeDistribution 记录一次奖金发放及参与积分
func (m *MetricsCollector) RecordPrizeDistribution(participants int, pointsEach int64) {
	m.prizesDistributed.Inc()
	m.participationPoints.Add(float64(int64(participants) * pointsEach))
}

// RecordWithdrawal 记录提现处理结果
func (m *MetricsCollector) RecordWithdrawal(status string) {
	m.withdrawalsProcessed.WithLabelValues(status).Inc()
}

// RecordPush 记录推送结果
func (m *MetricsCollector) RecordPush(target string, sent, failed int) {
	m.pushDeliveries.WithLabelValues(target, "sent").Add(float64(sent))
	m.pushDeliveries.WithLabelValues(target, "failed").Add(float64(failed))
}

// RecordUploadRejected 记录被拒绝的上传
func (m *MetricsCollector) RecordUploadRejected(reason string) {
	m.uploadsRejected.WithLabelValues(reason).Inc()
}

// RecordCouponRedemption 记录优惠券核销
func (m *MetricsCollector) RecordCouponRedemption() {
	m.couponRedemptions.Inc()
}

// UpdateSystemMetrics 更新系统指标
func (m *MetricsCollector) UpdateSystemMetrics() {
	m.activeGoroutines.Set(float64(runtime.NumGoroutine()))

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.memoryUsage.Set(float64(ms.Alloc))
}

// Handler 暴露 /metrics
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry 返回底层 registry (测试用)
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

var (
	globalCollector *MetricsCollector
	once            sync.Once
)

// GetGlobalCollector 获取全局指标收集器
func GetGlobalCollector() *MetricsCollector {
	once.Do(func() {
		globalCollector = NewMetricsCollector()
	})
	return globalCollector
}
