// Package metrics 基于Prometheus的指标收集
//
// 指标分三组：
//   - HTTP：请求数、耗时、处理中请求数（由middleware.Metrics记录）
//   - 目录业务：图书创建、重复拒绝、评分写入、分类删除被拒
//   - 外部依赖：图书检索调用结果、熔断器状态、事件发布
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds），
// 标签只用有限取值（method、status、result），不要用book_id、user_id作为标签。
//
// 使用示例：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//	metrics.IncCounterVec(metrics.DuplicateRejectionsTotal, map[string]string{"source": "import"})
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数，标签：method、path（路由模板）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 目录业务指标

	// BooksCreatedTotal 图书创建总数，标签：source（manual/import）
	BooksCreatedTotal *prometheus.CounterVec

	// DuplicateRejectionsTotal 被判定为重复的创建请求，标签：source（manual/import）
	DuplicateRejectionsTotal *prometheus.CounterVec

	// RatingsUpsertedTotal 评分写入总数（首次评分与覆盖评分都计入）
	RatingsUpsertedTotal prometheus.Counter

	// CategoryDeleteRefusedTotal 分类仍被引用而拒绝删除的次数
	CategoryDeleteRefusedTotal prometheus.Counter

	// CatalogQueryDuration 目录列表查询耗时
	CatalogQueryDuration prometheus.Histogram

	// 外部依赖指标

	// LookupRequestsTotal 外部图书检索请求，标签：result（success/failure/rejected）
	LookupRequestsTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// EventsPublishedTotal 目录事件发布，标签：routing_key、result
	EventsPublishedTotal *prometheus.CounterVec
)

// InitMetrics 注册所有指标到默认Registry（重复调用安全）
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP请求耗时（秒）",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		BooksCreatedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_books_created_total",
				Help: "图书创建总数",
			},
			[]string{"source"},
		)

		DuplicateRejectionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_duplicate_rejections_total",
				Help: "重复图书被拒绝的次数",
			},
			[]string{"source"},
		)

		RatingsUpsertedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "catalog_ratings_upserted_total",
				Help: "评分写入总数",
			},
		)

		CategoryDeleteRefusedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "catalog_category_delete_refused_total",
				Help: "分类仍被引用而拒绝删除的次数",
			},
		)

		CatalogQueryDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "catalog_query_duration_seconds",
				Help:    "目录列表查询耗时（秒）",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		)

		LookupRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lookup_requests_total",
				Help: "外部图书检索请求总数",
			},
			[]string{"result"},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
			},
			[]string{"name"},
		)

		EventsPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_events_published_total",
				Help: "目录事件发布总数",
			},
			[]string{"routing_key", "result"},
		)
	})
}

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	if counter != nil {
		counter.Inc()
	}
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter != nil {
		counter.With(labels).Inc()
	}
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Inc()
	}
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Dec()
	}
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge != nil {
		gauge.With(labels).Set(value)
	}
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram != nil {
		histogram.Observe(value)
	}
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram != nil {
		histogram.With(labels).Observe(value)
	}
}
