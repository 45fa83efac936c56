// Package metrics はアグリゲーターのPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// フェッチ失敗の理由ラベル。
const (
	ReasonFetch  = "fetch"
	ReasonParse  = "parse"
	ReasonSchema = "schema"
)

// サイクル結果のラベル。
const (
	CycleOK     = "ok"
	CycleEmpty  = "empty"
	CycleFailed = "error"
)

// Recorder はメトリクス記録のインターフェース。
// フェッチャーとスケジューラーから利用する。
type Recorder interface {
	RecordFetchSuccess()
	RecordFetchFailure(reason string)
	RecordHTTPStatus(statusCode int)
	RecordFetchLatency(duration time.Duration)
	RecordPostsCreated(count int)
	RecordCycle(outcome string, duration time.Duration)
	RecordCycleSkipped()
}

// Collector はPrometheusメトリクスを収集するRecorderの実装。
type Collector struct {
	fetchSuccess  prometheus.Counter
	fetchFail     *prometheus.CounterVec
	httpStatus    *prometheus.CounterVec
	fetchLatency  prometheus.Histogram
	postsCreated  prometheus.Counter
	cycles        *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	cyclesSkipped prometheus.Counter
}

var _ Recorder = (*Collector)(nil)

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		fetchSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gator_fetch_success_total",
			Help: "フィードフェッチ成功の合計数",
		}),
		fetchFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gator_fetch_fail_total",
			Help: "理由別のフィードフェッチ失敗数",
		}, []string{"reason"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gator_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		fetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gator_fetch_latency_seconds",
			Help:    "フィードフェッチのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		postsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gator_posts_created_total",
			Help: "新規保存された記事の合計数",
		}),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gator_scheduler_cycles_total",
			Help: "結果別の集約サイクル数",
		}, []string{"outcome"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gator_scheduler_cycle_duration_seconds",
			Help:    "集約サイクルの所要時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		cyclesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gator_scheduler_cycles_skipped_total",
			Help: "前回のサイクル実行中のためスキップされたティック数",
		}),
	}

	reg.MustRegister(
		c.fetchSuccess,
		c.fetchFail,
		c.httpStatus,
		c.fetchLatency,
		c.postsCreated,
		c.cycles,
		c.cycleDuration,
		c.cyclesSkipped,
	)

	return c
}

// RecordFetchSuccess はフェッチ成功を記録する。
func (c *Collector) RecordFetchSuccess() {
	c.fetchSuccess.Inc()
}

// RecordFetchFailure は理由付きでフェッチ失敗を記録する。
func (c *Collector) RecordFetchFailure(reason string) {
	c.fetchFail.WithLabelValues(reason).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordFetchLatency はフェッチのレイテンシを記録する。
func (c *Collector) RecordFetchLatency(duration time.Duration) {
	c.fetchLatency.Observe(duration.Seconds())
}

// RecordPostsCreated は新規保存された記事数を記録する。
func (c *Collector) RecordPostsCreated(count int) {
	c.postsCreated.Add(float64(count))
}

// RecordCycle は1サイクルの結果と所要時間を記録する。
func (c *Collector) RecordCycle(outcome string, duration time.Duration) {
	c.cycles.WithLabelValues(outcome).Inc()
	c.cycleDuration.Observe(duration.Seconds())
}

// RecordCycleSkipped はスキップされたティックを記録する。
func (c *Collector) RecordCycleSkipped() {
	c.cyclesSkipped.Inc()
}
