// Package metrics 暴露给 /metrics 的 Prometheus 指标
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry 独立注册表，测试中不会与默认注册表冲突
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// BackendCalls 每次模型调用的结果
	// Labels: model, outcome (success, error, empty)
	BackendCalls = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exposure_radar",
		Subsystem: "llm",
		Name:      "calls_total",
		Help:      "Total generation backend calls by model and outcome",
	}, []string{"model", "outcome"})

	// ArtifactSource 每个生成产物最终来自后端还是兜底模板
	// Labels: artifact, source (backend, fallback)
	ArtifactSource = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exposure_radar",
		Subsystem: "generation",
		Name:      "artifacts_total",
		Help:      "Generated artifacts by source",
	}, []string{"artifact", "source"})

	// AnalysisDuration 单次分析耗时
	AnalysisDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: "exposure_radar",
		Subsystem: "engine",
		Name:      "analysis_duration_seconds",
		Help:      "End-to-end analysis latency in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 20, 40},
	})

	// RiskScore 风险评分分布
	RiskScore = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: "exposure_radar",
		Subsystem: "engine",
		Name:      "risk_score",
		Help:      "Distribution of overall risk scores",
		Buckets:   prometheus.LinearBuckets(10, 10, 10),
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler /metrics 处理器
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
