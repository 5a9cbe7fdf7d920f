package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/config"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/generation"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/llm"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/logger"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/metrics"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/model"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/nlp"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/nlp/factory"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/scoring"
)

// MaxTextLength 单次分析允许的最大字符数 (去除首尾空白后)
const MaxTextLength = 10000

// ErrTextTooLong 文本超过长度上限
var ErrTextTooLong = errors.New("text too long")

// Generator 生成各类文本产物
type Generator interface {
	Generate(ctx context.Context, in generation.Input) generation.Artifacts
}

// Deps 引擎依赖，零值字段使用默认实现
type Deps struct {
	Categorizer nlp.Categorizer
	Sentiment   nlp.SentimentClassifier
	Generator   Generator
	Percentile  *scoring.PercentileEstimator
	Now         func() time.Time
}

// Engine 报告组装引擎
type Engine struct {
	categorizer nlp.Categorizer
	sentiment   nlp.SentimentClassifier
	generator   Generator
	percentile  *scoring.PercentileEstimator
	now         func() time.Time
}

// New 根据依赖创建引擎
func New(d Deps) *Engine {
	e := &Engine{
		categorizer: d.Categorizer,
		sentiment:   d.Sentiment,
		generator:   d.Generator,
		percentile:  d.Percentile,
		now:         d.Now,
	}
	if e.sentiment == nil {
		e.sentiment = nlp.DefaultSentiment
	}
	if e.generator == nil {
		e.generator = generation.NewOrchestrator(nil, 0, 0)
	}
	if e.percentile == nil {
		e.percentile = scoring.NewPercentileEstimator(nil)
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// NewEngine 按配置创建引擎实例
func NewEngine(ctx context.Context, cfg *config.Config) (*Engine, error) {
	categorizer, err := factory.NewCategorizer(cfg)
	if err != nil {
		return nil, fmt.Errorf("实体识别初始化失败: %w", err)
	}

	client, err := llm.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return New(Deps{
		Categorizer: categorizer,
		Generator:   generation.NewOrchestrator(client, cfg.Concurrency.Workers, cfg.Concurrency.Deadline()),
	}), nil
}

// Request 分析请求
type Request struct {
	Text     string
	Role     string
	Industry string
}

// Analyze 分析一段公开文本并生成完整报告
// 只有输入校验失败时返回错误，识别或生成失败都会降级处理
func (e *Engine) Analyze(ctx context.Context, req Request) (*model.AnalysisReport, error) {
	start := time.Now()

	text := strings.TrimSpace(req.Text)
	if utf8.RuneCountInString(text) > MaxTextLength {
		return nil, fmt.Errorf("%w: max %d characters", ErrTextTooLong, MaxTextLength)
	}

	entities := e.categorize(ctx, text)
	sentiment := e.sentiment.Classify(ctx, text)

	score := scoring.Score(entities, sentiment, text)
	vectors := scoring.Detect(entities, text)

	artifacts := e.generator.Generate(ctx, generation.Input{
		Text:     text,
		Role:     req.Role,
		Industry: req.Industry,
		Entities: entities,
		Vectors:  vectors,
	})

	report := &model.AnalysisReport{
		ReportID:             uuid.NewString(),
		AnalysisTimestamp:    e.now().UTC(),
		OriginalText:         text,
		Role:                 req.Role,
		Industry:             req.Industry,
		Entities:             entities,
		OverallRiskScore:     score,
		RiskPercentile:       e.percentile.Percentile(score),
		ConfidenceScore:      scoring.CoverageConfidence(entities, text),
		RiskVectors:          vectors,
		FeatureContributions: scoring.Contributions(entities, text),
		ThreatSimulations:    artifacts.Simulations,
		PhishingPreview:      artifacts.PhishingPreview,
		PhishingReport:       artifacts.PhishingReport,
		BehavioralAnalysis: model.BehavioralAnalysis{
			Sentiment:           sentiment,
			ExposureExplanation: artifacts.Explanation,
			AIConfidence:        scoring.SignalConfidence(entities, text),
		},
		TrendAnalysis:     scoring.Trend(score),
		MitigationPlan:    artifacts.Mitigation,
		IndustryContext:   artifacts.Industry,
		GenerationSources: artifacts.Sources,
	}
	if report.RiskVectors == nil {
		report.RiskVectors = []model.RiskVector{}
	}

	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	metrics.RiskScore.Observe(float64(score))
	logger.Log.Infof("分析完成 report=%s score=%d entities=%d vectors=%d 耗时=%s",
		report.ReportID, score, entities.Count(), len(vectors), time.Since(start).Round(time.Millisecond))

	return report, nil
}

func (e *Engine) categorize(ctx context.Context, text string) *model.EntityMap {
	if e.categorizer == nil || text == "" {
		return model.NewEntityMap()
	}
	entities, err := e.categorizer.Categorize(ctx, text)
	if err != nil {
		logger.Log.Warnf("实体识别失败，按无实体处理: %v", err)
		return model.NewEntityMap()
	}
	if entities == nil {
		return model.NewEntityMap()
	}
	return entities
}
