package engine

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/config"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/generation"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/model"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/nlp/pattern"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/scoring"
)

const travelText = "John Smith works at Acme Corp and is currently traveling to London with his family."

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// failingCategorizer 模拟外部 NER 服务不可用
type failingCategorizer struct{}

func (failingCategorizer) Categorize(context.Context, string) (*model.EntityMap, error) {
	return nil, errors.New("connection refused")
}

func newTestEngine() *Engine {
	return New(Deps{
		Categorizer: pattern.New(),
		Generator:   generation.NewOrchestrator(nil, 4, time.Second),
		Percentile:  scoring.NewPercentileEstimator(rand.New(rand.NewSource(1))),
		Now:         func() time.Time { return fixedNow },
	})
}

func TestAnalyze_TravelScenario(t *testing.T) {
	r, err := newTestEngine().Analyze(context.Background(), Request{Text: "  " + travelText + "\n", Role: "CFO", Industry: "finance"})
	require.NoError(t, err)

	assert.Equal(t, travelText, r.OriginalText)
	assert.True(t, r.Entities.Has(model.CategoryPerson))
	assert.True(t, r.Entities.Has(model.CategoryOrg))
	assert.True(t, r.Entities.Has(model.CategoryGPE))
	assert.Equal(t, []model.RiskVector{
		model.VectorIdentity, model.VectorLocation, model.VectorCorporate,
		model.VectorFamily, model.VectorTravel,
	}, r.RiskVectors)

	assert.Equal(t, 63, r.OverallRiskScore)
	assert.Greater(t, r.ConfidenceScore, 0.0)
	lo, hi := scoring.PercentileRange(r.OverallRiskScore)
	assert.GreaterOrEqual(t, r.RiskPercentile, lo)
	assert.LessOrEqual(t, r.RiskPercentile, hi)
	assert.Equal(t, model.TrendSnapshot{ThirtyDaysAgo: 43, FourteenDaysAgo: 53, Current: 63}, r.TrendAnalysis)

	assert.NotEmpty(t, r.ThreatSimulations.Email)
	assert.NotEmpty(t, r.ThreatSimulations.SMS)
	assert.NotEmpty(t, r.ThreatSimulations.LinkedIn)
	assert.NotEmpty(t, r.ThreatSimulations.Voice)
	assert.Contains(t, r.IndustryContext, "finance sector")

	assert.Equal(t, model.SentimentPositive, r.BehavioralAnalysis.Sentiment.Label)
	assert.Equal(t, 38, r.BehavioralAnalysis.AIConfidence)
	assert.Empty(t, r.BehavioralAnalysis.ExposureExplanation)

	_, err = uuid.Parse(r.ReportID)
	assert.NoError(t, err)
	assert.Equal(t, fixedNow, r.AnalysisTimestamp)
}

func TestAnalyze_WeatherScenario(t *testing.T) {
	text := "The weather was nice today."
	r, err := newTestEngine().Analyze(context.Background(), Request{Text: text})
	require.NoError(t, err)

	assert.Zero(t, r.Entities.Len())
	assert.Empty(t, r.RiskVectors)
	assert.Equal(t, 0, r.OverallRiskScore)
	assert.InDelta(t, float64(len(text))/1000*50/100, r.ConfidenceScore, 1e-9)
	assert.NotEmpty(t, r.ThreatSimulations.SMS)
}

func TestAnalyze_EmptyText(t *testing.T) {
	r, err := newTestEngine().Analyze(context.Background(), Request{Text: "   "})
	require.NoError(t, err)
	assert.Equal(t, 0, r.OverallRiskScore)
	assert.Equal(t, 0.0, r.ConfidenceScore)
	assert.NotEmpty(t, r.ThreatSimulations.Voice)
}

func TestAnalyze_TextTooLong(t *testing.T) {
	_, err := newTestEngine().Analyze(context.Background(), Request{Text: strings.Repeat("a", MaxTextLength+1)})
	assert.ErrorIs(t, err, ErrTextTooLong)

	// 按字符计数，首尾空白不计
	_, err = newTestEngine().Analyze(context.Background(), Request{Text: "  " + strings.Repeat("é", MaxTextLength) + "  "})
	assert.NoError(t, err)
}

func TestAnalyze_CategorizerFailureDegrades(t *testing.T) {
	e := New(Deps{Categorizer: failingCategorizer{}})
	r, err := e.Analyze(context.Background(), Request{Text: travelText})
	require.NoError(t, err)

	assert.Zero(t, r.Entities.Len())
	// 只剩关键词加分 family/travel/currently = 31, 密度修正 +6%
	assert.Equal(t, 33, r.OverallRiskScore)
	assert.Equal(t, []model.RiskVector{model.VectorFamily, model.VectorTravel}, r.RiskVectors)
}

func TestAnalyze_CancelledContextStillReports(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := newTestEngine().Analyze(ctx, Request{Text: travelText})
	require.NoError(t, err)
	assert.NotEmpty(t, r.ThreatSimulations.Email)
	assert.NotEmpty(t, r.MitigationPlan)
	for _, src := range r.GenerationSources {
		assert.Equal(t, model.SourceFallback, src)
	}
}

func TestAnalyze_JSONShape(t *testing.T) {
	r, err := newTestEngine().Analyze(context.Background(), Request{Text: travelText})
	require.NoError(t, err)

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	for _, key := range []string{
		"report_id", "overall_risk_score", "risk_percentile", "confidence_score", "risk_vectors",
		"feature_contributions", "threat_simulations", "phishing_preview_simple",
		"phishing_report_detailed", "behavioral_analysis", "trend_analysis", "mitigation_plan",
		"industry_contextual_risk", "entities", "generation_sources",
	} {
		assert.Contains(t, out, key)
	}
	sims := out["threat_simulations"].(map[string]any)
	assert.Len(t, sims, 4)
	assert.Equal(t, []any{"John Smith"}, out["entities"].(map[string]any)["PERSON"])
}

func TestNewEngine_FromConfig(t *testing.T) {
	cfg := &config.Config{Concurrency: config.ConcurrencyConfig{Workers: 2, DeadlineSeconds: 1}}
	e, err := NewEngine(context.Background(), cfg)
	require.NoError(t, err)

	r, err := e.Analyze(context.Background(), Request{Text: travelText})
	require.NoError(t, err)
	assert.Equal(t, 63, r.OverallRiskScore)

	cfg.NLP.Provider = "remote"
	_, err = NewEngine(context.Background(), cfg)
	assert.Error(t, err)
}
