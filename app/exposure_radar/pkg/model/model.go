package model

import "time"

// RiskVector 社工风险向量
type RiskVector string

const (
	VectorIdentity  RiskVector = "Identity Targeting"
	VectorLocation  RiskVector = "Location Exposure"
	VectorCorporate RiskVector = "Corporate Impersonation"
	VectorFamily    RiskVector = "Family-Based Social Engineering"
	VectorTravel    RiskVector = "Travel-Based Exploitation"
)

// VectorPriority 输出顺序
var VectorPriority = []RiskVector{
	VectorIdentity, VectorLocation, VectorCorporate, VectorFamily, VectorTravel,
}

// FeatureContributions 可解释性权重，不参与评分
type FeatureContributions map[string]float64

// ThreatSimulations 四个渠道的模拟攻击
type ThreatSimulations struct {
	Email    string `json:"email"`
	SMS      string `json:"sms"`
	LinkedIn string `json:"linkedin"`
	Voice    string `json:"voice"`
}

// TrendSnapshot 合成的趋势数据，并非真实历史
type TrendSnapshot struct {
	ThirtyDaysAgo   int `json:"30_days_ago"`
	FourteenDaysAgo int `json:"14_days_ago"`
	Current         int `json:"current"`
}

// BehavioralAnalysis 行为分析附加信息
type BehavioralAnalysis struct {
	Sentiment           Sentiment `json:"sentiment"`
	ExposureExplanation string    `json:"exposure_explanation"`
	AIConfidence        int       `json:"ai_confidence"`
}

// 生成结果来源
const (
	SourceBackend  = "backend"
	SourceFallback = "fallback"
)

// AnalysisReport 一次分析的完整报告，组装后不再修改
type AnalysisReport struct {
	ReportID             string               `json:"report_id"`
	AnalysisTimestamp    time.Time            `json:"analysis_timestamp"`
	OriginalText         string               `json:"original_text"`
	Role                 string               `json:"role,omitempty"`
	Industry             string               `json:"industry,omitempty"`
	Entities             *EntityMap           `json:"entities"`
	OverallRiskScore     int                  `json:"overall_risk_score"`
	RiskPercentile       int                  `json:"risk_percentile"`
	ConfidenceScore      float64              `json:"confidence_score"`
	RiskVectors          []RiskVector         `json:"risk_vectors"`
	FeatureContributions FeatureContributions `json:"feature_contributions"`
	ThreatSimulations    ThreatSimulations    `json:"threat_simulations"`
	PhishingPreview      string               `json:"phishing_preview_simple"`
	PhishingReport       string               `json:"phishing_report_detailed"`
	BehavioralAnalysis   BehavioralAnalysis   `json:"behavioral_analysis"`
	TrendAnalysis        TrendSnapshot        `json:"trend_analysis"`
	MitigationPlan       string               `json:"mitigation_plan"`
	IndustryContext      string               `json:"industry_contextual_risk"`
	GenerationSources    map[string]string    `json:"generation_sources"`
}
