// Package generation 并发生成各类模拟攻击与建议文本，后端失败时逐项回退到内置模板
package generation

import (
	"context"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/logger"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/metrics"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/model"
)

// 产物名称，同时作为 generation_sources 的键
const (
	ArtifactPreview     = "phishing_preview_simple"
	ArtifactReport      = "phishing_report_detailed"
	ArtifactEmail       = "email"
	ArtifactSMS         = "sms"
	ArtifactLinkedIn    = "linkedin"
	ArtifactVoice       = "voice"
	ArtifactMitigation  = "mitigation_plan"
	ArtifactIndustry    = "industry_contextual_risk"
	ArtifactExplanation = "exposure_explanation"
)

// Backend 文本生成后端，llm.Client 满足该接口
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, bool)
}

// Input 生成所需的上下文
type Input struct {
	Text     string
	Role     string
	Industry string
	Entities *model.EntityMap
	Vectors  []model.RiskVector
}

// Artifacts 生成结果，除 Explanation 外均保证非空
type Artifacts struct {
	PhishingPreview string
	PhishingReport  string
	Simulations     model.ThreatSimulations
	Mitigation      string
	Industry        string
	Explanation     string
	Sources         map[string]string
}

// task 一个独立的生成任务，只写入自己的结果槽位
type task struct {
	name     string
	prompt   string
	gate     int
	fallback func() string
}

type result struct {
	text   string
	source string
}

// Orchestrator 生成任务调度器
type Orchestrator struct {
	backend  Backend
	workers  int
	deadline time.Duration
}

// NewOrchestrator backend 为 nil 时所有产物直接使用模板
func NewOrchestrator(backend Backend, workers int, deadline time.Duration) *Orchestrator {
	if workers <= 0 {
		workers = 4
	}
	return &Orchestrator{backend: backend, workers: workers, deadline: deadline}
}

func (o *Orchestrator) tasks(in Input) []task {
	f := ExtractFacts(in.Text)
	return []task{
		{name: ArtifactPreview, prompt: previewPrompt(in.Text), gate: 50,
			fallback: func() string { return fallbackPhishingEmail(f) }},
		{name: ArtifactReport, prompt: reportPrompt(in.Text), gate: 50,
			fallback: func() string { return fallbackPhishingReport(f) }},
		{name: ArtifactEmail, prompt: emailPrompt(f, in.Text), gate: 30,
			fallback: func() string { return fallbackPhishingEmail(f) }},
		{name: ArtifactSMS, prompt: smsPrompt(f, in.Text), gate: 30,
			fallback: func() string { return fallbackSMS(f) }},
		{name: ArtifactLinkedIn, prompt: linkedInPrompt(f, in.Text), gate: 30,
			fallback: func() string { return fallbackLinkedIn(f) }},
		{name: ArtifactVoice, prompt: voicePrompt(f, in.Text), gate: 30,
			fallback: func() string { return fallbackVoice(f) }},
		{name: ArtifactMitigation, prompt: mitigationPrompt(in.Text, in.Vectors), gate: 80,
			fallback: func() string { return fallbackMitigation(in.Entities, in.Vectors) }},
		{name: ArtifactIndustry, prompt: industryPrompt(in.Role, in.Industry), gate: 40,
			fallback: func() string { return fallbackIndustry(in.Role, in.Industry, in.Vectors) }},
		// 解释文本没有模板，后端不可用时留空
		{name: ArtifactExplanation, prompt: explanationPrompt(in.Entities, in.Role, in.Industry)},
	}
}

// Generate 并发执行所有生成任务，不返回错误
func (o *Orchestrator) Generate(ctx context.Context, in Input) Artifacts {
	if o.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.deadline)
		defer cancel()
	}

	tasks := o.tasks(in)
	results := make([]result, len(tasks))

	var g errgroup.Group
	g.SetLimit(o.workers)
	for i, t := range tasks {
		g.Go(func() error {
			results[i] = o.run(ctx, t)
			return nil
		})
	}
	_ = g.Wait()

	out := Artifacts{Sources: make(map[string]string, len(tasks))}
	for i, t := range tasks {
		r := results[i]
		if t.fallback != nil {
			out.Sources[t.name] = r.source
			metrics.ArtifactSource.WithLabelValues(t.name, r.source).Inc()
		}
		switch t.name {
		case ArtifactPreview:
			out.PhishingPreview = r.text
		case ArtifactReport:
			out.PhishingReport = r.text
		case ArtifactEmail:
			out.Simulations.Email = r.text
		case ArtifactSMS:
			out.Simulations.SMS = r.text
		case ArtifactLinkedIn:
			out.Simulations.LinkedIn = r.text
		case ArtifactVoice:
			out.Simulations.Voice = r.text
		case ArtifactMitigation:
			out.Mitigation = r.text
		case ArtifactIndustry:
			out.Industry = r.text
		case ArtifactExplanation:
			out.Explanation = r.text
		}
	}
	return out
}

func (o *Orchestrator) run(ctx context.Context, t task) result {
	if o.backend != nil && ctx.Err() == nil {
		if text, ok := o.backend.Generate(ctx, t.prompt); ok && utf8.RuneCountInString(text) > t.gate {
			return result{text: text, source: model.SourceBackend}
		} else if ok {
			logger.Log.Debugf("生成结果未通过质量门槛 artifact=%s len=%d", t.name, utf8.RuneCountInString(text))
		}
	}
	if t.fallback == nil {
		return result{}
	}
	return result{text: t.fallback(), source: model.SourceFallback}
}
