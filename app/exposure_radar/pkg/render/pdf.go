// Package render 把分析报告渲染为可下载的 PDF
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/model"
)

const (
	lineHeight = 5.0
	fontFamily = "Helvetica"
)

// 内置字体只支持 cp1252，常见的排版符号先替换成 ASCII
var asciiReplacer = strings.NewReplacer(
	"—", "-", "–", "-", "‘", "'", "’", "'",
	"“", `"`, "”", `"`, "•", "*", "…", "...", "➤", ">",
)

type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (w *writer) heading(text string) {
	w.pdf.Ln(3)
	w.pdf.SetFont(fontFamily, "B", 13)
	w.pdf.SetTextColor(30, 30, 90)
	w.pdf.CellFormat(0, 8, w.tr(text), "B", 1, "L", false, 0, "")
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.Ln(1)
}

func (w *writer) subheading(text string) {
	w.pdf.SetFont(fontFamily, "B", 10)
	w.pdf.CellFormat(0, 6, w.tr(text), "", 1, "L", false, 0, "")
}

func (w *writer) body(text string) {
	w.pdf.SetFont(fontFamily, "", 9)
	w.pdf.MultiCell(0, lineHeight, w.tr(text), "", "L", false)
	w.pdf.Ln(1)
}

func (w *writer) field(label, value string) {
	w.pdf.SetFont(fontFamily, "B", 10)
	w.pdf.CellFormat(55, 6, w.tr(label), "", 0, "L", false, 0, "")
	w.pdf.SetFont(fontFamily, "", 10)
	w.pdf.CellFormat(0, 6, w.tr(value), "", 1, "L", false, 0, "")
}

// WritePDF 渲染 Letter 尺寸的报告
func WritePDF(out io.Writer, r *model.AnalysisReport) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.SetTitle("Social Engineering Exposure Report", true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	w := &writer{pdf: pdf, tr: func(s string) string { return tr(asciiReplacer.Replace(s)) }}

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 18)
	pdf.CellFormat(0, 12, "Social Engineering Exposure Report", "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 9)
	pdf.CellFormat(0, 5, w.tr(fmt.Sprintf("Report %s  |  %s", r.ReportID,
		r.AnalysisTimestamp.Format("2006-01-02 15:04 MST"))), "", 1, "L", false, 0, "")

	w.heading("Risk Overview")
	w.field("Overall risk score", fmt.Sprintf("%d / 100", r.OverallRiskScore))
	w.field("Risk percentile", fmt.Sprintf("%d", r.RiskPercentile))
	w.field("Confidence", fmt.Sprintf("%.0f%%", r.ConfidenceScore*100))
	if r.Role != "" {
		w.field("Role", r.Role)
	}
	if r.Industry != "" {
		w.field("Industry", r.Industry)
	}
	w.field("Trend (30d / 14d / now)", fmt.Sprintf("%d / %d / %d",
		r.TrendAnalysis.ThirtyDaysAgo, r.TrendAnalysis.FourteenDaysAgo, r.TrendAnalysis.Current))

	w.heading("Risk Vectors")
	if len(r.RiskVectors) == 0 {
		w.body("No specific risk vectors detected.")
	}
	for _, v := range r.RiskVectors {
		w.body("* " + string(v))
	}

	if len(r.FeatureContributions) > 0 {
		w.heading("Feature Contributions")
		names := make([]string, 0, len(r.FeatureContributions))
		for name := range r.FeatureContributions {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			w.field(name, fmt.Sprintf("%.1f", r.FeatureContributions[name]))
		}
	}

	w.heading("Threat Simulations")
	w.subheading("Email")
	w.body(r.ThreatSimulations.Email)
	w.subheading("SMS")
	w.body(r.ThreatSimulations.SMS)
	w.subheading("LinkedIn")
	w.body(r.ThreatSimulations.LinkedIn)
	w.subheading("Voice")
	w.body(r.ThreatSimulations.Voice)

	w.heading("Phishing Preview")
	w.body(r.PhishingPreview)

	w.heading("Detailed Threat Report")
	w.body(r.PhishingReport)

	if r.BehavioralAnalysis.ExposureExplanation != "" {
		w.heading("Exposure Explanation")
		w.body(r.BehavioralAnalysis.ExposureExplanation)
	}

	w.heading("Mitigation Plan")
	w.body(r.MitigationPlan)

	w.heading("Industry Context")
	w.body(r.IndustryContext)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf failed: %w", err)
	}
	return pdf.Output(out)
}
