package scoring

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/model"
)

var signalKeywords = []string{"family", "travel", "vacation", "live", "working"}

// SignalConfidence 基于实体与关键词数量的内部置信度 (0..95)
// 只用于 behavioral_analysis 展示，不与 CoverageConfidence 合并
func SignalConfidence(entities *model.EntityMap, text string) int {
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range signalKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return min(entities.Count()*6+hits*10, 95)
}

// CoverageConfidence 基于实体数量与文本长度覆盖度的置信度 [0,1]，即报告中的 confidence_score
func CoverageConfidence(entities *model.EntityMap, text string) float64 {
	completeness := math.Min(float64(utf8.RuneCountInString(text))/1000, 1)
	base := float64(entities.Count())*5 + completeness*50
	return math.Min(base/100, 1)
}
