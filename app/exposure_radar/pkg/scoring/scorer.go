// Package scoring 实现确定性的启发式风险评分
package scoring

import (
	"math"
	"strings"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/model"
)

const (
	// decay 同类别第 i 个实体贡献 weight * decay^i
	decay = 0.6
	// negativeBonus 负面情感加分
	negativeBonus = 5.0
	// maxDensityNudge 密度修正上限 (+10%)
	maxDensityNudge = 0.10
	maxScore        = 100
)

type categoryWeight struct {
	weight float64
	cap    float64
}

// scoreWeights 覆盖全部类别，LOC 与 OTHER 使用默认值
var scoreWeights = map[model.Category]categoryWeight{
	model.CategoryPerson: {weight: 10, cap: 20},
	model.CategoryGPE:    {weight: 9, cap: 18},
	model.CategoryOrg:    {weight: 7, cap: 15},
	model.CategoryDate:   {weight: 2, cap: 5},
	model.CategoryFac:    {weight: 4, cap: 8},
	model.CategoryNORP:   {weight: 3, cap: 6},
	model.CategoryLoc:    {weight: 2, cap: 5},
	model.CategoryOther:  {weight: 2, cap: 5},
}

var defaultWeight = categoryWeight{weight: 2, cap: 5}

type phrase struct {
	text  string
	bonus float64
}

// highSignalPhrases 每个短语最多计一次
var highSignalPhrases = []phrase{
	{"family", 15}, {"children", 15}, {"wife", 10}, {"husband", 10},
	{"travel", 10}, {"vacation", 10}, {"holiday", 8},
	{"currently", 6}, {"staying", 8}, {"live in", 8},
	{"working at", 6}, {"my password", 20}, {"my account", 8},
}

func weightOf(c model.Category) categoryWeight {
	if w, ok := scoreWeights[c]; ok {
		return w
	}
	return defaultWeight
}

// categoryContribution 几何递减后按类别封顶
func categoryContribution(c model.Category, n int) float64 {
	w := weightOf(c)
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += w.weight * math.Pow(decay, float64(i))
	}
	return math.Min(sum, w.cap)
}

// Score 计算 [0,100] 的脆弱性评分
func Score(entities *model.EntityMap, sentiment model.Sentiment, text string) int {
	score := 0.0

	for _, c := range entities.Categories() {
		score += categoryContribution(c, len(entities.Spans(c)))
	}

	lower := strings.ToLower(text)
	hits := 0
	for _, p := range highSignalPhrases {
		if strings.Contains(lower, p.text) {
			score += p.bonus
			hits++
		}
	}

	if sentiment.Label == model.SentimentNegative {
		score += negativeBonus
	}

	nudge := math.Min(float64(entities.Count()+hits)/50, maxDensityNudge)
	score *= 1 + nudge

	return min(int(math.RoundToEven(score)), maxScore)
}
