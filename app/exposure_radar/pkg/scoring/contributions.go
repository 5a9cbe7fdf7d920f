package scoring

import (
	"math"
	"strings"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/model"
)

const maxCategoryContribution = 40

// contributionWeights 展示用权重，与评分权重表相互独立
var contributionWeights = map[model.Category]float64{
	model.CategoryPerson: 20,
	model.CategoryGPE:    18,
	model.CategoryOrg:    15,
	model.CategoryDate:   8,
	model.CategoryFac:    10,
	model.CategoryNORP:   8,
	model.CategoryLoc:    5,
	model.CategoryOther:  5,
}

var contributionKeywords = []phrase{
	{"family", 22}, {"travel", 14}, {"vacation", 14},
	{"staying", 12}, {"currently", 8}, {"working", 8},
}

// Contributions 各信号的可解释性权重，加总不等于评分
func Contributions(entities *model.EntityMap, text string) model.FeatureContributions {
	out := model.FeatureContributions{}
	for _, c := range entities.Categories() {
		w, ok := contributionWeights[c]
		if !ok {
			w = 5
		}
		v := math.Min(float64(len(entities.Spans(c)))*w, maxCategoryContribution)
		out[string(c)] = math.Round(v*10) / 10
	}

	lower := strings.ToLower(text)
	for _, kw := range contributionKeywords {
		if strings.Contains(lower, kw.text) {
			out[capitalize(kw.text)] = kw.bonus
		}
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
