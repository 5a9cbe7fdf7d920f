package scoring

import (
	"strings"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/model"
)

// Detect 按固定优先级返回命中的风险向量，结果无重复
func Detect(entities *model.EntityMap, text string) []model.RiskVector {
	lower := strings.ToLower(text)
	hit := map[model.RiskVector]bool{
		model.VectorIdentity:  entities.Has(model.CategoryPerson),
		model.VectorLocation:  entities.Has(model.CategoryGPE),
		model.VectorCorporate: entities.Has(model.CategoryOrg),
		model.VectorFamily:    strings.Contains(lower, "family"),
		model.VectorTravel:    strings.Contains(lower, "travel") || strings.Contains(lower, "vacation"),
	}

	vectors := make([]model.RiskVector, 0, len(model.VectorPriority))
	for _, v := range model.VectorPriority {
		if hit[v] {
			vectors = append(vectors, v)
		}
	}
	return vectors
}
