package factory

import (
	"fmt"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/config"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/nlp"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/nlp/pattern"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/nlp/remote"
)

// NewCategorizer 根据配置创建实体识别实例
func NewCategorizer(cfg *config.Config) (nlp.Categorizer, error) {
	switch cfg.NLP.Provider {
	case "", "pattern":
		return pattern.New(), nil

	case "remote":
		if cfg.NLP.URL == "" {
			return nil, fmt.Errorf("ner url is missing")
		}
		return remote.NewClient(cfg.NLP.URL, cfg.NLP.TimeoutSeconds), nil

	default:
		return nil, fmt.Errorf("unknown nlp provider: %s", cfg.NLP.Provider)
	}
}
