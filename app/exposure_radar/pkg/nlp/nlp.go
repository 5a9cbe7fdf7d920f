package nlp

import (
	"context"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/model"
)

// Categorizer 定义通用的实体识别接口
type Categorizer interface {
	Categorize(ctx context.Context, text string) (*model.EntityMap, error)
}

// SentimentClassifier 情感分类接口
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) model.Sentiment
}

// StaticSentiment 固定返回同一结果的情感分类器
type StaticSentiment struct {
	Result model.Sentiment
}

// DefaultSentiment 当前没有接入真实情感模型，统一返回 POSITIVE 0.85
var DefaultSentiment = StaticSentiment{Result: model.Sentiment{Label: model.SentimentPositive, Score: 0.85}}

// Classify implements SentimentClassifier
func (s StaticSentiment) Classify(context.Context, string) model.Sentiment {
	return s.Result
}
