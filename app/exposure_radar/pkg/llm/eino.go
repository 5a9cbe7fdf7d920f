package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/config"
)

// EinoCompleter 基于 eino OpenAI ChatModel 的实现
type EinoCompleter struct {
	chatModel   model.ChatModel
	maxTokens   int
	temperature float32
}

// Ensure EinoCompleter implements Completer
var _ Completer = (*EinoCompleter)(nil)

// NewEinoCompleter 创建 eino 后端
func NewEinoCompleter(ctx context.Context, cfg config.LLMConfig) (*EinoCompleter, error) {
	maxTokens := cfg.MaxTokens
	temperature := float32(cfg.Temperature)

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
		HTTPClient:  newHTTPClient(cfg.Referer, cfg.Title),
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	return &EinoCompleter{chatModel: chatModel, maxTokens: maxTokens, temperature: temperature}, nil
}

// Complete implements Completer
func (e *EinoCompleter) Complete(ctx context.Context, prompt, modelName string) (string, error) {
	messages := []*schema.Message{
		{Role: schema.User, Content: prompt},
	}

	resp, err := e.chatModel.Generate(ctx, messages,
		model.WithModel(modelName),
		model.WithMaxTokens(e.maxTokens),
		model.WithTemperature(e.temperature),
	)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
