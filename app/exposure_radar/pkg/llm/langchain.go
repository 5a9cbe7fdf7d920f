package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/config"
)

// LangchainCompleter 基于 langchaingo OpenAI 客户端的实现
type LangchainCompleter struct {
	llm         llms.Model
	maxTokens   int
	temperature float64
}

// Ensure LangchainCompleter implements Completer
var _ Completer = (*LangchainCompleter)(nil)

// NewLangchainCompleter 创建 langchaingo 后端
func NewLangchainCompleter(cfg config.LLMConfig) (*LangchainCompleter, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(newHTTPClient(cfg.Referer, cfg.Title)),
	)
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	return &LangchainCompleter{llm: llm, maxTokens: cfg.MaxTokens, temperature: cfg.Temperature}, nil
}

// Complete implements Completer
func (l *LangchainCompleter) Complete(ctx context.Context, prompt, modelName string) (string, error) {
	resp, err := l.llm.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)},
		llms.WithModel(modelName),
		llms.WithMaxTokens(l.maxTokens),
		llms.WithTemperature(l.temperature),
		// OpenRouter 只识别 max_tokens
		openai.WithLegacyMaxTokensField(),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}
