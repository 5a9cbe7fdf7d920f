package llm

import (
	"context"
	"fmt"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/config"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/logger"
)

// NewCompleter 根据配置创建后端实例
func NewCompleter(ctx context.Context, cfg config.LLMConfig) (Completer, error) {
	switch cfg.Provider {
	case "", "eino":
		return NewEinoCompleter(ctx, cfg)
	case "langchaingo":
		return NewLangchainCompleter(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// New 按配置创建客户端，没有 API Key 时返回禁用的客户端，生成全部走兜底模板
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.LLM.APIKey == "" {
		logger.Log.Warn("未配置 OPENROUTER_API_KEY，AI 生成已禁用，将使用内置模板")
		return NewClient(cfg, nil), nil
	}

	completer, err := NewCompleter(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	return NewClient(cfg, completer), nil
}
