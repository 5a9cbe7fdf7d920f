// Package llm 文本生成后端：主模型失败时切换到备用模型，失败不向上抛错
package llm

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/config"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/logger"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/metrics"
)

// Completer 单次调用某个模型
type Completer interface {
	Complete(ctx context.Context, prompt, model string) (string, error)
}

// Client 按 [主模型, 备用模型] 顺序尝试生成
type Client struct {
	completer Completer
	models    []string
	timeout   time.Duration
	limiter   *rate.Limiter
}

// NewClient 创建生成客户端，未配置 API Key 或 completer 为 nil 时客户端处于禁用状态
func NewClient(cfg *config.Config, completer Completer) *Client {
	if cfg.LLM.APIKey == "" {
		completer = nil
	}

	models := []string{cfg.LLM.Model}
	if cfg.LLM.FallbackModel != "" && cfg.LLM.FallbackModel != cfg.LLM.Model {
		models = append(models, cfg.LLM.FallbackModel)
	}

	timeout := cfg.LLM.Timeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		completer: completer,
		models:    models,
		timeout:   timeout,
		limiter:   newLimiter(cfg.Concurrency),
	}
}

// newLimiter RPM 未配置时不限速
func newLimiter(c config.ConcurrencyConfig) *rate.Limiter {
	burst := max(c.QPS, 1)
	if c.RPM <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	return rate.NewLimiter(rate.Limit(float64(c.RPM)/60.0), burst)
}

// Enabled 是否配置了可用的后端
func (c *Client) Enabled() bool {
	return c != nil && c.completer != nil
}

// Models 依次尝试的模型列表
func (c *Client) Models() []string {
	return append([]string(nil), c.models...)
}

// Generate 返回第一个非空结果；全部失败或被禁用时返回 ok=false
func (c *Client) Generate(ctx context.Context, prompt string) (string, bool) {
	if !c.Enabled() {
		return "", false
	}

	for i, m := range c.models {
		if err := c.limiter.Wait(ctx); err != nil {
			logger.Log.Warnf("等待限流器失败 model=%s: %v", m, err)
			return "", false
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		out, err := c.completer.Complete(callCtx, prompt, m)
		cancel()

		if err != nil {
			metrics.BackendCalls.WithLabelValues(m, "error").Inc()
			logger.Log.Warnf("模型调用失败 model=%s attempt=%d: %v", m, i+1, err)
			continue
		}
		out = strings.TrimSpace(out)
		if out == "" {
			metrics.BackendCalls.WithLabelValues(m, "empty").Inc()
			logger.Log.Warnf("模型返回空内容 model=%s attempt=%d", m, i+1)
			continue
		}

		metrics.BackendCalls.WithLabelValues(m, "success").Inc()
		return out, true
	}

	return "", false
}
