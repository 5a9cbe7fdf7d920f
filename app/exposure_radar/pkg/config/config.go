package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// 默认值
const (
	DefaultBaseURL       = "https://openrouter.ai/api/v1"
	DefaultModel         = "google/gemma-3-1b-it:free"
	DefaultFallbackModel = "deepseek/deepseek-r1:free"
	DefaultAddr          = ":8000"
)

// DefaultAllowedOrigins 默认只允许本地前端跨域，绝不默认为 *
var DefaultAllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	NLP         NLPConfig         `yaml:"nlp"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	Provider       string  `yaml:"provider"` // eino 或 langchaingo
	BaseURL        string  `yaml:"base_url"`
	APIKey         string  `yaml:"api_key"`
	Model          string  `yaml:"model"`
	FallbackModel  string  `yaml:"fallback_model"`
	Referer        string  `yaml:"referer"`
	Title          string  `yaml:"title"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float64 `yaml:"temperature"`
}

// Timeout 单次调用超时
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// NLPConfig 实体识别相关配置
type NLPConfig struct {
	Provider       string `yaml:"provider"` // pattern 或 remote
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	Timeout        string   `yaml:"timeout"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS             int `yaml:"qps"`
	RPM             int `yaml:"rpm"`
	Workers         int `yaml:"workers"`
	DeadlineSeconds int `yaml:"deadline_seconds"`
}

// Deadline 一次报告中所有生成任务的总时限
func (c ConcurrencyConfig) Deadline() time.Duration {
	return time.Duration(c.DeadlineSeconds) * time.Second
}

// LoadConfig 从指定路径加载配置，文件不存在时使用默认值，最后叠加环境变量
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, err
			}
		}
	}

	cfg.applyEnv(os.Getenv)
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnv 环境变量优先于配置文件
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("OPENROUTER_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := getenv("OPENROUTER_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := getenv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitOrigins(v)
	}
	if v := getenv("NER_URL"); v != "" {
		c.NLP.URL = v
		if c.NLP.Provider == "" {
			c.NLP.Provider = "remote"
		}
	}
}

func (c *Config) applyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "eino"
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = DefaultBaseURL
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModel
	}
	if c.LLM.FallbackModel == "" {
		c.LLM.FallbackModel = DefaultFallbackModel
	}
	if c.LLM.Referer == "" {
		c.LLM.Referer = "http://localhost:3000"
	}
	if c.LLM.Title == "" {
		c.LLM.Title = "AI Social Risk Platform"
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = 30
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 600
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}

	if c.NLP.Provider == "" {
		c.NLP.Provider = "pattern"
	}
	if c.NLP.TimeoutSeconds <= 0 {
		c.NLP.TimeoutSeconds = 10
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.Timeout == "" {
		c.Server.Timeout = "120s"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = append([]string(nil), DefaultAllowedOrigins...)
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 4
	}
	if c.Concurrency.Workers <= 0 {
		c.Concurrency.Workers = 4
	}
	if c.Concurrency.DeadlineSeconds <= 0 {
		c.Concurrency.DeadlineSeconds = c.LLM.TimeoutSeconds + 5
	}
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
