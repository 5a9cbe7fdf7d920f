package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("OPENROUTER_MODEL", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("NER_URL", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, cfg.LLM.Model)
	assert.Equal(t, DefaultFallbackModel, cfg.LLM.FallbackModel)
	assert.Equal(t, DefaultBaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, "eino", cfg.LLM.Provider)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout())
	assert.Equal(t, 600, cfg.LLM.MaxTokens)
	assert.Empty(t, cfg.LLM.APIKey)
	assert.Equal(t, DefaultAllowedOrigins, cfg.Server.AllowedOrigins)
	assert.NotContains(t, cfg.Server.AllowedOrigins, "*")
	assert.Equal(t, "pattern", cfg.NLP.Provider)
	assert.Equal(t, 35*time.Second, cfg.Concurrency.Deadline())
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
llm:
  api_key: from-file
  model: file-model
  timeout_seconds: 10
server:
  addr: ":9000"
  allowed_origins: ["https://app.example.com"]
concurrency:
  workers: 2
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("OPENROUTER_API_KEY", "from-env")
	t.Setenv("OPENROUTER_MODEL", "")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example ")
	t.Setenv("NER_URL", "http://ner:8080/ents")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.LLM.APIKey)
	assert.Equal(t, "file-model", cfg.LLM.Model)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "remote", cfg.NLP.Provider)
	assert.Equal(t, "http://ner:8080/ents", cfg.NLP.URL)
	assert.Equal(t, 2, cfg.Concurrency.Workers)
	assert.Equal(t, 15*time.Second, cfg.Concurrency.Deadline())
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [unclosed"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
