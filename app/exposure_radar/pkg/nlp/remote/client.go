package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/model"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/nlp"
)

// Client 外部 NER 服务客户端 (例如 spaCy sidecar)
type Client struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewClient 创建一个新的 NER 客户端
func NewClient(url string, timeout int) *Client {
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 10 * time.Second
	}
	return &Client{
		url:     url,
		timeout: t,
		client: &http.Client{
			Timeout: t,
		},
	}
}

// Ensure Client implements nlp.Categorizer
var _ nlp.Categorizer = (*Client)(nil)

type nerRequest struct {
	Text string `json:"text"`
}

// NERResponse NER 服务响应结构
type NERResponse struct {
	Entities []NEREntity `json:"entities"`
}

// NEREntity 单个识别结果
type NEREntity struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Categorize implements nlp.Categorizer
func (c *Client) Categorize(ctx context.Context, text string) (*model.EntityMap, error) {
	body, err := json.Marshal(nerRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encode request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return nil, fmt.Errorf("ner api error (status %d): %s", res.StatusCode, string(msg))
	}

	var nerResp NERResponse
	if err := json.NewDecoder(res.Body).Decode(&nerResp); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	entities := model.NewEntityMap()
	for _, e := range nerResp.Entities {
		entities.Add(model.ParseCategory(e.Label), e.Text)
	}
	return entities, nil
}
