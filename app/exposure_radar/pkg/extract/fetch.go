package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/go-shiori/go-readability"
)

const maxPageBytes = 5 << 20

// PageFetcher 抓取网页并提取正文
type PageFetcher struct {
	client   *http.Client
	validate func(string) (string, error)
	allowIP  func(net.IP) bool
}

// NewPageFetcher 创建网页抓取器，重定向目标同样经过 URL 校验，
// 每次建连时再检查 DNS 解析后的实际地址
func NewPageFetcher(timeout time.Duration) *PageFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	f := &PageFetcher{validate: ValidateURL, allowIP: publicIP}

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   f.checkDial,
	}
	f.client = &http.Client{
		Timeout: timeout,
		// 不走环境变量代理，否则建连检查的是代理地址
		Transport: &http.Transport{
			DialContext:           dialer.DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return errors.New("stopped after 5 redirects")
			}
			if f.validate == nil {
				return nil
			}
			_, err := f.validate(req.URL.String())
			return err
		},
	}
	return f
}

// checkDial 在连接建立前拒绝内网与回环地址，覆盖 DNS 解析和每一跳重定向
func (f *PageFetcher) checkDial(_, address string, _ syscall.RawConn) error {
	if f.allowIP == nil {
		return nil
	}
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || !f.allowIP(ip) {
		return fmt.Errorf("%w: %s", ErrPrivateURL, host)
	}
	return nil
}

// Fetch 抓取页面并返回纯文本，调用方负责先校验 rawURL
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	// 添加 User-Agent 避免被简单的反爬虫策略拦截
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	res, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrNoContent, res.StatusCode)
	}

	article, err := readability.FromReader(io.LimitReader(res.Body, maxPageBytes), pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoContent, err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", ErrNoContent
	}
	return text, nil
}
