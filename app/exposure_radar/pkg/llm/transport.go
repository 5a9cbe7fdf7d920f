package llm

import "net/http"

// headerTransport 为每个请求附加 OpenRouter 要求的来源标识头
type headerTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if t.referer != "" {
		r.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		r.Header.Set("X-Title", t.title)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(r)
}

func newHTTPClient(referer, title string) *http.Client {
	return &http.Client{
		Transport: &headerTransport{base: http.DefaultTransport, referer: referer, title: title},
	}
}
