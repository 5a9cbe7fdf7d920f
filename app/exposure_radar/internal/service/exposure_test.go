package service

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/engine"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/extract"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/nlp/pattern"
)

type fakeFetcher struct {
	text string
	err  error
	urls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) (string, error) {
	f.urls = append(f.urls, rawURL)
	return f.text, f.err
}

func newTestService(f *fakeFetcher, opts ...Option) *ExposureService {
	eng := engine.New(engine.Deps{Categorizer: pattern.New()})
	return NewExposureService(eng, f, log.DefaultLogger, opts...)
}

func reasonOf(err error) string {
	return errors.FromError(err).Reason
}

func TestAnalyzeText(t *testing.T) {
	s := newTestService(&fakeFetcher{})
	r, err := s.AnalyzeText(context.Background(), &AnalyzeTextReq{
		Text: "John Smith works at Acme Corp and is currently traveling to London with his family.",
	})
	require.NoError(t, err)
	assert.Equal(t, 63, r.OverallRiskScore)
}

func TestAnalyzeText_Errors(t *testing.T) {
	s := newTestService(&fakeFetcher{})

	_, err := s.AnalyzeText(context.Background(), &AnalyzeTextReq{Text: strings.Repeat("x", 10001)})
	assert.Equal(t, ReasonTextTooLong, reasonOf(err))
	assert.EqualValues(t, 400, errors.FromError(err).Code)

	_, err = s.AnalyzeText(context.Background(), &AnalyzeTextReq{Text: "hi", Role: strings.Repeat("r", 201)})
	assert.Equal(t, ReasonInvalidRequest, reasonOf(err))
}

func TestAnalyzeURL(t *testing.T) {
	f := &fakeFetcher{text: "Jane Doe is on vacation in Paris."}
	s := newTestService(f)

	r, err := s.AnalyzeURL(context.Background(), &AnalyzeURLReq{URL: " https://example.com/about "})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/about"}, f.urls)
	assert.Equal(t, "Jane Doe is on vacation in Paris.", r.OriginalText)
}

func TestAnalyzeURL_Rejected(t *testing.T) {
	cases := map[string]string{
		"http://127.0.0.1/x":                        ReasonPrivateURL,
		"https://192.168.1.5/":                      ReasonPrivateURL,
		"example.com":                               ReasonInvalidURL,
		"https://a.com/" + strings.Repeat("a", 3000): ReasonURLTooLong,
		"":                                          ReasonInvalidRequest,
	}
	for u, reason := range cases {
		f := &fakeFetcher{text: "x"}
		_, err := newTestService(f).AnalyzeURL(context.Background(), &AnalyzeURLReq{URL: u})
		assert.Equal(t, reason, reasonOf(err), u)
		assert.Empty(t, f.urls, "fetcher must not be called for %q", u)
	}
}

func TestAnalyzeURL_NoContent(t *testing.T) {
	s := newTestService(&fakeFetcher{err: extract.ErrNoContent})
	_, err := s.AnalyzeURL(context.Background(), &AnalyzeURLReq{URL: "https://example.com"})
	assert.Equal(t, ReasonNoContent, reasonOf(err))
	assert.EqualValues(t, 422, errors.FromError(err).Code)
}

func TestAnalyzeCSV(t *testing.T) {
	s := newTestService(&fakeFetcher{})
	r, err := s.AnalyzeCSV(context.Background(), strings.NewReader("name,city\nJohn Smith,London\n"), "engineer", "tech")
	require.NoError(t, err)
	assert.Equal(t, "John Smith London", r.OriginalText)
	assert.Equal(t, "engineer", r.Role)
}

func TestAnalyzePDF_Invalid(t *testing.T) {
	s := newTestService(&fakeFetcher{})
	data := []byte("not a pdf")
	_, err := s.AnalyzePDF(context.Background(), bytes.NewReader(data), int64(len(data)), "", "")
	assert.Equal(t, ReasonNoContent, reasonOf(err))
}

func TestRenderReport(t *testing.T) {
	dir := t.TempDir()
	s := newTestService(&fakeFetcher{}, WithTempDir(dir))

	path, err := s.RenderReport(context.Background(), &AnalyzeTextReq{Text: "Jane Doe lives in Berlin."})
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	_, err = s.RenderReport(context.Background(), &AnalyzeTextReq{Text: strings.Repeat("x", 10001)})
	assert.Equal(t, ReasonTextTooLong, reasonOf(err))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
