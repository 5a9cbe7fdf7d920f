package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/internal/service"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/config"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/engine"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/extract"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/nlp/pattern"
)

const travelText = "John Smith works at Acme Corp and is currently traveling to London with his family."

func newTestServer(t *testing.T, tempDir string) *http.Server {
	t.Helper()
	return newTestServerWithLogger(t, tempDir, log.DefaultLogger)
}

func newTestServerWithLogger(t *testing.T, tempDir string, logger log.Logger) *http.Server {
	t.Helper()
	eng := engine.New(engine.Deps{Categorizer: pattern.New()})
	svc := service.NewExposureService(eng, extract.NewPageFetcher(0), logger, service.WithTempDir(tempDir))
	return NewHTTPServer(config.ServerConfig{AllowedOrigins: config.DefaultAllowedOrigins}, svc, logger)
}

// recordLogger 记录经过日志中间件的 operation
type recordLogger struct {
	mu         sync.Mutex
	operations []string
}

func (l *recordLogger) Log(_ log.Level, keyvals ...interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := 0; i+1 < len(keyvals); i += 2 {
		if keyvals[i] == "operation" {
			l.operations = append(l.operations, fmt.Sprint(keyvals[i+1]))
		}
	}
	return nil
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, _ = fw.Write(content)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func postJSON(t *testing.T, srv *http.Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(nethttp.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestAnalyze(t *testing.T) {
	srv := newTestServer(t, t.TempDir())
	rec := postJSON(t, srv, "/analyze", map[string]string{"text": travelText, "role": "CFO"})
	require.Equal(t, 200, rec.Code, rec.Body.String())

	out := decode(t, rec)
	assert.EqualValues(t, 63, out["overall_risk_score"])
	assert.Len(t, out["threat_simulations"], 4)
	assert.Equal(t, "CFO", out["role"])
}

func TestAnalyze_TextTooLong(t *testing.T) {
	srv := newTestServer(t, t.TempDir())
	rec := postJSON(t, srv, "/analyze", map[string]string{"text": strings.Repeat("a", 10001)})
	require.Equal(t, 400, rec.Code)

	out := decode(t, rec)
	assert.Equal(t, service.ReasonTextTooLong, out["reason"])
	assert.NotEmpty(t, out["message"])
}

func TestAnalyzeURL_PrivateRejected(t *testing.T) {
	srv := newTestServer(t, t.TempDir())
	rec := postJSON(t, srv, "/analyze-url", map[string]string{"url": "http://127.0.0.1/x"})
	require.Equal(t, 400, rec.Code)
	assert.Equal(t, service.ReasonPrivateURL, decode(t, rec)["reason"])
}

func TestUploadCSV(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "people.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("name,city\nJohn Smith,London\n"))
	require.NoError(t, mw.WriteField("industry", "finance"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(nethttp.MethodPost, "/upload-csv", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code, rec.Body.String())
	out := decode(t, rec)
	assert.Equal(t, "John Smith London", out["original_text"])
	assert.Equal(t, "finance", out["industry"])
}

func TestUploadCSV_MissingFile(t *testing.T) {
	srv := newTestServer(t, t.TempDir())
	req := httptest.NewRequest(nethttp.MethodPost, "/upload-csv", strings.NewReader(""))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, 400, rec.Code)
}

func TestGenerateReport_RemovesTempFile(t *testing.T) {
	dir := t.TempDir()
	srv := newTestServer(t, dir)

	rec := postJSON(t, srv, "/generate-report", map[string]string{"text": travelText})
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "risk_report.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateReport_RunsThroughMiddleware(t *testing.T) {
	rl := &recordLogger{}
	srv := newTestServerWithLogger(t, t.TempDir(), rl)

	rec := postJSON(t, srv, "/generate-report", map[string]string{"text": travelText})
	require.Equal(t, 200, rec.Code)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Contains(t, rl.operations, "/exposure.v1.Exposure/GenerateReport")
}

func TestGenerateReport_ValidationError(t *testing.T) {
	dir := t.TempDir()
	srv := newTestServer(t, dir)

	rec := postJSON(t, srv, "/generate-report", map[string]string{"text": strings.Repeat("a", 10001)})
	require.Equal(t, 400, rec.Code)
	assert.Equal(t, service.ReasonTextTooLong, decode(t, rec)["reason"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpload_FileTooLarge(t *testing.T) {
	old := maxUploadBytes
	maxUploadBytes = 16
	t.Cleanup(func() { maxUploadBytes = old })

	srv := newTestServer(t, t.TempDir())
	for path, name := range map[string]string{"/upload-csv": "people.csv", "/upload-pdf": "doc.pdf"} {
		body, contentType := multipartBody(t, name, []byte("name,city\nJohn Smith,London\n"))
		req := httptest.NewRequest(nethttp.MethodPost, path, body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		require.Equal(t, 400, rec.Code, path)
		out := decode(t, rec)
		assert.Equal(t, service.ReasonInvalidRequest, out["reason"], path)
		assert.Equal(t, "file too large", out["message"], path)
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	req := httptest.NewRequest(nethttp.MethodOptions, "/analyze", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(nethttp.MethodOptions, "/analyze", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSFilter_NeverWildcard(t *testing.T) {
	eng := engine.New(engine.Deps{})
	svc := service.NewExposureService(eng, extract.NewPageFetcher(0), log.DefaultLogger)
	srv := NewHTTPServer(config.ServerConfig{AllowedOrigins: []string{"*"}}, svc, log.DefaultLogger)

	req := httptest.NewRequest(nethttp.MethodOptions, "/analyze", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthzAndMetrics(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/healthz", nil))
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
