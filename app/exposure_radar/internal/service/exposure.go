package service

import (
	"context"
	stderrors "errors"
	"io"
	"os"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-playground/validator/v10"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/engine"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/extract"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/model"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/render"
)

// 结构化错误的 reason
const (
	ReasonTextTooLong    = "TEXT_TOO_LONG"
	ReasonInvalidURL     = "INVALID_URL"
	ReasonPrivateURL     = "PRIVATE_URL"
	ReasonURLTooLong     = "URL_TOO_LONG"
	ReasonInvalidRequest = "INVALID_REQUEST"
	ReasonNoContent      = "NO_CONTENT"
)

// Analyzer 报告生成引擎
type Analyzer interface {
	Analyze(ctx context.Context, req engine.Request) (*model.AnalysisReport, error)
}

// PageFetcher 网页正文抓取
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// AnalyzeTextReq 文本分析请求
type AnalyzeTextReq struct {
	Text     string `json:"text"`
	Role     string `json:"role" validate:"omitempty,max=200"`
	Industry string `json:"industry" validate:"omitempty,max=200"`
}

// AnalyzeURLReq 网页分析请求
type AnalyzeURLReq struct {
	URL      string `json:"url" validate:"required"`
	Role     string `json:"role" validate:"omitempty,max=200"`
	Industry string `json:"industry" validate:"omitempty,max=200"`
}

// Option 服务可选项
type Option func(*ExposureService)

// WithTempDir 指定 PDF 临时文件目录
func WithTempDir(dir string) Option {
	return func(s *ExposureService) { s.tempDir = dir }
}

type ExposureService struct {
	analyzer Analyzer
	fetcher  PageFetcher
	validate *validator.Validate
	tempDir  string
	log      *log.Helper
}

func NewExposureService(analyzer Analyzer, fetcher PageFetcher, logger log.Logger, opts ...Option) *ExposureService {
	s := &ExposureService{
		analyzer: analyzer,
		fetcher:  fetcher,
		validate: validator.New(),
		log:      log.NewHelper(logger),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *ExposureService) AnalyzeText(ctx context.Context, req *AnalyzeTextReq) (*model.AnalysisReport, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, errors.BadRequest(ReasonInvalidRequest, err.Error())
	}
	return s.analyze(ctx, req.Text, req.Role, req.Industry)
}

func (s *ExposureService) AnalyzeURL(ctx context.Context, req *AnalyzeURLReq) (*model.AnalysisReport, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, errors.BadRequest(ReasonInvalidRequest, err.Error())
	}
	u, err := extract.ValidateURL(req.URL)
	if err != nil {
		return nil, toError(err)
	}

	text, err := s.fetcher.Fetch(ctx, u)
	if err != nil {
		s.log.WithContext(ctx).Warnf("fetch %s failed: %v", u, err)
		if stderrors.Is(err, extract.ErrPrivateURL) {
			return nil, toError(err)
		}
		return nil, errors.New(422, ReasonNoContent,
			"Could not extract content from URL. The site may block scraping or the page is empty.")
	}
	return s.analyze(ctx, text, req.Role, req.Industry)
}

func (s *ExposureService) AnalyzeCSV(ctx context.Context, r io.Reader, role, industry string) (*model.AnalysisReport, error) {
	text, err := extract.FlattenCSV(r)
	if err != nil {
		return nil, errors.BadRequest(ReasonInvalidRequest, err.Error())
	}
	return s.analyze(ctx, text, role, industry)
}

func (s *ExposureService) AnalyzePDF(ctx context.Context, r io.ReaderAt, size int64, role, industry string) (*model.AnalysisReport, error) {
	text, err := extract.PDFText(r, size)
	if err != nil {
		s.log.WithContext(ctx).Warnf("extract pdf failed: %v", err)
		return nil, errors.New(422, ReasonNoContent, "Could not extract text from PDF")
	}
	return s.analyze(ctx, text, role, industry)
}

// RenderReport 分析文本并把 PDF 写入临时文件，返回文件路径，调用方负责删除
func (s *ExposureService) RenderReport(ctx context.Context, req *AnalyzeTextReq) (string, error) {
	report, err := s.AnalyzeText(ctx, req)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(s.tempDir, "risk_report_*.pdf")
	if err != nil {
		return "", errors.InternalServer("RENDER_FAILED", err.Error())
	}
	if err := render.WritePDF(f, report); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", errors.InternalServer("RENDER_FAILED", err.Error())
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", errors.InternalServer("RENDER_FAILED", err.Error())
	}
	return f.Name(), nil
}

func (s *ExposureService) analyze(ctx context.Context, text, role, industry string) (*model.AnalysisReport, error) {
	report, err := s.analyzer.Analyze(ctx, engine.Request{Text: text, Role: role, Industry: industry})
	if err != nil {
		return nil, toError(err)
	}
	return report, nil
}

// toError 把领域错误转换为 Kratos 结构化错误
func toError(err error) error {
	switch {
	case stderrors.Is(err, engine.ErrTextTooLong):
		return errors.BadRequest(ReasonTextTooLong, "Text exceeds maximum length of 10000 characters.")
	case stderrors.Is(err, extract.ErrURLTooLong):
		return errors.BadRequest(ReasonURLTooLong, "URL too long.")
	case stderrors.Is(err, extract.ErrURLScheme):
		return errors.BadRequest(ReasonInvalidURL, "URL must start with http:// or https://")
	case stderrors.Is(err, extract.ErrPrivateURL):
		return errors.BadRequest(ReasonPrivateURL, "Internal/private URLs are not allowed.")
	case stderrors.Is(err, extract.ErrNoContent):
		return errors.New(422, ReasonNoContent, err.Error())
	default:
		return errors.InternalServer("INTERNAL", err.Error())
	}
}
