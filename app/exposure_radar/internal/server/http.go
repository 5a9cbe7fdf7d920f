package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/gorilla/handlers"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/internal/service"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/config"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/metrics"
)

// maxUploadBytes 上传文件大小上限
var maxUploadBytes int64 = 32 << 20

func NewHTTPServer(c config.ServerConfig, s *service.ExposureService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
		http.Filter(corsFilter(c.AllowedOrigins)),
	}
	if c.Addr != "" {
		opts = append(opts, http.Address(c.Addr))
	}
	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)

	r := srv.Route("/")
	r.POST("/analyze", analyzeTextHandler(s))
	r.POST("/analyze-url", analyzeURLHandler(s))
	r.POST("/upload-csv", uploadCSVHandler(s))
	r.POST("/upload-pdf", uploadPDFHandler(s))
	r.POST("/generate-report", generateReportHandler(s))
	r.GET("/healthz", func(ctx http.Context) error {
		return ctx.Result(200, map[string]string{"status": "ok"})
	})

	srv.Handle("/metrics", metrics.Handler())

	return srv
}

// corsFilter 只允许配置中的来源，不接受通配符
func corsFilter(origins []string) http.FilterFunc {
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		if o != "*" {
			allowed = append(allowed, o)
		}
	}
	// 列表为空时 handlers.CORS 会放行所有来源
	if len(allowed) == 0 {
		allowed = config.DefaultAllowedOrigins
	}
	return handlers.CORS(
		handlers.AllowedOrigins(allowed),
		handlers.AllowedMethods([]string{"GET", "POST"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)
}

func analyzeTextHandler(s *service.ExposureService) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in service.AnalyzeTextReq
		if err := ctx.Bind(&in); err != nil {
			return errors.BadRequest(service.ReasonInvalidRequest, err.Error())
		}
		http.SetOperation(ctx, "/exposure.v1.Exposure/AnalyzeText")
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return s.AnalyzeText(ctx, req.(*service.AnalyzeTextReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func analyzeURLHandler(s *service.ExposureService) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in service.AnalyzeURLReq
		if err := ctx.Bind(&in); err != nil {
			return errors.BadRequest(service.ReasonInvalidRequest, err.Error())
		}
		http.SetOperation(ctx, "/exposure.v1.Exposure/AnalyzeURL")
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return s.AnalyzeURL(ctx, req.(*service.AnalyzeURLReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func uploadCSVHandler(s *service.ExposureService) http.HandlerFunc {
	return func(ctx http.Context) error {
		req := ctx.Request()
		file, header, err := req.FormFile("file")
		if err != nil {
			return errors.BadRequest(service.ReasonInvalidRequest, fmt.Sprintf("missing file: %v", err))
		}
		defer file.Close()
		if header.Size > maxUploadBytes {
			return errors.BadRequest(service.ReasonInvalidRequest, "file too large")
		}

		http.SetOperation(ctx, "/exposure.v1.Exposure/UploadCSV")
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return s.AnalyzeCSV(c, file, req.FormValue("role"), req.FormValue("industry"))
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func uploadPDFHandler(s *service.ExposureService) http.HandlerFunc {
	return func(ctx http.Context) error {
		req := ctx.Request()
		file, header, err := req.FormFile("file")
		if err != nil {
			return errors.BadRequest(service.ReasonInvalidRequest, fmt.Sprintf("missing file: %v", err))
		}
		defer file.Close()
		if header.Size > maxUploadBytes {
			return errors.BadRequest(service.ReasonInvalidRequest, "file too large")
		}

		http.SetOperation(ctx, "/exposure.v1.Exposure/UploadPDF")
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return s.AnalyzePDF(c, file, header.Size, req.FormValue("role"), req.FormValue("industry"))
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func generateReportHandler(s *service.ExposureService) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in service.AnalyzeTextReq
		if err := ctx.Bind(&in); err != nil {
			return errors.BadRequest(service.ReasonInvalidRequest, err.Error())
		}

		http.SetOperation(ctx, "/exposure.v1.Exposure/GenerateReport")
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return s.RenderReport(ctx, req.(*service.AnalyzeTextReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		path := out.(string)
		defer os.Remove(path)

		f, err := os.Open(path)
		if err != nil {
			return errors.InternalServer("RENDER_FAILED", err.Error())
		}
		defer f.Close()

		w := ctx.Response()
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="risk_report.pdf"`)
		w.WriteHeader(200)
		_, err = io.Copy(w, f)
		return err
	}
}
