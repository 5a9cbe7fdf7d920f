package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/internal/server"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/internal/service"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/config"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/engine"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/extract"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/logger"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/render"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name = "exposure_radar"
	// Version 是服务的版本号
	Version string

	flagconf string
	text     string
	file     string
	role     string
	industry string
	pdfOut   string

	id, _ = os.Hostname()

	rootCmd = &cobra.Command{
		Use:   "exposure_radar",
		Short: "Social engineering exposure analysis for public text",
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}

	analyzeCmd = &cobra.Command{
		Use:   "analyze",
		Short: "Analyze text from a flag or file and print the report as JSON",
		RunE:  runAnalyze,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagconf, "conf", "c", "app/exposure_radar/configs/config.yaml", "config path")

	rootCmd.AddCommand(serveCmd)

	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&text, "text", "", "text to analyze")
	analyzeCmd.Flags().StringVarP(&file, "file", "f", "", "read text from file")
	analyzeCmd.Flags().StringVar(&role, "role", "", "job role of the subject")
	analyzeCmd.Flags().StringVar(&industry, "industry", "", "industry of the subject")
	analyzeCmd.Flags().StringVar(&pdfOut, "pdf", "", "also write a PDF report to this path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup 加载配置、初始化日志并创建引擎
func setup(ctx context.Context) (*config.Config, *engine.Engine, error) {
	cfg, err := config.LoadConfig(flagconf)
	if err != nil {
		return nil, nil, fmt.Errorf("无法加载配置文件: %w", err)
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return nil, nil, fmt.Errorf("无法初始化日志: %w", err)
	}

	eng, err := engine.NewEngine(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, eng, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, eng, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	klog := log.With(logger.NewKratosLogger(logger.Log),
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)

	svc := service.NewExposureService(eng, extract.NewPageFetcher(cfg.LLM.Timeout()), klog)
	srv := server.NewHTTPServer(cfg.Server, svc, klog)

	app := kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Logger(klog),
		kratos.Server(srv),
	)
	logger.Log.Infof("启动 exposure_radar, 监听 %s", cfg.Server.Addr)
	return app.Run()
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	input := text
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("读取文件失败: %w", err)
		}
		input = string(data)
	}

	_, eng, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	report, err := eng.Analyze(cmd.Context(), engine.Request{Text: input, Role: role, Industry: industry})
	if err != nil {
		return err
	}

	if pdfOut != "" {
		f, err := os.Create(pdfOut)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := render.WritePDF(f, report); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
