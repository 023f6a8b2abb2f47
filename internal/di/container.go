package di

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"dhs-checker/internal/application/port/input"
	"dhs-checker/internal/application/port/output"
	"dhs-checker/internal/domain/entity"
	"dhs-checker/internal/infrastructure/browser/limit"
	rodbrowser "dhs-checker/internal/infrastructure/browser/rod"
	"dhs-checker/internal/infrastructure/logger"
	"dhs-checker/internal/infrastructure/metrics"
	httptransport "dhs-checker/internal/transport/http"
	"dhs-checker/internal/usecase/checker"
)

type Config struct {
	PortalBaseURL   string
	Credentials     entity.Credentials
	BrowserHeadless bool
	SlowMotion      time.Duration
	MaxSessions     int
	ScreenshotDir   string
	LoginTimeout    time.Duration
	RowTimeout      time.Duration
	DetailTimeout   time.Duration
	Debug           bool
}

type Container struct {
	Logger   output.LoggerPort
	Checker  input.IDChecker
	Router   http.Handler
	Registry *prometheus.Registry
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewPrometheusMetrics(registry)

	browserCfg := rodbrowser.DefaultConfig()
	if cfg.PortalBaseURL != "" {
		browserCfg.BaseURL = cfg.PortalBaseURL
	}
	browserCfg.Headless = cfg.BrowserHeadless
	browserCfg.SlowMotion = cfg.SlowMotion
	browserCfg.ScreenshotDir = cfg.ScreenshotDir
	if cfg.LoginTimeout > 0 {
		browserCfg.LoginTimeout = cfg.LoginTimeout
	}
	if cfg.RowTimeout > 0 {
		browserCfg.RowTimeout = cfg.RowTimeout
	}
	if cfg.DetailTimeout > 0 {
		browserCfg.DetailTimeout = cfg.DetailTimeout
	}

	sessions := limit.NewFactory(
		rodbrowser.NewFactory(browserCfg, log),
		int64(cfg.MaxSessions),
		m,
	)

	check := checker.New(sessions, log, m)
	handler := httptransport.NewHandler(check, cfg.Credentials, log)

	return &Container{
		Logger:   log,
		Checker:  check,
		Router:   httptransport.NewRouter(handler, registry),
		Registry: registry,
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
}
