package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/signalnine/algolens/internal/config"
	"github.com/signalnine/algolens/internal/gateway"
	"github.com/signalnine/algolens/internal/intelligence"
	"github.com/signalnine/algolens/internal/metrics"
	"github.com/signalnine/algolens/internal/pipeline"
	"github.com/signalnine/algolens/internal/pricing"
	"github.com/signalnine/algolens/internal/retry"
)

var (
	cfgFile     string
	flagVerbose bool
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "algolens",
		Short:        "Heuristic time-complexity analysis for source snippets",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newRevalidateCmd())
	root.AddCommand(newProvidersCmd())
	root.AddCommand(newTraceCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newSamplesCmd())
	return root
}

// app holds everything a command needs once config is loaded.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Registry
	advisor *intelligence.Advisor
	pricing *pricing.Table
}

func newLogger(cfg config.Logging, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// loadApp reads config and secrets and builds the shared components.
// Callers must Sync the returned logger.
func loadApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Logging, flagVerbose)
	if err != nil {
		return nil, err
	}

	if cfg.Secrets.EnvFile != "" {
		keys, err := gateway.LoadEnvFile(cfg.Secrets.EnvFile)
		if err != nil {
			logger.Warn("could not load secrets", zap.String("file", cfg.Secrets.EnvFile), zap.Error(err))
		} else {
			logger.Debug("loaded secrets", zap.Int("vars", len(keys)))
		}
	}

	table, err := pricing.LoadOptional(cfg.Pricing.File)
	if err != nil {
		return nil, err
	}

	m := metrics.NewRegistry()
	rc := retry.DefaultConfig()
	rc.MaxRetries = cfg.Providers.Retries
	advisor := intelligence.NewAdvisor(
		intelligence.NewRegistryFromConfig(cfg.Providers),
		intelligence.WithLogger(logger.Named("intelligence")),
		intelligence.WithMetrics(m),
		intelligence.WithRetry(rc),
		intelligence.WithRateLimit(cfg.Providers.RequestsPerMinute),
	)
	return &app{cfg: cfg, logger: logger, metrics: m, advisor: advisor, pricing: table}, nil
}

// newPipeline builds a pipeline over the app's advisor. Stage delays from
// config apply only when paced is set.
func (a *app) newPipeline(paced bool) *pipeline.Pipeline {
	var delays config.Delays
	if paced {
		delays = a.cfg.Pipeline.Delays
	}
	return pipeline.New(a.advisor,
		pipeline.WithDelays(delays),
		pipeline.WithLogger(a.logger.Named("pipeline")),
		pipeline.WithMetrics(a.metrics),
	)
}

// provider resolves the --provider flag against the configured default.
func (a *app) provider(flag string) string {
	if flag != "" {
		return flag
	}
	return a.cfg.Providers.Default
}
