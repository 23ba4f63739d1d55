package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/abhisek/momentum/internal/config"
	"github.com/abhisek/momentum/internal/logging"
	"github.com/abhisek/momentum/internal/telemetry"
)

// env holds what the persistent pre-run resolves for every command.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *telemetry.Metrics
	closeLog func() error
}

var (
	v  = config.New()
	rt env
)

var rootCmd = &cobra.Command{
	Use:   "momentum",
	Short: "Productivity coach questionnaire",
	Long: "Momentum walks you through a short self-assessment, sends it to a coaching\n" +
		"service for a productivity profile, and can turn that profile into a plan.",
	SilenceUsage: true,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if rt.closeLog != nil {
			return rt.closeLog()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization
	// cycle: setup -> logOutput -> rootCmd.
	rootCmd.PersistentPreRunE = setup

	f := rootCmd.PersistentFlags()
	f.String("config", "", "Config file (default $HOME/.config/momentum/momentum.yaml)")
	f.String("backend", "", "Coaching backend: http, llm or mock")
	f.String("api-url", "", "Base URL of the coaching API")
	f.Duration("timeout", 0, "Timeout of one coaching request")
	f.String("catalog", "", "Path to a YAML question catalog")
	f.String("log-level", "", "Log level: debug, info, warn or error")
	f.String("log-format", "", "Log format: text or json")
	f.String("log-file", "", "Write logs to this file")
	f.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	f.String("llm-provider", "", "LLM provider for the llm backend")

	bind(f.Lookup("backend"), config.KeyBackend)
	bind(f.Lookup("api-url"), config.KeyAPIURL)
	bind(f.Lookup("timeout"), config.KeyTimeout)
	bind(f.Lookup("catalog"), config.KeyCatalog)
	bind(f.Lookup("log-level"), config.KeyLogLevel)
	bind(f.Lookup("log-format"), config.KeyLogFormat)
	bind(f.Lookup("log-file"), config.KeyLogFile)
	bind(f.Lookup("metrics-addr"), config.KeyMetricsAddr)
	bind(f.Lookup("llm-provider"), config.KeyLLMProvider)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

func bind(flag *pflag.Flag, key string) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag.Name, err))
	}
}

// setup loads the configuration and builds the logger and metrics.
func setup(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(v, file)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Output: logOutput(cmd, cfg),
	})
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	rt = env{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		metrics:  telemetry.MustNewMetrics(reg),
		closeLog: closeLog,
	}
	logger.Debug("configuration loaded", "file", cfg.File, "backend", cfg.Backend)

	if cfg.MetricsAddr != "" {
		go func() {
			if err := telemetry.Serve(cmd.Context(), cfg.MetricsAddr, reg, logger); err != nil {
				logger.Error("metrics listener failed", "addr", cfg.MetricsAddr, "error", err)
			}
		}()
	}
	return nil
}

// logOutput picks where logs go without a log file: the TUI owns the
// terminal, so only headless commands log to stderr.
func logOutput(cmd *cobra.Command, cfg *config.Config) io.Writer {
	if cfg.Log.File != "" || cmd == rootCmd || cmd == runCmd {
		return nil
	}
	return os.Stderr
}
