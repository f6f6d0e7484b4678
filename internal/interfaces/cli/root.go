// Package cli implements the healthai command line tool: an operator
// interface over the same dashboard facade the HTTP API serves.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/onconet/healthai/internal/application/dashboard"
	"github.com/onconet/healthai/internal/application/workflow"
	"github.com/onconet/healthai/internal/config"
	"github.com/onconet/healthai/internal/domain/staging"
	"github.com/onconet/healthai/internal/infrastructure/monitoring/logging"
	"github.com/onconet/healthai/internal/infrastructure/vantage"
	"github.com/onconet/healthai/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Timeout      time.Duration
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Service      *dashboard.Service
	OutputFormat string
	Timeout      time.Duration
}

// WithCLIContext stores a CLIContext on ctx.  Tests use this to inject a
// pre-built context and skip the initialization chain.
func WithCLIContext(ctx context.Context, cliCtx *CLIContext) context.Context {
	return context.WithValue(ctx, cliContextKey{}, cliCtx)
}

// GetCLIContext extracts the CLIContext from a command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLI context not initialized")
	}
	return cliCtx, nil
}

// NewRootCommand creates the root cobra command with global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "healthai",
		Short: "HealthAI dashboard CLI for federated clinical analytics over remote computation tasks",
		Long: "healthai drives the clinical dashboard's federated workflows from the\n" +
			"command line: submit and poll remote computation tasks, inspect results,\n" +
			"and evaluate per-patient analytics against the cached models.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: env-only configuration)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "json", "output format (json, table)")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "per-operation timeout")

	cmd.AddCommand(
		NewTaskCmd(),
		NewAnalyticsCmd(),
		NewStatsCmd(),
	)
	return cmd
}

// persistentPreRun builds the CLIContext unless a test already injected one.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	if ctx := cmd.Context(); ctx != nil {
		if _, ok := ctx.Value(cliContextKey{}).(*CLIContext); ok {
			return nil
		}
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:            opts.LogLevel,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	svc, err := buildService(cfg, logger)
	if err != nil {
		return err
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		Service:      svc,
		OutputFormat: opts.OutputFormat,
		Timeout:      opts.Timeout,
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(WithCLIContext(ctx, cliCtx))
	return nil
}

// loadConfig resolves configuration: explicit flag path, else well-known
// locations, else pure environment.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}
	for _, p := range []string{"./configs/config.yaml", "./healthai.yaml"} {
		if _, err := os.Stat(p); err == nil {
			return config.Load(p)
		}
	}
	return config.LoadFromEnv()
}

// buildService wires the in-process dashboard facade the commands operate on.
// The CLI runs without the durable tiers: no history database, no event
// stream, no Redis.
func buildService(cfg *config.Config, logger logging.Logger) (*dashboard.Service, error) {
	gateway, err := vantage.NewClient(
		fmt.Sprintf("%s:%d", cfg.Vantage.URL, cfg.Vantage.Port),
		cfg.Vantage.APIPath,
		cfg.Vantage.Username,
		cfg.Vantage.Password,
		vantage.WithLogger(logger),
		vantage.WithTimeout(cfg.Vantage.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("platform client initialization failed: %w", err)
	}

	cdm, err := staging.LoadCDM(cfg.Staging.CDMPath)
	if err != nil {
		return nil, fmt.Errorf("reference data load failed: %w", err)
	}
	codec, err := staging.NewCodec(cdm, staging.Policy(cfg.Staging.Policy))
	if err != nil {
		return nil, err
	}

	cache := workflow.NewCache(nil, logger)
	orch := workflow.NewOrchestrator(gateway, cache, nil, nil, logger)
	return dashboard.NewService(cfg, orch, workflow.NewSpecBuilder(cfg), cdm, codec, nil, nil, logger), nil
}

// Execute runs the CLI and reports failures on stderr.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		return err
	}
	return nil
}

// printResult renders data per the configured output format.
func printResult(cmd *cobra.Command, cliCtx *CLIContext, data interface{}) error {
	if strings.EqualFold(cliCtx.OutputFormat, "table") {
		type tableProvider interface {
			TableHeaders() []string
			TableRows() [][]string
		}
		if tp, ok := data.(tableProvider); ok {
			fmt.Fprint(cmd.OutOrStdout(), FormatTable(tp.TableHeaders(), tp.TableRows()))
			return nil
		}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// FormatTable renders headers and rows as an aligned ASCII table.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}

	var sb strings.Builder
	for i, h := range headers {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(padRight(h, widths[i]))
	}
	sb.WriteString("\n")
	for i, w := range widths {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(strings.Repeat("-", w))
	}
	sb.WriteString("\n")
	for _, row := range rows {
		for i := range headers {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			sb.WriteString(padRight(val, widths[i]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

//Personal.AI order the ending
