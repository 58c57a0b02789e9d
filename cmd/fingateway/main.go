// fingateway serves normalized financial statements and an AI-analysis
// proxy to the dashboard frontend.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/fingateway/api"
	"github.com/seenimoa/fingateway/internal/config"
	"github.com/seenimoa/fingateway/internal/llm"
	"github.com/seenimoa/fingateway/internal/logger"
	"github.com/seenimoa/fingateway/internal/provider"
	"github.com/seenimoa/fingateway/internal/providers"
	"github.com/seenimoa/fingateway/internal/trace"
	"github.com/seenimoa/fingateway/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fingateway",
	Short: "fingateway - financial statement gateway",
	Long: `fingateway fetches income statements, balance sheets, cash flows and
company profiles from Alpha Vantage or Financial Modeling Prep, serves them
in one canonical JSON shape, and proxies AI-analysis requests to Anthropic.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is normal outside development.
		_ = godotenv.Load()

		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if name, _ := cmd.Flags().GetString("provider"); name != "" {
			cfg.Provider.Name = name
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("provider", "", "statement provider override (alphavantage, fmp)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(statusCmd)
}

// app holds the components built from cfg.
type app struct {
	log      *zap.Logger
	provider provider.StatementProvider
	ai       *llm.AnthropicProxy
}

func buildApp() (*app, error) {
	log, err := logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	if err := trace.Init(trace.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Version:     version,
	}); err != nil {
		log.Warn("tracing disabled", zap.Error(err))
	}

	if err := providers.RegisterAll(); err != nil {
		return nil, err
	}

	// Zero timeout means none.
	hc := &http.Client{Timeout: cfg.Upstream.Timeout}

	p, err := providers.New(cfg, hc, log)
	if err != nil {
		return nil, err
	}

	if cfg.Anthropic.APIKey == "" {
		log.Warn("anthropic API key not set; AI analysis requests will be rejected upstream")
	}
	ai := llm.NewAnthropicProxy(cfg.Anthropic.APIKey,
		llm.WithAnthropicBaseURL(cfg.Anthropic.BaseURL),
		llm.WithAnthropicVersion(cfg.Anthropic.Version),
		llm.WithAnthropicHTTPClient(hc),
		llm.WithAnthropicLogger(log),
	)

	return &app{log: log, provider: p, ai: ai}, nil
}

func (rt *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := trace.Shutdown(ctx); err != nil {
		rt.log.Warn("trace shutdown", zap.Error(err))
	}
	_ = rt.log.Sync()
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// Skip config loading.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fingateway %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildApp()
		if err != nil {
			return err
		}
		defer rt.close()

		for _, k := range config.CheckAPIKeys(cfg) {
			if !k.IsSet {
				rt.log.Warn("API key not set", zap.String("key", k.Name))
			}
		}

		srv, err := api.NewServer(cfg, rt.provider, rt.ai, rt.log)
		if err != nil {
			return err
		}
		return srv.ListenAndServe(cfg.API.Addr())
	},
}

// --- Fetch Command ---

var fetchCmd = &cobra.Command{
	Use:   "fetch [kind] [ticker]",
	Short: "Fetch one statement through the configured provider and print it",
	Long: `Fetch one statement and print the JSON the HTTP route would serve.
kind is one of: income-statement, balance-sheet, cash-flow, profile.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := models.ParseStatementKind(args[0])
		if err != nil {
			return err
		}

		rt, err := buildApp()
		if err != nil {
			return err
		}
		defer rt.close()

		out, err := provider.Run(cmd.Context(), rt.provider, kind, args[1])
		if err != nil {
			var rejected *provider.ErrUpstreamRejected
			if errors.As(err, &rejected) {
				return fmt.Errorf("rejected by %s: %s", rejected.Provider, rejected.Message)
			}
			return err
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and API key status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  fingateway - Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Println()

		// Config summary
		fmt.Println("  Configuration:")
		fmt.Printf("    Provider:      %s (%s)\n", cfg.Provider.Name, cfg.ProviderURL())
		fmt.Printf("    AI upstream:   %s\n", cfg.Anthropic.BaseURL)
		fmt.Printf("    API Server:    %s\n", cfg.API.Addr())
		timeout := "none"
		if cfg.Upstream.Timeout > 0 {
			timeout = cfg.Upstream.Timeout.String()
		}
		fmt.Printf("    Upstream timeout: %s\n", timeout)
		fmt.Println()

		// API keys status
		fmt.Println("  API Keys:")
		for _, k := range config.CheckAPIKeys(cfg) {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		if ping, _ := cmd.Flags().GetBool("ping"); ping {
			fmt.Println()
			fmt.Println("  Upstreams:")
			if err := pingUpstreams(cmd.Context()); err != nil {
				return err
			}
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("ping", false, "check that the statement provider and the AI upstream answer")
}

// pingUpstreams checks both upstreams concurrently and prints one line each.
func pingUpstreams(ctx context.Context) error {
	rt, err := buildApp()
	if err != nil {
		return err
	}
	defer rt.close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	targets := []struct {
		name string
		ping func(context.Context) error
	}{
		{rt.provider.Info().Name, rt.provider.Ping},
		{rt.ai.Name(), rt.ai.Ping},
	}
	results := make([]error, len(targets))

	// One slot per target; a failure does not cancel the other check.
	var g errgroup.Group
	for i, t := range targets {
		g.Go(func() error {
			results[i] = t.ping(ctx)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i, t := range targets {
		status := "✅ ok"
		if results[i] != nil {
			status = "❌ " + results[i].Error()
			failed++
		}
		fmt.Printf("    %-25s %s\n", t.name+":", status)
	}
	if failed > 0 {
		return fmt.Errorf("%d upstream check(s) failed", failed)
	}
	return nil
}
