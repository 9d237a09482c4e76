package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/poyrazK/dspilot/internal/adapters/registry"
	"github.com/poyrazK/dspilot/internal/config"
	"github.com/poyrazK/dspilot/internal/core/domain"
	"github.com/poyrazK/dspilot/internal/core/services"
)

// version is stamped at build time via -ldflags.
var version = "dev"

var (
	cfgFile         string
	flagEndpoint    string
	flagAccount     string
	flagToken       string
	flagTokenFile   string
	flagDigests     []string
	flagConcurrency int
	flagRetractMode string
	flagInput       string
	flagOutput      string
	flagVerbose     bool
	flagMetricsAddr string
)

var rootCmd = &cobra.Command{
	Use:     "dspilot",
	Short:   "dspilot derives DS records from DNSKEYs and files them with a delegation registry",
	Version: version,
	Long: `dspilot parses DNSKEY records in presentation format, derives the
matching DS records (RFC 4034) and submits or retracts them against an
asynchronous registry provisioning API. Reverse-tree owner names are
routed to the registry's address-block collection.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on error. SIGINT
// and SIGTERM cancel the run's context so in-flight registry calls are
// cut off and reported rather than abandoned.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default searches ., ~/.config/dspilot, /etc/dspilot)")
	pf.StringVar(&flagEndpoint, "endpoint", "", "registry API base URL")
	pf.StringVar(&flagAccount, "account", "", "registry account")
	pf.StringVar(&flagToken, "token", "", "registry bearer token")
	pf.StringVar(&flagTokenFile, "token-file", "", "file holding the token, or an account:token line")
	pf.StringSliceVar(&flagDigests, "digest", nil, "DS digest types to derive (SHA-1, SHA-256, SHA-384 or all)")
	pf.IntVar(&flagConcurrency, "concurrency", 0, "max records in flight (0 uses the configured value)")
	pf.StringVar(&flagRetractMode, "retract-mode", "", "retract form: auto, key-tag or full")
	pf.StringVarP(&flagInput, "file", "f", "", "read DNSKEY records from a file ('-' for stdin)")
	pf.StringVarP(&flagOutput, "output", "o", "text", "report format: text, json or yaml")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&flagMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address for the run's duration")

	rootCmd.AddCommand(convertCmd, submitCmd, retractCmd, fetchCmd, taskCmd, pingCmd)
}

// resolveConfig loads the configuration and applies flag overrides.
func resolveConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if flagEndpoint != "" {
		cfg.Registry.Endpoint = flagEndpoint
	}
	if flagAccount != "" {
		cfg.Registry.Account = flagAccount
	}
	if flagToken != "" {
		cfg.Registry.Token = flagToken
	}
	if flagTokenFile != "" {
		cfg.Registry.TokenFile = flagTokenFile
	}
	if len(flagDigests) > 0 {
		cfg.Run.DigestTypes = flagDigests
	}
	if flagConcurrency > 0 {
		cfg.Run.Concurrency = flagConcurrency
	}
	if flagRetractMode != "" {
		cfg.Registry.RetractMode = flagRetractMode
	}
	if flagVerbose {
		cfg.Log.Level = "debug"
	}
	if flagMetricsAddr != "" {
		cfg.Metrics.Addr = flagMetricsAddr
	}
	return cfg, nil
}

// buildLogger keeps stdout clean for reports; logs go to stderr.
func buildLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// buildClient wires a registry client from the resolved configuration.
func buildClient(cfg *config.Config, logger *slog.Logger) (*registry.Client, error) {
	creds, err := cfg.Registry.Credentials()
	if err != nil {
		return nil, err
	}
	return registry.NewClient(registry.Config{
		Endpoint:          cfg.Registry.Endpoint,
		Credentials:       creds,
		Timeout:           cfg.Registry.Timeout,
		RequestsPerSecond: cfg.Registry.RequestsPerSecond,
		Burst:             cfg.Registry.Burst,
		MaxInflight:       cfg.Registry.MaxInflight,
		RetractMode:       registry.RetractMode(cfg.Registry.RetractMode),
		UserAgent:         "dspilot/" + version,
	}, logger)
}

// buildProvisioner assembles the pipeline. A nil client restricts the
// provisioner to convert-only runs.
func buildProvisioner(cfg *config.Config, client *registry.Client, logger *slog.Logger) (*services.Provisioner, error) {
	types, err := cfg.Run.ParseDigestTypes()
	if err != nil {
		return nil, err
	}
	if client == nil {
		return services.NewProvisioner(nil, types, cfg.Run.Concurrency, logger), nil
	}
	return services.NewProvisioner(client, types, cfg.Run.Concurrency, logger), nil
}

// runBatch drives one provisioning run for the convert, submit and
// retract commands.
func runBatch(cmd *cobra.Command, args []string, action domain.Action) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	logger := buildLogger(cfg)

	lines, err := readLines(args, flagInput, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return fmt.Errorf("no DNSKEY records to process")
	}

	var client *registry.Client
	if action != domain.ActionConvert {
		client, err = buildClient(cfg, logger)
		if err != nil {
			return err
		}
	}
	prov, err := buildProvisioner(cfg, client, logger)
	if err != nil {
		return err
	}

	if srv := serveMetrics(cfg.Metrics.Addr, logger); srv != nil {
		defer srv.Close()
	}

	results := prov.Run(cmd.Context(), action, lines)
	if err := printResults(cmd.OutOrStdout(), flagOutput, results); err != nil {
		return err
	}
	if n := failedCount(results); n > 0 {
		return fmt.Errorf("%d of %d records failed", n, len(results))
	}
	return nil
}

// readLines gathers input records: positional arguments first, then
// the --file source, defaulting to stdin the way signing pipelines
// feed hook scripts. Blank and comment-only lines are skipped.
func readLines(args []string, file string, stdin io.Reader) ([]string, error) {
	if len(args) > 0 {
		if file != "" {
			return nil, fmt.Errorf("pass records as arguments or via --file, not both")
		}
		return args, nil
	}

	var r io.Reader
	switch file {
	case "", "-":
		r = stdin
	default:
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r = f
	}

	scanner := bufio.NewScanner(r)
	// 1MB buffer for long keys split across one line
	buf := make([]byte, 1024*1024)
	scanner.Buffer(buf, 1024*1024)

	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		stripped := line
		if idx := strings.IndexByte(stripped, ';'); idx >= 0 {
			stripped = stripped[:idx]
		}
		if strings.TrimSpace(stripped) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return lines, nil
}

// serveMetrics exposes the Prometheus registry for the run's duration
// when an address is configured. The caller closes the returned server.
func serveMetrics(addr string, logger *slog.Logger) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics listener failed", "addr", addr, "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)
	return srv
}
