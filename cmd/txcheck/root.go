package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Bidon15/tokenctl/internal/api"
	"github.com/Bidon15/tokenctl/internal/config"
	"github.com/Bidon15/tokenctl/internal/txwatch"
	"github.com/Bidon15/tokenctl/internal/ui"
)

// Version information - set via ldflags during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Global flag variables
var (
	watch       bool
	debug       bool
	jsonOutput  bool
	interval    time.Duration
	maxAttempts int
	baseURL     string
	envFile     string
)

var rootCmd *cobra.Command

var versionCmd *cobra.Command

func init() {
	rootCmd = &cobra.Command{
		Use:   "txcheck <transaction-id>",
		Short: "txcheck - thirdweb transaction status",
		Long: `txcheck prints the status of a thirdweb transaction.

With --watch it polls every 5s (up to 120 attempts) until the status
leaves pending. A transaction that is not found yet is retried while
watching. The exit status is 1 when the transaction failed or is still
pending after the last attempt.

Configuration is read from the environment or a .env file:
  THIRDWEB_API_KEY   Secret key (required)
  THIRDWEB_BASE_URL  API base URL (default https://api.thirdweb.com)
  TX_POLL_INTERVAL   Watch interval (default 5s)
  TX_MAX_ATTEMPTS    Watch attempts (default 120)`,
		Example: `  txcheck 0c5d8a3e-1b2f-4c6d-9e8f-0a1b2c3d4e5f
  txcheck 0c5d8a3e-1b2f-4c6d-9e8f-0a1b2c3d4e5f --watch`,
		Args:          requireTransactionID,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCheck,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "txcheck %s\n", Version)
			if debug {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  commit:  %s\n", Commit)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  built:   %s\n", BuildDate)
			}
		},
	}

	f := rootCmd.PersistentFlags()
	f.BoolVarP(&watch, "watch", "w", false, "Poll until the transaction leaves pending")
	f.BoolVarP(&debug, "debug", "d", false, "Print raw responses and log requests to stderr")
	f.BoolVar(&jsonOutput, "json", false, "Print the raw JSON response instead of the formatted view")
	f.DurationVar(&interval, "interval", 0, "Watch interval (or TX_POLL_INTERVAL env, default 5s)")
	f.IntVar(&maxAttempts, "max-attempts", 0, "Watch attempts (or TX_MAX_ATTEMPTS env, default 120)")
	f.StringVar(&baseURL, "base-url", "", "API base URL (or THIRDWEB_BASE_URL env)")
	f.StringVar(&envFile, "env-file", config.DefaultEnvFile, "Dotenv file to load")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command
func Execute() error {
	return execute()
}

// ExecuteWithArgs runs the root command with the provided arguments (for testing)
func ExecuteWithArgs(args []string) error {
	rootCmd.SetArgs(args)
	return execute()
}

func execute() error {
	err := rootCmd.Execute()
	if err != nil {
		ui.PrintError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// SetOutput sets the output writer for the root command (for testing)
func SetOutput(w io.Writer) {
	rootCmd.SetOut(w)
	rootCmd.SetErr(w)
}

// ResetFlags resets all global flags to their defaults (for testing)
func ResetFlags() {
	for _, fs := range []*pflag.FlagSet{rootCmd.PersistentFlags(), rootCmd.Flags(), versionCmd.Flags()} {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
}

func requireTransactionID(cmd *cobra.Command, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return api.NewValidationError("exactly one transaction id is required\nUsage: %s", cmd.UseLine())
	}
	return nil
}

// resolveConfig loads the environment and applies flag overrides.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = baseURL
	}
	if flags.Changed("interval") {
		if interval < 0 {
			return nil, api.NewValidationError("invalid --interval %s: must not be negative", interval)
		}
		cfg.PollInterval = interval
	}
	if flags.Changed("max-attempts") {
		if maxAttempts <= 0 {
			return nil, api.NewValidationError("invalid --max-attempts %d: must be a positive integer", maxAttempts)
		}
		cfg.MaxAttempts = maxAttempts
	}
	if jsonOutput && watch {
		return nil, api.NewValidationError("--json cannot be combined with --watch")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := ui.NewLogger(cmd.ErrOrStderr(), debug)
	client := api.NewClient(cfg.APIKey, append(cfg.ClientOptions(), api.WithLogger(logger))...)
	out := cmd.OutOrStdout()
	id := args[0]

	if jsonOutput {
		tx, err := client.GetTransaction(ctx, id)
		if err != nil {
			if api.IsNotFound(err) {
				txwatch.PrintNotFound(cmd.ErrOrStderr(), id)
			}
			return err
		}
		return ui.PrintJSON(out, tx.Raw)
	}

	w := txwatch.New(client, out,
		txwatch.WithPolicy(txwatch.Policy{Interval: cfg.PollInterval, MaxAttempts: cfg.MaxAttempts}),
		txwatch.WithRawOutput(debug),
		txwatch.WithLogger(logger),
	)

	if !watch {
		_, err := w.Check(ctx, id)
		return err
	}

	res, err := w.Watch(ctx, id)
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("interrupted after %d attempts: %w", res.Attempts, err)
	}
	return err
}
