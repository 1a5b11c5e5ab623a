package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Bidon15/tokenctl/internal/api"
	"github.com/Bidon15/tokenctl/internal/config"
	"github.com/Bidon15/tokenctl/internal/flow"
	"github.com/Bidon15/tokenctl/internal/prompt"
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
	email              string
	ecosystemID        string
	ecosystemPartnerID string
	chainID            int64
	baseURL            string
	tokenFile          string
	outputDir          string
	envFile            string
	assumeYes          bool
	debug              bool
)

var rootCmd *cobra.Command

var versionCmd *cobra.Command

func init() {
	rootCmd = &cobra.Command{
		Use:   "tokenctl",
		Short: "tokenctl - thirdweb email wallets and ERC-20 deployment",
		Long: `tokenctl logs in to a thirdweb in-app wallet with an emailed one-time
code and can then deploy an ERC-20 token from that wallet.

Configuration is read from the environment or a .env file:
  THIRDWEB_API_KEY               Secret key (required)
  THIRDWEB_BASE_URL              API base URL (default https://api.thirdweb.com)
  DEFAULT_CHAIN_ID               Deployment chain (default 1)
  THIRDWEB_ECOSYSTEM_ID          Ecosystem wallet ID
  THIRDWEB_ECOSYSTEM_PARTNER_ID  Ecosystem partner ID`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSession,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tokenctl %s\n", Version)
			if debug {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  commit:  %s\n", Commit)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  built:   %s\n", BuildDate)
			}
		},
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&email, "email", "", "Log in with this email instead of prompting")
	f.StringVar(&ecosystemID, "ecosystem-id", "", "Ecosystem wallet ID (or THIRDWEB_ECOSYSTEM_ID env)")
	f.StringVar(&ecosystemPartnerID, "ecosystem-partner-id", "", "Ecosystem partner ID (or THIRDWEB_ECOSYSTEM_PARTNER_ID env)")
	f.Int64Var(&chainID, "chain-id", 0, "Deployment chain ID (or DEFAULT_CHAIN_ID env)")
	f.StringVar(&baseURL, "base-url", "", "API base URL (or THIRDWEB_BASE_URL env)")
	f.StringVar(&tokenFile, "token-file", "", "YAML file presetting token name, symbol, description, decimals, initial_supply")
	f.StringVar(&outputDir, "output-dir", ".", "Directory for saved JSON files")
	f.StringVar(&envFile, "env-file", config.DefaultEnvFile, "Dotenv file to load")
	f.BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to the deploy and save confirmations")
	f.BoolVarP(&debug, "debug", "d", false, "Log requests and responses to stderr")

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

// SetInput sets the reader prompts are answered from (for testing)
func SetInput(r io.Reader) {
	rootCmd.SetIn(r)
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
	if flags.Changed("chain-id") {
		if chainID <= 0 {
			return nil, api.NewValidationError("invalid --chain-id %d: must be a positive integer", chainID)
		}
		cfg.ChainID = chainID
	}
	if flags.Changed("ecosystem-id") {
		if ecosystemID == "" {
			return nil, api.NewValidationError("--ecosystem-id must not be empty")
		}
		cfg.EcosystemID = ecosystemID
	}
	if flags.Changed("ecosystem-partner-id") {
		cfg.EcosystemPartnerID = ecosystemPartnerID
	}
	if cfg.EcosystemPartnerID != "" && cfg.EcosystemID == "" {
		return nil, api.NewValidationError("an ecosystem partner ID requires an ecosystem ID")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	var preset *flow.TokenPreset
	if tokenFile != "" {
		if preset, err = flow.LoadTokenFile(tokenFile); err != nil {
			return err
		}
	}

	logger := ui.NewLogger(cmd.ErrOrStderr(), debug)
	logger.Debug("configuration loaded",
		"base_url", cfg.BaseURL,
		"chain_id", cfg.ChainID,
		"api_key", cfg.MaskedAPIKey(),
	)
	client := api.NewClient(cfg.APIKey, append(cfg.ClientOptions(), api.WithLogger(logger))...)

	p := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())
	defer p.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", ui.Bold("thirdweb wallet login"))
	_, err = flow.NewRunner(client, p, logger).Run(cmd.Context(), flow.Options{
		Email:     email,
		Ecosystem: cfg.Ecosystem(),
		ChainID:   cfg.ChainID,
		Token:     preset,
		AssumeYes: assumeYes,
		OutputDir: outputDir,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%s Done\n", ui.Green("✓"))
	return nil
}
