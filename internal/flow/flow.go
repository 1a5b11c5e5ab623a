// Package flow implements the interactive wallet login and token deployment
// session driven by tokenctl.
package flow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Bidon15/tokenctl/internal/api"
	"github.com/Bidon15/tokenctl/internal/prompt"
	"github.com/Bidon15/tokenctl/internal/ui"
)

// MaxEmailAttempts bounds how often an invalid email is re-asked.
const MaxEmailAttempts = 3

// Service is the subset of *api.Client the flow uses.
type Service interface {
	CreateWalletWithEmail(ctx context.Context, email string, src api.CodeSource, eco api.Ecosystem) (*api.WalletInfo, error)
	DeployERC20Contract(ctx context.Context, walletAddress string, meta api.TokenMetadata, chainID int64) (*api.ContractInfo, error)
	GetWalletInfo(ctx context.Context, address string) map[string]interface{}
	GetContractInfo(ctx context.Context, address string, chainID int64) map[string]interface{}
}

// Options controls one Run.
type Options struct {
	// Email skips the ecosystem and email prompts when set.
	Email string
	// Ecosystem is applied to the login. With Email unset and an empty
	// Ecosystem.ID, the user is asked whether to use one.
	Ecosystem api.Ecosystem
	// ChainID for the deployment; zero uses the client default.
	ChainID int64
	// Token presets fields that would otherwise be prompted for.
	Token *TokenPreset
	// AssumeYes accepts the deploy and save confirmations.
	AssumeYes bool
	// OutputDir receives saved JSON files.
	OutputDir string
}

// Result is what a Run produced.
type Result struct {
	Wallet     *api.WalletInfo
	Contract   *api.ContractInfo
	WalletFile string
	DeployFile string
}

// Runner drives the session.
type Runner struct {
	svc    Service
	p      *prompt.Prompter
	out    io.Writer
	logger *slog.Logger
	now    func() time.Time
}

// NewRunner creates a Runner. Prompts and results are written to the
// Prompter's output.
func NewRunner(svc Service, p *prompt.Prompter, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{
		svc:    svc,
		p:      p,
		out:    p.Out(),
		logger: logger,
		now:    time.Now,
	}
}

// Run executes login, the optional deployment, and the optional saves.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	eco := opts.Ecosystem
	email := strings.TrimSpace(opts.Email)

	if email == "" {
		var err error
		if eco.ID == "" {
			if eco, err = r.askEcosystem(ctx); err != nil {
				return nil, err
			}
		}
		if email, err = r.askEmail(ctx); err != nil {
			return nil, err
		}
	} else if !IsValidEmail(email) {
		return nil, api.NewValidationError("invalid email address %q", email)
	}

	fmt.Fprintf(r.out, "\n%s Sending verification code to %s...\n", ui.Yellow("→"), email)
	wallet, err := r.svc.CreateWalletWithEmail(ctx, email, r.p, eco)
	if err != nil {
		return nil, fmt.Errorf("wallet login failed: %w", err)
	}
	res := &Result{Wallet: wallet}

	PrintWallet(r.out, wallet)
	PrintDetails(r.out, "Wallet details", r.svc.GetWalletInfo(ctx, wallet.Address))

	deploy, err := r.confirm(ctx, opts.AssumeYes, "\nDeploy an ERC-20 token from this wallet?")
	if err != nil {
		return res, err
	}
	if deploy {
		if res.Contract, err = r.deploy(ctx, wallet, opts); err != nil {
			fmt.Fprintf(r.out, "%s %v\n", ui.Red("✗"), err)
			if serr := r.save(ctx, res, opts); serr != nil {
				r.logger.Warn("wallet save skipped", slog.String("error", serr.Error()))
			}
			return res, err
		}
	}

	if err := r.save(ctx, res, opts); err != nil {
		return res, err
	}
	return res, nil
}

func (r *Runner) askEcosystem(ctx context.Context) (api.Ecosystem, error) {
	use, err := r.p.Confirm(ctx, "Use an ecosystem wallet?")
	if err != nil || !use {
		return api.Ecosystem{}, err
	}

	id, err := r.p.Ask(ctx, "Ecosystem ID: ")
	if err != nil {
		return api.Ecosystem{}, err
	}
	if id == "" {
		return api.Ecosystem{}, api.NewValidationError("ecosystem ID is required when using an ecosystem wallet")
	}

	partner, err := r.p.Ask(ctx, "Ecosystem partner ID (optional): ")
	if err != nil {
		return api.Ecosystem{}, err
	}
	return api.Ecosystem{ID: id, PartnerID: partner}, nil
}

func (r *Runner) askEmail(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= MaxEmailAttempts; attempt++ {
		email, err := r.p.Ask(ctx, "Email address: ")
		if err != nil {
			return "", err
		}
		if IsValidEmail(email) {
			return email, nil
		}
		fmt.Fprintf(r.out, "%s %q is not a valid email address\n", ui.Red("✗"), email)
	}
	return "", api.NewValidationError("no valid email address after %d attempts", MaxEmailAttempts)
}

func (r *Runner) deploy(ctx context.Context, wallet *api.WalletInfo, opts Options) (*api.ContractInfo, error) {
	fmt.Fprintln(r.out)
	meta, err := CollectToken(ctx, r.p, opts.Token)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(r.out, "\n%s Deploying %s (%s)...\n", ui.Yellow("→"), meta.Name, meta.Symbol)
	contract, err := r.svc.DeployERC20Contract(ctx, wallet.Address, meta, opts.ChainID)
	if err != nil {
		return nil, fmt.Errorf("deployment failed: %w", err)
	}
	r.logger.Info("token deployed",
		slog.String("contract", contract.ContractAddress),
		slog.Int64("chain_id", contract.ChainID),
	)

	PrintContract(r.out, contract)
	PrintDetails(r.out, "Contract details", r.svc.GetContractInfo(ctx, contract.ContractAddress, contract.ChainID))
	return contract, nil
}

func (r *Runner) save(ctx context.Context, res *Result, opts Options) error {
	now := r.now()
	dir := opts.OutputDir

	ok, err := r.confirm(ctx, opts.AssumeYes, "\nSave wallet info to a JSON file?")
	if err != nil {
		return err
	}
	if ok {
		if res.WalletFile, err = SaveWallet(dir, *res.Wallet, now); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%s Saved %s\n", ui.Green("✓"), res.WalletFile)
	}

	if res.Contract == nil {
		return nil
	}
	ok, err = r.confirm(ctx, opts.AssumeYes, "Save deployment info to a JSON file?")
	if err != nil {
		return err
	}
	if ok {
		if res.DeployFile, err = SaveDeployment(dir, *res.Wallet, *res.Contract, now); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%s Saved %s\n", ui.Green("✓"), res.DeployFile)
	}
	return nil
}

func (r *Runner) confirm(ctx context.Context, assumeYes bool, question string) (bool, error) {
	if assumeYes {
		fmt.Fprintf(r.out, "%s [y/N]: y\n", question)
		return true, nil
	}
	return r.p.Confirm(ctx, question)
}
