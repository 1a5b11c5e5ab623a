package flow

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Bidon15/tokenctl/internal/api"
	"github.com/Bidon15/tokenctl/internal/prompt"
	"github.com/Bidon15/tokenctl/internal/ui"
)

// TokenPreset holds token fields read from a YAML file. Fields left unset
// are asked for interactively.
type TokenPreset struct {
	Name          string  `yaml:"name"`
	Symbol        string  `yaml:"symbol"`
	Description   *string `yaml:"description"`
	Decimals      string  `yaml:"decimals"`
	InitialSupply string  `yaml:"initial_supply"`
}

// LoadTokenFile reads a TokenPreset from a YAML file.
//
// Example:
//
//	name: My Token
//	symbol: mtk
//	description: Community token
//	decimals: 18
//	initial_supply: "1000000"
func LoadTokenFile(path string) (*TokenPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var preset TokenPreset
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("invalid YAML token file: %w", err)
	}
	return &preset, nil
}

// CollectToken asks for each token field not supplied by preset. The
// symbol is upper-cased, decimals outside [0, 18] fall back to 18, and an
// initial supply that is not a non-negative integer is asked for again.
func CollectToken(ctx context.Context, p *prompt.Prompter, preset *TokenPreset) (api.TokenMetadata, error) {
	if preset == nil {
		preset = &TokenPreset{}
	}
	out := p.Out()
	var meta api.TokenMetadata
	var err error

	meta.Name = strings.TrimSpace(preset.Name)
	if meta.Name == "" {
		if meta.Name, err = p.AskRequired(ctx, "Token name: "); err != nil {
			return meta, err
		}
	}

	meta.Symbol = strings.TrimSpace(preset.Symbol)
	if meta.Symbol == "" {
		if meta.Symbol, err = p.AskRequired(ctx, "Token symbol: "); err != nil {
			return meta, err
		}
	}
	meta.Symbol = strings.ToUpper(meta.Symbol)

	if preset.Description != nil {
		meta.Description = strings.TrimSpace(*preset.Description)
	} else if meta.Description, err = p.Ask(ctx, "Token description (optional): "); err != nil {
		return meta, err
	}

	decimals := preset.Decimals
	if decimals == "" {
		if decimals, err = p.AskDefault(ctx, "Decimals (0-18)", strconv.Itoa(api.DefaultDecimals)); err != nil {
			return meta, err
		}
	}
	var ok bool
	meta.Decimals, ok = ParseDecimals(decimals)
	if !ok {
		fmt.Fprintf(out, "%s invalid decimals %q, using %d\n", ui.Yellow("⚠"), decimals, api.DefaultDecimals)
	}

	supply := strings.TrimSpace(preset.InitialSupply)
	for {
		if supply == "" {
			if supply, err = p.AskDefault(ctx, "Initial supply", "0"); err != nil {
				return meta, err
			}
		}
		if _, err := api.NormalizeSupply(supply); err == nil {
			break
		}
		fmt.Fprintf(out, "%s initial supply %q must be a non-negative whole number\n", ui.Red("✗"), supply)
		supply = ""
	}
	meta.InitialSupply = supply

	return meta, nil
}
