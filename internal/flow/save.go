package flow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Bidon15/tokenctl/internal/api"
)

const (
	// tokenKeep is how much of a bearer token may be written to disk.
	tokenKeep      = 20
	truncateMarker = "..."

	fileTimeLayout = "2006-01-02T15-04-05Z"
)

// TruncateToken keeps the first 20 characters of a bearer token followed by
// a marker. An empty token stays empty.
func TruncateToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) > tokenKeep {
		token = token[:tokenKeep]
	}
	return token + truncateMarker
}

// deploymentRecord is the on-disk shape of a deployment file.
type deploymentRecord struct {
	Wallet   api.WalletInfo   `json:"wallet"`
	Contract api.ContractInfo `json:"contract"`
	SavedAt  time.Time        `json:"saved_at"`
}

// SaveWallet writes wallet-<addr8>-<timestamp>.json into dir.
func SaveWallet(dir string, wallet api.WalletInfo, now time.Time) (string, error) {
	wallet.Token = TruncateToken(wallet.Token)
	return writeJSON(dir, fileName("wallet", wallet.Address, now), wallet)
}

// SaveDeployment writes deployment-<addr8>-<timestamp>.json into dir, keyed
// by the contract address.
func SaveDeployment(dir string, wallet api.WalletInfo, contract api.ContractInfo, now time.Time) (string, error) {
	wallet.Token = TruncateToken(wallet.Token)
	rec := deploymentRecord{
		Wallet:   wallet,
		Contract: contract,
		SavedAt:  now.UTC(),
	}
	return writeJSON(dir, fileName("deployment", contract.ContractAddress, now), rec)
}

func fileName(prefix, address string, now time.Time) string {
	short := address
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s-%s-%s.json", prefix, short, now.UTC().Format(fileTimeLayout))
}

func writeJSON(dir, name string, v interface{}) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
