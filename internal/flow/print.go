package flow

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/Bidon15/tokenctl/internal/api"
	"github.com/Bidon15/tokenctl/internal/ui"
)

// PrintWallet prints wallet details. The bearer token is shown truncated.
func PrintWallet(w io.Writer, wallet *api.WalletInfo) {
	fmt.Fprintf(w, "\n%s Wallet ready\n", ui.Green("✓"))
	ui.Field(w, "Address", wallet.Address)
	ui.Field(w, "Email", wallet.Email)
	if wallet.IsNewUser {
		ui.Field(w, "New user", "yes")
	} else {
		ui.Field(w, "New user", "no")
	}
	if wallet.ChainID != 0 {
		ui.Field(w, "Chain ID", strconv.FormatInt(wallet.ChainID, 10))
	}
	ui.Field(w, "Ecosystem", wallet.EcosystemID)
	ui.Field(w, "Ecosystem partner", wallet.EcosystemPartnerID)
	if wallet.CreatedAt != nil {
		ui.Field(w, "Created", wallet.CreatedAt.Format(time.RFC3339))
	}
	ui.Field(w, "Token", TruncateToken(wallet.Token))
}

// PrintContract prints the result of a deployment.
func PrintContract(w io.Writer, c *api.ContractInfo) {
	fmt.Fprintf(w, "\n%s Contract deployed\n", ui.Green("✓"))
	ui.Field(w, "Contract address", c.ContractAddress)
	ui.Field(w, "Transaction ID", c.TransactionID)
	ui.Field(w, "Chain ID", strconv.FormatInt(c.ChainID, 10))
	ui.Field(w, "Deployer", c.Deployer)
	ui.Field(w, "Name", c.TokenName)
	ui.Field(w, "Symbol", c.TokenSymbol)
	ui.Field(w, "Description", c.TokenDescription)
	ui.Field(w, "Deployed", c.DeployedAt.Format(time.RFC3339))
	if c.TransactionID != "" {
		fmt.Fprintf(w, "\n💡 Track it: txcheck %s --watch\n", c.TransactionID)
	}
}

// PrintDetails prints a best-effort lookup result in key order.
func PrintDetails(w io.Writer, title string, details map[string]interface{}) {
	if len(details) == 0 {
		return
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "\n%s\n", ui.Bold(title))
	for _, k := range keys {
		ui.Field(w, k, fmt.Sprintf("%v", details[k]))
	}
}
