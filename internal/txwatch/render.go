package txwatch

import (
	"fmt"
	"io"

	"github.com/Bidon15/tokenctl/internal/api"
	"github.com/Bidon15/tokenctl/internal/ui"
)

// StatusLabel decorates a status for the terminal.
func StatusLabel(status string) string {
	if status == "" {
		status = "pending"
	}
	switch Classify(status) {
	case StatePolling:
		return "⏳ " + status
	case StateFailed:
		return ui.Red("❌ " + status)
	default:
		return ui.Green("✅ " + status)
	}
}

// Render prints every non-empty field of tx.
func Render(w io.Writer, tx *api.Transaction) {
	fmt.Fprintf(w, "%s\n", ui.Bold("Transaction"))
	ui.Field(w, "Status", StatusLabel(tx.Status))
	ui.Field(w, "ID", tx.ID)
	ui.Field(w, "Chain ID", tx.ChainID.String())
	ui.Field(w, "From", tx.From)
	ui.Field(w, "To", tx.To)
	ui.Field(w, "Hash", tx.TransactionHash)
	ui.Field(w, "Block", tx.BlockNumber.String())
	ui.Field(w, "Gas used", tx.GasUsed.String())
	ui.Field(w, "Gas price", tx.GasPrice.String())
	ui.Field(w, "Created", tx.CreatedAt)
	ui.Field(w, "Confirmed", tx.ConfirmedAt)
	if tx.ErrorMessage != "" {
		ui.Field(w, "Error", ui.Red(tx.ErrorMessage))
	}
}
