// Package ui holds the terminal output helpers shared by tokenctl and txcheck.
package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Bidon15/tokenctl/internal/api"
)

// PrintJSON outputs data as formatted JSON.
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintError prints an error message, with the status code and provider
// error code when err carries an *api.Error.
func PrintError(w io.Writer, err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = err.Error()
		}
		fmt.Fprintf(w, "%s %s\n", Red("Error:"), msg)
		if apiErr.StatusCode != 0 {
			fmt.Fprintf(w, "  Status: %d\n", apiErr.StatusCode)
		}
		if apiErr.Code != "" && apiErr.Code != msg {
			fmt.Fprintf(w, "  Code:   %s\n", apiErr.Code)
		}
		return
	}
	fmt.Fprintf(w, "%s %s\n", Red("Error:"), err.Error())
}

// Field prints an aligned "label: value" line, skipping empty values.
func Field(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "  %-18s %s\n", label+":", value)
}

// Terminal colors

func Red(s string) string {
	return colorize("31", s)
}

func Green(s string) string {
	return colorize("32", s)
}

func Yellow(s string) string {
	return colorize("33", s)
}

func Cyan(s string) string {
	return colorize("36", s)
}

func Bold(s string) string {
	return colorize("1", s)
}

func colorize(code, s string) string {
	if !isTTY() {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

func isTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
