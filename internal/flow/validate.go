package flow

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Bidon15/tokenctl/internal/api"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s has the local@domain.tld shape.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ParseDecimals parses a decimals answer. Empty input selects the default.
// Anything non-numeric or outside [0, 18] also falls back to the default,
// with ok reporting false so the caller can warn.
func ParseDecimals(s string) (decimals int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return api.DefaultDecimals, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > api.DefaultDecimals {
		return api.DefaultDecimals, false
	}
	return n, true
}
