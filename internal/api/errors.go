package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies where an error originated.
type Kind int

const (
	// KindNetwork means no HTTP response was received.
	KindNetwork Kind = iota
	// KindAPI means the provider answered with a failure.
	KindAPI
	// KindValidation means local input was rejected before any request.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAPI:
		return "api"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is the normalized error returned by every client operation.
type Error struct {
	Kind       Kind   `json:"-"`
	Code       string `json:"error"`
	Message    string `json:"message,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`

	err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	switch {
	case e.Code != "" && e.Message != "" && e.Code != e.Message:
		fmt.Fprintf(&b, ": %s: %s", e.Code, e.Message)
	case e.Message != "":
		fmt.Fprintf(&b, ": %s", e.Message)
	case e.Code != "":
		fmt.Fprintf(&b, ": %s", e.Code)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.err
}

// IsNotFound returns true if this is a 404 error.
func (e *Error) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true if this is a 401 error.
func (e *Error) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an *Error of kind k.
func IsKind(err error, k Kind) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == k
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.IsNotFound()
}

// NewValidationError builds a KindValidation error.
func NewValidationError(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

func newAPIError(code, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindAPI,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func networkError(err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Code:    "network_error",
		Message: err.Error(),
		err:     err,
	}
}

// parseErrorBody normalizes a non-2xx response body. The provider is not
// consistent: some endpoints send {error, message}, others nest the error
// object, and gateways may return plain text.
func parseErrorBody(status int, body []byte) *Error {
	apiErr := &Error{Kind: KindAPI, StatusCode: status}

	var flat struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &flat); err != nil || (len(flat.Error) == 0 && flat.Message == "") {
		apiErr.Code = http.StatusText(status)
		apiErr.Message = fmt.Sprintf("HTTP %d: %s", status, strings.TrimSpace(string(body)))
		return apiErr
	}

	apiErr.Message = flat.Message

	var code string
	if err := json.Unmarshal(flat.Error, &code); err == nil {
		apiErr.Code = code
		return apiErr
	}

	var nested struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(flat.Error, &nested); err == nil {
		apiErr.Code = nested.Code
		if apiErr.Message == "" {
			apiErr.Message = nested.Message
		}
	}
	if apiErr.Code == "" {
		apiErr.Code = http.StatusText(status)
	}
	return apiErr
}
