package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-secret", append([]Option{WithBaseURL(srv.URL)}, opts...)...)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("key")
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
	assert.Equal(t, DefaultChainID, c.ChainID())
	assert.Empty(t, c.AuthToken())
}

func TestNewClient_Options(t *testing.T) {
	c := NewClient("key",
		WithBaseURL("https://example.test/"),
		WithTimeout(5*time.Second),
		WithChainID(137),
	)
	assert.Equal(t, "https://example.test", c.BaseURL())
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
	assert.Equal(t, int64(137), c.ChainID())
}

func TestClient_Headers(t *testing.T) {
	var got http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{}`))
	}, WithEcosystem(Ecosystem{ID: "ecosystem.acme", PartnerID: "partner-1"}))

	c.SetAuthToken("bearer-123")
	require.NoError(t, c.Get(context.Background(), "/v1/anything", nil))

	assert.Equal(t, "test-secret", got.Get("x-secret-key"))
	assert.Equal(t, SDKName, got.Get("x-sdk-name"))
	assert.Equal(t, SDKVersion, got.Get("x-sdk-version"))
	assert.NotEmpty(t, got.Get("x-request-id"))
	assert.Equal(t, "Bearer bearer-123", got.Get("Authorization"))
	assert.Equal(t, "ecosystem.acme", got.Get("x-ecosystem-id"))
	assert.Equal(t, "partner-1", got.Get("x-ecosystem-partner-id"))
}

func TestClient_NoAuthHeaderWithoutToken(t *testing.T) {
	var got http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{}`))
	})

	require.NoError(t, c.Get(context.Background(), "/v1/anything", nil))
	assert.Empty(t, got.Get("Authorization"))
	assert.Empty(t, got.Get("x-ecosystem-id"))
}

func TestClient_ErrorNormalization(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantCode    string
		wantMessage string
	}{
		{
			name:        "flat error object",
			status:      http.StatusBadRequest,
			body:        `{"error":"invalid_email","message":"email is malformed"}`,
			wantCode:    "invalid_email",
			wantMessage: "email is malformed",
		},
		{
			name:        "nested error object",
			status:      http.StatusUnauthorized,
			body:        `{"error":{"code":"UNAUTHORIZED","message":"bad secret key"}}`,
			wantCode:    "UNAUTHORIZED",
			wantMessage: "bad secret key",
		},
		{
			name:        "plain text body",
			status:      http.StatusBadGateway,
			body:        "upstream timeout",
			wantCode:    "Bad Gateway",
			wantMessage: "HTTP 502: upstream timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := c.Get(context.Background(), "/v1/anything", nil)
			require.Error(t, err)

			apiErr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, KindAPI, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

func TestClient_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not_found","message":"no such thing"}`))
	})

	err := c.Get(context.Background(), "/v1/missing", nil)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsKind(err, KindAPI))
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient("key", WithBaseURL(url))
	err := c.Get(context.Background(), "/v1/anything", nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork))

	apiErr, _ := AsError(err)
	assert.Zero(t, apiErr.StatusCode)
	assert.NotNil(t, errors.Unwrap(apiErr))
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: KindAPI, Code: "bad", Message: "things broke", StatusCode: 400}
	assert.Equal(t, "api error (HTTP 400): bad: things broke", err.Error())

	v := NewValidationError("email %q is invalid", "x")
	assert.Equal(t, KindValidation, v.Kind)
	assert.Contains(t, v.Error(), `email "x" is invalid`)
}
