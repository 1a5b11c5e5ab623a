package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bidon15/tokenctl/internal/api"
	"github.com/Bidon15/tokenctl/internal/config"
)

const (
	walletAddr   = "0x52908400098527886E0F7030069857D2E4169EE7"
	contractAddr = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
)

// setup resets global state and points config at an empty environment.
func setup(t *testing.T, apiKey string) *bytes.Buffer {
	t.Helper()
	ResetFlags()
	for _, k := range []string{
		config.EnvBaseURL, config.EnvChainID, config.EnvEcosystemID,
		config.EnvEcosystemPartnerID, config.EnvTimeout,
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv(config.EnvAPIKey, apiKey)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetInput(strings.NewReader(""))
	return &buf
}

func noEnvFile(t *testing.T) string {
	return "--env-file=" + filepath.Join(t.TempDir(), "missing.env")
}

func TestVersionCommand(t *testing.T) {
	buf := setup(t, "")
	require.NoError(t, ExecuteWithArgs([]string{"version"}))
	assert.Contains(t, buf.String(), "tokenctl dev")

	buf = setup(t, "")
	require.NoError(t, ExecuteWithArgs([]string{"version", "--debug"}))
	assert.Contains(t, buf.String(), "commit:")
	assert.Contains(t, buf.String(), "built:")
}

func TestRootCommand_Help(t *testing.T) {
	buf := setup(t, "")
	require.NoError(t, ExecuteWithArgs([]string{"--help"}))

	for _, want := range []string{
		"--email",
		"--ecosystem-id",
		"--ecosystem-partner-id",
		"--chain-id",
		"--token-file",
		"--output-dir",
		"--yes",
		"--debug",
		"THIRDWEB_API_KEY",
		"DEFAULT_CHAIN_ID",
	} {
		assert.Contains(t, buf.String(), want)
	}
}

func TestRootCommand_MissingAPIKey(t *testing.T) {
	buf := setup(t, "")
	err := ExecuteWithArgs([]string{noEnvFile(t), "--email", "a@b.co"})
	require.ErrorIs(t, err, config.ErrMissingAPIKey)
	assert.Contains(t, buf.String(), "Error:")
	assert.Contains(t, buf.String(), config.EnvAPIKey)
}

func TestRootCommand_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"invalid email", []string{"--email", "not-an-email"}},
		{"empty ecosystem id", []string{"--ecosystem-id="}},
		{"partner without ecosystem", []string{"--ecosystem-partner-id", "p-1"}},
		{"non-positive chain", []string{"--chain-id", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup(t, "sk-test")
			err := ExecuteWithArgs(append([]string{noEnvFile(t), "--base-url", "http://127.0.0.1:1"}, tt.args...))
			require.Error(t, err)
			assert.True(t, api.IsKind(err, api.KindValidation), "got %v", err)
		})
	}
}

func TestRootCommand_RejectsPositionalArgs(t *testing.T) {
	setup(t, "sk-test")
	assert.Error(t, ExecuteWithArgs([]string{noEnvFile(t), "extra"}))
}

func TestRootCommand_FullSession(t *testing.T) {
	var deployBody map[string]interface{}
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/wallets/login/code":
			_, _ = w.Write([]byte(`{"success":true}`))
		case r.Method == http.MethodPost && r.URL.Path == "/v1/wallets/login/code/verify":
			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(body), `"code":"123456"`)
			_, _ = w.Write([]byte(`{"isNewUser":true,"token":"eyJhbGciOiJIUzI1NiJ9.session-token-body","type":"email","walletAddress":"` + strings.ToLower(walletAddr) + `"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/v1/contracts":
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&deployBody))
			_, _ = w.Write([]byte(`{"result":{"address":"` + contractAddr + `","chainId":137,"transactionId":"tx-42"}}`))
		case r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`{"result":{"ok":true}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token.yaml")
	require.NoError(t, os.WriteFile(tokenFile, []byte("name: Test Token\nsymbol: tst\ndescription: \"\"\ndecimals: 18\ninitial_supply: \"1000\"\n"), 0o600))
	outDir := filepath.Join(dir, "out")

	buf := setup(t, "sk-test")
	SetInput(strings.NewReader("123456\n"))

	err := ExecuteWithArgs([]string{
		noEnvFile(t),
		"--base-url", srv.URL,
		"--email", "user@example.com",
		"--chain-id", "137",
		"--token-file", tokenFile,
		"--output-dir", outDir,
		"--yes",
	})
	require.NoError(t, err, buf.String())

	assert.Equal(t, "Bearer eyJhbGciOiJIUzI1NiJ9.session-token-body", gotAuth)
	assert.Equal(t, float64(137), deployBody["chainId"])
	assert.Contains(t, buf.String(), contractAddr)
	assert.Contains(t, buf.String(), "tx-42")

	wallets, err := filepath.Glob(filepath.Join(outDir, "wallet-*.json"))
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	data, err := os.ReadFile(wallets[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"token": "eyJhbGciOiJIUzI1NiJ9..."`)

	deployments, err := filepath.Glob(filepath.Join(outDir, "deployment-0xfB6916*.json"))
	require.NoError(t, err)
	assert.Len(t, deployments, 1)
}

func TestRootCommand_LoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized","message":"invalid secret key"}`))
	}))
	defer srv.Close()

	buf := setup(t, "sk-bad")
	err := ExecuteWithArgs([]string{noEnvFile(t), "--base-url", srv.URL, "--email", "user@example.com"})
	require.Error(t, err)

	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, buf.String(), "invalid secret key")
	assert.Contains(t, buf.String(), "Status: 401")
}
