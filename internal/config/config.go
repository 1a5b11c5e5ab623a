// Package config resolves tokenctl and txcheck settings from dotenv files
// and the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/Bidon15/tokenctl/internal/api"
)

// Environment variable names
const (
	EnvAPIKey             = "THIRDWEB_API_KEY"
	EnvBaseURL            = "THIRDWEB_BASE_URL"
	EnvChainID            = "DEFAULT_CHAIN_ID"
	EnvEcosystemID        = "THIRDWEB_ECOSYSTEM_ID"
	EnvEcosystemPartnerID = "THIRDWEB_ECOSYSTEM_PARTNER_ID"
	EnvTimeout            = "THIRDWEB_TIMEOUT"
	EnvPollInterval       = "TX_POLL_INTERVAL"
	EnvMaxAttempts        = "TX_MAX_ATTEMPTS"
)

// Default values
const (
	DefaultPollInterval = 5 * time.Second
	DefaultMaxAttempts  = 120
	DefaultEnvFile      = ".env"
)

// envBindings maps viper keys to the environment variables they are read from.
var envBindings = []struct {
	key string
	env string
}{
	{"api_key", EnvAPIKey},
	{"base_url", EnvBaseURL},
	{"chain_id", EnvChainID},
	{"ecosystem_id", EnvEcosystemID},
	{"ecosystem_partner_id", EnvEcosystemPartnerID},
	{"timeout", EnvTimeout},
	{"poll_interval", EnvPollInterval},
	{"max_attempts", EnvMaxAttempts},
}

// ErrMissingAPIKey is returned by Validate when no API key is configured.
var ErrMissingAPIKey = errors.New("config: " + EnvAPIKey + " is required")

// Config holds resolved settings. Treat it as read-only once the command
// layer has applied flag overrides.
type Config struct {
	APIKey             string        `env:"THIRDWEB_API_KEY" validate:"required"`
	BaseURL            string        `env:"THIRDWEB_BASE_URL" validate:"required,url"`
	ChainID            int64         `env:"DEFAULT_CHAIN_ID" validate:"gt=0"`
	EcosystemID        string        `env:"THIRDWEB_ECOSYSTEM_ID"`
	EcosystemPartnerID string        `env:"THIRDWEB_ECOSYSTEM_PARTNER_ID"`
	Timeout            time.Duration `env:"THIRDWEB_TIMEOUT" validate:"gt=0"`
	PollInterval       time.Duration `env:"TX_POLL_INTERVAL" validate:"gte=0"`
	MaxAttempts        int           `env:"TX_MAX_ATTEMPTS" validate:"gt=0"`
}

var validate = newValidator()

// newValidator reports fields by their environment variable name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("env")
	})
	return v
}

// Load reads the given dotenv files (missing ones are skipped; variables
// already in the environment win) and resolves every setting.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	v := viper.New()
	v.SetDefault("base_url", api.DefaultBaseURL)
	v.SetDefault("chain_id", api.DefaultChainID)
	v.SetDefault("timeout", api.DefaultTimeout)
	v.SetDefault("poll_interval", DefaultPollInterval)
	v.SetDefault("max_attempts", DefaultMaxAttempts)

	for _, b := range envBindings {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", b.env, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	chainID, err := cast.ToInt64E(v.Get("chain_id"))
	if err != nil || chainID <= 0 {
		return nil, fmt.Errorf("invalid %s %q: must be a positive integer", EnvChainID, v.GetString("chain_id"))
	}
	timeout, err := cast.ToDurationE(v.Get("timeout"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid %s %q: must be a positive duration", EnvTimeout, v.GetString("timeout"))
	}
	interval, err := cast.ToDurationE(v.Get("poll_interval"))
	if err != nil || interval < 0 {
		return nil, fmt.Errorf("invalid %s %q: must be a duration", EnvPollInterval, v.GetString("poll_interval"))
	}
	attempts, err := cast.ToIntE(v.Get("max_attempts"))
	if err != nil || attempts <= 0 {
		return nil, fmt.Errorf("invalid %s %q: must be a positive integer", EnvMaxAttempts, v.GetString("max_attempts"))
	}

	baseURL := strings.TrimRight(strings.TrimSpace(v.GetString("base_url")), "/")
	if baseURL == "" {
		baseURL = api.DefaultBaseURL
	}

	return &Config{
		APIKey:             strings.TrimSpace(v.GetString("api_key")),
		BaseURL:            baseURL,
		ChainID:            chainID,
		EcosystemID:        strings.TrimSpace(v.GetString("ecosystem_id")),
		EcosystemPartnerID: strings.TrimSpace(v.GetString("ecosystem_partner_id")),
		Timeout:            timeout,
		PollInterval:       interval,
		MaxAttempts:        attempts,
	}, nil
}

// Validate checks that all required configuration is present and that
// flag overrides left every value in range.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("config: %w", err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("config: %s is required", fe.Field())
	case "url":
		return fmt.Errorf("config: %s must be a valid URL, got %q", fe.Field(), fe.Value())
	default:
		return fmt.Errorf("config: %s is out of range (%s %s), got %v", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
	}
}

// Ecosystem returns the configured ecosystem scope.
func (c *Config) Ecosystem() api.Ecosystem {
	return api.Ecosystem{ID: c.EcosystemID, PartnerID: c.EcosystemPartnerID}
}

// ClientOptions returns the api.Client options implied by c.
func (c *Config) ClientOptions() []api.Option {
	return []api.Option{
		api.WithBaseURL(c.BaseURL),
		api.WithTimeout(c.Timeout),
		api.WithChainID(c.ChainID),
		api.WithEcosystem(c.Ecosystem()),
	}
}

// MaskedAPIKey returns the API key with its middle hidden, for display.
func (c *Config) MaskedAPIKey() string {
	key := c.APIKey
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 12 {
		return "****"
	}
	return key[:8] + "..." + key[len(key)-4:]
}
