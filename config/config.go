// Package config loads Esplora client settings from the environment.
//
// When ENV_FILE_PATH is set, the referenced file is loaded with godotenv first. Variables that are
// already present in the process environment win over values from the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/AmmannChristian/go-esplora/oauth2client"
)

const (
	// DefaultBaseURL is the public Blockstream Esplora API.
	DefaultBaseURL = "https://blockstream.info/api/"

	// DefaultTokenURL is the Blockstream enterprise identity provider.
	DefaultTokenURL = "https://login.blockstream.com/realms/blockstream-public/protocol/openid-connect/token"

	// DefaultHTTPTimeout bounds every API and token request.
	DefaultHTTPTimeout = 30 * time.Second
)

// Environment variable names.
const (
	EnvFilePath           = "ENV_FILE_PATH"
	EnvBaseURL            = "ESPLORA_BASE_URL"
	EnvClientID           = "ESPLORA_CLIENT_ID"
	EnvClientSecret       = "ESPLORA_CLIENT_SECRET"
	EnvTokenURL           = "ESPLORA_TOKEN_URL"
	EnvHTTPTimeoutSeconds = "ESPLORA_HTTP_TIMEOUT_SECONDS"
	EnvMaxRetries         = "ESPLORA_MAX_RETRIES"
	EnvTLSCAFile          = "ESPLORA_TLS_CA_FILE"
	EnvTLSCertFile        = "ESPLORA_TLS_CERT_FILE"
	EnvTLSKeyFile         = "ESPLORA_TLS_KEY_FILE"
	EnvTLSSkipVerify      = "ESPLORA_TLS_INSECURE_SKIP_VERIFY"
)

// Config holds client settings.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	TokenURL     string
	HTTPTimeout  time.Duration
	MaxRetries   int

	// TLS applies to API and token endpoint connections alike.
	TLS TLSConfig
}

// TLSConfig names PEM files for server verification and mTLS.
type TLSConfig struct {
	CAFile             string
	CertFile           string
	KeyFile            string
	InsecureSkipVerify bool
}

// Enabled reports whether any file is configured.
func (t TLSConfig) Enabled() bool {
	return t.CAFile != "" || t.CertFile != "" || t.KeyFile != ""
}

// Authenticated reports whether client credentials are configured.
func (c *Config) Authenticated() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Credentials returns the client-credentials grant parameters.
func (c *Config) Credentials() oauth2client.Credentials {
	return oauth2client.Credentials{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.TokenURL,
	}
}

// Load reads the configuration from the environment.
//
// Both ESPLORA_CLIENT_ID and ESPLORA_CLIENT_SECRET unset selects public access; setting only one
// of them is an error. All invalid values are reported together.
func Load() (*Config, error) {
	if path := os.Getenv(EnvFilePath); path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	r := &envReader{}
	cfg := &Config{
		BaseURL:      r.readOptionalString(EnvBaseURL, DefaultBaseURL),
		ClientID:     r.readOptionalString(EnvClientID, ""),
		ClientSecret: r.readOptionalString(EnvClientSecret, ""),
		TokenURL:     r.readOptionalString(EnvTokenURL, DefaultTokenURL),
		HTTPTimeout:  time.Duration(r.readOptionalPositiveInt(EnvHTTPTimeoutSeconds, int(DefaultHTTPTimeout/time.Second))) * time.Second,
		MaxRetries:   r.readOptionalNonNegativeInt(EnvMaxRetries, 0),
		TLS: TLSConfig{
			CAFile:             r.readOptionalString(EnvTLSCAFile, ""),
			CertFile:           r.readOptionalString(EnvTLSCertFile, ""),
			KeyFile:            r.readOptionalString(EnvTLSKeyFile, ""),
			InsecureSkipVerify: r.readOptionalBool(EnvTLSSkipVerify, false),
		},
	}

	if (cfg.ClientID == "") != (cfg.ClientSecret == "") {
		r.errs = append(r.errs, fmt.Errorf("%s and %s must be set together", EnvClientID, EnvClientSecret))
	}
	if (cfg.TLS.CertFile == "") != (cfg.TLS.KeyFile == "") {
		r.errs = append(r.errs, fmt.Errorf("%s and %s must be set together", EnvTLSCertFile, EnvTLSKeyFile))
	}

	if err := errors.Join(r.errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// envReader collects parse errors so that Load can report all of them at once.
type envReader struct {
	errs []error
}

func (r *envReader) readOptionalString(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func (r *envReader) readOptionalBool(key string, defaultValue bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid boolean %q", key, raw))
		return defaultValue
	}
	return value
}

func (r *envReader) readOptionalInt(key string, defaultValue int) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid integer %q", key, raw))
		return defaultValue, false
	}
	return value, true
}

func (r *envReader) readOptionalPositiveInt(key string, defaultValue int) int {
	value, set := r.readOptionalInt(key, defaultValue)
	if set && value <= 0 {
		r.errs = append(r.errs, fmt.Errorf("%s: must be positive, got %d", key, value))
		return defaultValue
	}
	return value
}

func (r *envReader) readOptionalNonNegativeInt(key string, defaultValue int) int {
	value, set := r.readOptionalInt(key, defaultValue)
	if set && value < 0 {
		r.errs = append(r.errs, fmt.Errorf("%s: must not be negative, got %d", key, value))
		return defaultValue
	}
	return value
}
