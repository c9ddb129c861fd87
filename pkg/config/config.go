package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"vk-image-export/pkg/utils"
)

// Config holds the application configuration. Every field has a default, so
// the tool runs without any config file present.
type Config struct {
	Workers            int              `yaml:"workers,omitempty"`
	FetchTimeout       Duration         `yaml:"fetch_timeout,omitempty"`
	UserAgent          string           `yaml:"user_agent,omitempty"`
	MaxImageSizeBytes  int64            `yaml:"max_image_size_bytes,omitempty"` // 0 = unlimited
	ErrorLogPath       string           `yaml:"error_log_path,omitempty"`
	SummaryPath        string           `yaml:"summary_path,omitempty"` // "" disables the run summary
	HTTPClientSettings HTTPClientConfig `yaml:"http_client_settings,omitempty"`
}

// HTTPClientConfig holds settings for the shared HTTP client. The overall
// per-request timeout is FetchTimeout on Config, not duplicated here.
type HTTPClientConfig struct {
	MaxIdleConns        int      `yaml:"max_idle_conns,omitempty"`          // Max total idle connections
	MaxIdleConnsPerHost int      `yaml:"max_idle_conns_per_host,omitempty"` // Max idle connections per host
	IdleConnTimeout     Duration `yaml:"idle_conn_timeout,omitempty"`       // Timeout for idle connections
	TLSHandshakeTimeout Duration `yaml:"tls_handshake_timeout,omitempty"`   // Timeout for TLS handshake
	ForceAttemptHTTP2   *bool    `yaml:"force_attempt_http2,omitempty"`     // nil=default(true), explicit value otherwise
	DialerTimeout       Duration `yaml:"dialer_timeout,omitempty"`          // Connection dial timeout
	DialerKeepAlive     Duration `yaml:"dialer_keep_alive,omitempty"`       // TCP keep-alive interval
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Workers:           4,
		FetchTimeout:      Duration(10 * time.Second),
		UserAgent:         "vk-image-export/1.0",
		MaxImageSizeBytes: 0,
		ErrorLogPath:      "errors.log",
		SummaryPath:       "export-summary.yaml",
	}
}

// Load reads the optional config file at path and merges it over the
// defaults. A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("%w: reading config '%s': %w", utils.ErrFilesystem, path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing config '%s': %w", utils.ErrConfigValidation, path, err)
	}

	return cfg, nil
}
