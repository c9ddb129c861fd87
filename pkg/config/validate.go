package config

import (
	"fmt"
	"time"

	"vk-image-export/pkg/utils"
)

// Validate checks Config fields and applies sensible defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *Config) Validate() (warnings []string, err error) {
	// Workers: a zero-width pool cannot make progress, so this one is fatal
	if c.Workers <= 0 {
		return nil, fmt.Errorf("%w: workers must be > 0 (got %d)", utils.ErrConfigValidation, c.Workers)
	}

	// FetchTimeout
	if c.FetchTimeout <= 0 {
		warnings = append(warnings, "fetch_timeout should be > 0, defaulting to 10s")
		c.FetchTimeout = Duration(10 * time.Second)
	}

	// UserAgent
	if c.UserAgent == "" {
		warnings = append(warnings, "user_agent is empty, defaulting to 'vk-image-export/1.0'")
		c.UserAgent = "vk-image-export/1.0"
	}

	// MaxImageSizeBytes
	if c.MaxImageSizeBytes < 0 {
		warnings = append(warnings, "max_image_size_bytes cannot be negative, setting to 0 (unlimited)")
		c.MaxImageSizeBytes = 0
	}

	// ErrorLogPath
	if c.ErrorLogPath == "" {
		warnings = append(warnings, "error_log_path is empty, defaulting to 'errors.log'")
		c.ErrorLogPath = "errors.log"
	}

	// HTTPClientSettings defaults
	c.validateHTTPClientSettings()

	return warnings, nil
}

// validateHTTPClientSettings applies defaults to HTTP client settings.
func (c *Config) validateHTTPClientSettings() {
	h := &c.HTTPClientSettings
	if h.MaxIdleConns <= 0 {
		h.MaxIdleConns = 100
	}
	if h.MaxIdleConnsPerHost <= 0 {
		h.MaxIdleConnsPerHost = 4
	}
	if h.IdleConnTimeout <= 0 {
		h.IdleConnTimeout = Duration(90 * time.Second)
	}
	if h.TLSHandshakeTimeout <= 0 {
		h.TLSHandshakeTimeout = Duration(10 * time.Second)
	}
	if h.DialerTimeout <= 0 {
		h.DialerTimeout = Duration(15 * time.Second)
	}
	if h.DialerKeepAlive <= 0 {
		h.DialerKeepAlive = Duration(30 * time.Second)
	}
}
