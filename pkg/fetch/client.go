package fetch

import (
	"errors"
	"net"
	"net/http"

	"github.com/sirupsen/logrus"

	"vk-image-export/pkg/config"
)

// NewClient creates the shared HTTP client based on the provided
// configuration. The overall per-request timeout is cfg.FetchTimeout, so
// every download attempt is bounded end to end.
func NewClient(cfg *config.Config, log *logrus.Entry) *http.Client {
	settings := cfg.HTTPClientSettings

	// Create custom dialer with configured timeouts
	dialer := &net.Dialer{
		Timeout:   settings.DialerTimeout.ToDuration(),
		KeepAlive: settings.DialerKeepAlive.ToDuration(),
	}

	// Create custom transport using configured settings
	transport := &http.Transport{
		Proxy:                  http.ProxyFromEnvironment, // Use system proxy settings
		DialContext:            dialer.DialContext,
		ForceAttemptHTTP2:      true, // Default to true unless explicitly disabled
		MaxIdleConns:           settings.MaxIdleConns,
		MaxIdleConnsPerHost:    settings.MaxIdleConnsPerHost,
		IdleConnTimeout:        settings.IdleConnTimeout.ToDuration(),
		TLSHandshakeTimeout:    settings.TLSHandshakeTimeout.ToDuration(),
		MaxResponseHeaderBytes: 1 << 20,
	}
	if settings.ForceAttemptHTTP2 != nil {
		transport.ForceAttemptHTTP2 = *settings.ForceAttemptHTTP2
	}

	return &http.Client{
		Timeout:   cfg.FetchTimeout.ToDuration(),
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Default Go behavior is 10 redirects max
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			log.Debugf("Redirecting: %s -> %s (hop %d)", via[len(via)-1].URL, req.URL, len(via))
			return nil
		},
	}
}
