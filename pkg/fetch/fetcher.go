package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"vk-image-export/pkg/config"
	"vk-image-export/pkg/utils"
)

// Fetcher performs single-attempt downloads through a shared http.Client.
// No error kind triggers a retry: a failed item is logged by the caller and
// the run moves on.
type Fetcher struct {
	client *http.Client
	cfg    *config.Config
	log    *logrus.Entry
}

// NewFetcher creates a new Fetcher instance.
func NewFetcher(client *http.Client, cfg *config.Config, log *logrus.Entry) *Fetcher {
	return &Fetcher{
		client: client,
		cfg:    cfg,
		log:    log,
	}
}

// Fetch downloads url and returns the body bytes. Non-2xx statuses and
// bodies over the configured size limit are errors. The response body is
// always drained and closed here; nothing is retried.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: for '%s': %w", utils.ErrRequestCreation, url, err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching '%s': %w", url, err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if err := statusError(resp); err != nil {
		return nil, err
	}

	// Declared sizes over the limit save us reading the body at all
	maxBytes := f.cfg.MaxImageSizeBytes
	if maxBytes > 0 && resp.ContentLength > maxBytes {
		return nil, fmt.Errorf("%w: '%s' declares %d bytes (limit %d)", utils.ErrImageTooLarge, url, resp.ContentLength, maxBytes)
	}

	var reader io.Reader = resp.Body
	if maxBytes > 0 {
		reader = io.LimitReader(resp.Body, maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: from '%s': %w", utils.ErrResponseBodyRead, url, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: '%s' exceeded %d bytes", utils.ErrImageTooLarge, url, maxBytes)
	}

	f.log.WithField("url", url).Debug("Successfully fetched")
	return data, nil
}

// statusError maps a non-2xx response to the matching sentinel error.
func statusError(resp *http.Response) error {
	statusCode := resp.StatusCode
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode >= 500:
		return fmt.Errorf("%w: status %d %s", utils.ErrServerHTTPError, statusCode, resp.Status)
	case statusCode >= 400:
		return fmt.Errorf("%w: status %d %s", utils.ErrClientHTTPError, statusCode, resp.Status)
	default:
		return fmt.Errorf("%w: status %d %s", utils.ErrOtherHTTPError, statusCode, resp.Status)
	}
}
