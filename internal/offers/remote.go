package offers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/lodestar/internal/models"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// maxPayload caps the listings response body.
const maxPayload = 4 << 20

// RemoteProvider fetches listings from the offers HTTP API.
type RemoteProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the offers API
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

// NewRemoteProvider creates a provider backed by a retrying HTTP client.
// retries is the number of extra attempts after a failed request, 0 disables retrying.
// A non-positive rateLimit disables rate limiting.
func NewRemoteProvider(
	baseURL string,
	timeout time.Duration,
	retries int,
	rateLimit int,
	log *slog.Logger,
) *RemoteProvider {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retries
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = 900 * time.Millisecond
	retryClient.HTTPClient.Timeout = timeout
	retryClient.Logger = log

	return NewRemoteProviderWithClient(retryClient.StandardClient(), baseURL, newLimiter(rateLimit), log)
}

// NewRemoteProviderWithClient allows injecting custom HTTP client.
func NewRemoteProviderWithClient(
	client HTTPClient,
	baseURL string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *RemoteProvider {
	return &RemoteProvider{
		client:  client,
		baseURL: baseURL,
		log:     log,
		limiter: limiter,
	}
}

// Fetch requests the listings around center and returns the raw response body.
// Every failure is reported as ErrTransport.
func (rp *RemoteProvider) Fetch(ctx context.Context, center models.GeoPosition, radius string) ([]byte, error) {
	// Rate limit
	if err := rp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %w", ErrTransport, err)
	}

	reqURL := BuildURL(rp.baseURL, center, radius)
	rp.log.DebugContext(ctx, "Listings request URL", "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrTransport, err)
	}

	// Headers
	req.Header.Set("Accept", "application/json")

	resp, err := rp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute listings request: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		rp.log.ErrorContext(ctx, "Listings API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%w: listings API returned status %d: %s", ErrTransport, resp.StatusCode, string(body))
	}

	body, err := readAllLimit(resp.Body, maxPayload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrTransport, err)
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrTransport, ErrEmptyBody)
	}

	rp.log.DebugContext(ctx, "Listings response received", "bytes", len(body))

	return body, nil
}

func newLimiter(perSecond int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}

	return rate.NewLimiter(rate.Limit(perSecond), perSecond)
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, ErrPayloadTooLarge
	}

	return body, nil
}
