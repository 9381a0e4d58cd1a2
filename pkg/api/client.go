package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/weni-ai/conversation-analyzer/pkg/config"
	"github.com/weni-ai/conversation-analyzer/pkg/logger"
)

// defaultHeaders mimic the Intelligence web client. The billing and
// nexus endpoints sit behind the same edge as the supervisor UI and
// expect a browser-shaped request.
var defaultHeaders = map[string]string{
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "en-US,en;q=0.9,pt-BR;q=0.8,pt;q=0.7",
	"Origin":          "https://intelligence-next.weni.ai",
	"Referer":         "https://intelligence-next.weni.ai/supervisor",
	"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/136.0.0.0 Safari/537.36",
}

// Client is a configured HTTP client for the Weni platform APIs. All
// calls are GETs carrying the bearer token; pacing and bounded retry
// happen here so callers only see parsed results or typed failures.
type Client struct {
	billingBaseURL string
	nexusBaseURL   string
	token          string
	projectUUID    string
	httpClient     *http.Client
	policy         DelayPolicy
	limiters       *limiterSet
}

// NewClient creates a client from the run configuration. A nil policy
// selects the production delays.
func NewClient(cfg *config.Config, policy DelayPolicy) *Client {
	billing := cfg.BillingBaseURL
	if billing == "" {
		billing = config.DefaultBillingBaseURL
	}
	nexus := cfg.NexusBaseURL
	if nexus == "" {
		nexus = config.DefaultNexusBaseURL
	}
	if policy == nil {
		policy = DefaultDelayPolicy()
	}

	logger.Debug("api client configured: token=%s project=%s",
		config.MaskToken(cfg.BearerToken), cfg.ProjectUUID)

	return &Client{
		billingBaseURL: billing,
		nexusBaseURL:   nexus,
		token:          cfg.BearerToken,
		projectUUID:    cfg.ProjectUUID,
		httpClient: &http.Client{
			Timeout: config.DefaultHTTPTimeout,
		},
		policy:   policy,
		limiters: newLimiterSet(policy),
	}
}

// getJSON performs a paced GET against one endpoint and decodes the
// response into out. Transport errors and unexpected statuses are
// retried up to config.MaxFetchRetries times at the endpoint's cadence;
// auth and decode failures surface immediately.
func (c *Client) getJSON(ctx context.Context, endpoint Endpoint, rawURL string, params url.Values, out interface{}) error {
	var lastErr error
	for attempt := 0; attempt <= config.MaxFetchRetries; attempt++ {
		if attempt > 0 {
			logger.Warn("retrying %s request (attempt %d/%d): %v", endpoint, attempt, config.MaxFetchRetries, lastErr)
			if err := sleepContext(ctx, c.policy.retryDelay(endpoint)); err != nil {
				return err
			}
		}
		if err := c.limiters.wait(ctx, endpoint); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		body, err := c.doGet(ctx, rawURL, params)
		if err != nil {
			var netErr *NetworkError
			if !errors.As(err, &netErr) {
				return err // auth failures are not retried
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			continue
		}

		if err := json.Unmarshal(body, out); err != nil {
			return &DecodeError{URL: rawURL, Err: err}
		}
		return nil
	}
	return lastErr
}

// doGet issues a single request. The returned error is ErrUnauthorized
// (wrapped) for 401/403 and *NetworkError for everything else that went
// wrong before a usable body.
func (c *Client) doGet(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	reqURL := rawURL
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	for name, value := range defaultHeaders {
		req.Header.Set(name, value)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: status %d: check that the bearer token is valid and not expired", ErrUnauthorized, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &NetworkError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", clipBody(string(body))),
		}
	}

	return body, nil
}

// sleepContext sleeps for d unless the context ends first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
