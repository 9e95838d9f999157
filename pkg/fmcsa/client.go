package fmcsa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	maxIdleConns          = 10
	defaultTimeoutSeconds = 30

	apiKeyHeader = "x-api-key"
	webKeyParam  = "webKey"
)

var (
	// ErrUpstream indicates a provider returned a non-2xx response or the
	// request itself failed. The whole vetting attempt fails with it.
	ErrUpstream = errors.New("upstream provider error")
)

// Options configures the carrier-data client. Keys always arrive here
// explicitly; nothing in this package reads the environment.
type Options struct {
	// QCMobileBaseURL is the FMCSA QCMobile API root (snapshot data).
	QCMobileBaseURL string
	// SaferBaseURL is the SAFERWeb wrapper API root (inspections,
	// crashes, violations).
	SaferBaseURL string
	// WebKey authenticates QCMobile calls (carried as a query param).
	WebKey string
	// APIKey authenticates SAFERWeb wrapper calls (carried in the
	// x-api-key header).
	APIKey string
	// Timeout bounds each individual provider call.
	Timeout time.Duration
}

// Client fetches carrier data from the configured providers.
type Client struct {
	http      *http.Client
	qcBase    string
	saferBase string
	webKey    string
	apiKey    string
}

// NewClient builds a provider client with a tuned shared transport.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeoutSeconds * time.Second
	}
	return &Client{
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:          maxIdleConns,
				IdleConnTimeout:       timeout,
				ResponseHeaderTimeout: timeout,
			},
		},
		qcBase:    opts.QCMobileBaseURL,
		saferBase: opts.SaferBaseURL,
		webKey:    opts.WebKey,
		apiKey:    opts.APIKey,
	}
}

// getJSON retrieves url and decodes the response body into target.
// The key header is only attached when withAPIKey is set; QCMobile
// carries its key in the URL instead.
func getJSON[T any](ctx context.Context, c *Client, url string, withAPIKey bool, target *T) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	if withAPIKey {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s returned %s - %s", ErrUpstream, req.URL.Host, resp.Status, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}
	return nil
}

// GetSnapshot returns the QCMobile carrier snapshot for the identifier.
func (c *Client) GetSnapshot(ctx context.Context, id Identifier) (*Snapshot, error) {
	var url string
	switch id.Kind {
	case IdentifierMC:
		url = fmt.Sprintf("%s/carriers/docket-number/%s?%s=%s", c.qcBase, id.Value, webKeyParam, c.webKey)
	default:
		url = fmt.Sprintf("%s/carriers/%s?%s=%s", c.qcBase, id.Value, webKeyParam, c.webKey)
	}

	var snap Snapshot
	if err := getJSON(ctx, c, url, false, &snap); err != nil {
		return nil, fmt.Errorf("fetching snapshot for %s: %w", id, err)
	}
	return &snap, nil
}

// GetInspections returns the 24-month inspection summary with OOS rates
// and national averages.
func (c *Client) GetInspections(ctx context.Context, id Identifier) (*InspectionSummary, error) {
	url := fmt.Sprintf("%s/v1/carriers/%s/inspections", c.saferBase, id.Value)
	var sum InspectionSummary
	if err := getJSON(ctx, c, url, true, &sum); err != nil {
		return nil, fmt.Errorf("fetching inspections for %s: %w", id, err)
	}
	return &sum, nil
}

// GetCrashes returns raw crash line items. One crash may span several
// lines (one per vehicle); callers dedupe by report number.
func (c *Client) GetCrashes(ctx context.Context, id Identifier) ([]CrashLine, error) {
	url := fmt.Sprintf("%s/v1/carriers/%s/crashes", c.saferBase, id.Value)
	var lines []CrashLine
	if err := getJSON(ctx, c, url, true, &lines); err != nil {
		return nil, fmt.Errorf("fetching crashes for %s: %w", id, err)
	}
	return lines, nil
}

// GetViolations returns raw violation line items (one per cited
// violation, many per inspection report).
func (c *Client) GetViolations(ctx context.Context, id Identifier) ([]ViolationLine, error) {
	url := fmt.Sprintf("%s/v1/carriers/%s/violations", c.saferBase, id.Value)
	var lines []ViolationLine
	if err := getJSON(ctx, c, url, true, &lines); err != nil {
		return nil, fmt.Errorf("fetching violations for %s: %w", id, err)
	}
	return lines, nil
}
