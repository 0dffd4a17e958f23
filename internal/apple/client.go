// Package apple probes the Apple Store pickup-availability endpoint.
package apple

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/donaldgifford/apple-stock-notifier/internal/catalog"
	"github.com/donaldgifford/apple-stock-notifier/internal/metrics"
	domain "github.com/donaldgifford/apple-stock-notifier/pkg/types"
)

const (
	defaultPickupURL = "https://www.apple.com/jp/shop/retail/pickup-message"
	defaultTimeout   = 10 * time.Second
	maxBodyBytes     = 4 << 20
)

// Prober reports which stores currently offer pickup for a part.
type Prober interface {
	// Probe never fails: transport and parse errors read as "no stores".
	Probe(ctx context.Context, partNumber, location string) []domain.StoreResult
}

// Client implements Prober against the pickup-message endpoint.
type Client struct {
	pickupURL string
	client    *http.Client
	limiter   *rate.Limiter
	log       *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithPickupURL overrides the default endpoint.
func WithPickupURL(u string) Option {
	return func(c *Client) {
		c.pickupURL = u
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithRateLimit paces outbound requests with a token bucket.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a new pickup-availability client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		pickupURL: defaultPickupURL,
		client:    &http.Client{Timeout: defaultTimeout},
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Probe implements Prober. A failed probe is logged and reported as an empty
// result, indistinguishable from "out of stock" for the caller.
func (c *Client) Probe(ctx context.Context, partNumber, location string) []domain.StoreResult {
	stores, err := c.Fetch(ctx, partNumber, location)
	if err != nil {
		c.log.Warn("stock probe failed",
			"part", partNumber,
			"location", location,
			"error", err,
		)
		return []domain.StoreResult{}
	}
	return stores
}

// Fetch queries the endpoint and returns stores reporting pickup
// availability for partNumber. Unlike Probe it surfaces errors.
func (c *Client) Fetch(ctx context.Context, partNumber, location string) ([]domain.StoreResult, error) {
	if location == catalog.TestLocation {
		metrics.ProbesTotal.WithLabelValues("sentinel").Inc()
		return []domain.StoreResult{SentinelStore()}, nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			metrics.ProbesTotal.WithLabelValues("failed").Inc()
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	start := time.Now()
	stores, err := c.fetch(ctx, partNumber, location)
	metrics.ProbeDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		metrics.ProbesTotal.WithLabelValues("failed").Inc()
		return nil, err
	case len(stores) > 0:
		metrics.ProbesTotal.WithLabelValues("available").Inc()
	default:
		metrics.ProbesTotal.WithLabelValues("unavailable").Inc()
	}

	c.log.Debug("stock probe finished",
		"part", partNumber,
		"location", location,
		"stores", len(stores),
	)

	return stores, nil
}

func (c *Client) fetch(ctx context.Context, partNumber, location string) ([]domain.StoreResult, error) {
	u, err := c.buildURL(partNumber, location)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing pickup request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pickup API error (status %d)", resp.StatusCode)
	}

	var parsed pickupResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing pickup response: %w", err)
	}

	return parsed.availableStores(partNumber), nil
}

func (c *Client) buildURL(partNumber, location string) (string, error) {
	u, err := url.Parse(c.pickupURL)
	if err != nil {
		return "", fmt.Errorf("parsing pickup URL: %w", err)
	}
	q := u.Query()
	q.Set("parts.0", partNumber)
	q.Set("location", location)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
