// Package fx converts USD amounts to EUR for display. The rate comes from
// a public exchange-rate API and is cached in the local store for 24 hours;
// every failure path falls back to a static rate, so a conversion is always
// available offline.
package fx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/eurotrade/salesdesk/internal/model"
	"github.com/eurotrade/salesdesk/internal/store"
)

// FallbackUSDEUR is used when no live or cached rate is available.
const FallbackUSDEUR = 0.92

// Client fetches and caches the USD to EUR rate.
type Client struct {
	store    store.Store
	http     *http.Client
	url      string
	fallback float64
	ttl      time.Duration
	now      func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client, for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithFallback overrides the static fallback rate.
func WithFallback(rate float64) ClientOption {
	return func(c *Client) { c.fallback = rate }
}

// WithTTL overrides the cache lifetime.
func WithTTL(ttl time.Duration) ClientOption {
	return func(c *Client) { c.ttl = ttl }
}

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) ClientOption {
	return func(c *Client) { c.now = now }
}

// NewClient creates an fx client caching into the given store.
func NewClient(st store.Store, url string, opts ...ClientOption) *Client {
	c := &Client{
		store:    st,
		http:     &http.Client{Timeout: 10 * time.Second},
		url:      url,
		fallback: FallbackUSDEUR,
		ttl:      24 * time.Hour,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// USDEUR returns the USD to EUR rate. It never returns an error: a fresh
// cached rate wins, then a live fetch, then a stale cached rate, then the
// static fallback. The source tells the caller which one was used.
func (c *Client) USDEUR(ctx context.Context) (rate float64, source string) {
	cached, err := c.store.LoadFx(ctx)
	if err != nil {
		zap.L().Warn("fx: cache read failed", zap.Error(err))
		cached = nil
	}
	if cached != nil && c.fresh(cached) {
		return cached.USDEUR, "cache"
	}

	live, err := c.fetch(ctx)
	if err == nil {
		if err := c.store.SaveFx(ctx, model.FxCache{TS: c.now().UnixMilli(), USDEUR: live}); err != nil {
			zap.L().Warn("fx: cache write failed", zap.Error(err))
		}
		return live, "live"
	}
	zap.L().Warn("fx: fetch failed", zap.Error(err))

	if cached != nil {
		return cached.USDEUR, "stale-cache"
	}
	return c.fallback, "fallback"
}

func (c *Client) fresh(fx *model.FxCache) bool {
	age := c.now().Sub(time.UnixMilli(fx.TS))
	return age >= 0 && age < c.ttl
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

func (c *Client) fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errUnexpectedStatus(resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	rate, ok := body.Rates["EUR"]
	if !ok || rate <= 0 {
		return 0, errNoEURRate
	}
	return rate, nil
}
