// Package catalog is a client for the TheCocktailDB read API.
//
// Three endpoints are used: the category list, the drink list filtered by
// category and the drink lookup by identifier. Every response carries its
// payload in a top-level "drinks" field that may be an array, null, absent or,
// for some misses, a plain string. All of those non-array shapes read as an
// empty result.
//
// The client is stateless apart from its rate limiter. It never caches and
// never retries; callers decide whether to call again.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/mrlokans/cocktails/internal/entities"
)

const (
	// DefaultBaseURL is the free-tier API root.
	DefaultBaseURL = "https://www.thecocktaildb.com/api/json/v1/1"

	userAgent = "Cocktails/1.0 (https://github.com/mrlokans/cocktails)"
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client
}

// Client fetches categories and drinks from the catalog API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	inflight   singleflight.Group
}

// NewClient creates a catalog client. A non-positive RequestsPerSecond disables rate limiting.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(limit, burst),
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListCategories returns every drink category.
// GET {base}/list.php?c=list
func (c *Client) ListCategories(ctx context.Context) ([]entities.Category, error) {
	raw, err := c.get(ctx, "list categories", "list.php", url.Values{"c": {"list"}})
	if err != nil {
		return nil, err
	}

	categories := []entities.Category{}
	if err := decodeDrinks(raw, &categories); err != nil {
		return nil, &NetworkError{Op: "list categories", Err: err}
	}
	return categories, nil
}

// ListDrinksByCategory returns the drinks filed under category. Filter results
// carry only the identifier, name and thumbnail of each drink.
// GET {base}/filter.php?c=<category>
func (c *Client) ListDrinksByCategory(ctx context.Context, category string) ([]entities.Drink, error) {
	raw, err := c.get(ctx, "list drinks", "filter.php", url.Values{"c": {category}})
	if err != nil {
		return nil, err
	}

	drinks := []entities.Drink{}
	if err := decodeDrinks(raw, &drinks); err != nil {
		return nil, &NetworkError{Op: "list drinks", Err: err}
	}
	return drinks, nil
}

// GetDrinkByID returns the full record of one drink, or ErrNotFound when the
// lookup yields nothing.
// GET {base}/lookup.php?i=<id>
func (c *Client) GetDrinkByID(ctx context.Context, id string) (*entities.Drink, error) {
	raw, err := c.get(ctx, "lookup drink", "lookup.php", url.Values{"i": {id}})
	if err != nil {
		return nil, err
	}

	var drinks []entities.Drink
	if err := decodeDrinks(raw, &drinks); err != nil {
		return nil, &NetworkError{Op: "lookup drink", Err: err}
	}
	if len(drinks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &drinks[0], nil
}

type envelope struct {
	Drinks json.RawMessage `json:"drinks"`
}

// get performs a rate-limited GET and returns the raw "drinks" field.
// Concurrent calls for the same URL share one request. The shared request
// outlives any single caller's cancellation and is bounded by the HTTP client
// timeout instead; a cancelled caller stops waiting on its own.
func (c *Client) get(ctx context.Context, op, endpoint string, query url.Values) (json.RawMessage, error) {
	target := c.baseURL + "/" + endpoint + "?" + query.Encode()

	shared := context.WithoutCancel(ctx)
	ch := c.inflight.DoChan(target, func() (any, error) {
		return c.fetch(shared, op, target)
	})

	select {
	case <-ctx.Done():
		return nil, &NetworkError{Op: op, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	}
}

func (c *Client) fetch(ctx context.Context, op, target string) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &NetworkError{Op: op, StatusCode: resp.StatusCode}
	}

	var body envelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return body.Drinks, nil
}

// decodeDrinks fills out from the "drinks" field when it holds an array and
// leaves out untouched for null, absent or scalar values.
func decodeDrinks(raw json.RawMessage, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	return json.Unmarshal(trimmed, out)
}
