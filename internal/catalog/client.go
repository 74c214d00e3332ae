// Package catalog talks to the remote Pokémon catalog (PokeAPI).
//
// It maps list pages to SummaryItems and detail responses to Details and
// classifies every failure as a *FetchError. It holds no state between
// calls: pagination state lives in the pager.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Client fetches catalog pages and details.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithRateLimit paces requests to rps per second. rps <= 0 disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithHTTPClient replaces the transport. The caller owns its timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// NewClient creates a Client for the API rooted at baseURL. timeout bounds
// every request end to end.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "pokedeck/0.1",
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListPage fetches limit entries starting at offset.
func (c *Client) ListPage(ctx context.Context, limit, offset int) (Page, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	return c.fetchPage(ctx, "list", c.baseURL+"/pokemon?"+q.Encode())
}

// PageByToken dereferences a Next or Previous token returned by an earlier
// page. The token already encodes limit and offset.
func (c *Client) PageByToken(ctx context.Context, token string) (Page, error) {
	u, err := url.Parse(token)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Page{}, &FetchError{Op: "page", Target: token, Kind: KindMalformed,
			Err: fmt.Errorf("invalid page token")}
	}
	return c.fetchPage(ctx, "page", token)
}

// Detail fetches the full record for the named entry.
func (c *Client) Detail(ctx context.Context, name string) (*Detail, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, &FetchError{Op: "detail", Kind: KindNotFound, Err: fmt.Errorf("empty name")}
	}

	var raw rawDetail
	if err := c.getJSON(ctx, "detail", name, c.baseURL+"/pokemon/"+url.PathEscape(name), &raw); err != nil {
		return nil, err
	}
	if raw.Name == "" {
		return nil, &FetchError{Op: "detail", Target: name, Kind: KindMalformed,
			Err: fmt.Errorf("response has no name")}
	}
	return raw.toDetail(), nil
}

func (c *Client) fetchPage(ctx context.Context, op, target string) (Page, error) {
	var raw rawPage
	if err := c.getJSON(ctx, op, target, target, &raw); err != nil {
		return Page{}, err
	}
	if raw.Results == nil {
		return Page{}, &FetchError{Op: op, Target: target, Kind: KindMalformed,
			Err: fmt.Errorf("response has no results")}
	}
	return raw.toPage(), nil
}

// getJSON performs a GET and decodes a 200 response into dst.
func (c *Client) getJSON(ctx context.Context, op, target, rawURL string, dst any) error {
	fail := func(kind ErrorKind, status int, err error) error {
		return &FetchError{Op: op, Target: target, Kind: kind, Status: status, Err: err}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fail(KindNetwork, 0, fmt.Errorf("rate limiter wait: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fail(KindMalformed, 0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fail(KindNetwork, 0, ctx.Err())
		}
		return fail(KindNetwork, 0, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fail(KindNotFound, resp.StatusCode, nil)
	case resp.StatusCode != http.StatusOK:
		return fail(KindNetwork, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fail(KindNetwork, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fail(KindMalformed, resp.StatusCode, err)
	}
	return nil
}

// ExtractID returns the numeric id carried by a resource URL such as
// ".../pokemon/25/". The id is the second-to-last path segment.
func ExtractID(resourceURL string) (int, bool) {
	parts := strings.Split(resourceURL, "/")
	if len(parts) < 2 {
		return 0, false
	}
	id, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// OffsetFromToken returns the offset query parameter of a page token, or 0
// when the token is empty or unparseable.
func OffsetFromToken(token string) int {
	if token == "" {
		return 0
	}
	u, err := url.Parse(token)
	if err != nil {
		return 0
	}
	offset, err := strconv.Atoi(u.Query().Get("offset"))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}
