package posts

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

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/Makepad-fr/tada/internal/model"
)

// TotalCountHeader carries the size of the whole collection.
const TotalCountHeader = "X-Total-Count"

// Defaults match the public JSONPlaceholder posts endpoint.
const (
	DefaultEndpoint  = "https://jsonplaceholder.typicode.com/posts"
	DefaultPageSize  = 10
	DefaultUserAgent = "tada/1.0"
)

// Page is one fetched page of the collection.
type Page struct {
	Number     int
	Items      []model.Post
	TotalCount int  // valid only when HasTotal is true
	HasTotal   bool // false when the server omitted X-Total-Count
}

// PageFetcher is implemented by anything able to load one page.
type PageFetcher interface {
	FetchPage(ctx context.Context, page int) (Page, error)
}

// Config holds the client configuration.
type Config struct {
	Endpoint string
	PageSize int

	// Timeout bounds a single page request. Zero means no timeout.
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests. Zero disables throttling.
	RequestsPerSecond float64

	UserAgent string
	Token     string // sent as a bearer token when non-empty

	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client loads pages from a json-server style collection endpoint
// (`?_page=N&_limit=M`, total in X-Total-Count).
type Client struct {
	endpoint  *url.URL
	pageSize  int
	timeout   time.Duration
	userAgent string
	token     string
	http      *http.Client
	limiter   *rate.Limiter
	logger    *log.Logger
}

// New validates cfg and builds a Client.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.Endpoint)
	if raw == "" {
		raw = DefaultEndpoint
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint must be http(s), got %q", raw)
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("page size must be > 0 (got %d)", cfg.PageSize)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0 (got %s)", cfg.Timeout)
	}

	c := &Client{
		endpoint:  u,
		pageSize:  cfg.PageSize,
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
		token:     cfg.Token,
		http:      cfg.HTTPClient,
		logger:    cfg.Logger,
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c, nil
}

// PageSize is the fixed number of items requested per page.
func (c *Client) PageSize() int { return c.pageSize }

// DetailURL is the canonical URL of a single post.
func (c *Client) DetailURL(id int) string {
	u := *c.endpoint
	u.RawQuery = ""
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strconv.Itoa(id)
	return u.String()
}

func (c *Client) pageURL(page int) string {
	u := *c.endpoint
	q := u.Query()
	q.Set("_page", strconv.Itoa(page))
	q.Set("_limit", strconv.Itoa(c.pageSize))
	u.RawQuery = q.Encode()
	return u.String()
}

// FetchPage issues exactly one GET for the given 1-based page.
// Pages past the end of the collection come back empty, not as errors.
func (c *Client) FetchPage(ctx context.Context, page int) (Page, error) {
	if page < 1 {
		return Page{}, &FetchError{Page: page, Err: fmt.Errorf("page must be >= 1")}
	}
	start := time.Now()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Page{}, &FetchError{Page: page, Err: fmt.Errorf("rate limit wait: %w", err)}
		}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(page), nil)
	if err != nil {
		return Page{}, &FetchError{Page: page, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("page request failed", "page", page, "err", err)
		return Page{}, &FetchError{Page: page, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		c.logger.Warn("page request rejected", "page", page, "status", resp.StatusCode)
		return Page{}, &FetchError{Page: page, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)}
	}

	var items []model.Post
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		c.logger.Warn("page body invalid", "page", page, "err", err)
		return Page{}, &FetchError{Page: page, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}
	if items == nil {
		items = []model.Post{}
	}

	total, ok, err := parseTotalCount(resp.Header.Get(TotalCountHeader))
	if err != nil {
		c.logger.Warn("bad total count header", "page", page, "err", err)
		return Page{}, &FetchError{Page: page, StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.Debug("fetched page",
		"page", page,
		"items", len(items),
		"total", total,
		"duration", time.Since(start),
	)
	return Page{Number: page, Items: items, TotalCount: total, HasTotal: ok}, nil
}

func parseTotalCount(v string) (int, bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s %q: %w", TotalCountHeader, v, err)
	}
	if n < 0 {
		return 0, false, fmt.Errorf("negative %s: %d", TotalCountHeader, n)
	}
	return n, true, nil
}
