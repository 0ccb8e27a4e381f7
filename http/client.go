package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/prepcat"
	"github.com/sony/gobreaker"
)

// DefaultClientTimeout is the default timeout for client requests.
const DefaultClientTimeout = 10 * time.Second

// Ensure Client implements the service interfaces at compile time.
var (
	_ prepcat.CatalogService = (*Client)(nil)
	_ prepcat.SearchService  = (*Client)(nil)
	_ prepcat.ViewService    = (*Client)(nil)
)

// Client talks to a remote Server. Application errors returned by the
// server are converted back into *prepcat.Error values.
type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	delays  []time.Duration
	breaker *gobreaker.CircuitBreaker
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultClientTimeout (10s) if not specified.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRetryDelays retries failed GET requests after each of delays.
// Requests are not retried by default.
func WithRetryDelays(delays ...time.Duration) ClientOption {
	return func(c *Client) {
		c.delays = delays
	}
}

// WithCircuitBreaker stops sending requests for timeout after threshold
// consecutive transient failures. Application errors such as not found do
// not count as failures.
func WithCircuitBreaker(name string, threshold uint32, timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			IsSuccessful: func(err error) bool {
				return err == nil || !retryable(err)
			},
		})
	}
}

// NewClient creates a Client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultClientTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{
		Timeout: c.timeout,
	}

	return c
}

// FindSubjects returns all subjects in catalog order.
func (c *Client) FindSubjects(ctx context.Context) ([]*prepcat.Subject, error) {
	var subjects []*prepcat.Subject
	if err := c.do(ctx, http.MethodGet, "/api/subjects", &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

// FindSubjectBySlug returns the subject with slug.
// The server only exposes topics per slug, so the full listing is searched.
func (c *Client) FindSubjectBySlug(ctx context.Context, slug string) (*prepcat.Subject, error) {
	subjects, err := c.FindSubjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range subjects {
		if s.Slug == slug {
			return s, nil
		}
	}
	return nil, prepcat.Errorf(prepcat.ENOTFOUND, "Subject not found")
}

// FindExamYears returns all exam years in catalog order.
func (c *Client) FindExamYears(ctx context.Context) ([]*prepcat.ExamYear, error) {
	var years []*prepcat.ExamYear
	if err := c.do(ctx, http.MethodGet, "/api/previous-years", &years); err != nil {
		return nil, err
	}
	return years, nil
}

// FindExamYear returns the exam year with the given number.
func (c *Client) FindExamYear(ctx context.Context, year int) (*prepcat.ExamYear, error) {
	var y prepcat.ExamYear
	if err := c.do(ctx, http.MethodGet, "/api/previous-years/"+strconv.Itoa(year), &y); err != nil {
		return nil, err
	}
	return &y, nil
}

// Search runs query on the server.
func (c *Client) Search(ctx context.Context, query string) ([]*prepcat.SearchResult, error) {
	results := []*prepcat.SearchResult{}
	if err := c.do(ctx, http.MethodGet, "/api/search?q="+url.QueryEscape(query), &results); err != nil {
		return nil, err
	}
	return results, nil
}

// RecordView records a view of id and returns the new count.
func (c *Client) RecordView(ctx context.Context, id string) (int, error) {
	var resp ViewsResponse
	if err := c.do(ctx, http.MethodPost, "/api/views/"+url.PathEscape(id), &resp); err != nil {
		return 0, err
	}
	return resp.Views, nil
}

// ViewCount returns the view count of id.
func (c *Client) ViewCount(ctx context.Context, id string) (int, error) {
	var resp ViewsResponse
	if err := c.do(ctx, http.MethodGet, "/api/views/"+url.PathEscape(id), &resp); err != nil {
		return 0, err
	}
	return resp.Views, nil
}

// do sends a request and decodes a successful JSON response into v.
// GET requests are retried on transient failures.
func (c *Client) do(ctx context.Context, method, path string, v any) error {
	if method != http.MethodGet {
		return c.guard(ctx, method, path, v)
	}
	return withRetry(ctx, c.delays, func() error {
		return c.guard(ctx, method, path, v)
	})
}

// guard sends the request through the circuit breaker, if any.
func (c *Client) guard(ctx context.Context, method, path string, v any) error {
	if c.breaker == nil {
		return c.send(ctx, method, path, v)
	}
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.send(ctx, method, path, v)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return prepcat.Errorf(prepcat.EINTERNAL, "server unavailable: %v", err)
	}
	return err
}

// send performs a single request.
func (c *Client) send(ctx context.Context, method, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			return fmt.Errorf("HTTP %d for %s %s", resp.StatusCode, method, path)
		}
		return prepcat.Errorf(FromErrorStatusCode(resp.StatusCode), "%s", e.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
