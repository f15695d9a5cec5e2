// Package api fetches memory graphs from the memory service over HTTP.
//
// The service exposes one read-only endpoint:
//
//	GET {base}/api/graph?min_strength=0.75&query=deploy
//
// returning {"nodes": [...], "edges": [...]}. Every failure, transport or
// HTTP status, becomes a FETCH_FAILED error. The client does not retry.
package api

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

	"github.com/matzehuels/memgraph/pkg/buildinfo"
	"github.com/matzehuels/memgraph/pkg/errors"
	"github.com/matzehuels/memgraph/pkg/graph"
	"github.com/matzehuels/memgraph/pkg/observability"
	"github.com/matzehuels/memgraph/pkg/source"
)

// GraphPath is the graph endpoint relative to the base URL.
const GraphPath = "/api/graph"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is quoted.
const maxErrorBody = 512

// Client is a graph source backed by the memory service.
type Client struct {
	base    *url.URL
	http    *http.Client
	headers map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid api url %q", baseURL)
	}
	c := &Client{
		base:    u,
		http:    &http.Client{Timeout: DefaultTimeout},
		headers: map[string]string{"Accept": "application/json", "User-Agent": buildinfo.UserAgent()},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name returns "api:" followed by the base URL.
func (c *Client) Name() string { return "api:" + c.base.String() }

// URL returns the request URL for req.
func (c *Client) URL(req source.Request) string {
	req = req.Normalize()
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + GraphPath
	q := url.Values{}
	q.Set("min_strength", strconv.FormatFloat(req.MinStrength, 'g', -1, 64))
	if req.Query != "" {
		q.Set("query", req.Query)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Fetch performs one GET request.
func (c *Client) Fetch(ctx context.Context, req source.Request) (*graph.Data, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	target := c.URL(req)
	hooks := observability.Fetch()
	hooks.OnRequest(ctx, c.Name(), target)
	start := time.Now()

	data, err := c.get(ctx, target)
	if err != nil {
		hooks.OnError(ctx, c.Name(), target, err)
		return nil, err
	}
	hooks.OnResponse(ctx, c.Name(), target, data.NodeCount(), data.EdgeCount(), time.Since(start))
	return data, nil
}

func (c *Client) get(ctx context.Context, target string) (*graph.Data, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.NewFetchError(err, "build request")
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.NewFetchError(err, "GET %s", target)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewFetchError(statusError(resp), "GET %s", target)
	}

	var data graph.Data
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, errors.NewFetchError(err, "decode graph response")
	}
	if data.Nodes == nil {
		data.Nodes = []graph.NodeRecord{}
	}
	if data.Edges == nil {
		data.Edges = []graph.EdgeRecord{}
	}
	return &data, nil
}

// statusError quotes the service's error detail when it sends one.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var detail struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal(body, &detail) == nil {
		if msg := detail.Detail + detail.Error; msg != "" {
			return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
		}
	}
	return fmt.Errorf("status %d", resp.StatusCode)
}

var _ source.Source = (*Client)(nil)
