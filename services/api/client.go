// Package apisvc is the client of the school REST API.
package apisvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const defaultTimeout = 15 * time.Second

type tokenKey struct{}

// WithToken returns a context carrying the bearer token of the session user.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

type Option func(c *Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the timeout of the underlying HTTP client. No retries are attempted.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing api base url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("api base url %q must be absolute", baseURL)
	}
	c := &Client{
		baseURL:   u,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: "masomo-dashboard",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// path joins escaped path segments.
func path(segments ...string) string {
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func (c *Client) get(ctx context.Context, p string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, p, query, nil, out)
}

func (c *Client) post(ctx context.Context, p string, in, out interface{}) error {
	return c.do(ctx, http.MethodPost, p, nil, in, out)
}

func (c *Client) put(ctx context.Context, p string, in, out interface{}) error {
	return c.do(ctx, http.MethodPut, p, nil, in, out)
}

func (c *Client) delete(ctx context.Context, p string) error {
	return c.do(ctx, http.MethodDelete, p, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, p string, query url.Values, in, out interface{}) error {
	u := c.baseURL.JoinPath(p)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "encoding %s %s", method, p)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return errors.Wrapf(err, "building %s %s", method, p)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, p)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return errors.Wrapf(err, "decoding %s %s", method, p)
	}
	return nil
}
