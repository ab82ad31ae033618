package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"platedash/internal/model"
)

const DefaultBaseURL = "http://localhost:3333"

// StatusError is returned for any non-2xx response. Callers are not expected to
// branch on it; transport and status failures are handled the same way.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if b := strings.TrimSpace(e.Body); b != "" {
		msg += ": " + b
	}
	return msg
}

// Client talks to the plates REST API. It holds no per-request state and is safe
// to share.
type Client struct {
	base *url.URL
	http *http.Client
}

type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client (tests use httptest's).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero keeps the default (none).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	c := &Client{base: u, http: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root this client was built with.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) ListPlates(ctx context.Context) ([]model.Plate, error) {
	var out []model.Plate
	if err := c.do(ctx, http.MethodGet, "/foods", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Plate{}
	}
	return out, nil
}

func (c *Client) CreatePlate(ctx context.Context, body model.NewPlateBody) (model.Plate, error) {
	var out model.Plate
	err := c.do(ctx, http.MethodPost, "/foods", body, &out)
	return out, err
}

// SetAvailability sends a partial update carrying only the availability flag.
func (c *Client) SetAvailability(ctx context.Context, id int, available bool) (model.Plate, error) {
	var out model.Plate
	err := c.do(ctx, http.MethodPut, platePath(id), model.AvailabilityBody{Available: available}, &out)
	return out, err
}

// ReplacePlate overwrites the editable fields of plate id.
func (c *Client) ReplacePlate(ctx context.Context, id int, draft model.PlateDraft) (model.Plate, error) {
	var out model.Plate
	err := c.do(ctx, http.MethodPut, platePath(id), draft, &out)
	return out, err
}

// DeletePlate removes plate id. The response body is ignored.
func (c *Client) DeletePlate(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, platePath(id), nil, nil)
}

func platePath(id int) string {
	return "/foods/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	u := *c.base
	u.Path = c.base.Path + path
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Keep a short excerpt for the diagnostic log.
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(excerpt)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s %s: empty response body", method, path)
		}
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
