// Package testrail is a typed client for the TestRail API v2, covering the
// operations needed to mirror a test run: projects, milestones, plans, plan
// entries, runs, tests, results, suites, sections, cases and users.
package testrail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const apiPath = "index.php?/api/v2/"

// Client issues requests against one TestRail server.
type Client struct {
	baseURL    string
	user       string
	password   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the timeout of the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a client for server (host[:port][/path]) reached over
// protocol ("http" or "https").
func NewClient(server, protocol, user, password string, opts ...Option) *Client {
	if protocol == "" {
		protocol = "http"
	}
	server = strings.TrimSuffix(server, "/")
	c := &Client{
		baseURL:    fmt.Sprintf("%s://%s/%s", protocol, server, apiPath),
		user:       user,
		password:   password,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root every uri is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SendGet issues a read request for uri (e.g. "get_case/1") and decodes the
// response into out. A nil out discards the body.
func (c *Client) SendGet(ctx context.Context, uri string, out any) error {
	return c.send(ctx, http.MethodGet, uri, nil, out)
}

// SendPost issues a write request for uri with data encoded as JSON. A nil
// data sends an empty object.
func (c *Client) SendPost(ctx context.Context, uri string, data any, out any) error {
	if data == nil {
		data = struct{}{}
	}
	return c.send(ctx, http.MethodPost, uri, data, out)
}

func (c *Client) send(ctx context.Context, method, uri string, data any, out any) error {
	var body io.Reader
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(uri), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.user, c.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// transport failures are passed through unchanged
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if len(raw) > 0 && json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return &APIError{Code: resp.StatusCode, Message: apiErr.Error}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// resolve turns an API uri or a pagination link into an absolute URL.
func (c *Client) resolve(uri string) string {
	// next links look like "/api/v2/get_cases/1&suite_id=2&limit=250&offset=250"
	if strings.HasPrefix(uri, "/api/v2/") {
		uri = strings.TrimPrefix(uri, "/api/v2/")
	}
	return c.baseURL + uri
}

// page is the envelope of paginated bulk responses (TestRail 6.7+).
type page struct {
	Links struct {
		Next *string `json:"next"`
	} `json:"_links"`
}

// getList reads every item of a bulk endpoint. Servers answer either with a bare JSON array or with a paginated object holding the
// items under key; every page is followed until next is null.
func getList[T any](ctx context.Context, c *Client, uri, key string) ([]T, error) {
	var items []T
	next := uri
	for next != "" {
		var raw json.RawMessage
		if err := c.SendGet(ctx, next, &raw); err != nil {
			return nil, err
		}
		next = ""

		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var batch []T
			if err := json.Unmarshal(trimmed, &batch); err != nil {
				return nil, fmt.Errorf("unmarshal %s: %w", key, err)
			}
			return append(items, batch...), nil
		}

		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("unmarshal %s page: %w", key, err)
		}
		if batchRaw, ok := envelope[key]; ok {
			var batch []T
			if err := json.Unmarshal(batchRaw, &batch); err != nil {
				return nil, fmt.Errorf("unmarshal %s: %w", key, err)
			}
			items = append(items, batch...)
		}
		var p page
		if err := json.Unmarshal(trimmed, &p); err == nil && p.Links.Next != nil {
			next = *p.Links.Next
		}
	}
	return items, nil
}
