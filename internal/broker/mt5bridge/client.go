// Package mt5bridge implements the broker.Terminal contract against a
// local MetaTrader 5 REST bridge. All vendor-specific payload shapes and
// numeric retcodes stay inside this package; the core only ever sees the
// broker package's types.
package mt5bridge

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

	"fxpilot/internal/config"
)

// Client wraps the bridge REST API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
}

// NewClient constructs a bridge client from configuration.
func NewClient(cfg config.BridgeConfig) (*Client, error) {
	raw := strings.TrimSpace(cfg.APIURL)
	if raw == "" {
		return nil, fmt.Errorf("bridge.api_url cannot be empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing bridge.api_url: %w", err)
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: timeout},
		token:      strings.TrimSpace(cfg.APIToken),
	}, nil
}

// SetHTTPClient sets the HTTP client for testing.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// doRequest issues one call against the bridge. rawOut receives the
// response body verbatim when non-nil; otherwise out gets a JSON decode.
func (c *Client) doRequest(ctx context.Context, method, path string, payload any, out any) error {
	body, err := c.doRequestRaw(ctx, method, path, payload)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding bridge response: %w", err)
	}
	return nil
}

func (c *Client) doRequestRaw(ctx context.Context, method, path string, payload any) ([]byte, error) {
	if c == nil || c.httpClient == nil {
		return nil, fmt.Errorf("bridge client not initialized")
	}
	endpoint, err := c.resolveEndpoint(path)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding bridge request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, fmt.Errorf("building bridge request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling bridge: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			return nil, fmt.Errorf("bridge returned %s", resp.Status)
		}
		return nil, fmt.Errorf("bridge returned %s: %s", resp.Status, msg)
	}
	return data, nil
}

func (c *Client) resolveEndpoint(path string) (*url.URL, error) {
	if c.baseURL == nil {
		return nil, fmt.Errorf("bridge API address not set")
	}
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = "/"
	}
	query := ""
	if idx := strings.Index(trimmed, "?"); idx >= 0 {
		query = trimmed[idx+1:]
		trimmed = trimmed[:idx]
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	base := *c.baseURL
	base.Path = strings.TrimSuffix(base.Path, "/") + trimmed
	base.RawQuery = query
	base.Fragment = ""
	return &base, nil
}

func isNullBody(data []byte) bool {
	s := string(bytes.TrimSpace(data))
	return s == "" || s == "null" || s == "{}"
}
