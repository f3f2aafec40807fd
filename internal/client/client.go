package client

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

	"controlui/internal/logging"
)

const defaultTimeout = 10 * time.Second

// Client talks to the gateway's HTTP API. The token is only ever sent as a
// bearer header and is scrubbed from returned errors.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New builds a client for gatewayURL. ws:// and wss:// addresses map to
// http:// and https://.
func New(gatewayURL, token string) (*Client, error) {
	baseURL, err := HTTPBaseURL(gatewayURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: baseURL,
		token:   strings.TrimSpace(token),
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}, nil
}

func HTTPBaseURL(gatewayURL string) (string, error) {
	raw := strings.TrimSpace(gatewayURL)
	if raw == "" {
		return "", errors.New("gateway url is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid gateway url: %w", err)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "ws", "http":
		parsed.Scheme = "http"
	case "wss", "https":
		parsed.Scheme = "https"
	default:
		return "", fmt.Errorf("unsupported gateway url scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", errors.New("gateway url has no host")
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return strings.TrimRight(parsed.String(), "/"), nil
}

// TailLogs returns log lines after cursor. A zero cursor asks for the most
// recent page.
func (c *Client) TailLogs(ctx context.Context, cursor int64) (*LogsTailResponse, error) {
	path := "/api/logs/tail"
	if cursor > 0 {
		path += "?cursor=" + strconv.FormatInt(cursor, 10)
	}
	var resp LogsTailResponse
	if err := c.doJSON(ctx, http.MethodGet, path, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DebugStatus(ctx context.Context) (*DebugStatusResponse, error) {
	var resp DebugStatusResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/debug/status", true, &resp.Status); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, requireAuth bool, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if requireAuth {
		if c.token == "" {
			return ErrNoToken
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	httpClient := c.http
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		if c.token != "" && strings.Contains(err.Error(), c.token) {
			return errors.New(logging.RedactString(err.Error(), c.token))
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var ErrNoToken = errors.New("no gateway token configured")

func (c *Client) decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Error string `json:"error"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	message := resp.Status
	if payload.Error != "" {
		message = payload.Error
	}
	return &APIError{StatusCode: resp.StatusCode, Message: logging.RedactString(message, c.token)}
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 or 403 from the gateway.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}
