// Package client is a typed wrapper over the analyzer's REST API.
//
// Every call decodes the server's `{"detail": ...}` error body into a coded
// error, so callers branch on error codes instead of HTTP status numbers.
// Reads are retried with exponential backoff on transport failures;
// mutations are attempted exactly once.
package client

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/BurakErdilli/biznet-analyzer/pkg/errors"
	"github.com/BurakErdilli/biznet-analyzer/pkg/network"
	"github.com/BurakErdilli/biznet-analyzer/pkg/observability"
)

// Client talks to one analyzer server. Safe for concurrent use.
type Client struct {
	baseURL  string
	hc       *http.Client
	attempts int
	delay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithRetry sets the attempt count and initial backoff delay for reads.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) { c.attempts, c.delay = attempts, delay }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		hc:       &http.Client{Timeout: 30 * time.Second},
		attempts: 3,
		delay:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NetworkState is the full payload of a network fetch.
type NetworkState struct {
	Network *network.Network
	Stats   network.Stats
}

// FetchNetwork retrieves and decodes the whole network.
func (c *Client) FetchNetwork(ctx context.Context) (*NetworkState, error) {
	var body []byte
	err := c.retry(ctx, func() error {
		var err error
		body, err = c.do(ctx, http.MethodGet, "/api/network", nil, "")
		return err
	})
	if err != nil {
		return nil, err
	}

	var wire struct {
		network.Payload
		GlobalStats network.Stats `json:"global_stats"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "decode network response")
	}
	if wire.Nodes == nil || wire.Graph == nil {
		return nil, errors.New(errors.ErrCodeInvalidSnapshot, "network response missing nodes or graph")
	}
	return &NetworkState{
		Network: network.FromPayload(&wire.Payload, network.DefaultSettings()),
		Stats:   wire.GlobalStats,
	}, nil
}

// AddNode creates a node. Empty parentID creates the root; empty nodeID
// lets the server generate one. Returns the assigned ID.
func (c *Client) AddNode(ctx context.Context, parentID, nodeID string, value *float64) (string, error) {
	req := map[string]any{}
	if parentID != "" {
		req["parent_id"] = parentID
	}
	if nodeID != "" {
		req["id"] = nodeID
	}
	if value != nil {
		req["value"] = *value
	}
	body, err := c.doJSON(ctx, http.MethodPost, "/api/nodes", req)
	if err != nil {
		return "", err
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "decode add response")
	}
	return resp.ID, nil
}

// RemoveNode deletes a leaf node.
func (c *Client) RemoveNode(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/nodes/"+url.PathEscape(id), nil, "")
	return err
}

// BulkDelete removes a batch of leaf nodes, all or nothing.
func (c *Client) BulkDelete(ctx context.Context, ids []string) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/api/nodes/bulk-delete", map[string]any{"ids": ids})
	return err
}

// Insight fetches the full analytics for one node.
func (c *Client) Insight(ctx context.Context, id string) (*network.Node, error) {
	var body []byte
	err := c.retry(ctx, func() error {
		var err error
		body, err = c.do(ctx, http.MethodGet, "/api/nodes/"+url.PathEscape(id)+"/insight", nil, "")
		return err
	})
	if err != nil {
		return nil, err
	}
	var node network.Node
	if err := json.Unmarshal(body, &node); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode insight")
	}
	return &node, nil
}

// AddSubtree uploads a JSON subtree file and grafts it under parentID.
func (c *Client) AddSubtree(ctx context.Context, parentID string, file []byte) error {
	path := "/api/nodes/" + url.PathEscape(parentID) + "/subtree"
	return c.upload(ctx, path, "subtree.json", file)
}

// Suggestions fetches growth suggestions ranked by priority.
func (c *Client) Suggestions(ctx context.Context, limit int) ([]network.Suggestion, error) {
	path := "/api/suggestions"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var body []byte
	err := c.retry(ctx, func() error {
		var err error
		body, err = c.do(ctx, http.MethodGet, path, nil, "")
		return err
	})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Suggestions []network.Suggestion `json:"suggestions"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode suggestions")
	}
	return resp.Suggestions, nil
}

// UpdateSettings replaces the analysis settings.
func (c *Client) UpdateSettings(ctx context.Context, s network.Settings) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/api/settings", s)
	return err
}

// Import replaces the entire network from a snapshot file.
func (c *Client) Import(ctx context.Context, data []byte) error {
	return c.upload(ctx, "/api/import", "network.json", data)
}

// Export downloads the current network snapshot.
func (c *Client) Export(ctx context.Context) ([]byte, error) {
	var body []byte
	err := c.retry(ctx, func() error {
		var err error
		body, err = c.do(ctx, http.MethodGet, "/api/export", nil, "")
		return err
	})
	return body, err
}

// RenderOptions controls the server-side drawing of the network.
type RenderOptions struct {
	Direction string // "TB" or "LR"
	Format    string // "svg" or "png"
	Detailed  bool   // include metrics in node labels
}

// Render fetches a drawing of the network in the requested format.
func (c *Client) Render(ctx context.Context, opts RenderOptions) ([]byte, error) {
	q := url.Values{}
	if opts.Direction != "" {
		q.Set("direction", opts.Direction)
	}
	if opts.Format != "" {
		q.Set("format", opts.Format)
	}
	if opts.Detailed {
		q.Set("detailed", "true")
	}
	path := "/api/render"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var body []byte
	err := c.retry(ctx, func() error {
		var err error
		body, err = c.do(ctx, http.MethodGet, path, nil, "")
		return err
	})
	return body, err
}

// Health checks server liveness.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", nil, "")
	return err
}

// =============================================================================
// Transport
// =============================================================================

func (c *Client) doJSON(ctx context.Context, method, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode request")
	}
	return c.do(ctx, method, path, bytes.NewReader(body), "application/json")
}

func (c *Client) upload(ctx context.Context, path, filename string, data []byte) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "build upload")
	}
	if _, err := part.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "build upload")
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "build upload")
	}
	_, err = c.do(ctx, http.MethodPost, path, &buf, w.FormDataContentType())
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	observability.HTTP().OnRequest(ctx, method, path)
	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, method, path, err)
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "%s %s", method, path)
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, path)
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, method, path, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read response")
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}
	return nil, decodeError(resp.StatusCode, data)
}

// decodeError maps a non-2xx response to a coded error, surfacing the
// server's detail message verbatim.
func decodeError(status int, body []byte) error {
	detail := strings.TrimSpace(string(body))
	var wire struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &wire); err == nil && wire.Detail != "" {
		detail = wire.Detail
	}
	if detail == "" {
		detail = http.StatusText(status)
	}

	var code errors.Code
	switch {
	case status == http.StatusNotFound:
		code = errors.ErrCodeNotFound
	case status == http.StatusConflict:
		// A 409 covers both duplicate IDs and has-children deletes; the
		// body does not say which, so stay neutral.
		code = errors.ErrCodeConflict
	case status == http.StatusGatewayTimeout:
		code = errors.ErrCodeTimeout
	case status >= 400 && status < 500:
		code = errors.ErrCodeInvalidInput
	default:
		code = errors.ErrCodeNetwork
	}
	return errors.New(code, "%s", detail)
}

// retry re-runs fn with exponential backoff while it fails with a
// transport error. Coded application errors return immediately.
func (c *Client) retry(ctx context.Context, fn func() error) error {
	attempts := max(c.attempts, 1)
	delay := c.delay
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isTransient(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

func isTransient(err error) bool {
	return errors.Is(err, errors.ErrCodeNetwork) || errors.Is(err, errors.ErrCodeTimeout)
}
