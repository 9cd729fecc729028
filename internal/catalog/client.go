package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"burnish/internal/config"
	"burnish/internal/services"
)

const userAgent = "Burnish-Go/0.1.0"

// Client issues catalog API requests for one tenant.
type Client struct {
	baseURL    string
	token      string
	tenant     string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client (used in tests).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a catalog client from configuration.
func NewClient(cfg config.Catalog, opts ...Option) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:      strings.TrimSpace(cfg.AccessToken),
		tenant:     strings.TrimSpace(cfg.Tenant),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Tenant returns the tenant this client is scoped to.
func (c *Client) Tenant() string {
	return c.tenant
}

// GetItem fetches the current snapshot for one item.
func (c *Client) GetItem(ctx context.Context, itemID string) (*Item, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, services.Wrap(services.ErrValidation, "catalog", "get", "item id required", nil)
	}

	var payload struct {
		Item Item `json:"item"`
	}
	if err := c.do(ctx, http.MethodGet, "/items/"+url.PathEscape(itemID), nil, &payload); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload.Item.ID) == "" {
		payload.Item.ID = itemID
	}
	payload.Item.Snapshot = payload.Item.Snapshot.Normalize()
	return &payload.Item, nil
}

// UpdateItem writes a snapshot back to the catalog. This is the publish write:
// the caller has already merged proposed and original fields.
func (c *Client) UpdateItem(ctx context.Context, itemID string, snapshot Snapshot) error {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return services.Wrap(services.ErrValidation, "catalog", "update", "item id required", nil)
	}

	body := struct {
		Item Item `json:"item"`
	}{Item: Item{ID: itemID, Snapshot: snapshot.Normalize()}}

	var result struct {
		Success bool   `json:"success"`
		ItemID  string `json:"item_id"`
		Error   string `json:"error"`
	}
	if err := c.do(ctx, http.MethodPut, "/items/"+url.PathEscape(itemID), body, &result); err != nil {
		return err
	}
	if !result.Success {
		message := strings.TrimSpace(result.Error)
		if message == "" {
			message = "catalog rejected the update"
		}
		return services.Wrap(services.ErrValidation, "catalog", "update", message, nil)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.baseURL == "" {
		return services.Wrap(services.ErrConfiguration, "catalog", "request", "base url not configured", nil)
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return services.Wrap(services.ErrValidation, "catalog", "request", "encode body", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return services.Wrap(services.ErrTransient, "catalog", "request", "new request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("X-Access-Token", c.token)
	}
	if c.tenant != "" {
		req.Header.Set("X-Tenant", c.tenant)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "catalog", "request", method+" "+path, err)
		}
		return services.Wrap(services.ErrUnavailable, "catalog", "request", method+" "+path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return services.Wrap(services.ErrTransient, "catalog", "request", "read body", err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		return classifyStatus(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return services.Wrap(services.ErrTransient, "catalog", "request", "decode response", err)
		}
	}
	return nil
}

func classifyStatus(status int, body []byte) error {
	detail := fmt.Sprintf("http %d: %s", status, strings.TrimSpace(string(body)))
	switch {
	case status == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "catalog", "request", detail, nil)
	case status == http.StatusUnprocessableEntity, status == http.StatusBadRequest:
		return services.Wrap(services.ErrValidation, "catalog", "request", detail, nil)
	case status == http.StatusTooManyRequests:
		return services.Wrap(services.ErrQuota, "catalog", "request", detail, nil)
	case status == http.StatusRequestTimeout:
		return services.Wrap(services.ErrTimeout, "catalog", "request", detail, nil)
	case status >= http.StatusInternalServerError:
		return services.Wrap(services.ErrUnavailable, "catalog", "request", detail, nil)
	default:
		return services.Wrap(services.ErrTransient, "catalog", "request", detail, nil)
	}
}
