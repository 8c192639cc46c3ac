// Package api is the HTTP client for the store backend. Every operation
// maps to exactly one request; response bodies are unwrapped, entities
// are id-normalized at the boundary, and non-2xx responses surface as
// typed errors carrying the server message when one was sent.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client talks to the store backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithToken sets the bearer token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithLogger sets a logger; requests are logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a backend client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the session token after a login.
func (c *Client) SetToken(token string) {
	c.token = token
}

// List fetches a resource collection, optionally filtered.
func (c *Client) List(ctx context.Context, spec Spec, params url.Values) ([]Entity, error) {
	path := spec.Path
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var entities []Entity
	if err := json.NewDecoder(resp.Body).Decode(&entities); err != nil {
		return nil, fmt.Errorf("failed to decode %s list: %w", spec.Name, err)
	}
	return NormalizeAll(entities), nil
}

// Create creates a new entity. Multipart resources are encoded per the
// form rules; everything else goes as JSON.
func (c *Client) Create(ctx context.Context, spec Spec, fields map[string]any) (Entity, error) {
	resp, err := c.send(ctx, http.MethodPost, spec.Path, spec, fields)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	return c.decodeEntity(resp, spec.Name)
}

// Update mutates an existing entity; fields are merged server-side.
func (c *Client) Update(ctx context.Context, spec Spec, id string, fields map[string]any) (Entity, error) {
	resp, err := c.send(ctx, spec.updateMethod(), spec.Path+"/"+url.PathEscape(id), spec, fields)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	return c.decodeEntity(resp, spec.Name)
}

// Delete removes an entity. Extra query parameters (e.g. restock for
// orders) ride along when provided.
func (c *Client) Delete(ctx context.Context, spec Spec, id string, params url.Values) error {
	path := spec.Path + "/" + url.PathEscape(id)
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	resp, err := c.delete(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return c.parseError(resp)
	}
	return nil
}

// Login authenticates and returns the session token with the user record.
func (c *Client) Login(ctx context.Context, email, password string) (string, Entity, error) {
	body := map[string]any{"email": email, "password": password}
	resp, err := c.postJSON(ctx, "/api/auth/login", body)
	if err != nil {
		return "", nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return "", nil, c.parseError(resp)
	}

	var result struct {
		Token string `json:"token"`
		User  Entity `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	c.token = result.Token
	return result.Token, Normalize(result.User), nil
}

// Me returns the authenticated user's record.
func (c *Client) Me(ctx context.Context) (Entity, error) {
	resp, err := c.get(ctx, "/api/auth/me")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	return c.decodeEntity(resp, "auth")
}

// InventoryOp selects how an inventory adjustment is applied.
type InventoryOp string

const (
	OpSet      InventoryOp = "set"
	OpIncrease InventoryOp = "increase"
	OpDecrease InventoryOp = "decrease"
)

// AdjustInventory changes a product's stock quantity.
func (c *Client) AdjustInventory(ctx context.Context, productID string, quantity float64, op InventoryOp) (Entity, error) {
	body := map[string]any{"quantity": quantity, "operation": string(op)}
	resp, err := c.patchJSON(ctx, "/api/inventory/"+url.PathEscape(productID), body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	return c.decodeEntity(resp, "inventory")
}

// UpdateOrderStatus moves an order to a new status.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string) (Entity, error) {
	body := map[string]any{"status": status}
	resp, err := c.patchJSON(ctx, "/api/orders/"+url.PathEscape(orderID)+"/status", body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	return c.decodeEntity(resp, "orders")
}

// OrderStatuses returns the set of order statuses the backend accepts.
func (c *Client) OrderStatuses(ctx context.Context) ([]string, error) {
	resp, err := c.get(ctx, "/api/orders/meta/statuses")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var statuses []string
	if err := json.NewDecoder(resp.Body).Decode(&statuses); err != nil {
		return nil, fmt.Errorf("failed to decode order statuses: %w", err)
	}
	return statuses, nil
}

// DeleteOrder removes an order, optionally restocking its items.
func (c *Client) DeleteOrder(ctx context.Context, orderID string, restock bool) error {
	spec, _ := Lookup("orders")
	params := url.Values{"restock": []string{strconv.FormatBool(restock)}}
	return c.Delete(ctx, spec, orderID, params)
}

// SendUserNotification sends a notification to a user.
func (c *Client) SendUserNotification(ctx context.Context, userID, title, message string) error {
	body := map[string]any{"title": title, "message": message}
	resp, err := c.postJSON(ctx, "/api/users/"+url.PathEscape(userID)+"/notifications", body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.parseError(resp)
	}
	return nil
}

// GetContact fetches one contact message with its full body.
func (c *Client) GetContact(ctx context.Context, id string) (Entity, error) {
	resp, err := c.get(ctx, "/api/contact/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	return c.decodeEntity(resp, "contact")
}

// UpdateContactStatus sets a contact message's status; replyMessage is
// included when replying.
func (c *Client) UpdateContactStatus(ctx context.Context, id, status, replyMessage string) (Entity, error) {
	body := map[string]any{"status": status}
	if replyMessage != "" {
		body["replyMessage"] = replyMessage
	}
	resp, err := c.patchJSON(ctx, "/api/contact/"+url.PathEscape(id)+"/status", body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	return c.decodeEntity(resp, "contact")
}

// HTTP helpers

func (c *Client) send(ctx context.Context, method, path string, spec Spec, fields map[string]any) (*http.Response, error) {
	if spec.Multipart {
		body, contentType, err := EncodeForm(fields)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return c.do(req)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(stripClientOnly(fields)); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.sendJSON(ctx, http.MethodPost, path, body)
}

func (c *Client) patchJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.sendJSON(ctx, http.MethodPatch, path, body)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) delete(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return nil, err
	}
	c.logger.Debug("request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))
	return resp, nil
}

func (c *Client) decodeEntity(resp *http.Response, resource string) (Entity, error) {
	var entity Entity
	if err := json.NewDecoder(resp.Body).Decode(&entity); err != nil {
		return nil, fmt.Errorf("failed to decode %s entity: %w", resource, err)
	}
	return Normalize(entity), nil
}

func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{Status: resp.StatusCode}
	var errResp errorResponse
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Message != "" {
			apiErr.Message = errResp.Message
		} else if errResp.Error != "" {
			apiErr.Message = errResp.Error
		}
	}
	return apiErr
}

// stripClientOnly drops file payloads and preview fields from a JSON
// body; they only make sense for multipart resources.
func stripClientOnly(fields map[string]any) map[string]any {
	cleaned := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, isFile := v.(*FilePayload); isFile {
			continue
		}
		if strings.HasSuffix(k, previewSuffix) {
			continue
		}
		cleaned[k] = v
	}
	return cleaned
}
