// Package remote implements the client for the cloud-sheet webhook that acts
// as the portal's remote data service. The webhook is an action-dispatch JSON
// endpoint (Apps Script style): every call is a POST with an action name and a
// payload, and every response carries either data or an error message.
//
// The client imposes no request timeout of its own; the portal relies on
// context cancellation and whatever the transport enforces. It never retries:
// callers either swallow failures (sync paths) or abort the triggering action
// (submission paths).
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/digitalseva/go-portal-backend/internal/config"
	"github.com/digitalseva/go-portal-backend/internal/domain"
)

// ErrNotConfigured is returned by data operations when no webhook URL is set.
// Callers should check IsConfigured and fall back to the local cache instead
// of treating this as a transport failure.
var ErrNotConfigured = errors.New("remote sheet not configured")

// tokenHeader carries the optional shared secret to the webhook.
const tokenHeader = "X-Sheet-Token"

// Webhook actions understood by the sheet endpoint.
const (
	actionListApplications = "list_applications"
	actionListRetailers    = "list_retailers"
	actionSaveApplication  = "save_application"
	actionSaveRetailer     = "save_retailer"
	actionUpdateRetailer   = "update_retailer"
	actionUpdateStatus     = "update_status"
)

// Client talks to the configured sheet webhook. The zero value is an
// unconfigured client; use New.
type Client struct {
	url   string
	token string
	http  *http.Client
}

// New builds a Client from configuration. An empty URL yields a client whose
// IsConfigured reports false and whose operations return ErrNotConfigured.
func New(cfg config.SheetConfig) *Client {
	return &Client{
		url:   cfg.URL,
		token: cfg.Token,
		// No Timeout here on purpose: long base64 uploads are legal and the
		// caller's context governs cancellation.
		http: &http.Client{},
	}
}

// IsConfigured reports whether a webhook URL is set.
func (c *Client) IsConfigured() bool { return c.url != "" }

// envelope is the request body for every webhook call.
type envelope struct {
	Action  string `json:"action"`
	Payload any    `json:"payload,omitempty"`
}

// reply is the response body for every webhook call.
type reply struct {
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// GetAllApplications fetches the full application list from the sheet.
func (c *Client) GetAllApplications(ctx context.Context) ([]domain.Application, error) {
	var apps []domain.Application
	if err := c.call(ctx, actionListApplications, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// GetAllRetailers fetches the full retailer list from the sheet. The returned
// set carries no seeded-admin guarantee; that merge is the sync loop's job.
func (c *Client) GetAllRetailers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.call(ctx, actionListRetailers, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SaveApplication writes a full application record (insert or replace by ID).
func (c *Client) SaveApplication(ctx context.Context, app domain.Application) error {
	return c.call(ctx, actionSaveApplication, app, nil)
}

// SaveRetailer inserts a retailer record.
func (c *Client) SaveRetailer(ctx context.Context, u domain.User) error {
	return c.call(ctx, actionSaveRetailer, u, nil)
}

// UpdateRetailer replaces a retailer record by ID.
func (c *Client) UpdateRetailer(ctx context.Context, u domain.User) error {
	return c.call(ctx, actionUpdateRetailer, u, nil)
}

// statusUpdate is the payload for the update_status action. Remark and the
// processed document are optional; empty values mean "leave as is" on the
// sheet side.
type statusUpdate struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Remark       string `json:"remark,omitempty"`
	ProcessedDoc string `json:"processedDoc,omitempty"`
}

// UpdateStatus updates an application's status, optional remark and optional
// processed-document payload on the sheet.
func (c *Client) UpdateStatus(ctx context.Context, id, status, remark, processedDoc string) error {
	return c.call(ctx, actionUpdateStatus, statusUpdate{
		ID:           id,
		Status:       status,
		Remark:       remark,
		ProcessedDoc: processedDoc,
	}, nil)
}

// call performs one webhook round trip. out, when non-nil, receives the
// decoded data field.
func (c *Client) call(ctx context.Context, action string, payload, out any) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(envelope{Action: action, Payload: payload})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(tokenHeader, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sheet %s: %w", action, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("sheet %s: read response: %w", action, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sheet %s: unexpected status %d", action, resp.StatusCode)
	}

	var r reply
	if err := json.Unmarshal(raw, &r); err != nil {
		return fmt.Errorf("sheet %s: decode response: %w", action, err)
	}
	if !r.OK {
		if r.Error == "" {
			r.Error = "unknown sheet error"
		}
		return fmt.Errorf("sheet %s: %s", action, r.Error)
	}
	if out != nil && len(r.Data) > 0 {
		if err := json.Unmarshal(r.Data, out); err != nil {
			return fmt.Errorf("sheet %s: decode data: %w", action, err)
		}
	}
	return nil
}
