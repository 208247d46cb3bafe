// Package brevo is a minimal client for the two Brevo endpoints the relay
// uses: contact upsert (CRM) and transactional email. The attribute keys
// and payload shapes are a compatibility contract with the externally
// provisioned contact list; keep them in sync with the Brevo dashboard.
package brevo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

// New creates a Brevo client. All calls are bounded by timeout.
func New(apiKey, baseURL string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// ContactUpsert creates or updates a contact keyed by email.
type ContactUpsert struct {
	Email         string            `json:"email"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	ListIDs       []int64           `json:"listIds,omitempty"`
	UpdateEnabled bool              `json:"updateEnabled"`
}

// Recipient is a single to/bcc entry.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Email is one transactional send.
type Email struct {
	Sender      Recipient   `json:"sender"`
	To          []Recipient `json:"to"`
	BCC         []Recipient `json:"bcc,omitempty"`
	Subject     string      `json:"subject"`
	HTMLContent string      `json:"htmlContent"`
}

// UpsertContact creates the contact or updates it in place (201 or 204).
func (c *Client) UpsertContact(ctx context.Context, contact ContactUpsert) error {
	return c.post(ctx, "/v3/contacts", contact)
}

// SendEmail submits one transactional email.
func (c *Client) SendEmail(ctx context.Context, email Email) error {
	return c.post(ctx, "/v3/smtp/email", email)
}

// Ping verifies the API key against the account endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v3/account", nil)
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("brevo account check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("brevo account check: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("brevo %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Brevo error bodies are small JSON blobs; include them for the log.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("brevo %s: status %d: %s", path, resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}
