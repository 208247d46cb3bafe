// Package gemini relays completion requests to the Generative Language
// API. A call either produces an Outcome (the upstream's status and body,
// success or not, forwarded verbatim) or a transport error when no
// upstream response was obtained at all. Keeping the two cases apart is
// what lets the proxy endpoint guarantee byte-for-byte pass-through.
package gemini

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
	apiKey    string
	baseURL   string
	model     string
	jsonModel string
	httpc     *http.Client
}

func New(apiKey, baseURL, model, jsonModel string, timeout time.Duration) *Client {
	return &Client{
		apiKey:    apiKey,
		baseURL:   baseURL,
		model:     model,
		jsonModel: jsonModel,
		httpc:     &http.Client{Timeout: timeout},
	}
}

// Outcome is the upstream's answer, forwarded untouched.
type Outcome struct {
	StatusCode int
	Body       []byte
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

// Generate sends the prompt as a single user turn. When schema is non-nil
// the model is constrained to emit JSON matching it (and the structured
// output model is selected); otherwise the request is free-text.
func (c *Client) Generate(ctx context.Context, prompt string, schema json.RawMessage) (*Outcome, error) {
	payload := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}

	model := c.model
	if schema != nil {
		model = c.jsonModel
		payload.GenerationConfig = &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Relay", "True")

	start := time.Now()
	resp, err := c.httpc.Do(req)
	upstreamLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("gemini upstream: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini upstream: reading response: %w", err)
	}

	return &Outcome{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// Ping fetches the configured model's metadata to confirm key and model id.
func (c *Client) Ping(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1beta/models/%s?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("gemini model check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gemini model check: status %d", resp.StatusCode)
	}
	return nil
}
