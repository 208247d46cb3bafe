package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type capturedRequest struct {
	path  string
	query string
	body  []byte
}

func newUpstream(t *testing.T, status int, reply string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.query = r.URL.RawQuery
		captured.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(reply))
	}))
	t.Cleanup(ts.Close)
	return ts, captured
}

func newTestClient(baseURL string) *Client {
	return New("secret-key", baseURL, "gemini-2.0-flash", "gemini-2.0-pro", 2*time.Second)
}

type outboundPayload struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig *struct {
		ResponseMIMEType string          `json:"responseMimeType"`
		ResponseSchema   json.RawMessage `json:"responseSchema"`
	} `json:"generationConfig"`
}

// TestGenerateFreeText: prompt as a single user turn, no generationConfig,
// free-text model in the path, key in the query.
func TestGenerateFreeText(t *testing.T) {
	ts, captured := newUpstream(t, 200, `{"candidates":[]}`)
	c := newTestClient(ts.URL)

	outcome, err := c.Generate(context.Background(), "forecast my margins", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.StatusCode != 200 {
		t.Errorf("status = %d, want 200", outcome.StatusCode)
	}

	if captured.path != "/v1beta/models/gemini-2.0-flash:generateContent" {
		t.Errorf("path = %q", captured.path)
	}
	if captured.query != "key=secret-key" {
		t.Errorf("query = %q, want the key parameter", captured.query)
	}

	var payload outboundPayload
	if err := json.Unmarshal(captured.body, &payload); err != nil {
		t.Fatalf("outbound body not JSON: %v", err)
	}
	if len(payload.Contents) != 1 || payload.Contents[0].Role != "user" {
		t.Fatalf("contents = %+v, want one user turn", payload.Contents)
	}
	if payload.Contents[0].Parts[0].Text != "forecast my margins" {
		t.Errorf("prompt text = %q", payload.Contents[0].Parts[0].Text)
	}
	if payload.GenerationConfig != nil {
		t.Error("free-text request must not carry generationConfig")
	}
}

// TestGenerateStructured: schema lands verbatim inside generationConfig
// and the structured-output model is selected.
func TestGenerateStructured(t *testing.T) {
	ts, captured := newUpstream(t, 200, `{"candidates":[]}`)
	c := newTestClient(ts.URL)

	schema := json.RawMessage(`{"type":"object","properties":{"score":{"type":"number"}}}`)
	if _, err := c.Generate(context.Background(), "rate this plan", schema); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.path != "/v1beta/models/gemini-2.0-pro:generateContent" {
		t.Errorf("path = %q, want the structured-output model", captured.path)
	}

	var payload outboundPayload
	if err := json.Unmarshal(captured.body, &payload); err != nil {
		t.Fatalf("outbound body not JSON: %v", err)
	}
	if payload.GenerationConfig == nil {
		t.Fatal("generationConfig missing")
	}
	if payload.GenerationConfig.ResponseMIMEType != "application/json" {
		t.Errorf("responseMimeType = %q", payload.GenerationConfig.ResponseMIMEType)
	}
	if string(payload.GenerationConfig.ResponseSchema) != string(schema) {
		t.Errorf("responseSchema = %s, want it verbatim", payload.GenerationConfig.ResponseSchema)
	}
}

// TestGenerateUpstreamError: a non-2xx upstream answer is an Outcome, not
// a Go error; the body comes back byte-for-byte.
func TestGenerateUpstreamError(t *testing.T) {
	errBody := `{"error":{"code":429,"message":"Resource exhausted","status":"RESOURCE_EXHAUSTED"}}`
	ts, _ := newUpstream(t, 429, errBody)
	c := newTestClient(ts.URL)

	outcome, err := c.Generate(context.Background(), "p", nil)
	if err != nil {
		t.Fatalf("upstream error must not be a transport error: %v", err)
	}
	if outcome.StatusCode != 429 {
		t.Errorf("status = %d, want 429", outcome.StatusCode)
	}
	if string(outcome.Body) != errBody {
		t.Errorf("body = %q, want %q", outcome.Body, errBody)
	}
}

// TestGenerateTransportFailure: no response at all is the only error case.
func TestGenerateTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // deliberately dead

	c := newTestClient(ts.URL)
	outcome, err := c.Generate(context.Background(), "p", nil)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if outcome != nil {
		t.Errorf("outcome = %+v, want nil on transport failure", outcome)
	}
}
