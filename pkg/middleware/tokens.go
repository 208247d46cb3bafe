package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/ngoyal88/forecast-relay/pkg/ai"
)

// completionPrompt mirrors just the field we need from the proxy payload.
type completionPrompt struct {
	Prompt string `json:"prompt"`
}

// PromptTokenLogger accounts for prompt sizes on the completion route.
// The body is drained and refilled so the handler still sees it; counting
// happens in a goroutine so the request is never delayed by it.
func PromptTokenLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read body", http.StatusInternalServerError)
			return
		}
		r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		go func(data []byte) {
			var payload completionPrompt
			if err := json.Unmarshal(data, &payload); err != nil || payload.Prompt == "" {
				return
			}

			count := ai.CountTokens(payload.Prompt)
			promptTokenHistogram.Observe(float64(count))
			log.Printf("[TOKENS] prompt tokens: %d", count)
		}(bodyBytes)

		next.ServeHTTP(w, r)
	})
}
