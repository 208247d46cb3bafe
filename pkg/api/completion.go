package api

import (
	"encoding/json"
	"log"
	"net/http"
)

// CompletionRequest is the widget's payload for the completion proxy.
type CompletionRequest struct {
	Prompt       string          `json:"prompt"`
	IsJSONOutput bool            `json:"isJsonOutput"`
	Schema       json.RawMessage `json:"schema,omitempty"`
}

// handleCompletionRelay forwards the prompt upstream and passes the
// upstream's response back verbatim, whatever its status. Only a
// transport-level failure (no upstream response at all) is replaced with
// a generic 500.
func (rl *Relay) handleCompletionRelay(w http.ResponseWriter, r *http.Request) {
	var req CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		respondError(w, http.StatusBadRequest, "Prompt is required")
		return
	}

	// The schema only constrains the output when structured output was
	// actually requested alongside it.
	var schema json.RawMessage
	if req.IsJSONOutput && len(req.Schema) > 0 && string(req.Schema) != "null" {
		schema = req.Schema
	}

	outcome, err := rl.llm.Generate(r.Context(), req.Prompt, schema)
	if err != nil {
		log.Printf("[PROXY] upstream transport failure: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to reach language model")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(outcome.StatusCode)
	w.Write(outcome.Body)
}
