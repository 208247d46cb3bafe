// Package api exposes the relay's HTTP surface: three POST endpoints,
// each forwarding one inbound JSON body to a single external service.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ngoyal88/forecast-relay/pkg/brevo"
	"github.com/ngoyal88/forecast-relay/pkg/config"
	"github.com/ngoyal88/forecast-relay/pkg/gemini"
	"github.com/ngoyal88/forecast-relay/pkg/middleware"
)

// ContactWriter upserts a lead into the CRM.
type ContactWriter interface {
	UpsertContact(ctx context.Context, contact brevo.ContactUpsert) error
}

// RowAppender appends one usage row to the spreadsheet.
type RowAppender interface {
	AppendRow(ctx context.Context, row []interface{}) error
}

// EmailSender submits one transactional email.
type EmailSender interface {
	SendEmail(ctx context.Context, email brevo.Email) error
}

// Completer relays a completion request upstream.
type Completer interface {
	Generate(ctx context.Context, prompt string, schema json.RawMessage) (*gemini.Outcome, error)
}

// Relay holds the injected collaborators for the three endpoints.
type Relay struct {
	cfg      *config.Config
	contacts ContactWriter
	rows     RowAppender
	mail     EmailSender
	llm      Completer

	now func() time.Time
}

// New creates the relay API.
func New(cfg *config.Config, contacts ContactWriter, rows RowAppender, mail EmailSender, llm Completer) *Relay {
	return &Relay{
		cfg:      cfg,
		contacts: contacts,
		rows:     rows,
		mail:     mail,
		llm:      llm,
		now:      time.Now,
	}
}

// RegisterRoutes binds the relay endpoints. All three accept POST only;
// the mux answers anything else with 405.
func (rl *Relay) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/log-forecast-usage", rl.handleLogUsage)
	mux.HandleFunc("POST /api/send-forecast-report", rl.handleSendReport)
	mux.Handle("POST /api/gemini-proxy", middleware.PromptTokenLogger(http.HandlerFunc(rl.handleCompletionRelay)))
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError writes the error-shaped body the widget expects from the
// completion proxy: {"error": {"message": ...}}.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error": map[string]string{"message": message},
	})
}
