package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ngoyal88/forecast-relay/pkg/brevo"
	"github.com/ngoyal88/forecast-relay/pkg/report"
)

// handleSendReport renders the forecast report and emails it to the user,
// blind-copied to the marketing team.
func (rl *Relay) handleSendReport(w http.ResponseWriter, r *http.Request) {
	var req report.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserEmail == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing user email"})
		return
	}

	html, err := report.Render(req)
	if err != nil {
		log.Printf("[REPORT] render failed for %s: %v", req.UserEmail, err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to send report email"})
		return
	}

	email := brevo.Email{
		Sender:      brevo.Recipient{Name: rl.cfg.Email.SenderName, Email: rl.cfg.Email.SenderEmail},
		To:          []brevo.Recipient{{Email: req.UserEmail, Name: req.UserName}},
		BCC:         []brevo.Recipient{{Email: rl.cfg.Email.BCC}},
		Subject:     report.Subject,
		HTMLContent: html,
	}

	if err := rl.mail.SendEmail(r.Context(), email); err != nil {
		log.Printf("[REPORT] send failed for %s: %v", req.UserEmail, err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to send report email"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Report sent! Check your inbox."})
}
