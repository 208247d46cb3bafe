package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ngoyal88/forecast-relay/pkg/brevo"
	"github.com/ngoyal88/forecast-relay/pkg/report"
)

// UsageEvent is the widget's forecast-usage payload. Fields are forwarded
// as-is to the CRM and the spreadsheet; nothing beyond presence is checked.
type UsageEvent struct {
	UserName         string          `json:"userName"`
	UserEmail        string          `json:"userEmail"`
	Company          string          `json:"company"`
	EquipmentTypes   []string        `json:"equipmentTypes"`
	SaleValue        float64         `json:"saleValue"`
	Margin           float64         `json:"margin"`
	MonthlySpend     float64         `json:"monthlySpend"`
	ProjectedNetGain float64         `json:"projectedNetGain"`
	Services         report.Services `json:"services"`
}

// handleLogUsage writes the event to the CRM and the spreadsheet.
// Both writes are best-effort: failures are logged and counted, never
// surfaced, and the response is 200 no matter what. Widget clients treat
// any non-200 as a hard error, so partial downstream failure must not
// leak into the status code.
func (rl *Relay) handleLogUsage(w http.ResponseWriter, r *http.Request) {
	var ev UsageEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		log.Printf("[USAGE] undecodable event body: %v", err)
		respondJSON(w, http.StatusOK, map[string]string{"message": "Usage logged"})
		return
	}

	// Detached context: once the writes begin they run to completion,
	// bounded by the upstream timeout rather than the caller's patience.
	ctx, cancel := context.WithTimeout(context.Background(), rl.cfg.Upstream.Timeout())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := rl.contacts.UpsertContact(ctx, buildContact(ev, rl.cfg.Brevo.ListID)); err != nil {
			sinkFailures.WithLabelValues("crm").Inc()
			log.Printf("[USAGE] crm write failed for %s: %v", ev.UserEmail, err)
		}
	}()

	go func() {
		defer wg.Done()
		if err := rl.rows.AppendRow(ctx, buildRow(ev, rl.now())); err != nil {
			sinkFailures.WithLabelValues("sheet").Inc()
			log.Printf("[USAGE] sheet append failed for %s: %v", ev.UserEmail, err)
		}
	}()

	wg.Wait()

	respondJSON(w, http.StatusOK, map[string]string{"message": "Usage logged"})
}

// buildContact maps the event onto the CRM payload. The attribute keys
// are a compatibility contract with the provisioned Brevo list.
func buildContact(ev UsageEvent, listID int64) brevo.ContactUpsert {
	contact := brevo.ContactUpsert{
		Email: ev.UserEmail,
		Attributes: map[string]string{
			"FIRSTNAME":       ev.UserName,
			"COMPANY":         ev.Company,
			"EQUIPMENT_TYPES": strings.Join(ev.EquipmentTypes, ", "),
		},
		UpdateEnabled: true,
	}
	if listID != 0 {
		contact.ListIDs = []int64{listID}
	}
	return contact
}

// buildRow maps the event onto one spreadsheet row. The column order is a
// compatibility contract with the provisioned sheet headers.
func buildRow(ev UsageEvent, ts time.Time) []interface{} {
	return []interface{}{
		ts.Format(time.RFC3339),
		ev.UserName,
		ev.UserEmail,
		ev.Company,
		strings.Join(ev.EquipmentTypes, ", "),
		ev.SaleValue,
		ev.Margin,
		ev.MonthlySpend,
		ev.ProjectedNetGain,
		ev.Services.EmailsPerMonth,
		ev.Services.SocialChannels,
		ev.Services.Maintenance,
		ev.Services.SEO,
		ev.Services.AdSpend,
	}
}
