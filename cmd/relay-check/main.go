// relay-check verifies the externally provisioned resources the relay
// depends on: the Brevo account, the shared spreadsheet, and the Gemini
// model. Run it after changing credentials or re-provisioning the sheet.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ngoyal88/forecast-relay/pkg/brevo"
	"github.com/ngoyal88/forecast-relay/pkg/config"
	"github.com/ngoyal88/forecast-relay/pkg/gemini"
	"github.com/ngoyal88/forecast-relay/pkg/report"
	"github.com/ngoyal88/forecast-relay/pkg/sheets"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "config":
		handleConfig(mustLoadConfig())
	case "ping":
		handlePing(mustLoadConfig())
	case "send-test":
		handleSendTest(mustLoadConfig())
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("relay-check commands:")
	fmt.Println("  config               Print resolved configuration (secrets masked)")
	fmt.Println("  ping                 Check Brevo, the spreadsheet, and the Gemini model")
	fmt.Println("  send-test            Send a sample report email")
	fmt.Println("     flags: -to <address>")
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	return cfg
}

func handleConfig(cfg *config.Config) {
	masked := *cfg
	masked.Brevo.APIKey = mask(cfg.Brevo.APIKey)
	masked.Gemini.APIKey = mask(cfg.Gemini.APIKey)
	masked.Sheets.CredentialsJSON = mask(cfg.Sheets.CredentialsJSON)

	b, _ := json.MarshalIndent(masked, "", "  ")
	fmt.Println(string(b))
}

func handlePing(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	failed := false

	crm := brevo.New(cfg.Brevo.APIKey, cfg.Brevo.BaseURL, cfg.Upstream.Timeout())
	if err := crm.Ping(ctx); err != nil {
		failed = true
		fmt.Printf("❌ Brevo: %v\n", err)
	} else {
		fmt.Println("✅ Brevo account reachable")
	}

	appender, err := sheets.New(ctx, cfg.Sheets.SpreadsheetID, []byte(cfg.Sheets.CredentialsJSON))
	if err != nil {
		failed = true
		fmt.Printf("❌ Sheets: %v\n", err)
	} else if title, err := appender.Title(ctx); err != nil {
		failed = true
		fmt.Printf("❌ Sheets: %v\n", err)
	} else {
		fmt.Printf("✅ Spreadsheet reachable: %q\n", title)
	}

	llm := gemini.New(cfg.Gemini.APIKey, cfg.Gemini.BaseURL, cfg.Gemini.Model, cfg.Gemini.JSONModel, cfg.Upstream.Timeout())
	if err := llm.Ping(ctx); err != nil {
		failed = true
		fmt.Printf("❌ Gemini: %v\n", err)
	} else {
		fmt.Printf("✅ Gemini model reachable: %s\n", cfg.Gemini.Model)
	}

	if failed {
		os.Exit(1)
	}
}

func handleSendTest(cfg *config.Config) {
	fs := flag.NewFlagSet("send-test", flag.ExitOnError)
	to := fs.String("to", "", "Recipient address")
	if err := fs.Parse(os.Args[2:]); err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}
	if *to == "" {
		log.Fatal("send-test requires -to")
	}

	sample := report.Request{
		UserName:         "Test User",
		UserEmail:        *to,
		Company:          "Example Equipment Co",
		EquipmentTypes:   []string{"Excavator", "Crane"},
		SaleValue:        125000,
		Margin:           12.5,
		MonthlySpend:     2000,
		ProjectedNetGain: 5400,
		CurrentProfit:    15625,
		ProjectedProfit:  21025,
		Services: report.Services{
			EmailsPerMonth: 4,
			SocialChannels: "Facebook, LinkedIn",
			Maintenance:    true,
			SEO:            false,
			AdSpend:        500,
		},
	}

	html, err := report.Render(sample)
	if err != nil {
		log.Fatalf("failed to render sample report: %v", err)
	}

	crm := brevo.New(cfg.Brevo.APIKey, cfg.Brevo.BaseURL, cfg.Upstream.Timeout())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err = crm.SendEmail(ctx, brevo.Email{
		Sender:      brevo.Recipient{Name: cfg.Email.SenderName, Email: cfg.Email.SenderEmail},
		To:          []brevo.Recipient{{Email: *to, Name: sample.UserName}},
		BCC:         []brevo.Recipient{{Email: cfg.Email.BCC}},
		Subject:     report.Subject,
		HTMLContent: html,
	})
	if err != nil {
		log.Fatalf("failed to send test report: %v", err)
	}
	fmt.Printf("✅ Test report sent to %s\n", *to)
}

func mask(s string) string {
	if len(s) <= 6 {
		return "******"
	}
	return s[:4] + "..." + "******"
}
