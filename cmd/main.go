package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/ngoyal88/forecast-relay/pkg/api"
	"github.com/ngoyal88/forecast-relay/pkg/brevo"
	"github.com/ngoyal88/forecast-relay/pkg/config"
	"github.com/ngoyal88/forecast-relay/pkg/gemini"
	"github.com/ngoyal88/forecast-relay/pkg/middleware"
	"github.com/ngoyal88/forecast-relay/pkg/sheets"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	// 1. Load and validate config (env only, read once)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	timeout := cfg.Upstream.Timeout()

	// 2. Build the vendor clients (shared read-only, one per vendor)
	crm := brevo.New(cfg.Brevo.APIKey, cfg.Brevo.BaseURL, timeout)
	fmt.Println("✅ Brevo client ready (contacts + transactional email)")

	appender, err := sheets.New(context.Background(), cfg.Sheets.SpreadsheetID, []byte(cfg.Sheets.CredentialsJSON))
	if err != nil {
		log.Fatalf("Failed to create sheets client: %v", err)
	}
	fmt.Println("✅ Sheets client ready")

	llm := gemini.New(cfg.Gemini.APIKey, cfg.Gemini.BaseURL, cfg.Gemini.Model, cfg.Gemini.JSONModel, timeout)
	fmt.Printf("✅ Gemini relay ready (model: %s)\n", cfg.Gemini.Model)

	// 3. Wire the relay endpoints
	mux := http.NewServeMux()

	relay := api.New(cfg, crm, appender, crm, llm)
	relay.RegisterRoutes(mux)

	// Metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// 4. Chain middleware (order matters: logger outer-most)
	var handler http.Handler = mux
	handler = middleware.CORS(cfg.CORS.AllowedOrigins)(handler)
	handler = middleware.Metrics(handler)
	handler = middleware.RequestLogger(handler)

	if len(cfg.CORS.AllowedOrigins) > 0 {
		fmt.Printf("✅ CORS allow-list active (%d origins)\n", len(cfg.CORS.AllowedOrigins))
	} else {
		log.Println("⚠️  ALLOWED_ORIGINS is empty: all cross-origin requests will be rejected")
	}

	// 5. Start server
	fmt.Println("\n🚀 Forecast relay endpoints:")
	fmt.Println("   - POST /api/log-forecast-usage")
	fmt.Println("   - POST /api/send-forecast-report")
	fmt.Println("   - POST /api/gemini-proxy")
	fmt.Println("   - Metrics:      /metrics")
	fmt.Println("   - Health Check: /health")
	fmt.Printf("\n🎯 Server listening on %s\n", cfg.Server.Port)

	if err := http.ListenAndServe(cfg.Server.Port, handler); err != nil {
		log.Fatal("Server failed:", err)
	}
}
