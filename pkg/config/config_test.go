package config

import (
	"strings"
	"testing"
)

// TestLoadDefaults verifies defaults apply when the environment is empty.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != ":8080" {
		t.Errorf("port = %q, want %q", cfg.Server.Port, ":8080")
	}
	if cfg.Brevo.BaseURL != "https://api.brevo.com" {
		t.Errorf("brevo base url = %q", cfg.Brevo.BaseURL)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("gemini model = %q", cfg.Gemini.Model)
	}
	if cfg.Upstream.TimeoutSeconds != 8 {
		t.Errorf("timeout = %d, want 8", cfg.Upstream.TimeoutSeconds)
	}
	if got := cfg.Gemini.JSONModel; got != cfg.Gemini.Model {
		t.Errorf("json model should fall back to model, got %q", got)
	}
}

// TestLoadFromEnv verifies environment variables land in the right fields.
func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://widget.example.com, https://staging.example.com")
	t.Setenv("BREVO_API_KEY", "xkeysib-test")
	t.Setenv("BREVO_LIST_ID", "42")
	t.Setenv("GEMINI_JSON_MODEL", "gemini-2.0-pro")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != ":9090" {
		t.Errorf("port = %q, want ':9090' (bare port should be normalized)", cfg.Server.Port)
	}
	wantOrigins := []string{"https://widget.example.com", "https://staging.example.com"}
	if len(cfg.CORS.AllowedOrigins) != len(wantOrigins) {
		t.Fatalf("origins = %v, want %v", cfg.CORS.AllowedOrigins, wantOrigins)
	}
	for i, o := range wantOrigins {
		if cfg.CORS.AllowedOrigins[i] != o {
			t.Errorf("origin[%d] = %q, want %q", i, cfg.CORS.AllowedOrigins[i], o)
		}
	}
	if cfg.Brevo.APIKey != "xkeysib-test" {
		t.Errorf("brevo key = %q", cfg.Brevo.APIKey)
	}
	if cfg.Brevo.ListID != 42 {
		t.Errorf("list id = %d, want 42", cfg.Brevo.ListID)
	}
	if cfg.Gemini.JSONModel != "gemini-2.0-pro" {
		t.Errorf("json model = %q", cfg.Gemini.JSONModel)
	}
}

// TestValidate verifies every missing variable is reported.
func TestValidate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for empty config")
	}
	for _, env := range []string{
		"BREVO_API_KEY", "GEMINI_API_KEY", "GOOGLE_CREDENTIALS_JSON",
		"REPORT_BCC", "SENDER_EMAIL", "SPREADSHEET_ID",
	} {
		if !strings.Contains(err.Error(), env) {
			t.Errorf("error %q missing %s", err, env)
		}
	}

	cfg = &Config{
		Brevo:  BrevoConfig{APIKey: "k"},
		Email:  EmailConfig{SenderEmail: "s@example.com", BCC: "b@example.com"},
		Sheets: SheetsConfig{SpreadsheetID: "id", CredentialsJSON: "{}"},
		Gemini: GeminiConfig{APIKey: "k"},
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

// TestSplitOrigins covers trimming and empty entries.
func TestSplitOrigins(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"https://a.com", []string{"https://a.com"}},
		{"https://a.com,https://b.com", []string{"https://a.com", "https://b.com"}},
		{" https://a.com , https://b.com ", []string{"https://a.com", "https://b.com"}},
		{"https://a.com,,", []string{"https://a.com"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := SplitOrigins(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("SplitOrigins(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SplitOrigins(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
