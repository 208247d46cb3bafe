package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all the configuration for the relay.
// It is read once at startup from environment variables and never mutated;
// handlers receive it by injection instead of reading the environment.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Brevo    BrevoConfig    `mapstructure:"brevo"`
	Email    EmailConfig    `mapstructure:"email"`
	Sheets   SheetsConfig   `mapstructure:"sheets"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type BrevoConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	ListID  int64  `mapstructure:"list_id"`
}

type EmailConfig struct {
	SenderName  string `mapstructure:"sender_name"`
	SenderEmail string `mapstructure:"sender_email"`
	BCC         string `mapstructure:"bcc"`
}

type SheetsConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	CredentialsJSON string `mapstructure:"credentials_json"`
}

type GeminiConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	JSONModel string `mapstructure:"json_model"`
}

type UpstreamConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// Timeout returns the bound applied to every outbound vendor call.
func (u UpstreamConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSeconds) * time.Second
}

// envBindings maps viper keys to the environment variables that feed them.
var envBindings = map[string]string{
	"server::port":              "PORT",
	"cors::allowed_origins":     "ALLOWED_ORIGINS",
	"brevo::api_key":            "BREVO_API_KEY",
	"brevo::base_url":           "BREVO_BASE_URL",
	"brevo::list_id":            "BREVO_LIST_ID",
	"email::sender_name":        "SENDER_NAME",
	"email::sender_email":       "SENDER_EMAIL",
	"email::bcc":                "REPORT_BCC",
	"sheets::spreadsheet_id":    "SPREADSHEET_ID",
	"sheets::credentials_json":  "GOOGLE_CREDENTIALS_JSON",
	"gemini::api_key":           "GEMINI_API_KEY",
	"gemini::base_url":          "GEMINI_BASE_URL",
	"gemini::model":             "GEMINI_MODEL",
	"gemini::json_model":        "GEMINI_JSON_MODEL",
	"upstream::timeout_seconds": "UPSTREAM_TIMEOUT_SECONDS",
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))

	v.SetDefault("server::port", ":8080")
	v.SetDefault("brevo::base_url", "https://api.brevo.com")
	v.SetDefault("email::sender_name", "Forecast Team")
	v.SetDefault("gemini::base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini::model", "gemini-2.0-flash")
	v.SetDefault("upstream::timeout_seconds", 8)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// ALLOWED_ORIGINS arrives as one comma-separated value; re-split and
	// trim so entries like "https://a.com, https://b.com" come out clean.
	cfg.CORS.AllowedOrigins = SplitOrigins(strings.Join(cfg.CORS.AllowedOrigins, ","))

	// A bare "8080" is accepted and normalized to ":8080".
	if cfg.Server.Port != "" && !strings.HasPrefix(cfg.Server.Port, ":") {
		cfg.Server.Port = ":" + cfg.Server.Port
	}

	// Structured-output requests fall back to the free-text model unless
	// a dedicated one is configured.
	if cfg.Gemini.JSONModel == "" {
		cfg.Gemini.JSONModel = cfg.Gemini.Model
	}

	return &cfg, nil
}

// Validate reports every missing required variable, not just the first.
func (c *Config) Validate() error {
	required := []struct {
		env string
		val string
	}{
		{"BREVO_API_KEY", c.Brevo.APIKey},
		{"GEMINI_API_KEY", c.Gemini.APIKey},
		{"GOOGLE_CREDENTIALS_JSON", c.Sheets.CredentialsJSON},
		{"REPORT_BCC", c.Email.BCC},
		{"SENDER_EMAIL", c.Email.SenderEmail},
		{"SPREADSHEET_ID", c.Sheets.SpreadsheetID},
	}

	var missing []string
	for _, r := range required {
		if r.val == "" {
			missing = append(missing, r.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// SplitOrigins parses a comma-separated origin list, dropping empty entries.
func SplitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
