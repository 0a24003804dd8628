package config

import (
	"testing"
	"time"
)

// setRequired sets the env vars without which Load fails.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q", cfg.GinMode)
	}
	if cfg.APIBasePath != "/api" {
		t.Errorf("APIBasePath = %q", cfg.APIBasePath)
	}
	if cfg.Auth.TokenTTL != 7*24*time.Hour {
		t.Errorf("TokenTTL = %v, want 7 days", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.CookieName != "token" {
		t.Errorf("CookieName = %q", cfg.Auth.CookieName)
	}
	if cfg.Completion.Temperature != 0.7 {
		t.Errorf("Temperature = %v", cfg.Completion.Temperature)
	}
	if cfg.Completion.MaxTokens != 500 {
		t.Errorf("MaxTokens = %d", cfg.Completion.MaxTokens)
	}
	if cfg.Completion.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("BaseURL = %q", cfg.Completion.BaseURL)
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	cases := map[string]map[string]string{
		"bad log level":      {"LOG_LEVEL": "verbose"},
		"zero token ttl":     {"TOKEN_TTL": "0s"},
		"empty cookie name":  {"COOKIE_NAME": "   "},
		"temperature range":  {"OPENAI_TEMPERATURE": "3.5"},
		"zero max tokens":    {"OPENAI_MAX_TOKENS": "0"},
		"negative rate":      {"RATE_RPS": "-1"},
		"zero burst":         {"RATE_BURST": "0"},
		"bad sampler ratio":  {"OTEL_TRACES_SAMPLER_ARG": "1.5"},
		"negative hsts age":  {"HSTS_MAX_AGE": "-1h"},
		"empty db path":      {"DB_PATH": "  "},
		"negative timeout":   {"READ_TIMEOUT": "-1s"},
		"zero openai budget": {"OPENAI_TIMEOUT": "0s"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoad_NormalizesValues(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("GIN_MODE", "bogus")
	t.Setenv("API_BASE_PATH", "api/v2/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q, want release fallback", cfg.GinMode)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Errorf("APIBasePath = %q, want /api/v2", cfg.APIBasePath)
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" a ,, b,c ")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("splitCSV = %#v", got)
	}
	if splitCSV("") != nil {
		t.Fatalf("empty input should return nil")
	}
}

func TestMustLoad_PanicsOnInvalid(t *testing.T) {
	// JWT_SECRET deliberately unset.
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	_ = MustLoad()
}
