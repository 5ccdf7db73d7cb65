package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"ALPHA_VANTAGE_API_KEY", "PORT", "DATA_PROVIDER", "RISK_FREE_RATE"} {
		t.Setenv(k, "")
	}
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != "8080" || cfg.DataSource.Provider != ProviderAlphaVantage {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Schedule.AlertCron != "*/30 * * * * *" {
		t.Errorf("alert cron = %q", cfg.Schedule.AlertCron)
	}
	if cfg.Analytics.RiskFreeRate != 0.02 || cfg.Analytics.Benchmark != "SPY" {
		t.Errorf("analytics defaults = %+v", cfg.Analytics)
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
data_source:
  provider: yahoo
analytics:
  risk_free_rate: 0.04
`)
	t.Setenv("PORT", "7000")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("RISK_FREE_RATE", "0.05")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != "7000" {
		t.Errorf("port = %q, want env override 7000", cfg.Server.Port)
	}
	if cfg.DataSource.Provider != ProviderYahoo {
		t.Errorf("provider = %q, want yahoo from file", cfg.DataSource.Provider)
	}
	if cfg.Gemini.APIKey != "g-key" || cfg.Analytics.RiskFreeRate != 0.05 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestLoad_BadRiskFreeRate(t *testing.T) {
	t.Setenv("RISK_FREE_RATE", "two percent")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for malformed RISK_FREE_RATE")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"mock provider", func(c *Config) { c.DataSource.Provider = ProviderMock }, false},
		{"alphavantage with key", func(c *Config) { c.DataSource.APIKey = "k" }, false},
		{"alphavantage without key", func(c *Config) {}, true},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }, true},
		{"bad storage", func(c *Config) { c.DataSource.APIKey = "k"; c.Storage.Backend = "redis" }, true},
		{"half telegram", func(c *Config) { c.DataSource.APIKey = "k"; c.Telegram.BotToken = "t" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
