package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
email:
  smtp_host: smtp.example.com
  from: bot@example.com
  to: me@example.com
data_source:
  csv_path: data/history.csv
engine:
  recent_draws: 40
  seed: 1234
server:
  listen_addr: ":9090"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Email.SMTPHost != "smtp.example.com" {
		t.Errorf("smtp host: got %q", cfg.Email.SMTPHost)
	}
	if cfg.DataSource.CSVPath != "data/history.csv" {
		t.Errorf("csv path: got %q", cfg.DataSource.CSVPath)
	}
	if cfg.Engine.RecentDraws != 40 {
		t.Errorf("recent draws: expected 40, got %d", cfg.Engine.RecentDraws)
	}
	if cfg.Engine.Seed != 1234 {
		t.Errorf("seed: expected 1234, got %d", cfg.Engine.Seed)
	}
	if cfg.Server.ListenAddr != ":9090" {
		t.Errorf("listen addr: got %q", cfg.Server.ListenAddr)
	}

	// Unset fields pick up defaults.
	if cfg.Email.SMTPPort != 587 {
		t.Errorf("smtp port default: got %d", cfg.Email.SMTPPort)
	}
	if cfg.Engine.SampleAttempts != 1000 {
		t.Errorf("sample attempts default: got %d", cfg.Engine.SampleAttempts)
	}
	if cfg.Engine.TuneIterations != 200 {
		t.Errorf("tune iterations default: got %d", cfg.Engine.TuneIterations)
	}
	if cfg.Engine.ValidationDraws != 1500 {
		t.Errorf("validation draws default: got %d", cfg.Engine.ValidationDraws)
	}
	if cfg.Schedule.CollectCron == "" || cfg.Schedule.PredictCron == "" || cfg.Schedule.ValidationCron == "" {
		t.Errorf("cron defaults missing: %+v", cfg.Schedule)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("listen addr default: got %q", cfg.Server.ListenAddr)
	}
	if cfg.Database.SQLitePath == "" {
		t.Errorf("sqlite path default missing")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("RESULTS_URL", "https://example.com/api/draws")
	t.Setenv("LISTEN_ADDR", ":7070")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataSource.ResultsURL != "https://example.com/api/draws" {
		t.Errorf("results url override: got %q", cfg.DataSource.ResultsURL)
	}
	if cfg.Server.ListenAddr != ":7070" {
		t.Errorf("listen addr override: got %q", cfg.Server.ListenAddr)
	}
	if cfg.Email.SMTPPort != 2525 {
		t.Errorf("smtp port override: got %d", cfg.Email.SMTPPort)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "email: [not a map")); err == nil {
		t.Errorf("expected a parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	noSource := *cfg
	noSource.DataSource.ResultsURL = ""
	noSource.DataSource.CSVPath = ""
	if err := noSource.Validate(); err == nil {
		t.Errorf("expected an error without any data source")
	}

	noRecipient := *cfg
	noRecipient.Email.To = ""
	if err := noRecipient.Validate(); err == nil {
		t.Errorf("expected an error when smtp is set without a recipient")
	}

	badTuning := *cfg
	badTuning.Engine.TuneIterations = -1
	if err := badTuning.Validate(); err == nil {
		t.Errorf("expected an error for a negative tuning budget")
	}
}
