package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Email struct {
		SMTPHost string `yaml:"smtp_host"`
		SMTPPort int    `yaml:"smtp_port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
		To       string `yaml:"to"`
	} `yaml:"email"`
	DataSource struct {
		ResultsURL string `yaml:"results_url"`
		CSVPath    string `yaml:"csv_path"`
	} `yaml:"data_source"`
	Schedule struct {
		CollectCron    string `yaml:"collect_cron"`
		PredictCron    string `yaml:"predict_cron"`
		ValidationCron string `yaml:"validation_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Engine struct {
		RecentDraws     int    `yaml:"recent_draws"`
		ConsensusRuns   int    `yaml:"consensus_runs"`
		SampleAttempts  int    `yaml:"sample_attempts"`
		TuneIterations  int    `yaml:"tune_iterations"`
		ValidationDraws int    `yaml:"validation_draws"`
		WeightStateFile string `yaml:"weight_state_file"`
		Seed            int64  `yaml:"seed"`
	} `yaml:"engine"`
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Email.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Email.SMTPPort = p
		}
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		cfg.Email.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Email.Password = v
	}
	if v := os.Getenv("EMAIL_FROM"); v != "" {
		cfg.Email.From = v
	}
	if v := os.Getenv("EMAIL_TO"); v != "" {
		cfg.Email.To = v
	}
	if v := os.Getenv("RESULTS_URL"); v != "" {
		cfg.DataSource.ResultsURL = v
	}
	if v := os.Getenv("RESULTS_CSV"); v != "" {
		cfg.DataSource.CSVPath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Schedule.CollectCron == "" {
		cfg.Schedule.CollectCron = "0 30 8 * * *"
	}
	if cfg.Schedule.PredictCron == "" {
		cfg.Schedule.PredictCron = "0 0 9 * * 1"
	}
	if cfg.Schedule.ValidationCron == "" {
		cfg.Schedule.ValidationCron = "0 0 10 1 * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/cool_runnings.db"
	}
	if cfg.Engine.RecentDraws == 0 {
		cfg.Engine.RecentDraws = 50
	}
	if cfg.Engine.ConsensusRuns == 0 {
		cfg.Engine.ConsensusRuns = 1000
	}
	if cfg.Engine.SampleAttempts == 0 {
		cfg.Engine.SampleAttempts = 1000
	}
	if cfg.Engine.TuneIterations == 0 {
		cfg.Engine.TuneIterations = 200
	}
	if cfg.Engine.ValidationDraws == 0 {
		cfg.Engine.ValidationDraws = 1500
	}
	if cfg.Engine.WeightStateFile == "" {
		cfg.Engine.WeightStateFile = "data/weights.json"
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.DataSource.ResultsURL == "" && c.DataSource.CSVPath == "" {
		return fmt.Errorf("data_source.results_url or data_source.csv_path is required")
	}
	if c.Engine.TuneIterations <= 0 {
		return fmt.Errorf("engine.tune_iterations must be positive")
	}
	if c.Email.SMTPHost != "" && (c.Email.From == "" || c.Email.To == "") {
		return fmt.Errorf("email.from and email.to are required when smtp_host is set")
	}
	return nil
}
