package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override; nested keys are split on
// word boundaries, e.g. COPPER_SOURCE_URL or COPPER_RETRY_MAX_ATTEMPTS.
const EnvPrefix = "COPPER"

const DefaultSourceURL = "https://infilearnai.com/LME_Cu_Dashboard/lme_copper_historical_data.csv"

// Config holds all application configuration.
type Config struct {
	Source struct {
		URL                  string        `yaml:"url" split_words:"true" validate:"required,url"`
		Timeout              time.Duration `yaml:"timeout" split_words:"true" validate:"gt=0"`
		ExpectedContentTypes []string      `yaml:"expected_content_types" split_words:"true" validate:"min=1,dive,required"`
		UserAgent            string        `yaml:"user_agent" split_words:"true"`
	} `yaml:"source" split_words:"true"`
	Retry struct {
		MaxAttempts int             `yaml:"max_attempts" split_words:"true" validate:"min=1,max=10"`
		Backoff     []time.Duration `yaml:"backoff" split_words:"true" validate:"dive,gte=0"`
	} `yaml:"retry" split_words:"true"`
	Cleaning struct {
		MinRows     int      `yaml:"min_rows" split_words:"true" validate:"min=2"`
		DateLayouts []string `yaml:"date_layouts" split_words:"true"`
	} `yaml:"cleaning" split_words:"true"`
	Output struct {
		ReportPath      string `yaml:"report_path" split_words:"true" validate:"required"`
		CompanionPath   string `yaml:"companion_path" split_words:"true" validate:"required,nefield=ReportPath"`
		IndexHTMLPath   string `yaml:"index_html_path" split_words:"true"`
		AnalysisVersion string `yaml:"analysis_version" split_words:"true" validate:"required"`
	} `yaml:"output" split_words:"true"`
	Logging struct {
		Level  string `yaml:"level" split_words:"true"`
		Format string `yaml:"format" split_words:"true" validate:"omitempty,oneof=json text"`
		Output string `yaml:"output" split_words:"true"`
		MaxAge int    `yaml:"max_age" split_words:"true" validate:"gte=0"`
	} `yaml:"logging" split_words:"true"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	} `yaml:"database" split_words:"true"`
	Storage struct {
		S3 S3Config `yaml:"s3" split_words:"true"`
	} `yaml:"storage" split_words:"true"`
	Telegram struct {
		BotToken string `yaml:"bot_token" split_words:"true"`
		ChatID   string `yaml:"chat_id" split_words:"true"`
	} `yaml:"telegram" split_words:"true"`
	Schedule struct {
		Enabled    bool   `yaml:"enabled" split_words:"true"`
		Cron       string `yaml:"cron" split_words:"true"`
		RunOnStart bool   `yaml:"run_on_start" split_words:"true"`
	} `yaml:"schedule" split_words:"true"`
	Proxy string `yaml:"proxy" split_words:"true"`
}

// S3Config configures the optional report mirror.
type S3Config struct {
	Enabled         bool   `yaml:"enabled" split_words:"true"`
	Bucket          string `yaml:"bucket" split_words:"true" validate:"required_if=Enabled true"`
	Region          string `yaml:"region" split_words:"true" validate:"required_if=Enabled true"`
	Prefix          string `yaml:"prefix" split_words:"true"`
	Endpoint        string `yaml:"endpoint" split_words:"true"`
	PathStyle       bool   `yaml:"path_style" split_words:"true"`
	AccessKeyID     string `yaml:"access_key_id" split_words:"true"`
	SecretAccessKey string `yaml:"secret_access_key" split_words:"true"`
}

// Load reads config from a YAML file, applies COPPER_* environment overrides,
// then fills defaults. A missing file is not an error.
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

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}
	// Plain AWS variables are honoured the same way the SDK would.
	if v := os.Getenv("AWS_REGION"); v != "" && cfg.Storage.S3.Region == "" {
		cfg.Storage.S3.Region = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" && cfg.Proxy == "" {
		cfg.Proxy = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Source.URL == "" {
		c.Source.URL = DefaultSourceURL
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = 30 * time.Second
	}
	if len(c.Source.ExpectedContentTypes) == 0 {
		c.Source.ExpectedContentTypes = []string{"text/csv", "application/csv"}
	}
	if c.Source.UserAgent == "" {
		c.Source.UserAgent = "CopperAnalytics/1.1"
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 3
	}
	if len(c.Retry.Backoff) == 0 {
		c.Retry.Backoff = []time.Duration{5 * time.Second, 15 * time.Second, 45 * time.Second}
	}
	if c.Cleaning.MinRows == 0 {
		c.Cleaning.MinRows = 2000
	}
	if c.Output.ReportPath == "" {
		c.Output.ReportPath = "docs/analysis.json"
	}
	if c.Output.CompanionPath == "" {
		c.Output.CompanionPath = "docs/last_updated.json"
	}
	if c.Output.AnalysisVersion == "" {
		c.Output.AnalysisVersion = "1.1"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "0 0 */6 * * *"
	}
}

var validate = validator.New()

// Validate checks field constraints and the cross-field rules tags can't express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if need := c.Retry.MaxAttempts - 1; len(c.Retry.Backoff) < need {
		return fmt.Errorf("retry.backoff has %d entries, max_attempts %d needs at least %d", len(c.Retry.Backoff), c.Retry.MaxAttempts, need)
	}
	if c.Storage.S3.Enabled && (c.Storage.S3.AccessKeyID == "") != (c.Storage.S3.SecretAccessKey == "") {
		return fmt.Errorf("storage.s3.access_key_id and storage.s3.secret_access_key must be set together")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether run notifications should be sent.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
