// Package config provides configuration management for the gobid
// application. It handles loading, validation, and access to
// configuration values from YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/netly-dev/gobid/internal/domain"
)

// Default configuration values.
const (
	DefaultDatabaseHost    = "localhost"
	DefaultDatabasePort    = "5432"
	DefaultDatabaseUser    = "postgres"
	DefaultDatabaseName    = "gobid"
	DefaultDatabaseSSLMode = "disable"

	DefaultAIBaseURL     = "https://openrouter.ai/api/v1"
	DefaultAIModel       = "openai/gpt-4o-mini"
	DefaultAITemperature = 0.7
	DefaultAITopP        = 1.0
	DefaultAIMaxTokens   = 1024
	DefaultAIMaxTries    = 3

	DefaultBidPrice    = 5000
	DefaultBidCurrency = "UAH"
	DefaultBidDays     = 1

	DefaultLocateTimeout = 5 * time.Second
	DefaultMarkerTimeout = 2 * time.Second
	DefaultPageTimeout   = 30 * time.Second
	DefaultSettleDelay   = 2 * time.Second

	DefaultMFAMaxTries = 3
)

// DatabaseConfig represents database configuration settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// BrowserConfig represents browser driver settings.
type BrowserConfig struct {
	// Headless runs the browser without a visible window.
	Headless bool `yaml:"headless"`
	// UserAgent overrides the browser user agent when non-empty.
	UserAgent string `yaml:"user_agent"`
	// LocateTimeout bounds element lookups.
	LocateTimeout time.Duration `yaml:"locate_timeout"`
	// MarkerTimeout bounds status-marker probes. Markers are usually
	// absent, so this stays short.
	MarkerTimeout time.Duration `yaml:"marker_timeout"`
	// PageTimeout bounds page navigations.
	PageTimeout time.Duration `yaml:"page_timeout"`
	// SettleDelay gives a page time to re-render after a form submit
	// before any post-submit marker probe.
	SettleDelay time.Duration `yaml:"settle_delay"`
}

// AIConfig represents text-generation settings.
type AIConfig struct {
	BaseURL      string  `yaml:"base_url"`
	APIKey       string  `yaml:"api_key"`
	Model        string  `yaml:"model"`
	Temperature  float64 `yaml:"temperature"`
	TopP         float64 `yaml:"top_p"`
	MaxTokens    int     `yaml:"max_tokens"`
	SystemPrompt string  `yaml:"system_prompt"`
	// MaxTries bounds retries on empty generation responses.
	MaxTries int `yaml:"max_tries"`
}

// BidConfig represents bid form defaults.
type BidConfig struct {
	// DefaultPrice is used when a listing row's price cannot be
	// extracted, and nowhere else: stored prices always win.
	DefaultPrice int `yaml:"default_price"`
	// DefaultCurrency pairs with DefaultPrice.
	DefaultCurrency string `yaml:"default_currency"`
	// DefaultDays fills the delivery-days form field.
	DefaultDays int `yaml:"default_days"`
}

// MarketplaceConfig represents per-marketplace settings.
type MarketplaceConfig struct {
	LoginURL    string `yaml:"login_url"`
	ProjectsURL string `yaml:"projects_url"`
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
}

// AuthConfig represents authentication settings.
type AuthConfig struct {
	// MFAMaxTries bounds multi-factor code attempts.
	MFAMaxTries int `yaml:"mfa_max_tries"`
}

// Config represents the application configuration.
type Config struct {
	Debug        bool                                     `yaml:"debug"`
	Database     DatabaseConfig                           `yaml:"database"`
	Browser      BrowserConfig                            `yaml:"browser"`
	AI           AIConfig                                 `yaml:"ai"`
	Bid          BidConfig                                `yaml:"bid"`
	Auth         AuthConfig                               `yaml:"auth"`
	Marketplaces map[domain.Marketplace]MarketplaceConfig `yaml:"marketplaces"`
}

// getConfigValue retrieves a configuration value from environment or
// Viper, with a default fallback. Environment variables take
// precedence over file configuration.
func getConfigValue(envKey, viperKey, defaultValue string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if val := viper.GetString(viperKey); val != "" {
		return val
	}
	return defaultValue
}

// Load builds the configuration from Viper and the environment.
// Viper is expected to be initialized by the command layer.
func Load() *Config {
	cfg := &Config{
		Debug: viper.GetBool("debug"),
		Database: DatabaseConfig{
			Host:     getConfigValue("DB_HOST", "database.host", DefaultDatabaseHost),
			Port:     getConfigValue("DB_PORT", "database.port", DefaultDatabasePort),
			User:     getConfigValue("DB_USER", "database.user", DefaultDatabaseUser),
			Password: getConfigValue("DB_PASSWORD", "database.password", ""),
			DBName:   getConfigValue("DB_NAME", "database.dbname", DefaultDatabaseName),
			SSLMode:  getConfigValue("DB_SSLMODE", "database.sslmode", DefaultDatabaseSSLMode),
		},
		Browser: BrowserConfig{
			Headless:      viper.GetBool("browser.headless"),
			UserAgent:     viper.GetString("browser.user_agent"),
			LocateTimeout: durationOrDefault("browser.locate_timeout", DefaultLocateTimeout),
			MarkerTimeout: durationOrDefault("browser.marker_timeout", DefaultMarkerTimeout),
			PageTimeout:   durationOrDefault("browser.page_timeout", DefaultPageTimeout),
			SettleDelay:   durationOrDefault("browser.settle_delay", DefaultSettleDelay),
		},
		AI: AIConfig{
			BaseURL:      getConfigValue("OPENROUTER_BASE_URL", "ai.base_url", DefaultAIBaseURL),
			APIKey:       getConfigValue("OPENROUTER_API_KEY", "ai.api_key", ""),
			Model:        getConfigValue("OPENROUTER_AI_MODEL", "ai.model", DefaultAIModel),
			Temperature:  floatOrDefault("ai.temperature", DefaultAITemperature),
			TopP:         floatOrDefault("ai.top_p", DefaultAITopP),
			MaxTokens:    intOrDefault("ai.max_tokens", DefaultAIMaxTokens),
			SystemPrompt: viper.GetString("ai.system_prompt"),
			MaxTries:     intOrDefault("ai.max_tries", DefaultAIMaxTries),
		},
		Bid: BidConfig{
			DefaultPrice:    intOrDefault("bid.default_price", DefaultBidPrice),
			DefaultCurrency: getConfigValue("DEFAULT_CURRENCY", "bid.default_currency", DefaultBidCurrency),
			DefaultDays:     intOrDefault("bid.default_days", DefaultBidDays),
		},
		Auth: AuthConfig{
			MFAMaxTries: intOrDefault("auth.mfa_max_tries", DefaultMFAMaxTries),
		},
		Marketplaces: map[domain.Marketplace]MarketplaceConfig{
			domain.MarketplaceFreelancehunt: {
				LoginURL:    getConfigValue("FREELANCEHUNT_LOGIN_PAGE", "marketplaces.freelancehunt.login_url", ""),
				ProjectsURL: getConfigValue("FREELANCEHUNT_PROJECTS_PAGE", "marketplaces.freelancehunt.projects_url", ""),
				Email:       getConfigValue("FREELANCEHUNT_EMAIL", "marketplaces.freelancehunt.email", ""),
				Password:    getConfigValue("FREELANCEHUNT_PASSWORD", "marketplaces.freelancehunt.password", ""),
			},
			domain.MarketplaceFreelancer: {
				LoginURL:    getConfigValue("FREELANCER_LOGIN_PAGE", "marketplaces.freelancer.login_url", ""),
				ProjectsURL: getConfigValue("FREELANCER_PROJECTS_PAGE", "marketplaces.freelancer.projects_url", ""),
				Email:       getConfigValue("FREELANCER_EMAIL", "marketplaces.freelancer.email", ""),
				Password:    getConfigValue("FREELANCER_PASSWORD", "marketplaces.freelancer.password", ""),
			},
		},
	}

	return cfg
}

// Validate checks that the configuration can support a run against
// the given marketplace.
func (c *Config) Validate(marketplace domain.Marketplace) error {
	mp, ok := c.Marketplaces[marketplace]
	if !ok {
		return fmt.Errorf("unknown marketplace: %s", marketplace)
	}
	if mp.LoginURL == "" {
		return fmt.Errorf("%s: login URL must be specified", marketplace)
	}
	if mp.ProjectsURL == "" {
		return fmt.Errorf("%s: projects URL must be specified", marketplace)
	}
	if mp.Email == "" || mp.Password == "" {
		return fmt.Errorf("%s: credentials must be specified", marketplace)
	}
	if c.AI.APIKey == "" {
		return errors.New("AI API key must be specified")
	}
	if c.AI.MaxTries < 1 {
		return errors.New("ai.max_tries must be at least 1")
	}
	if c.Bid.DefaultDays < 1 {
		return errors.New("bid.default_days must be at least 1")
	}
	return nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	if v := viper.GetDuration(key); v > 0 {
		return v
	}
	return def
}

func intOrDefault(key string, def int) int {
	if v := viper.GetInt(key); v > 0 {
		return v
	}
	return def
}

func floatOrDefault(key string, def float64) float64 {
	if viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	return def
}
