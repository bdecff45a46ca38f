package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix            = "SAATHI"
	defaultHTTPAddress   = "0.0.0.0:8080"
	defaultDatabasePath  = "saathi.db"
	defaultLogLevel      = "info"
	defaultTokenTTLMins  = 12 * 60
	defaultGeminiModel   = "gemini-2.0-flash"
	defaultWeatherAPIURL = "https://api.openweathermap.org"
	defaultMarketAPIURL  = "https://api.data.gov.in/resource"
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress   string
	DatabasePath  string
	LogLevel      string
	SigningSecret string
	TokenTTL      time.Duration

	GeminiAPIKey  string
	GeminiModel   string
	WeatherAPIKey string
	WeatherAPIURL string
	MarketAPIKey  string
	MarketAPIURL  string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("token.ttl_minutes", defaultTokenTTLMins)
	configViper.SetDefault("gemini.model", defaultGeminiModel)
	configViper.SetDefault("weather.api_url", defaultWeatherAPIURL)
	configViper.SetDefault("market.api_url", defaultMarketAPIURL)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:   configViper.GetString("http.address"),
		DatabasePath:  configViper.GetString("database.path"),
		LogLevel:      configViper.GetString("log.level"),
		SigningSecret: configViper.GetString("auth.signing_secret"),
		TokenTTL:      time.Duration(configViper.GetInt("token.ttl_minutes")) * time.Minute,
		GeminiAPIKey:  configViper.GetString("gemini.api_key"),
		GeminiModel:   configViper.GetString("gemini.model"),
		WeatherAPIKey: configViper.GetString("weather.api_key"),
		WeatherAPIURL: configViper.GetString("weather.api_url"),
		MarketAPIKey:  configViper.GetString("market.api_key"),
		MarketAPIURL:  configViper.GetString("market.api_url"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.SigningSecret) == "" {
		return fmt.Errorf("auth.signing_secret is required")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token.ttl_minutes must be positive")
	}
	return nil
}
