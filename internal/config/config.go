package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the price fetcher.
type Config struct {
	// Scryfall API access
	ScryfallBaseURL string        `mapstructure:"scryfall_base_url"`
	UserAgent       string        `mapstructure:"user_agent"`
	RequestInterval time.Duration `mapstructure:"request_interval"`
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`

	// Files
	RecoveryFile string `mapstructure:"recovery_file"`
	ResumeFile   string `mapstructure:"resume_file"`
	EUROutput    string `mapstructure:"eur_output"`
	USDOutput    string `mapstructure:"usd_output"`

	// Currency fields to extract, in order
	Fields []string `mapstructure:"fields"`

	// Manual fallback for missing prices
	Manual           bool   `mapstructure:"manual"`
	ManualPricesFile string `mapstructure:"manual_prices_file"`
	CardmarketURL    string `mapstructure:"cardmarket_url"`
	TCGplayerURL     string `mapstructure:"tcgplayer_url"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"resume":        "resume_file",
	"recovery-file": "recovery_file",
	"manual":        "manual",
	"manual-prices": "manual_prices_file",
	"fields":        "fields",
	"interval":      "request_interval",
	"log-level":     "log_level",
}

// Load reads configuration from flags, environment variables and an
// optional config file, in that order of precedence. flags may be nil.
//
// Recognized environment variables:
//   - SCRYFALL_BASE_URL, SCRYFALL_USER_AGENT
//   - REQUEST_INTERVAL (e.g. 500ms), HTTP_TIMEOUT (0 disables)
//   - RECOVERY_FILE, RESUME_FILE, EUR_OUTPUT, USD_OUTPUT
//   - FIELDS (comma separated)
//   - MANUAL, MANUAL_PRICES_FILE, CARDMARKET_URL, TCGPLAYER_URL
//   - LOG_LEVEL, LOG_FORMAT
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("scryfall_base_url", "https://api.scryfall.com")
	v.SetDefault("user_agent", "scryfallprices/1.0")
	v.SetDefault("request_interval", "500ms")
	v.SetDefault("http_timeout", "0s")
	v.SetDefault("recovery_file", "safety_valve.json")
	v.SetDefault("resume_file", "")
	v.SetDefault("eur_output", "new_eur_prices.json")
	v.SetDefault("usd_output", "new_usd_prices.json")
	v.SetDefault("fields", []string{"eur", "usd"})
	v.SetDefault("manual", true)
	v.SetDefault("manual_prices_file", "")
	v.SetDefault("cardmarket_url", "https://www.cardmarket.com/en/Magic/Cards/")
	v.SetDefault("tcgplayer_url", "https://www.tcgplayer.com/search/all/product?q=")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.scryfallprices")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.BindEnv("scryfall_base_url", "SCRYFALL_BASE_URL")
	v.BindEnv("user_agent", "SCRYFALL_USER_AGENT")
	v.BindEnv("request_interval", "REQUEST_INTERVAL")
	v.BindEnv("http_timeout", "HTTP_TIMEOUT")
	v.BindEnv("recovery_file", "RECOVERY_FILE")
	v.BindEnv("resume_file", "RESUME_FILE")
	v.BindEnv("eur_output", "EUR_OUTPUT")
	v.BindEnv("usd_output", "USD_OUTPUT")
	v.BindEnv("fields", "FIELDS")
	v.BindEnv("manual", "MANUAL")
	v.BindEnv("manual_prices_file", "MANUAL_PRICES_FILE")
	v.BindEnv("cardmarket_url", "CARDMARKET_URL")
	v.BindEnv("tcgplayer_url", "TCGPLAYER_URL")
	v.BindEnv("log_level", "LOG_LEVEL")
	v.BindEnv("log_format", "LOG_FORMAT")

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Fields = normalizeFields(config.Fields)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the values Load cannot default sensibly.
func (c *Config) Validate() error {
	var problems []string

	if c.ScryfallBaseURL == "" {
		problems = append(problems, "scryfall_base_url is empty")
	}
	if c.RequestInterval < 0 {
		problems = append(problems, "request_interval is negative")
	}
	if c.HTTPTimeout < 0 {
		problems = append(problems, "http_timeout is negative")
	}
	if c.RecoveryFile == "" {
		problems = append(problems, "recovery_file is empty")
	}
	if len(c.Fields) == 0 {
		problems = append(problems, "no price fields configured")
	}
	for _, field := range c.Fields {
		if c.OutputFor(field) == "" {
			problems = append(problems, fmt.Sprintf("no output file for %s", field))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
	}
	return nil
}

// OutputFor returns the file the prices of field are written to.
func (c *Config) OutputFor(field string) string {
	switch field {
	case "eur":
		return c.EUROutput
	case "usd":
		return c.USDOutput
	default:
		return fmt.Sprintf("new_%s_prices.json", field)
	}
}

// normalizeFields splits comma-joined entries, as environment variables
// arrive, and drops blanks and repeats.
func normalizeFields(fields []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, entry := range fields {
		for _, field := range strings.Split(entry, ",") {
			field = strings.ToLower(strings.TrimSpace(field))
			if field == "" || seen[field] {
				continue
			}
			seen[field] = true
			out = append(out, field)
		}
	}
	return out
}
