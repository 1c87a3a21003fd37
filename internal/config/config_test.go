package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

var envVars = []string{
	"SCRYFALL_BASE_URL",
	"SCRYFALL_USER_AGENT",
	"REQUEST_INTERVAL",
	"HTTP_TIMEOUT",
	"RECOVERY_FILE",
	"RESUME_FILE",
	"EUR_OUTPUT",
	"USD_OUTPUT",
	"FIELDS",
	"MANUAL",
	"MANUAL_PRICES_FILE",
	"CARDMARKET_URL",
	"TCGPLAYER_URL",
	"LOG_LEVEL",
	"LOG_FORMAT",
}

// isolate clears the environment and moves into an empty directory so no
// stray config.yaml is picked up.
func isolate(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
}

func TestLoad_WithDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"ScryfallBaseURL", cfg.ScryfallBaseURL, "https://api.scryfall.com"},
		{"UserAgent", cfg.UserAgent, "scryfallprices/1.0"},
		{"RequestInterval", cfg.RequestInterval, 500 * time.Millisecond},
		{"HTTPTimeout", cfg.HTTPTimeout, time.Duration(0)},
		{"RecoveryFile", cfg.RecoveryFile, "safety_valve.json"},
		{"ResumeFile", cfg.ResumeFile, ""},
		{"EUROutput", cfg.EUROutput, "new_eur_prices.json"},
		{"USDOutput", cfg.USDOutput, "new_usd_prices.json"},
		{"Fields", strings.Join(cfg.Fields, ","), "eur,usd"},
		{"Manual", cfg.Manual, true},
		{"CardmarketURL", cfg.CardmarketURL, "https://www.cardmarket.com/en/Magic/Cards/"},
		{"TCGplayerURL", cfg.TCGplayerURL, "https://www.tcgplayer.com/search/all/product?q="},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFormat", cfg.LogFormat, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	isolate(t)

	envs := map[string]string{
		"SCRYFALL_BASE_URL":   "http://localhost:9999",
		"SCRYFALL_USER_AGENT": "test-agent/0.1",
		"REQUEST_INTERVAL":    "100ms",
		"HTTP_TIMEOUT":        "5s",
		"RECOVERY_FILE":       "recovery.json",
		"EUR_OUTPUT":          "eur.json",
		"USD_OUTPUT":          "usd.json",
		"FIELDS":              "usd, eur,tix",
		"MANUAL":              "false",
		"LOG_LEVEL":           "debug",
	}
	for key, value := range envs {
		t.Setenv(key, value)
	}

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"ScryfallBaseURL", cfg.ScryfallBaseURL, "http://localhost:9999"},
		{"UserAgent", cfg.UserAgent, "test-agent/0.1"},
		{"RequestInterval", cfg.RequestInterval, 100 * time.Millisecond},
		{"HTTPTimeout", cfg.HTTPTimeout, 5 * time.Second},
		{"RecoveryFile", cfg.RecoveryFile, "recovery.json"},
		{"EUROutput", cfg.EUROutput, "eur.json"},
		{"USDOutput", cfg.USDOutput, "usd.json"},
		{"Fields", strings.Join(cfg.Fields, ","), "usd,eur,tix"},
		{"Manual", cfg.Manual, false},
		{"LogLevel", cfg.LogLevel, "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	if got := cfg.OutputFor("tix"); got != "new_tix_prices.json" {
		t.Errorf("OutputFor(tix) = %q, want new_tix_prices.json", got)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "prices.yaml")
	content := "eur_output: cm.json\nrequest_interval: 1s\nfields:\n  - eur\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.EUROutput != "cm.json" {
		t.Errorf("EUROutput = %q, want cm.json", cfg.EUROutput)
	}
	if cfg.RequestInterval != time.Second {
		t.Errorf("RequestInterval = %v, want 1s", cfg.RequestInterval)
	}
	if len(cfg.Fields) != 1 || cfg.Fields[0] != "eur" {
		t.Errorf("Fields = %v, want [eur]", cfg.Fields)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	isolate(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Error("Load() expected error for explicit missing config file, got nil")
	}
}

func TestLoad_Flags(t *testing.T) {
	isolate(t)
	t.Setenv("RESUME_FILE", "from-env.json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("resume", "", "")
	flags.Bool("manual", true, "")
	flags.StringSlice("fields", []string{"eur", "usd"}, "")
	flags.Duration("interval", 500*time.Millisecond, "")

	if err := flags.Parse([]string{"--resume", "safety_valve.json", "--manual=false", "--fields", "usd_foil", "--interval", "0s"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.ResumeFile != "safety_valve.json" {
		t.Errorf("ResumeFile = %q, want the flag value over the environment", cfg.ResumeFile)
	}
	if cfg.Manual {
		t.Error("Manual = true, want false from flag")
	}
	if strings.Join(cfg.Fields, ",") != "usd_foil" {
		t.Errorf("Fields = %v, want [usd_foil]", cfg.Fields)
	}
	if cfg.RequestInterval != 0 {
		t.Errorf("RequestInterval = %v, want 0", cfg.RequestInterval)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		wantErrText string
	}{
		{"negative interval", map[string]string{"REQUEST_INTERVAL": "-1s"}, "request_interval is negative"},
		{"negative timeout", map[string]string{"HTTP_TIMEOUT": "-5s"}, "http_timeout is negative"},
		{"no fields", map[string]string{"FIELDS": " , "}, "no price fields configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load("", nil)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErrText) {
				t.Errorf("Load() error = %q, want error containing %q", err.Error(), tt.wantErrText)
			}
		})
	}
}

func TestValidate_EmptyOutput(t *testing.T) {
	cfg := &Config{
		ScryfallBaseURL: "https://api.scryfall.com",
		RecoveryFile:    "safety_valve.json",
		Fields:          []string{"eur"},
	}

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "no output file for eur") {
		t.Errorf("Validate() error = %v, want missing output for eur", err)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
