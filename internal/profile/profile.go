package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where schedsense stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// Timezone is the IANA name all scheduling runs in, e.g. "Europe/Berlin".
	Timezone string
	// DefaultHour/DefaultMinute anchor date-only phrases ("tomorrow").
	DefaultHour   int
	DefaultMinute int
	// BusinessOpenHour/BusinessCloseHour bound the slot search.
	BusinessOpenHour  int
	BusinessCloseHour int

	// CalendarProvider selects the backend: "google" or "mock".
	// The mock is never a silent fallback; it must be asked for.
	CalendarProvider   string
	GoogleClientID     string // SCHEDSENSE_GOOGLE_CLIENT_ID
	GoogleClientSecret string // SCHEDSENSE_GOOGLE_CLIENT_SECRET
	GoogleTokenFile    string // SCHEDSENSE_GOOGLE_TOKEN_FILE
	GoogleCalendarID   string // SCHEDSENSE_GOOGLE_CALENDAR_ID (default: primary)

	// AI Configuration
	AIEnabled bool   // SCHEDSENSE_AI_ENABLED
	AIAPIKey  string // SCHEDSENSE_AI_API_KEY
	AIBaseURL string // SCHEDSENSE_AI_BASE_URL (default: https://api.openai.com/v1)
	AIModel   string // SCHEDSENSE_AI_MODEL (default: gpt-4o-mini)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if AI is enabled and an API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIEnabled && p.AIAPIKey != ""
}

// UseMockCalendar reports whether the mock backend was explicitly selected.
func (p *Profile) UseMockCalendar() bool {
	return p.CalendarProvider == "mock"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from SCHEDSENSE_* environment variables.
func (p *Profile) FromEnv() {
	p.Timezone = getEnvOrDefault("SCHEDSENSE_TIMEZONE", p.Timezone)
	p.CalendarProvider = getEnvOrDefault("SCHEDSENSE_CALENDAR_PROVIDER", p.CalendarProvider)
	p.GoogleClientID = os.Getenv("SCHEDSENSE_GOOGLE_CLIENT_ID")
	p.GoogleClientSecret = os.Getenv("SCHEDSENSE_GOOGLE_CLIENT_SECRET")
	p.GoogleTokenFile = getEnvOrDefault("SCHEDSENSE_GOOGLE_TOKEN_FILE", "token.json")
	p.GoogleCalendarID = getEnvOrDefault("SCHEDSENSE_GOOGLE_CALENDAR_ID", "primary")

	p.AIEnabled = os.Getenv("SCHEDSENSE_AI_ENABLED") == "true"
	p.AIAPIKey = os.Getenv("SCHEDSENSE_AI_API_KEY")
	p.AIBaseURL = getEnvOrDefault("SCHEDSENSE_AI_BASE_URL", "https://api.openai.com/v1")
	p.AIModel = getEnvOrDefault("SCHEDSENSE_AI_MODEL", "gpt-4o-mini")
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		p.Data = "/var/opt/schedsense"
	}
	if p.Data == "" {
		p.Data = "."
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("schedsense_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	if p.Timezone == "" {
		p.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(p.Timezone); err != nil {
		return errors.Wrapf(err, "invalid timezone %s", p.Timezone)
	}

	if p.DefaultHour == 0 && p.DefaultMinute == 0 {
		p.DefaultHour = 9
	}
	if p.DefaultHour < 0 || p.DefaultHour > 23 || p.DefaultMinute < 0 || p.DefaultMinute > 59 {
		return errors.Errorf("invalid default time of day %02d:%02d", p.DefaultHour, p.DefaultMinute)
	}

	if p.BusinessOpenHour == 0 && p.BusinessCloseHour == 0 {
		p.BusinessOpenHour = 9
		p.BusinessCloseHour = 17
	}
	if p.BusinessOpenHour >= p.BusinessCloseHour {
		return errors.Errorf("business hours %d-%d are inverted", p.BusinessOpenHour, p.BusinessCloseHour)
	}

	switch p.CalendarProvider {
	case "":
		p.CalendarProvider = "mock"
	case "google", "mock":
	default:
		return errors.Errorf("unknown calendar provider %q: only 'google' and 'mock' are supported", p.CalendarProvider)
	}

	return nil
}
