package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Config represents the full application configuration surface.
type Config struct {
	Sheets   SheetsConfig
	Log      LogConfig
	WhatsApp WhatsAppConfig
	MongoDB  MongoDBConfig
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	Worksheet       string
	Timeout         time.Duration
}

// LogConfig controls the structured log output. The console is reserved for
// the interactive menus, so logs go to a file.
type LogConfig struct {
	Level string
	File  string
}

// WhatsAppConfig contains credentials for the optional change notifications.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	RecipientID   string
	BaseURL       string
	APIVersion    string
}

// Enabled reports whether change notifications should be sent.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != "" && c.RecipientID != ""
}

// MongoDBConfig holds settings for the optional audit trail.
type MongoDBConfig struct {
	URI        string
	DBName     string
	Collection string
}

// Enabled reports whether mutations should be recorded in MongoDB.
func (c MongoDBConfig) Enabled() bool {
	return c.URI != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	timeout, err := time.ParseDuration(getenvWithDefault("SHEETS_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("SHEETS_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Sheets: SheetsConfig{
			CredentialsPath: getenvWithDefault("GOOGLE_SHEETS_CREDENTIALS_PATH", "creds.json"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			Worksheet:       getenvWithDefault("GOOGLE_SHEET_WORKSHEET", "inventory_sheet"),
			Timeout:         timeout,
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
			File:  getenvWithDefault("LOG_FILE", "inventory.log"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			RecipientID:   os.Getenv("WHATSAPP_RECIPIENT_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
		},
		MongoDB: MongoDBConfig{
			URI:        os.Getenv("MONGODB_URI"),
			DBName:     getenvWithDefault("MONGODB_DB_NAME", "inventory"),
			Collection: getenvWithDefault("MONGODB_COLLECTION", "inventory_changes"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	switch {
	case c.Sheets.CredentialsPath == "":
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
	case c.Sheets.SpreadsheetID == "":
		return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
	case c.Sheets.Worksheet == "":
		return errors.New("GOOGLE_SHEET_WORKSHEET must not be empty")
	}

	if c.Sheets.Timeout <= 0 {
		return errors.New("SHEETS_TIMEOUT must be positive")
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if c.WhatsApp.Enabled() {
		if c.WhatsApp.BaseURL == "" {
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		}
		if c.WhatsApp.APIVersion == "" {
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if c.MongoDB.Enabled() {
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
		if c.MongoDB.Collection == "" {
			return errors.New("MONGODB_COLLECTION must not be empty")
		}
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
