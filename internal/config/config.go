package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Plaid     PlaidConfig
	Tables    TablesConfig
	Email     EmailConfig
	CORS      CORSConfig
	Server    ServerConfig
	Scheduler SchedulerConfig
}

type PlaidConfig struct {
	ClientID    string
	Secret      string
	Environment string
}

// TablesConfig names the three DynamoDB tables. Each table is keyed by
// (user_id, resource id) and holds one record kind.
type TablesConfig struct {
	Institutions string
	Accounts     string
	Reminders    string
}

type EmailConfig struct {
	FromAddress string
	Region      string
}

type CORSConfig struct {
	AllowedOrigin string
}

// ServerConfig applies to the local development server only.
type ServerConfig struct {
	Host string
	Port string
}

// SchedulerConfig applies to the local development server only; deployed
// jobs are triggered by EventBridge schedules instead.
type SchedulerConfig struct {
	Enabled       bool
	ScheduleTimes []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Plaid: PlaidConfig{
			ClientID:    getEnv("PLAID_CLIENT_ID", ""),
			Secret:      getEnv("PLAID_SECRET", ""),
			Environment: getEnv("PLAID_ENV", "sandbox"),
		},
		Tables: TablesConfig{
			Institutions: getEnv("PLAID_ITEMS_TABLE", ""),
			Accounts:     getEnv("PLAID_ACCOUNTS_TABLE", ""),
			Reminders:    getEnv("SUBSCRIPTION_REMINDERS_TABLE", ""),
		},
		Email: EmailConfig{
			FromAddress: getEnv("FROM_EMAIL", "notifications@yourdomain.com"),
			Region:      getEnv("SES_REGION", "us-east-1"),
		},
		CORS: CORSConfig{
			AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),
		},
		Server: ServerConfig{
			Host: getEnv("HOST", "0.0.0.0"),
			Port: getEnv("PORT", "8080"),
		},
		Scheduler: SchedulerConfig{
			Enabled:       getBoolEnv("SCHEDULER_ENABLED", false),
			ScheduleTimes: splitEnv("SCHEDULER_TIMES", "06:00"),
		},
	}

	// Validate required fields
	if cfg.Plaid.ClientID == "" {
		return nil, fmt.Errorf("PLAID_CLIENT_ID is required")
	}
	if cfg.Plaid.Secret == "" {
		return nil, fmt.Errorf("PLAID_SECRET is required")
	}
	if cfg.Tables.Institutions == "" {
		return nil, fmt.Errorf("PLAID_ITEMS_TABLE is required")
	}
	if cfg.Tables.Accounts == "" {
		return nil, fmt.Errorf("PLAID_ACCOUNTS_TABLE is required")
	}
	if cfg.Tables.Reminders == "" {
		return nil, fmt.Errorf("SUBSCRIPTION_REMINDERS_TABLE is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

func splitEnv(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	var values []string
	for _, v := range strings.Split(raw, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}
