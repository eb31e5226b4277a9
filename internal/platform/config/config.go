package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	Storage        string
	MigrationsPath string
	JWTSecret      string

	// ExportAPIKeyHash is the bcrypt hash of the key used by the export pipeline.
	ExportAPIKeyHash string

	RateLimit          string
	CORSAllowedOrigins []string

	Ledger LedgerConfig
}

// LedgerConfig holds the chart-of-accounts conventions used by the ledger services.
type LedgerConfig struct {
	BankAccountCodes   []string
	ClosingJournalCode string
	ProfitAccountCode  string
	LossAccountCode    string
}

// DefaultLedgerConfig returns the conventional French association chart settings.
func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		BankAccountCodes:   []string{"5120000"},
		ClosingJournalCode: "OD",
		ProfitAccountCode:  "1200000",
		LossAccountCode:    "1290000",
	}
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	defaults := DefaultLedgerConfig()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("STORAGE", StoragePostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("EXPORT_API_KEY_HASH", "")
	v.SetDefault("BANK_ACCOUNT_CODES", strings.Join(defaults.BankAccountCodes, ","))
	v.SetDefault("CLOSING_JOURNAL_CODE", defaults.ClosingJournalCode)
	v.SetDefault("PROFIT_ACCOUNT_CODE", defaults.ProfitAccountCode)
	v.SetDefault("LOSS_ACCOUNT_CODE", defaults.LossAccountCode)
	v.SetDefault("RATE_LIMIT", "20-S")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      v.GetBool("ENABLE_DB_CHECK"),
		Storage:            strings.ToLower(v.GetString("STORAGE")),
		MigrationsPath:     v.GetString("MIGRATIONS_PATH"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		ExportAPIKeyHash:   v.GetString("EXPORT_API_KEY_HASH"),
		RateLimit:          v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		Ledger: LedgerConfig{
			BankAccountCodes:   splitList(v.GetString("BANK_ACCOUNT_CODES")),
			ClosingJournalCode: v.GetString("CLOSING_JOURNAL_CODE"),
			ProfitAccountCode:  v.GetString("PROFIT_ACCOUNT_CODE"),
			LossAccountCode:    v.GetString("LOSS_ACCOUNT_CODE"),
		},
	}

	switch cfg.Storage {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StorageMemory:
		log.Println("Warning: STORAGE=memory, ledger data will not survive a restart.")
	default:
		return nil, fmt.Errorf("unsupported STORAGE %q", cfg.Storage)
	}

	if len(cfg.Ledger.BankAccountCodes) == 0 {
		return nil, fmt.Errorf("BANK_ACCOUNT_CODES must name at least one account")
	}
	if cfg.ExportAPIKeyHash == "" {
		log.Println("Warning: EXPORT_API_KEY_HASH not set. The export feed is disabled.")
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
