package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_RejectsEmptyBankAccounts(t *testing.T) {
	t.Setenv("STORAGE", "memory")
	t.Setenv("BANK_ACCOUNT_CODES", " , ")

	cfg, err := LoadConfig()
	require.Error(t, err, "an empty bank account list is rejected")
	assert.Nil(t, cfg)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("STORAGE", "memory")
	t.Setenv("BANK_ACCOUNT_CODES", "5120000, 5121000 ,")
	t.Setenv("PROFIT_ACCOUNT_CODE", "1200001")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://compta.example.org")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, []string{"5120000", "5121000"}, cfg.Ledger.BankAccountCodes)
	assert.Equal(t, "1200001", cfg.Ledger.ProfitAccountCode)
	assert.Equal(t, "1290000", cfg.Ledger.LossAccountCode)
	assert.Equal(t, "OD", cfg.Ledger.ClosingJournalCode)
	assert.Equal(t, []string{"https://compta.example.org"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_RejectsUnknownStorage(t *testing.T) {
	t.Setenv("STORAGE", "sqlite")
	_, err := LoadConfig()
	assert.Error(t, err)
}
