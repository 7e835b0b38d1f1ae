package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-pipeline/internal/entity"
)

var configKeys = []string{
	"ENV", "PORT", "LOG_LEVEL", "CRM_BASE_URL", "CRM_API_TOKEN", "CRM_TIMEOUT",
	"AMQP_URL", "REFRESH_INTERVAL", "ALLOWED_ORIGINS", "TERMINAL_STAGES",
}

// clearEnv unsets every key Load reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func missingFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("CRM_BASE_URL", "https://crm.example.com/api")

	cfg, err := Load(missingFile(t))
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.CRMTimeout)
	assert.Zero(t, cfg.RefreshInterval)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.TerminalStages)
	assert.False(t, cfg.IsProduction())
}

func TestLoadRequiresCRMBaseURL(t *testing.T) {
	clearEnv(t)

	_, err := Load(missingFile(t))
	assert.ErrorContains(t, err, "CRM_BASE_URL")
}

func TestLoadParsesLists(t *testing.T) {
	clearEnv(t)
	t.Setenv("CRM_BASE_URL", "https://crm.example.com/api")
	t.Setenv("ENV", "production")
	t.Setenv("REFRESH_INTERVAL", "30s")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com ,")
	t.Setenv("TERMINAL_STAGES", "Converted,Closed")

	cfg, err := Load(missingFile(t))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, []entity.Status{entity.StatusConverted, entity.StatusClosed}, cfg.TerminalStages)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string][2]string{
		"duration":       {"CRM_TIMEOUT", "ten seconds"},
		"terminal stage": {"TERMINAL_STAGES", "Lost"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("CRM_BASE_URL", "https://crm.example.com/api")
			t.Setenv(kv[0], kv[1])

			_, err := Load(missingFile(t))
			assert.ErrorContains(t, err, kv[0])
		})
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CRM_BASE_URL=https://crm.local\nCRM_API_TOKEN=secret\nPORT=9090\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://crm.local", cfg.CRMBaseURL)
	assert.Equal(t, "secret", cfg.CRMAPIToken)
	assert.Equal(t, "9090", cfg.Port)
}
