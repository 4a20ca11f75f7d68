package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daftarhq/daftar/internal/ledger"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvKey, "")
	t.Setenv(EnvDefaults, "")

	cfg := Load()

	assert.Equal(t, "daftar.db", cfg.DBPath)
	assert.Equal(t, "daftar", cfg.SnapshotKey)
	assert.Empty(t, cfg.Defaults)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv(EnvDBPath, "/tmp/books.db")
	t.Setenv(EnvKey, "books")
	t.Setenv(EnvDefaults, "/tmp/defaults.yaml")

	cfg := Load()

	assert.Equal(t, "/tmp/books.db", cfg.DBPath)
	assert.Equal(t, "books", cfg.SnapshotKey)
	assert.Equal(t, "/tmp/defaults.yaml", cfg.Defaults)
}

func TestSettingsWithoutDefaultsFile(t *testing.T) {
	s, err := Config{}.Settings()
	require.NoError(t, err)
	assert.Equal(t, ledger.DefaultSettings(), s)
}

func TestSettingsMissingFileIsFine(t *testing.T) {
	s, err := Config{Defaults: filepath.Join(t.TempDir(), "absent.yaml")}.Settings()
	require.NoError(t, err)
	assert.Equal(t, ledger.DefaultSettings(), s)
}

func TestSettingsOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
lowStockThreshold: 10
alerts:
  stock: false
`), 0o644))

	s, err := Config{Defaults: path}.Settings()
	require.NoError(t, err)

	assert.Equal(t, 10, s.LowStockThreshold)
	assert.False(t, s.Alerts.Stock)
	// Untouched fields keep their package defaults.
	assert.Equal(t, 30, s.ContractAlertDays)
	assert.True(t, s.Alerts.Sales)
	assert.Empty(t, s.Secret)
}

func TestSettingsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alerts: [not, a, map]"), 0o644))

	_, err := Config{Defaults: path}.Settings()
	assert.Error(t, err)
}
