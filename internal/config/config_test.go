package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ORACLE_API_KEY", "ORACLE_PROVIDER", "RECORDS_PASSWORD", "PORT", "LOG_LEVEL", "STATE_PATH", "NATS_URL"} {
		t.Setenv(k, "")
	}
}

func TestParseDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Parse([]byte("server:\n  port: 9090\n"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 5, cfg.State.HistoryLimit)
	assert.Equal(t, ProviderGemini, cfg.Oracle.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Oracle.Model)
	assert.Equal(t, 60*time.Second, cfg.Storage.UploadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Platform.Geolocation.Timeout)
	assert.Equal(t, "laporkerja.report.finalized", cfg.Events.Subject)
}

func TestEnvOverridesSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("ORACLE_API_KEY", "from-env")
	t.Setenv("RECORDS_PASSWORD", "s3cret")
	t.Setenv("PORT", "7070")

	cfg, err := Parse([]byte(`
oracle:
  provider: openai
  apiKey: from-file
records:
  driver: postgres
  host: db
  user: lapor
  name: laporkerja
`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Oracle.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.Oracle.Model)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "host=db port=5432 user=lapor dbname=laporkerja sslmode=disable password=s3cret", cfg.PostgresDSN())
}

func TestMySQLDSN(t *testing.T) {
	clearEnv(t)
	cfg, err := Parse([]byte(`
records:
  driver: mysql
  host: localhost
  user: root
  password: pw
  name: lapor
`))
	require.NoError(t, err)
	assert.Equal(t, "root:pw@tcp(localhost:3306)/lapor?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
}

func TestValidateRejectsUnknownProviders(t *testing.T) {
	clearEnv(t)
	_, err := Parse([]byte(`
oracle:
  provider: claude
storage:
  provider: s3
records:
  driver: oracle
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle.provider")
	assert.Contains(t, err.Error(), "storage.provider")
	assert.Contains(t, err.Error(), "records.driver")
}

func TestValidateStorageRequirements(t *testing.T) {
	_, err := Parse([]byte("storage:\n  provider: minio\n"))
	require.ErrorContains(t, err, "storage.minio.endpoint")

	_, err = Parse([]byte("storage:\n  provider: azure\n"))
	require.ErrorContains(t, err, "connectionString")
}

func TestValidateGeolocationPair(t *testing.T) {
	_, err := Parse([]byte("platform:\n  geolocation:\n    lat: -6.2\n"))
	require.ErrorContains(t, err, "berpasangan")

	cfg, err := Parse([]byte("platform:\n  geolocation:\n    lat: -6.2\n    lon: 106.8\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.Platform.Geolocation.Lon)
	assert.InDelta(t, 106.8, *cfg.Platform.Geolocation.Lon, 1e-9)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("state:\n  historyLimit: 3\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.State.HistoryLimit)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Export.Disabled)
}
