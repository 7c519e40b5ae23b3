package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "notes.db", cfg.DB.DSN)
	assert.Equal(t, 4040, cfg.HTTP.Port)
	assert.Equal(t, "memory", cfg.Cache.Kind)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "dictionary", cfg.LLM.Provider)
	assert.Equal(t, 24*time.Hour, cfg.Jobs.OrphanGrace)
	assert.Equal(t, "**/*.md", cfg.Vault.Pattern)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
db:
  driver: postgres
  dsn: postgres://notes@localhost/notes
cache:
  kind: redis
  ttl: 5m
llm:
  provider: openai
  api_key: from-file
jobs:
  orphan_sweep: "@every 1h"
`), 0o600))

	t.Setenv("NOTES_LLM_API_KEY", "from-env")
	t.Setenv("NOTES_HTTP_PORT", "9000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "redis", cfg.Cache.Kind)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, "@every 1h", cfg.Jobs.OrphanSweep)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"driver", map[string]string{"NOTES_DB_DRIVER": "oracle"}},
		{"cache", map[string]string{"NOTES_CACHE_KIND": "disk"}},
		{"provider", map[string]string{"NOTES_LLM_PROVIDER": "magic"}},
		{"openai without key", map[string]string{"NOTES_LLM_PROVIDER": "openai"}},
		{"zero dictionary interval", map[string]string{"NOTES_JOBS_DICTIONARY_INTERVAL": "0s"}},
		{"negative orphan grace", map[string]string{"NOTES_JOBS_ORPHAN_GRACE": "-1h"}},
		{"zero stale age", map[string]string{"NOTES_JOBS_STALE_AGE": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestGetDb_SQLite(t *testing.T) {
	cfg := &Config{DB: DBConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "notes.db")}}
	db, err := GetDb(cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())
	require.NoError(t, sqlDB.Close())

	_, err = GetDb(&Config{DB: DBConfig{Driver: "oracle"}})
	assert.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)
	defer logrus.SetFormatter(&logrus.TextFormatter{})

	SetupLogging(&Config{Log: LogConfig{Level: "debug", JSON: true}})
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	SetupLogging(&Config{Log: LogConfig{Level: "loud"}})
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
