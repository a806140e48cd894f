package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allVars = []string{
	"LOG_LEVEL", "LOG_FORMAT", "MCP_HOST", "PORT", "API_PORT", "STORE", "CORS_ORIGINS",
	"NEO4J_URI", "NEO4J_USERNAME", "NEO4J_PASSWORD", "NEO4J_DATABASE",
	"DATABASE_URL", "REDIS_URL", "CACHE_TTL",
	"ADZUNA_APP_ID", "ADZUNA_APP_KEY", "ADZUNA_COUNTRY",
	"INGEST_QUERY", "INGEST_LOCATION", "INGEST_SCHEDULE",
	"GOOGLE_SHEETS_CREDENTIALS_PATH",
}

// clearEnv blanks every variable Load reads. API_PORT is special: an empty
// value disables the listener, so tests that need the default set it.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range allVars {
		t.Setenv(name, "")
	}
}

func TestLoad_MemoryDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE", "memory")
	t.Setenv("API_PORT", "5000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "5000", cfg.APIPort)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "us", cfg.Adzuna.Country)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, "*", cfg.CORSOrigins)
}

func TestLoad_Neo4jRequiresCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEO4J_URI", "neo4j://localhost:7687")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NEO4J_USERNAME")
	assert.Contains(t, err.Error(), "NEO4J_PASSWORD")
	assert.NotContains(t, err.Error(), "NEO4J_URI")
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE", "Postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost/jobs")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.Store)
}

func TestLoad_AggregatesProblems(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE", "sqlite")
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("INGEST_SCHEDULE", "@hourly")
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE must be one of")
	assert.Contains(t, err.Error(), "CACHE_TTL")
	assert.Contains(t, err.Error(), "INGEST_QUERY")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE", "memory")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "Console")
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("ADZUNA_COUNTRY", "gb")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, "9090", cfg.Port)
	assert.Empty(t, cfg.APIPort)
	assert.Equal(t, 2*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "gb", cfg.Adzuna.Country)
}
