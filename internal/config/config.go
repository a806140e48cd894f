package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/honeycarbs/jobboard/pkg/logging"
)

// Store backends selectable with STORE
const (
	StoreNeo4j    = "neo4j"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config contains runtime settings for the job board server
type Config struct {
	LogLevel  string
	LogFormat string // json or console
	Host     string // default 0.0.0.0
	Port     string // default PORT env or 8080
	APIPort  string // REST listener, empty disables it
	Store    string // neo4j, postgres or memory

	CORSOrigins string

	Neo4j struct {
		URI      string
		Username string
		Password string
		Database string
	}
	Postgres struct {
		URL string
	}
	Redis struct {
		URL string
		TTL time.Duration
	} // optional read cache
	Adzuna struct {
		AppID   string
		AppKey  string
		Country string
	} // Adzuna API credentials
	Ingest struct {
		Query    string
		Location string
		Schedule string // cron spec, empty disables scheduled ingestion
	}
	Sheets struct {
		CredentialsPath string
	}
}

// Load populates config from environment variables. A .env file in the
// working directory is read first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		LogLevel:    "info",
		LogFormat:   logging.FormatJSON,
		Host:        "0.0.0.0",
		Port:        "8080",
		APIPort:     "5000",
		Store:       StoreNeo4j,
		CORSOrigins: "*",
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv("MCP_HOST"); v != "" {
		cfg.Host = v
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}

	if v, ok := os.LookupEnv("API_PORT"); ok {
		cfg.APIPort = v
	}

	if v := os.Getenv("STORE"); v != "" {
		cfg.Store = strings.ToLower(v)
	}

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = v
	}

	cfg.Neo4j.URI = os.Getenv("NEO4J_URI")
	cfg.Neo4j.Username = os.Getenv("NEO4J_USERNAME")
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")
	cfg.Neo4j.Database = os.Getenv("NEO4J_DATABASE")

	cfg.Postgres.URL = os.Getenv("DATABASE_URL")

	cfg.Redis.URL = os.Getenv("REDIS_URL")
	cfg.Redis.TTL = 30 * time.Second

	cfg.Adzuna.AppID = os.Getenv("ADZUNA_APP_ID")
	cfg.Adzuna.AppKey = os.Getenv("ADZUNA_APP_KEY")
	if v := os.Getenv("ADZUNA_COUNTRY"); v != "" {
		cfg.Adzuna.Country = v
	} else {
		cfg.Adzuna.Country = "us"
	}

	cfg.Ingest.Query = os.Getenv("INGEST_QUERY")
	cfg.Ingest.Location = os.Getenv("INGEST_LOCATION")
	cfg.Ingest.Schedule = os.Getenv("INGEST_SCHEDULE")

	cfg.Sheets.CredentialsPath = os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH")

	var problems []string

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel))
	}
	if cfg.LogFormat != logging.FormatJSON && cfg.LogFormat != logging.FormatConsole {
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be json or console, got %q", cfg.LogFormat))
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			problems = append(problems, fmt.Sprintf("CACHE_TTL must be a positive duration, got %q", v))
		} else {
			cfg.Redis.TTL = ttl
		}
	}

	var missingVars []string

	switch cfg.Store {
	case StoreNeo4j:
		if cfg.Neo4j.URI == "" {
			missingVars = append(missingVars, "NEO4J_URI")
		}

		if cfg.Neo4j.Username == "" {
			missingVars = append(missingVars, "NEO4J_USERNAME")
		}

		if cfg.Neo4j.Password == "" {
			missingVars = append(missingVars, "NEO4J_PASSWORD")
		}
	case StorePostgres:
		if cfg.Postgres.URL == "" {
			missingVars = append(missingVars, "DATABASE_URL")
		}
	case StoreMemory:
	default:
		problems = append(problems, fmt.Sprintf("STORE must be one of neo4j, postgres, memory, got %q", cfg.Store))
	}

	if cfg.Ingest.Schedule != "" && cfg.Ingest.Query == "" {
		missingVars = append(missingVars, "INGEST_QUERY")
	}

	if len(missingVars) > 0 {
		problems = append(problems, "missing required environment variables: "+strings.Join(missingVars, ", "))
	}

	if len(problems) > 0 {
		return cfg, fmt.Errorf("%s", strings.Join(problems, "; "))
	}

	return cfg, nil
}
