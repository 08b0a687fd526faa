package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	DatabaseURL              string
	ServiceKey               string
	PublicAccess             bool
	Port                     string
	DataDir                  string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
}

func Default() Config {
	return Config{
		Port:                     "8080",
		DataDir:                  "data",
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
	}
}

func Load() Config {
	cfg := Default()
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.ServiceKey = os.Getenv("SERVICE_KEY")
	if raw := os.Getenv("ENABLE_PUBLIC_ACCESS"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.PublicAccess = value
		}
	}
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Port = raw
	}
	if raw := os.Getenv("DATA_DIR"); raw != "" {
		cfg.DataDir = raw
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	return cfg
}

// Warn reports missing store credentials at startup. The absence of either is
// not fatal: the server falls back to the local file store instead.
func (c Config) Warn() {
	if c.DatabaseURL == "" {
		log.Println("DATABASE_URL is not set; remote store is unavailable")
	}
	if c.ServiceKey == "" {
		log.Println("SERVICE_KEY is not set; connecting without a service key")
	}
}
