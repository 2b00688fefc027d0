package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Provider ProviderConfig
	Sync     SyncConfig
	API      APIConfig
}

type ServerConfig struct {
	Port int
	Env  string // "development", "production"
}

type DatabaseConfig struct {
	Host    string
	Port    string
	Name    string
	User    string
	Pass    string
	Charset string
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

// ProviderConfig points at the upstream sports data API.
type ProviderConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// SyncConfig bounds seed guarding and client-side polling.
type SyncConfig struct {
	GuardTTL        time.Duration
	PollInterval    time.Duration
	PollMaxAttempts int
	PollMaxErrors   int
}

type APIConfig struct {
	Key string
	// BaseURL points seed-and-wait client runs at a sync API instance.
	// Empty means the local instance on Server.Port.
	BaseURL string
}

// Load reads configuration from .env file and environment variables.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", 8080)
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_CHARSET", "utf8mb4")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("PROVIDER_TIMEOUT", "30s")
	viper.SetDefault("SYNC_GUARD_TTL", "30m")
	viper.SetDefault("SYNC_POLL_INTERVAL", "3s")
	viper.SetDefault("SYNC_POLL_MAX_ATTEMPTS", 60)
	viper.SetDefault("SYNC_POLL_MAX_ERRORS", 5)

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			Host:    viper.GetString("DB_HOST"),
			Port:    viper.GetString("DB_PORT"),
			Name:    viper.GetString("DB_NAME"),
			User:    viper.GetString("DB_USER"),
			Pass:    viper.GetString("DB_PASS"),
			Charset: viper.GetString("DB_CHARSET"),
		},
		Redis: RedisConfig{
			Addr: viper.GetString("REDIS_ADDR"),
			Pass: viper.GetString("REDIS_PASS"),
			DB:   viper.GetInt("REDIS_DB"),
		},
		Provider: ProviderConfig{
			BaseURL: viper.GetString("PROVIDER_BASE_URL"),
			APIKey:  viper.GetString("PROVIDER_API_KEY"),
			Timeout: duration("PROVIDER_TIMEOUT", 30*time.Second),
		},
		Sync: SyncConfig{
			GuardTTL:        duration("SYNC_GUARD_TTL", 30*time.Minute),
			PollInterval:    duration("SYNC_POLL_INTERVAL", 3*time.Second),
			PollMaxAttempts: viper.GetInt("SYNC_POLL_MAX_ATTEMPTS"),
			PollMaxErrors:   viper.GetInt("SYNC_POLL_MAX_ERRORS"),
		},
		API: APIConfig{
			Key:     viper.GetString("API_KEY"),
			BaseURL: viper.GetString("API_BASE_URL"),
		},
	}

	if cfg.Database.Name == "" {
		log.Println("WARNING: DB_NAME is not set")
	}
	if cfg.Provider.BaseURL == "" {
		log.Println("WARNING: PROVIDER_BASE_URL is not set")
	}

	return cfg, nil
}

// LoadDatabaseOnly reads just the database settings, for schema bootstrap.
func LoadDatabaseOnly() (*DatabaseConfig, error) {
	_ = godotenv.Load()
	viper.AutomaticEnv()
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_CHARSET", "utf8mb4")

	return &DatabaseConfig{
		Host:    viper.GetString("DB_HOST"),
		Port:    viper.GetString("DB_PORT"),
		Name:    viper.GetString("DB_NAME"),
		User:    viper.GetString("DB_USER"),
		Pass:    viper.GetString("DB_PASS"),
		Charset: viper.GetString("DB_CHARSET"),
	}, nil
}

func duration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil {
		return def
	}
	return d
}

// DSN returns the MySQL DSN string for GORM.
func (d *DatabaseConfig) DSN() string {
	return d.User + ":" + d.Pass + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?charset=" + d.Charset + "&parseTime=True&loc=Local"
}
