package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Upstream UpstreamConfig
	Fuel     FuelConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `mapstructure:"SERVER_HOST"`
	Port         int           `mapstructure:"SERVER_PORT"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `mapstructure:"SERVER_IDLE_TIMEOUT"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `mapstructure:"POSTGRES_HOST"`
	Port     int    `mapstructure:"POSTGRES_PORT"`
	User     string `mapstructure:"POSTGRES_USER"`
	Password string `mapstructure:"POSTGRES_PASSWORD"`
	DBName   string `mapstructure:"POSTGRES_DB"`
	SSLMode  string `mapstructure:"POSTGRES_SSLMODE"`
	MaxConns int32  `mapstructure:"POSTGRES_MAX_CONNS"`
	MinConns int32  `mapstructure:"POSTGRES_MIN_CONNS"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     int    `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
	PoolSize int    `mapstructure:"REDIS_POOL_SIZE"`
}

// UpstreamConfig holds settings for the two external vehicle-data APIs.
type UpstreamConfig struct {
	CarQueryBaseURL string        `mapstructure:"UPSTREAM_CARQUERY_URL"`
	CarQueryTimeout time.Duration `mapstructure:"UPSTREAM_CARQUERY_TIMEOUT"`
	NHTSABaseURL    string        `mapstructure:"UPSTREAM_NHTSA_URL"`
	NHTSATimeout    time.Duration `mapstructure:"UPSTREAM_NHTSA_TIMEOUT"`
	UserAgent       string        `mapstructure:"UPSTREAM_USER_AGENT"`
	CacheTTL        time.Duration `mapstructure:"UPSTREAM_CACHE_TTL"`
}

// FuelConfig holds fuel-profile defaults used when upstream specs are
// missing or fail the validity thresholds.
type FuelConfig struct {
	DefaultTankCapacityL   float64 `mapstructure:"FUEL_DEFAULT_TANK_CAPACITY_L"`
	DefaultConsumptionKmpl float64 `mapstructure:"FUEL_DEFAULT_CONSUMPTION_KMPL"`
	PetrolPricePerLiter    int     `mapstructure:"FUEL_PETROL_PRICE_PER_LITER"`
	DieselPricePerLiter    int     `mapstructure:"FUEL_DIESEL_PRICE_PER_LITER"`
}

// DSN returns the PostgreSQL connection string.
func (p *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode,
	)
}

// Addr returns the Redis address in host:port format.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ServerAddr returns the HTTP listen address in host:port format.
func (s *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// ── Defaults ────────────────────────────────────────
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_READ_TIMEOUT", "5s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "autospecs")
	viper.SetDefault("POSTGRES_PASSWORD", "autospecs_secret")
	viper.SetDefault("POSTGRES_DB", "autospecs_db")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("POSTGRES_MAX_CONNS", 50)
	viper.SetDefault("POSTGRES_MIN_CONNS", 10)

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", 6379)
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_POOL_SIZE", 100)

	viper.SetDefault("UPSTREAM_CARQUERY_URL", "https://www.carqueryapi.com/api/0.3/")
	viper.SetDefault("UPSTREAM_CARQUERY_TIMEOUT", "10s")
	viper.SetDefault("UPSTREAM_NHTSA_URL", "https://vpic.nhtsa.dot.gov/api/vehicles")
	viper.SetDefault("UPSTREAM_NHTSA_TIMEOUT", "8s")
	viper.SetDefault("UPSTREAM_USER_AGENT", "AutoSpecs/1.0 (+https://example.local)")
	viper.SetDefault("UPSTREAM_CACHE_TTL", "6h")

	viper.SetDefault("FUEL_DEFAULT_TANK_CAPACITY_L", 50.0)
	viper.SetDefault("FUEL_DEFAULT_CONSUMPTION_KMPL", 12.0)
	viper.SetDefault("FUEL_PETROL_PRICE_PER_LITER", 1100)
	viper.SetDefault("FUEL_DIESEL_PRICE_PER_LITER", 1300)

	// Try to read .env file. If it doesn't exist (e.g., inside Docker),
	// env vars injected by docker-compose env_file are used instead.
	_ = viper.ReadInConfig()

	cfg := &Config{}

	// ── Server ──────────────────────────────────────────
	cfg.Server = ServerConfig{
		Host:         viper.GetString("SERVER_HOST"),
		Port:         viper.GetInt("SERVER_PORT"),
		ReadTimeout:  viper.GetDuration("SERVER_READ_TIMEOUT"),
		WriteTimeout: viper.GetDuration("SERVER_WRITE_TIMEOUT"),
		IdleTimeout:  viper.GetDuration("SERVER_IDLE_TIMEOUT"),
	}

	// ── Postgres ────────────────────────────────────────
	cfg.Postgres = PostgresConfig{
		Host:     viper.GetString("POSTGRES_HOST"),
		Port:     viper.GetInt("POSTGRES_PORT"),
		User:     viper.GetString("POSTGRES_USER"),
		Password: viper.GetString("POSTGRES_PASSWORD"),
		DBName:   viper.GetString("POSTGRES_DB"),
		SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		MaxConns: viper.GetInt32("POSTGRES_MAX_CONNS"),
		MinConns: viper.GetInt32("POSTGRES_MIN_CONNS"),
	}

	// ── Redis ───────────────────────────────────────────
	cfg.Redis = RedisConfig{
		Host:     viper.GetString("REDIS_HOST"),
		Port:     viper.GetInt("REDIS_PORT"),
		Password: viper.GetString("REDIS_PASSWORD"),
		DB:       viper.GetInt("REDIS_DB"),
		PoolSize: viper.GetInt("REDIS_POOL_SIZE"),
	}

	// ── Upstream APIs ───────────────────────────────────
	cfg.Upstream = UpstreamConfig{
		CarQueryBaseURL: viper.GetString("UPSTREAM_CARQUERY_URL"),
		CarQueryTimeout: viper.GetDuration("UPSTREAM_CARQUERY_TIMEOUT"),
		NHTSABaseURL:    viper.GetString("UPSTREAM_NHTSA_URL"),
		NHTSATimeout:    viper.GetDuration("UPSTREAM_NHTSA_TIMEOUT"),
		UserAgent:       viper.GetString("UPSTREAM_USER_AGENT"),
		CacheTTL:        viper.GetDuration("UPSTREAM_CACHE_TTL"),
	}

	// ── Fuel defaults ───────────────────────────────────
	cfg.Fuel = FuelConfig{
		DefaultTankCapacityL:   viper.GetFloat64("FUEL_DEFAULT_TANK_CAPACITY_L"),
		DefaultConsumptionKmpl: viper.GetFloat64("FUEL_DEFAULT_CONSUMPTION_KMPL"),
		PetrolPricePerLiter:    viper.GetInt("FUEL_PETROL_PRICE_PER_LITER"),
		DieselPricePerLiter:    viper.GetInt("FUEL_DIESEL_PRICE_PER_LITER"),
	}

	return cfg, nil
}
