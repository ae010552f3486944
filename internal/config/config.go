package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ViewStatsBackendPostgres = "postgres"
	ViewStatsBackendRedis    = "redis"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	Places    PlacesConfig
	Wikipedia WikipediaConfig
	Discovery DiscoveryConfig
	ViewStats ViewStatsConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	Env             string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	Level string
}

// PlacesConfig - клиент Google Places API (v1)
type PlacesConfig struct {
	APIKey           string
	BaseURL          string
	Language         string
	Region           string
	RequestTimeout   time.Duration
	RateLimitRPS     float64
	RateLimitBurst   int
	BiasRadiusMeters float64
	BreakerFailures  uint32
	BreakerTimeout   time.Duration
}

type WikipediaConfig struct {
	BaseURLTemplate  string
	PrimaryLang      string
	FallbackLang     string
	GeoSearchRadiusM int
	UserAgent        string
	RequestTimeout   time.Duration
	RateLimitRPS     float64
}

type DiscoveryConfig struct {
	SearchQuery       string
	EnrichConcurrency int
	Placeholder       string
}

type ViewStatsConfig struct {
	Backend string
}

// Load читает .env из текущей директории (если есть) и переменные окружения
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom - то же, что Load, но с явным путем к env-файлу
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("API_HOST"),
			Port:            v.GetInt("API_PORT"),
			Env:             v.GetString("API_ENV"),
			ReadTimeout:     time.Duration(v.GetInt("API_READ_TIMEOUT")) * time.Second,
			WriteTimeout:    time.Duration(v.GetInt("API_WRITE_TIMEOUT")) * time.Second,
			ShutdownTimeout: time.Duration(v.GetInt("API_SHUTDOWN_TIMEOUT")) * time.Second,
			CORSOrigins:     v.GetString("API_CORS_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Places: PlacesConfig{
			APIKey:           v.GetString("PLACES_API_KEY"),
			BaseURL:          strings.TrimRight(v.GetString("PLACES_BASE_URL"), "/"),
			Language:         v.GetString("PLACES_LANGUAGE"),
			Region:           v.GetString("PLACES_REGION"),
			RequestTimeout:   time.Duration(v.GetInt("PLACES_REQUEST_TIMEOUT")) * time.Second,
			RateLimitRPS:     v.GetFloat64("PLACES_RATE_LIMIT_RPS"),
			RateLimitBurst:   v.GetInt("PLACES_RATE_LIMIT_BURST"),
			BiasRadiusMeters: v.GetFloat64("PLACES_BIAS_RADIUS_M"),
			BreakerFailures:  v.GetUint32("PLACES_BREAKER_FAILURES"),
			BreakerTimeout:   time.Duration(v.GetInt("PLACES_BREAKER_TIMEOUT")) * time.Second,
		},
		Wikipedia: WikipediaConfig{
			BaseURLTemplate:  v.GetString("WIKI_BASE_URL_TEMPLATE"),
			PrimaryLang:      v.GetString("WIKI_PRIMARY_LANG"),
			FallbackLang:     v.GetString("WIKI_FALLBACK_LANG"),
			GeoSearchRadiusM: v.GetInt("WIKI_GEOSEARCH_RADIUS_M"),
			UserAgent:        v.GetString("WIKI_USER_AGENT"),
			RequestTimeout:   time.Duration(v.GetInt("WIKI_REQUEST_TIMEOUT")) * time.Second,
			RateLimitRPS:     v.GetFloat64("WIKI_RATE_LIMIT_RPS"),
		},
		Discovery: DiscoveryConfig{
			SearchQuery:       v.GetString("DISCOVERY_SEARCH_QUERY"),
			EnrichConcurrency: v.GetInt("DISCOVERY_ENRICH_CONCURRENCY"),
			Placeholder:       v.GetString("DISCOVERY_PLACEHOLDER"),
		},
		ViewStats: ViewStatsConfig{
			Backend: strings.ToLower(v.GetString("VIEW_STATS_BACKEND")),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("API_READ_TIMEOUT", 15)
	v.SetDefault("API_WRITE_TIMEOUT", 30)
	v.SetDefault("API_SHUTDOWN_TIMEOUT", 10)
	v.SetDefault("API_CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")

	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("PLACES_BASE_URL", "https://places.googleapis.com/v1")
	v.SetDefault("PLACES_LANGUAGE", "ko")
	v.SetDefault("PLACES_REGION", "KR")
	v.SetDefault("PLACES_REQUEST_TIMEOUT", 10)
	v.SetDefault("PLACES_RATE_LIMIT_RPS", 10)
	v.SetDefault("PLACES_RATE_LIMIT_BURST", 20)
	v.SetDefault("PLACES_BIAS_RADIUS_M", 0)
	v.SetDefault("PLACES_BREAKER_FAILURES", 5)
	v.SetDefault("PLACES_BREAKER_TIMEOUT", 30)

	v.SetDefault("WIKI_BASE_URL_TEMPLATE", "https://%s.wikipedia.org")
	v.SetDefault("WIKI_PRIMARY_LANG", "ko")
	v.SetDefault("WIKI_FALLBACK_LANG", "en")
	v.SetDefault("WIKI_GEOSEARCH_RADIUS_M", 3000)
	v.SetDefault("WIKI_USER_AGENT", "place-microservice/1.0")
	v.SetDefault("WIKI_REQUEST_TIMEOUT", 5)
	v.SetDefault("WIKI_RATE_LIMIT_RPS", 20)

	v.SetDefault("DISCOVERY_SEARCH_QUERY", "도봉구 명소")
	v.SetDefault("DISCOVERY_ENRICH_CONCURRENCY", 4)
	v.SetDefault("DISCOVERY_PLACEHOLDER", "자세한 설명이 없습니다.")

	v.SetDefault("VIEW_STATS_BACKEND", ViewStatsBackendPostgres)
}

func (c *Config) validate() error {
	switch c.ViewStats.Backend {
	case ViewStatsBackendPostgres, ViewStatsBackendRedis:
	default:
		return fmt.Errorf("unknown VIEW_STATS_BACKEND %q", c.ViewStats.Backend)
	}
	if c.Discovery.EnrichConcurrency < 1 {
		c.Discovery.EnrichConcurrency = 1
	}
	if c.Places.RateLimitBurst < 1 {
		c.Places.RateLimitBurst = 1
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
