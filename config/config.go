package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// StoreBackend 遠端資料來源的實作種類
type StoreBackend string

const (
	StoreBackendREST     StoreBackend = "rest"
	StoreBackendPostgres StoreBackend = "postgres"
	StoreBackendMemory   StoreBackend = "memory"
)

type Config struct {
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Server   ServerConfig
}

// StoreConfig 遠端 store 的端點與金鑰，啟動時讀取一次
type StoreConfig struct {
	Backend StoreBackend
	URL     string
	APIKey  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type CacheConfig struct {
	StaleTime time.Duration
}

type ServerConfig struct {
	Addr     string
	LogLevel string
}

var (
	ErrMissingStoreURL    = errors.New("SUPABASE_PROJECT_URL is required for the rest store backend")
	ErrMissingStoreAPIKey = errors.New("SUPABASE_API_KEY is required for the rest store backend")
	ErrUnknownBackend     = errors.New("unknown STORE_BACKEND")
)

var AppConfig *Config

// LoadConfig 讀取 .env（若存在）與環境變數
func LoadConfig() (*Config, error) {
	// 沒有 .env 時只用環境變數，檔案存在但格式錯誤則回傳
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	redisConfig, err := GetRedisConfig()
	if err != nil {
		return nil, err
	}
	cacheConfig, err := GetCacheConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Store:    GetStoreConfig(),
		Database: GetDatabaseConfig(),
		Redis:    redisConfig,
		Cache:    cacheConfig,
		Server:   GetServerConfig(),
	}
	if err := cfg.Store.Validate(); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return AppConfig, nil
}

func LoadTestConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: StoreBackendMemory,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5433", // 測試 DB 用 5433 port
			User:     "postgres",
			Password: "postgres",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6380", // 測試 Redis 用 6380 port
			DB:   1,
		},
		Cache: CacheConfig{
			StaleTime: time.Minute,
		},
		Server: ServerConfig{
			Addr:     ":8081",
			LogLevel: "debug",
		},
	}
}

func (c StoreConfig) Validate() error {
	switch c.Backend {
	case StoreBackendREST:
		if c.URL == "" {
			return ErrMissingStoreURL
		}
		if c.APIKey == "" {
			return ErrMissingStoreAPIKey
		}
	case StoreBackendPostgres, StoreBackendMemory:
	default:
		return ErrUnknownBackend
	}
	return nil
}

func GetStoreConfig() StoreConfig {
	return StoreConfig{
		Backend: StoreBackend(getEnv("STORE_BACKEND", string(StoreBackendREST))),
		URL:     os.Getenv("SUPABASE_PROJECT_URL"),
		APIKey:  os.Getenv("SUPABASE_API_KEY"),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() (RedisConfig, error) {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return RedisConfig{}, err
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}, nil
}

func GetCacheConfig() (CacheConfig, error) {
	staleTime, err := time.ParseDuration(getEnv("CACHE_STALE_TIME", "5m"))
	if err != nil {
		return CacheConfig{}, err
	}
	return CacheConfig{StaleTime: staleTime}, nil
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Addr:     getEnv("SERVER_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
