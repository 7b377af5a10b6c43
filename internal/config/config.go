package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション設定を表す
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Selection SelectionConfig
	Metrics   MetricsConfig
}

// AppConfig はアプリケーション全体の設定
type AppConfig struct {
	Env        string
	SeedSample bool
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AllowOrigins []string
}

// StoreDriver は予約の保存先
type StoreDriver string

const (
	StoreMemory   StoreDriver = "memory"
	StorePostgres StoreDriver = "postgres"
)

// StoreConfig は予約ストアの設定
type StoreConfig struct {
	Driver         StoreDriver
	MigrationsPath string
}

// DatabaseConfig はデータベース設定
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig はRedis設定
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	// 使用中座席キャッシュの有効期限
	OccupancyTTL time.Duration
}

// SelectionConfig は座席選択セッションの設定
type SelectionConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// MetricsConfig は /metrics の Basic 認証設定（両方空なら認証なし）
type MetricsConfig struct {
	User     string
	Password string
}

// AuthEnabled は認証が有効かどうかを返す
func (c MetricsConfig) AuthEnabled() bool {
	return c.User != "" && c.Password != ""
}

// LoadDotEnv は .env ファイルがあれば環境変数に読み込む（既存の環境変数は上書きしない）
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// Load は環境変数から設定を読み込む
func Load() *Config {
	cfg := &Config{
		App: AppConfig{
			Env:        getEnv("APP_ENV", "development"),
			SeedSample: getBoolEnv("SEED_SAMPLE", false),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			AllowOrigins: getListEnv("CORS_ALLOW_ORIGINS", []string{"*"}),
		},
		Store: StoreConfig{
			Driver:         StoreDriver(getEnv("STORE_DRIVER", string(StoreMemory))),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "restaurant_reservation"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),

			OccupancyTTL: getDurationEnv("REDIS_OCCUPANCY_TTL", 30*time.Second),
		},
		Selection: SelectionConfig{
			IdleTTL:       getDurationEnv("SELECTION_IDLE_TTL", 10*time.Minute),
			SweepInterval: getDurationEnv("SELECTION_SWEEP_INTERVAL", time.Minute),
		},
		Metrics: MetricsConfig{
			User:     os.Getenv("METRICS_USER"),
			Password: os.Getenv("METRICS_PASSWORD"),
		},
	}

	// DATABASE_URL が設定されていれば個別設定より優先する
	if raw := os.Getenv("DATABASE_URL"); raw != "" {
		applyDatabaseURL(&cfg.Database, raw)
	}
	if raw := os.Getenv("REDIS_URL"); raw != "" {
		applyRedisURL(&cfg.Redis, raw)
	}

	return cfg
}

// DSN はPostgreSQL接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func applyDatabaseURL(c *DatabaseConfig, raw string) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return
	}
	c.Host = u.Hostname()
	if p := u.Port(); p != "" {
		c.Port = p
	}
	if u.User != nil {
		c.User = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			c.Password = pw
		}
	}
	if name := trimSlash(u.Path); name != "" {
		c.DBName = name
	}
	// マネージドDBはSSL前提のためデフォルトで require
	c.SSLMode = "require"
	if mode := u.Query().Get("sslmode"); mode != "" {
		c.SSLMode = mode
	}
}

func applyRedisURL(c *RedisConfig, raw string) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return
	}
	c.Enabled = true
	c.Host = u.Hostname()
	if p := u.Port(); p != "" {
		c.Port = p
	}
	if u.User != nil {
		if pw, ok := u.User.Password(); ok {
			c.Password = pw
		}
	}
}

func trimSlash(p string) string {
	for len(p) > 0 && p[0] == '/' {
		p = p[1:]
	}
	return p
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getListEnv はカンマ区切りの環境変数を読み込む（空要素は除く）
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
