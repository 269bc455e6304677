package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DB    DBConfig
	Redis RedisConfig

	JWTSecret string        // JWT署名シークレット
	TokenTTL  time.Duration // アクセストークンの有効期限（24h）

	LoginRateLimit string   // ulule形式（"10-M"）
	CORSOrigins    []string // 許可するオリジン
	LogLevel       string   // debug/info/warn/error

	Seed              bool   // 初期データ投入
	SeedAdminPassword string // 初期adminのパスワード
}

type DBConfig struct {
	Driver   string // postgres/mysql
	URL      string // DATABASE_URLがあれば最優先
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Hostが空ならRedisは使わない
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// .envを読んでから環境変数をConfigに詰める
func Load() (Config, error) {
	// .envが無いのは正常（本番は環境変数のみ）
	_ = godotenv.Load()
	return FromEnv()
}

// 環境変数だけから組み立てる
func FromEnv() (Config, error) {
	redisDB, err := atoiDefault("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}

	ttl, err := durationDefault("TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}

	seed, err := boolDefault("SEED", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "8080"),

		DB: DBConfig{
			Driver:   strings.ToLower(getenv("DB_DRIVER", "postgres")),
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getenv("DB_HOST", "localhost"),
			Port:     os.Getenv("DB_PORT"),
			User:     getenv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getenv("DB_NAME", "smart_cashier"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},

		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getenv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  ttl,

		LoginRateLimit: getenv("LOGIN_RATE_LIMIT", "10-M"),
		CORSOrigins:    splitList(os.Getenv("CORS_ORIGINS")),
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),

		Seed:              seed,
		SeedAdminPassword: getenv("SEED_ADMIN_PASSWORD", "admin123"),
	}

	//ドライバごとのデフォルトポート
	if cfg.DB.Port == "" {
		cfg.DB.Port = "5432"
		if cfg.DB.Driver == "mysql" {
			cfg.DB.Port = "3306"
		}
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.DB.Driver {
	case "postgres", "mysql":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres or mysql: %q", cfg.DB.Driver)
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("TOKEN_TTL must be positive")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func boolDefault(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be bool: %w", key, err)
	}
	return b, nil
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
