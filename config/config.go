package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config 从环境变量读取
type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisAddr string
	RedisPwd  string

	ServerPort string
	WebOrigin  string
	SessionTTL time.Duration

	// 首个管理员账号（仅当库里还没有 ADMIN 时使用）
	BootstrapEmail    string
	BootstrapName     string
	BootstrapPassword string
}

func Load() Config {
	_ = godotenv.Load()

	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}

	ttl := 24 * time.Hour
	if d, err := time.ParseDuration(get("SESSION_TTL_SECONDS", "86400") + "s"); err == nil {
		ttl = d
	}

	return Config{
		DBHost:     get("DB_HOST", "127.0.0.1"),
		DBUser:     get("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     get("DB_NAME", "assetdesk"),
		DBPort:     get("DB_PORT", "5432"),

		RedisAddr: get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:  os.Getenv("REDIS_PASSWORD"),

		ServerPort: get("PORT", "3001"),
		WebOrigin:  get("WEB_ORIGIN", "http://localhost:3000"),
		SessionTTL: ttl,

		BootstrapEmail:    get("BOOTSTRAP_ADMIN_EMAIL", "admin@example.com"),
		BootstrapName:     get("BOOTSTRAP_ADMIN_NAME", "Admin"),
		BootstrapPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
	}
}

func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}
