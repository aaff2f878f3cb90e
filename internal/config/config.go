package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string `validate:"required,numeric"`
	DatabaseDSN    string `validate:"required"`
	Env            string `validate:"oneof=dev test prod"`
	LogFilePath    string
	RateLimitRPS   float64  `validate:"gte=0"`
	RateLimitBurst int      `validate:"gte=0"`
	CORSOrigins    []string `validate:"dive,url"`
	CookieSecure   bool
}

const (
	defaultPort           = "8080"
	defaultDSN            = "db/watchparty.sqlite3"
	defaultRateLimitRPS   = 20
	defaultRateLimitBurst = 40
)

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v < 0 {
		return def
	}
	return v
}

func getenvFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Load 读取环境变量；工作目录下有 .env 时先合并进来。
func Load() Config {
	_ = godotenv.Load()

	secure, _ := strconv.ParseBool(os.Getenv("COOKIE_SECURE"))
	return Config{
		Port:           getenv("APP_PORT", defaultPort),
		DatabaseDSN:    getenv("DATABASE_DSN", defaultDSN),
		Env:            getenv("APP_ENV", "dev"),
		LogFilePath:    os.Getenv("LOG_FILE_PATH"),
		RateLimitRPS:   getenvFloat("RATE_LIMIT_RPS", defaultRateLimitRPS),
		RateLimitBurst: getenvInt("RATE_LIMIT_BURST", defaultRateLimitBurst),
		CORSOrigins:    splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		CookieSecure:   secure,
	}
}

var validate = validator.New()

// Validate 校验配置，不合法时服务拒绝启动。
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
