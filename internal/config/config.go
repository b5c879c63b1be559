package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port           string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	AutoMigrate    bool
	GinMode        string
	RedisAddr      string
	MapboxToken    string
	MapboxBaseURL  string
	TollGateFeeAED float64
	TollGatesPath  string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "freight"),
		DBPassword:     getEnv("DB_PASSWORD", "freight_secret"),
		DBName:         getEnv("DB_NAME", "freight"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		AutoMigrate:    getEnv("AUTO_MIGRATE", "false") == "true",
		GinMode:        getEnv("GIN_MODE", "debug"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		MapboxToken:    getEnv("MAPBOX_TOKEN", ""),
		MapboxBaseURL:  getEnv("MAPBOX_BASE_URL", ""),
		TollGateFeeAED: getEnvFloat("TOLL_GATE_FEE_AED", 4.0),
		TollGatesPath:  getEnv("TOLL_GATES_PATH", ""),
	}
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
