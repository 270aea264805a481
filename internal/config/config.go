package config

import (
	"os"
	"strconv"
	"strings"
)

type RateCardServiceConfig struct {
	Port         string
	PostgresCfg  PostgresConfig
	RedisCfg     RedisConfig
	RabbitMQCfg  RabbitMQConfig
	GeminiAPICfg GeminiAPIConfig
	AdvisoryCfg  AdvisoryConfig
	QuotaCfg     QuotaConfig
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

type GeminiAPIConfig struct {
	APIKeys   []string
	FlashName string
	ProName   string
}

type AdvisoryConfig struct {
	TimeoutSeconds  int
	CacheTTLMinutes int
}

type QuotaConfig struct {
	FreeLimit       int
	StarterLimit    int
	ProLimit        int
	EnterpriseLimit int
}

func New() *RateCardServiceConfig {
	return &RateCardServiceConfig{
		Port: getEnvOrDefault("PORT", "8086"),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "ratecard"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       0,
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		GeminiAPICfg: GeminiAPIConfig{
			APIKeys:   splitKeys(getEnvOrDefault("GEMINI_KEYS", "")),
			FlashName: getEnvOrDefault("GEMINI_FLASH_MODEL", "gemini-2.5-flash"),
			ProName:   getEnvOrDefault("GEMINI_PRO_MODEL", "gemini-2.5-pro"),
		},
		AdvisoryCfg: AdvisoryConfig{
			TimeoutSeconds:  getEnvIntOrDefault("ADVISORY_TIMEOUT_SECONDS", 30),
			CacheTTLMinutes: getEnvIntOrDefault("ADVISORY_CACHE_TTL_MINUTES", 30),
		},
		QuotaCfg: QuotaConfig{
			FreeLimit:       getEnvIntOrDefault("QUOTA_FREE", 1),
			StarterLimit:    getEnvIntOrDefault("QUOTA_STARTER", 3),
			ProLimit:        getEnvIntOrDefault("QUOTA_PRO", 10),
			EnterpriseLimit: getEnvIntOrDefault("QUOTA_ENTERPRISE", -1),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func splitKeys(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}
