package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config 配置结构体
type Config struct {
	// 运行环境
	Environment string

	// Web配置
	WebPort           int
	WebAllowedOrigins []string

	// 模拟负载配置
	SimulateMinDelayMs int
	SimulateMaxDelayMs int
	SimulateErrorRate  float64

	// 指标快照配置（可选，需要Redis）
	SnapshotEnabled    bool
	SnapshotRefreshSec int
	SnapshotTTLSec     int

	// Redis配置
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// WebSocket推送配置
	WSPushIntervalSec int

	// 版本文件
	VersionFile string

	// 日志配置
	LogLevel string
}

var globalConfig *Config

// Load 加载配置
func Load() error {
	_ = godotenv.Load()

	globalConfig = &Config{
		Environment: strings.ToLower(getEnv("ENVIRONMENT", "development")),

		WebPort:           getIntEnv("WEB_PORT", 8000),
		WebAllowedOrigins: parseStringList(getEnv("WEB_ALLOWED_ORIGINS", "")),

		SimulateMinDelayMs: getIntEnv("SIMULATE_MIN_DELAY_MS", 100),
		SimulateMaxDelayMs: getIntEnv("SIMULATE_MAX_DELAY_MS", 500),
		SimulateErrorRate:  getFloatEnv("SIMULATE_ERROR_RATE", 0.1),

		SnapshotEnabled:    getBoolEnv("SNAPSHOT_ENABLED", false),
		SnapshotRefreshSec: getIntEnv("SNAPSHOT_REFRESH_SEC", 60),
		SnapshotTTLSec:     getIntEnv("SNAPSHOT_TTL_SEC", 300),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getIntEnv("REDIS_PORT", 6379),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		WSPushIntervalSec: getIntEnv("WS_PUSH_INTERVAL_SEC", 5),

		VersionFile: getEnv("VERSION_FILE", ".version"),

		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}

	return nil
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		_ = Load()
	}
	return globalConfig
}

// GetRedisKey 生成Redis键名
func GetRedisKey(name string) string {
	return "observer:" + name
}

// 辅助函数
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		value = strings.TrimSpace(value)
		if value == "" {
			return defaultValue
		}
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		value = strings.TrimSpace(value)
		if value == "" {
			return defaultValue
		}
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		value = strings.TrimSpace(value)
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func parseStringList(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
