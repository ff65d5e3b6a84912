package config

import (
	"fmt"
	"os"
	"strings"
)

// ValidateConfig 验证配置
func ValidateConfig() error {
	cfg := Get()
	var errors []string

	// 验证Web配置
	if cfg.WebPort <= 0 || cfg.WebPort > 65535 {
		errors = append(errors, fmt.Sprintf("WEB_PORT must be between 1 and 65535, got %d", cfg.WebPort))
	}

	// 验证模拟负载配置
	if cfg.SimulateMinDelayMs < 0 {
		errors = append(errors, "SIMULATE_MIN_DELAY_MS must not be negative")
	}
	if cfg.SimulateMaxDelayMs < cfg.SimulateMinDelayMs {
		errors = append(errors, fmt.Sprintf("SIMULATE_MAX_DELAY_MS must not be less than SIMULATE_MIN_DELAY_MS, got %d < %d",
			cfg.SimulateMaxDelayMs, cfg.SimulateMinDelayMs))
	}
	if cfg.SimulateErrorRate < 0 || cfg.SimulateErrorRate > 1 {
		errors = append(errors, fmt.Sprintf("SIMULATE_ERROR_RATE must be between 0 and 1, got %g", cfg.SimulateErrorRate))
	}

	// 验证快照配置（如果启用）
	if cfg.SnapshotEnabled {
		if cfg.RedisHost == "" {
			errors = append(errors, "REDIS_HOST is required when SNAPSHOT_ENABLED=true")
		}
		if cfg.RedisPort <= 0 || cfg.RedisPort > 65535 {
			errors = append(errors, fmt.Sprintf("REDIS_PORT must be between 1 and 65535, got %d", cfg.RedisPort))
		}
		if cfg.SnapshotRefreshSec <= 0 {
			errors = append(errors, "SNAPSHOT_REFRESH_SEC must be greater than 0")
		}
		if cfg.SnapshotTTLSec <= 0 {
			errors = append(errors, "SNAPSHOT_TTL_SEC must be greater than 0")
		}
	}

	// 验证WebSocket推送配置
	if cfg.WSPushIntervalSec <= 0 {
		errors = append(errors, "WS_PUSH_INTERVAL_SEC must be greater than 0")
	}

	// 验证版本文件
	if cfg.VersionFile == "" {
		errors = append(errors, "VERSION_FILE is required")
	}

	// 如果有错误，返回
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// ValidateAndExit 验证配置并在失败时退出
func ValidateAndExit() {
	if err := ValidateConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration validation failed:\n%v\n", err)
		os.Exit(1)
	}
}
