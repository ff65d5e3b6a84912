package metrics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yourusername/observer-go/internal/config"
	"github.com/yourusername/observer-go/internal/utils"
)

// SaveToRedis 保存指标快照到Redis
//
// 快照是带TTL的只读视图，供仪表盘消费；进程重启后不回读。
func SaveToRedis(ctx context.Context, m *Metrics) error {
	summary, err := m.Summarize()
	if err != nil {
		return err
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	cfg := config.Get()
	ttl := time.Duration(cfg.SnapshotTTLSec) * time.Second
	if ttl <= 0 {
		ttl = 300 * time.Second // 默认5分钟
	}

	key := config.GetRedisKey("metrics:snapshot")
	return utils.GetRedisClient().Set(ctx, key, data, ttl).Err()
}

// StartCollector 启动指标快照采集器
func StartCollector(ctx context.Context, m *Metrics) {
	logger := utils.GetLogger("metrics")
	cfg := config.Get()

	interval := time.Duration(cfg.SnapshotRefreshSec) * time.Second
	if interval <= 0 {
		interval = 60 * time.Second // 默认60秒
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Infow("指标快照采集器启动", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			logger.Info("指标快照采集器停止")
			return
		case <-ticker.C:
			if err := SaveToRedis(ctx, m); err != nil {
				logger.Warnw("保存指标快照失败", "error", err)
			}
		}
	}
}
