package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/yourusername/observer-go/internal/config"
	"github.com/yourusername/observer-go/internal/metrics"
	"github.com/yourusername/observer-go/internal/utils"
	"github.com/yourusername/observer-go/internal/version"
	"github.com/yourusername/observer-go/internal/web"
	"go.uber.org/zap"
)

func main() {
	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	// 加载配置
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 验证配置
	config.ValidateAndExit()

	cfg := config.Get()

	// 初始化日志
	if err := utils.InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := utils.GetLogger("main")
	defer utils.SyncLogger()

	logger.Infow("🚀 Observer启动",
		"version", version.GetFrom(cfg.VersionFile),
		"environment", cfg.Environment,
		"web_port", cfg.WebPort,
		"snapshot_enabled", cfg.SnapshotEnabled,
		"log_level", cfg.LogLevel,
	)

	// 进程级指标Registry，启动时创建一次并注入各组件
	m := metrics.New()

	// 创建主上下文
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// 启动Web服务
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Errorw("Web服务panic", "error", r)
			}
		}()
		runWebServer(ctx, logger, m)
	}()

	// 启动指标快照采集器（需要Redis）
	if cfg.SnapshotEnabled {
		defer utils.CloseRedisClient()

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logger.Errorw("快照采集器panic", "error", r)
				}
			}()
			metrics.StartCollector(ctx, m)
		}()
	}

	logger.Info("✅ 所有服务已启动")

	// 监听系统信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.Info("收到停止信号，正在关闭...")

	// 取消上下文，通知所有goroutine停止
	cancel()

	// 等待所有goroutine完成（带超时）
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("✅ 所有服务已停止")
	case <-shutdownCtx.Done():
		logger.Warn("⚠️  关闭超时，强制退出")
	}
}

// runWebServer 运行Web服务器
func runWebServer(ctx context.Context, logger *zap.SugaredLogger, m *metrics.Metrics) {
	server := web.NewServer(config.Get(), m)
	if err := server.Run(ctx); err != nil && err != context.Canceled {
		logger.Errorw("Web服务器错误", "error", err)
	}
}
