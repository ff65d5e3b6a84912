package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yourusername/observer-go/internal/config"
	"github.com/yourusername/observer-go/internal/metrics"
	"github.com/yourusername/observer-go/internal/utils"
	"go.uber.org/zap"
)

// Server Web服务器
type Server struct {
	engine  *gin.Engine
	config  *config.Config
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics
	redis   utils.RedisClient
}

// NewServer 创建Web服务器
//
// 指标集合由调用方注入，测试可以为每个实例构造隔离的Registry。
func NewServer(cfg *config.Config, m *metrics.Metrics) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:  gin.New(),
		config:  cfg,
		logger:  utils.GetLogger("web"),
		metrics: m,
	}
	if cfg.SnapshotEnabled {
		s.redis = utils.GetRedisClient()
	}
	s.setupRoutes()
	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 中间件顺序：recovery最外层，metrics最内层
	// handler panic先经metrics记账再由recovery生成响应
	s.engine.Use(s.recoveryMiddleware())
	s.engine.Use(s.loggerMiddleware())
	s.engine.Use(s.metricsMiddleware())

	// 首页
	s.engine.GET("/", s.handleIndex)

	// 健康检查
	s.engine.GET("/health", s.handleHealth)

	// Prometheus指标暴露
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
		s.metrics.Registry(),
		promhttp.HandlerOpts{},
	)))

	// 负载模拟
	s.engine.GET("/simulate", s.handleSimulate)

	// 错误触发
	s.engine.GET("/error", s.handleError)

	// 配置查询
	s.engine.GET("/config", s.handleConfig)

	// 演示端点
	s.engine.GET("/test-feature", s.handleTestFeature)

	// WebSocket指标推送
	s.engine.GET("/ws", s.handleWebSocket)

	// 预置各路由的错误计数，保证首次抓取就能看到http_errors_total
	for _, route := range s.engine.Routes() {
		s.metrics.SeedEndpoint(route.Path)
	}
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context) error {
	port := s.config.WebPort
	if port <= 0 {
		port = 8000
	}

	addr := fmt.Sprintf(":%d", port)
	s.logger.Infow("Web服务器启动", "addr", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 优雅关闭
	go func() {
		<-ctx.Done()
		s.logger.Info("Web服务器正在关闭...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// recoveryMiddleware 恢复中间件
func (s *Server) recoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Errorw("请求处理panic",
					"error", err,
					"path", c.Request.URL.Path,
				)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "internal_server_error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggerMiddleware 日志中间件
func (s *Server) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if status >= 500 {
			s.logger.Warnw("HTTP请求",
				"status", status,
				"method", c.Request.Method,
				"path", path,
				"latency", latency,
				"ip", c.ClientIP(),
			)
		}
	}
}
