package web

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/observer-go/internal/version"
)

// handleIndex 首页，返回基础信息
func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Observer - Monitoring Practice API",
		"version": version.GetFrom(s.config.VersionFile),
		"endpoints": gin.H{
			"health":   "/health",
			"metrics":  "/metrics",
			"simulate": "/simulate",
			"error":    "/error",
		},
	})
}

// handleHealth 健康检查
func (s *Server) handleHealth(c *gin.Context) {
	payload := gin.H{
		"status":             "healthy",
		"timestamp":          time.Now().Unix(),
		"active_connections": s.metrics.InFlight(),
	}

	// 快照启用时附带Redis探测结果
	if s.redis != nil {
		if err := s.redis.Ping(c.Request.Context()).Err(); err != nil {
			payload["redis"] = "error"
		} else {
			payload["redis"] = "ok"
		}
	}

	c.JSON(http.StatusOK, payload)
}

// handleSimulate 模拟负载，随机延迟并按配置比例返回错误
func (s *Server) handleSimulate(c *gin.Context) {
	minMs := s.config.SimulateMinDelayMs
	maxMs := s.config.SimulateMaxDelayMs

	delay := time.Duration(minMs) * time.Millisecond
	if maxMs > minMs {
		delay += time.Duration(rand.Intn(maxMs-minMs)) * time.Millisecond
	}
	time.Sleep(delay)

	if rand.Float64() < s.config.SimulateErrorRate {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "simulated_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Workload simulation completed",
		"duration":  delay.Seconds(),
		"timestamp": time.Now().Unix(),
	})
}

// handleError 固定返回服务端错误，用于验证错误监控
func (s *Server) handleError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "intentional_error_for_testing",
	})
}

// handleConfig 返回当前运行配置
func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"environment": s.config.Environment,
		"log_level":   s.config.LogLevel,
		"version":     version.GetFrom(s.config.VersionFile),
	})
}

// handleTestFeature 演示端点
func (s *Server) handleTestFeature(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "This is a test feature for conventional commits!",
		"timestamp": time.Now().Format(time.RFC3339),
		"feature":   "conventional-commits-demo",
	})
}
