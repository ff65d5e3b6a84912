package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yourusername/observer-go/internal/config"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		cfg := config.Get()
		origin := r.Header.Get("Origin")

		// 允许无Origin的请求（可能是非浏览器客户端）
		if origin == "" {
			return true
		}

		// 如果配置了允许的Origin列表，进行验证
		allowedOrigins := cfg.WebAllowedOrigins
		if len(allowedOrigins) > 0 {
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		}

		// 没有配置白名单时放行，生产环境建议配置WEB_ALLOWED_ORIGINS
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleWebSocket WebSocket指标推送
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warnw("WebSocket升级失败", "error", err)
		return
	}
	defer conn.Close()

	pushInterval := time.Duration(s.config.WSPushIntervalSec) * time.Second
	if pushInterval <= 0 {
		pushInterval = 5 * time.Second
	}

	// 推送循环
	ticker := time.NewTicker(pushInterval)
	defer ticker.Stop()

	// 心跳检测
	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	// 错误通道
	errChan := make(chan error, 1)

	// 读取goroutine（用于检测连接关闭）
	go func() {
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				errChan <- err
				return
			}
		}
	}()

	ctx := c.Request.Context()

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errChan:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warnw("WebSocket连接异常关闭", "error", err)
			}
			return
		case <-pingTicker.C:
			// 发送ping保持连接
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.Warnw("WebSocket ping失败", "error", err)
				return
			}
		case <-ticker.C:
			summary, err := s.metrics.Summarize()
			if err != nil {
				s.logger.Warnw("指标摘要失败", "error", err)
				continue
			}

			data := map[string]interface{}{
				"type":      "metrics",
				"metrics":   summary,
				"timestamp": time.Now().Unix(),
			}
			if err := s.sendWSMessage(conn, data); err != nil {
				return
			}
		}
	}
}

// sendWSMessage 发送WebSocket消息
func (s *Server) sendWSMessage(conn *websocket.Conn, data map[string]interface{}) error {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		s.logger.Warnw("WebSocket序列化失败", "error", err)
		return err
	}

	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, dataJSON); err != nil {
		s.logger.Warnw("WebSocket发送失败", "error", err)
		return err
	}
	return nil
}
