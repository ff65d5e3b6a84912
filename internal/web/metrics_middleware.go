package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// metricsMiddleware 指标收集中间件
//
// 每个进入的请求恰好记账一次：
//   - 进入时在途数+1
//   - 退出时记录请求计数、错误计数、耗时，在途数-1
//
// 所有退出路径的记账集中在一个defer里，handler panic时同样执行，
// 按500记账后把panic原样抛给外层recovery中间件，不做任何转换。
func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		s.metrics.EnterRequest()

		defer func() {
			latency := time.Since(start)
			endpoint := routeLabel(c)

			if r := recover(); r != nil {
				s.metrics.RecordRequest(method, endpoint, http.StatusInternalServerError, latency)
				s.metrics.LeaveRequest()
				panic(r)
			}

			s.metrics.RecordRequest(method, endpoint, c.Writer.Status(), latency)
			s.metrics.LeaveRequest()
		}()

		c.Next()
	}
}

// routeLabel 取路由模板作为endpoint标签，避免原始URL导致标签基数膨胀
func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	// 未匹配到路由（404等）时退回原始路径
	return c.Request.URL.Path
}
