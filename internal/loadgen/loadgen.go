package loadgen

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Config 负载测试配置
type Config struct {
	BaseURL       string
	Mode          string // normal/error/burst
	Concurrency   int
	TotalRequests int
	Duration      time.Duration
}

// EndpointStats 单端点统计
type EndpointStats struct {
	Total   int64 `json:"total"`
	Success int64 `json:"success"`
}

// Result 负载测试结果
type Result struct {
	TotalRequests   int64                     `json:"total_requests"`
	SuccessRequests int64                     `json:"success_requests"`
	FailedRequests  int64                     `json:"failed_requests"`
	MinLatency      time.Duration             `json:"min_latency"`
	MaxLatency      time.Duration             `json:"max_latency"`
	AvgLatency      time.Duration             `json:"avg_latency"`
	P50Latency      time.Duration             `json:"p50_latency"`
	P95Latency      time.Duration             `json:"p95_latency"`
	P99Latency      time.Duration             `json:"p99_latency"`
	RequestsPerSec  float64                   `json:"requests_per_sec"`
	ByEndpoint      map[string]*EndpointStats `json:"by_endpoint"`
	Errors          []string                  `json:"errors"`
}

// weightedEndpoint 按权重选择的端点
type weightedEndpoint struct {
	path   string
	weight float64
}

// 各模式的端点权重，沿用原始监控练习的流量构成
var modeEndpoints = map[string][]weightedEndpoint{
	"normal": {
		{"/", 0.2},
		{"/health", 0.3},
		{"/simulate", 0.4},
		{"/config", 0.1},
	},
	"error": {
		{"/error", 0.7},
		{"/simulate", 0.3},
	},
	"burst": {
		{"/", 1},
		{"/health", 1},
		{"/simulate", 1},
	},
}

// pickEndpoint 按模式权重随机选择端点
func pickEndpoint(mode string) string {
	endpoints, ok := modeEndpoints[mode]
	if !ok {
		endpoints = modeEndpoints["normal"]
	}

	var total float64
	for _, e := range endpoints {
		total += e.weight
	}

	r := rand.Float64() * total
	for _, e := range endpoints {
		r -= e.weight
		if r < 0 {
			return e.path
		}
	}
	return endpoints[len(endpoints)-1].path
}

// Run 运行负载测试
func Run(config Config) (*Result, error) {
	var (
		totalRequests   int64
		successRequests int64
		failedRequests  int64
		totalLatency    int64
		minLatency      = time.Duration(1 << 62)
		maxLatency      time.Duration
		latencies       []time.Duration
		byEndpoint      = make(map[string]*EndpointStats)
		errors          []string
		mu              sync.Mutex
	)

	if config.Concurrency <= 0 {
		config.Concurrency = 10
	}
	if config.TotalRequests <= 0 {
		config.TotalRequests = 1000
	}
	if config.Duration <= 0 {
		config.Duration = 60 * time.Second
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	startTime := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), config.Duration)
	defer cancel()

	var wg sync.WaitGroup

	// 启动worker
	for i := 0; i < config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				if atomic.AddInt64(&totalRequests, 1) > int64(config.TotalRequests) {
					atomic.AddInt64(&totalRequests, -1)
					return
				}

				endpoint := pickEndpoint(config.Mode)

				reqStart := time.Now()
				req, err := http.NewRequestWithContext(ctx, "GET", config.BaseURL+endpoint, nil)
				if err != nil {
					mu.Lock()
					errors = append(errors, fmt.Sprintf("创建请求失败: %v", err))
					mu.Unlock()
					atomic.AddInt64(&failedRequests, 1)
					continue
				}

				resp, err := client.Do(req)
				latency := time.Since(reqStart)

				success := false
				if err != nil {
					mu.Lock()
					errors = append(errors, fmt.Sprintf("请求失败: %v", err))
					mu.Unlock()
					atomic.AddInt64(&failedRequests, 1)
				} else {
					resp.Body.Close()
					if resp.StatusCode >= 200 && resp.StatusCode < 400 {
						success = true
						atomic.AddInt64(&successRequests, 1)
					} else {
						atomic.AddInt64(&failedRequests, 1)
						mu.Lock()
						errors = append(errors, fmt.Sprintf("HTTP %d: %s", resp.StatusCode, endpoint))
						mu.Unlock()
					}
				}

				mu.Lock()
				if latency < minLatency {
					minLatency = latency
				}
				if latency > maxLatency {
					maxLatency = latency
				}
				latencies = append(latencies, latency)
				totalLatency += int64(latency)

				stats := byEndpoint[endpoint]
				if stats == nil {
					stats = &EndpointStats{}
					byEndpoint[endpoint] = stats
				}
				stats.Total++
				if success {
					stats.Success++
				}
				mu.Unlock()

				// burst模式不限速，其他模式按并发均摊节奏
				if config.Mode != "burst" {
					time.Sleep(time.Duration(rand.Intn(50)) * time.Millisecond)
				}
			}
		}()
	}

	wg.Wait()
	duration := time.Since(startTime)

	mu.Lock()
	defer mu.Unlock()

	if len(latencies) == 0 {
		return nil, fmt.Errorf("没有收集到延迟数据")
	}

	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	avgLatency := time.Duration(totalLatency) / time.Duration(len(latencies))
	p50 := sorted[len(sorted)*50/100]
	p95 := sorted[len(sorted)*95/100]
	p99 := sorted[len(sorted)*99/100]

	maxErrors := len(errors)
	if maxErrors > 10 {
		maxErrors = 10 // 只保留前10个错误
	}

	return &Result{
		TotalRequests:   totalRequests,
		SuccessRequests: successRequests,
		FailedRequests:  failedRequests,
		MinLatency:      minLatency,
		MaxLatency:      maxLatency,
		AvgLatency:      avgLatency,
		P50Latency:      p50,
		P95Latency:      p95,
		P99Latency:      p99,
		RequestsPerSec:  float64(totalRequests) / duration.Seconds(),
		ByEndpoint:      byEndpoint,
		Errors:          errors[:maxErrors],
	}, nil
}
