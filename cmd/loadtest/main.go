package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yourusername/observer-go/internal/loadgen"
)

func main() {
	var (
		baseURL       = flag.String("url", "http://localhost:8000", "服务器地址")
		mode          = flag.String("mode", "mixed", "负载模式（normal/error/burst/mixed）")
		concurrency   = flag.Int("c", 10, "并发数")
		totalRequests = flag.Int("n", 1000, "总请求数")
		duration      = flag.Duration("d", 60*time.Second, "测试持续时间")
		output        = flag.String("o", "", "输出文件（JSON格式）")
	)
	flag.Parse()

	fmt.Printf("开始负载测试...\n")
	fmt.Printf("  服务器: %s\n", *baseURL)
	fmt.Printf("  模式: %s\n", *mode)
	fmt.Printf("  并发数: %d\n", *concurrency)
	fmt.Printf("  总请求数: %d\n", *totalRequests)
	fmt.Printf("  持续时间: %v\n", *duration)
	fmt.Println()

	var results []*loadgen.Result

	if *mode == "mixed" {
		// 混合场景：正常 -> 错误 -> 突发 -> 正常
		phases := []struct {
			mode     string
			requests int
			duration time.Duration
		}{
			{"normal", *totalRequests * 3 / 10, *duration * 3 / 10},
			{"error", *totalRequests * 2 / 10, *duration * 2 / 10},
			{"burst", *totalRequests * 2 / 10, *duration / 10},
			{"normal", *totalRequests * 3 / 10, *duration * 4 / 10},
		}
		for _, phase := range phases {
			fmt.Printf(">>> 阶段: %s（%d请求，%v）\n", phase.mode, phase.requests, phase.duration)
			result := runPhase(loadgen.Config{
				BaseURL:       *baseURL,
				Mode:          phase.mode,
				Concurrency:   *concurrency,
				TotalRequests: phase.requests,
				Duration:      phase.duration,
			})
			if result != nil {
				results = append(results, result)
			}
		}
	} else {
		result := runPhase(loadgen.Config{
			BaseURL:       *baseURL,
			Mode:          *mode,
			Concurrency:   *concurrency,
			TotalRequests: *totalRequests,
			Duration:      *duration,
		})
		if result == nil {
			os.Exit(1)
		}
		results = append(results, result)
	}

	for _, result := range results {
		printResult(result)
	}

	// 保存到文件
	if *output != "" {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "序列化结果失败: %v\n", err)
			os.Exit(1)
		}

		if err := os.WriteFile(*output, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "写入文件失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\n结果已保存到: %s\n", *output)
	}
}

// runPhase 运行一个负载阶段
func runPhase(config loadgen.Config) *loadgen.Result {
	result, err := loadgen.Run(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "负载测试失败: %v\n", err)
		return nil
	}
	return result
}

// printResult 输出结果
func printResult(result *loadgen.Result) {
	fmt.Println("\n负载测试结果:")
	fmt.Printf("  总请求数: %d\n", result.TotalRequests)
	fmt.Printf("  成功请求: %d\n", result.SuccessRequests)
	fmt.Printf("  失败请求: %d\n", result.FailedRequests)
	if result.TotalRequests > 0 {
		fmt.Printf("  成功率: %.2f%%\n", float64(result.SuccessRequests)/float64(result.TotalRequests)*100)
	}
	fmt.Printf("  平均延迟: %v\n", result.AvgLatency)
	fmt.Printf("  最小延迟: %v\n", result.MinLatency)
	fmt.Printf("  最大延迟: %v\n", result.MaxLatency)
	fmt.Printf("  P50延迟: %v\n", result.P50Latency)
	fmt.Printf("  P95延迟: %v\n", result.P95Latency)
	fmt.Printf("  P99延迟: %v\n", result.P99Latency)
	fmt.Printf("  QPS: %.2f\n", result.RequestsPerSec)

	fmt.Println("  端点统计:")
	for endpoint, stats := range result.ByEndpoint {
		successRate := float64(0)
		if stats.Total > 0 {
			successRate = float64(stats.Success) / float64(stats.Total) * 100
		}
		fmt.Printf("    %s: %d请求，成功率%.1f%%\n", endpoint, stats.Total, successRate)
	}

	if len(result.Errors) > 0 {
		fmt.Printf("  错误示例（前%d个）:\n", len(result.Errors))
		for i, err := range result.Errors {
			fmt.Printf("    %d. %s\n", i+1, err)
		}
	}
}
