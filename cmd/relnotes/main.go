package main

import (
	"fmt"
	"os"

	"github.com/yourusername/observer-go/internal/relnotes"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "用法: relnotes <version> [previous_tag]")
		os.Exit(1)
	}

	version := os.Args[1]
	previousTag := ""
	if len(os.Args) > 2 {
		previousTag = os.Args[2]
	}

	commits, err := relnotes.CommitsSince(previousTag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取提交失败: %v\n", err)
		os.Exit(1)
	}
	if len(commits) == 0 {
		fmt.Fprintln(os.Stderr, "没有找到提交")
		os.Exit(1)
	}

	categories := relnotes.Categorize(commits)
	body := relnotes.RenderBody(version, categories)

	// GitHub Actions多行输出格式
	fmt.Println("release_body<<EOF")
	fmt.Println(body)
	fmt.Println("EOF")
}
