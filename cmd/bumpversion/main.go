package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/yourusername/observer-go/internal/version"
)

func main() {
	var (
		file     = flag.String("file", version.DefaultFile, "版本文件路径")
		manifest = flag.String("manifest", "", "同步version行的manifest文件（可选）")
	)
	flag.Parse()

	kind := "patch"
	if flag.NArg() > 0 {
		kind = flag.Arg(0)
	}

	current, next, err := version.Bump(*file, kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "版本提升失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("版本已从 %s 提升到 %s\n", current, next)

	if *manifest != "" {
		if err := version.UpdateManifest(*manifest, next); err != nil {
			fmt.Fprintf(os.Stderr, "同步manifest失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("已同步 %s\n", *manifest)
	}
}
