package version

import (
	"os"
	"strings"
)

// DefaultFile 默认版本文件
const DefaultFile = ".version"

// Get 读取当前版本，文件不存在时回退到0.0.0
func Get() string {
	return GetFrom(DefaultFile)
}

// GetFrom 从指定文件读取版本
func GetFrom(path string) string {
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "0.0.0"
	}

	v := strings.TrimSpace(string(data))
	if v == "" {
		return "0.0.0"
	}
	return v
}
