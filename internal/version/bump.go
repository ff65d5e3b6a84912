package version

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var manifestVersionPattern = regexp.MustCompile(`version = "([^"]*)"`)

// Bump 按语义化版本规则提升版本号并写回文件
//
// kind为major/minor/patch，低位分量归零。返回旧版本和新版本。
func Bump(path, kind string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("读取版本文件失败: %w", err)
	}

	current := strings.TrimSpace(string(data))
	parts := strings.Split(current, ".")
	if len(parts) != 3 {
		return "", "", fmt.Errorf("无效的版本格式: %s", current)
	}

	major, err1 := strconv.Atoi(parts[0])
	minor, err2 := strconv.Atoi(parts[1])
	patch, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return "", "", fmt.Errorf("无效的版本格式: %s", current)
	}

	switch kind {
	case "major":
		major++
		minor = 0
		patch = 0
	case "minor":
		minor++
		patch = 0
	case "patch":
		patch++
	default:
		return "", "", fmt.Errorf("无效的版本类型: %s（可选major/minor/patch）", kind)
	}

	next := fmt.Sprintf("%d.%d.%d", major, minor, patch)
	if err := os.WriteFile(path, []byte(next+"\n"), 0644); err != nil {
		return "", "", fmt.Errorf("写入版本文件失败: %w", err)
	}

	return current, next, nil
}

// UpdateManifest 同步manifest文件中的version = "x.y.z"行
func UpdateManifest(path, newVersion string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取manifest失败: %w", err)
	}

	content := string(data)
	if !manifestVersionPattern.MatchString(content) {
		return fmt.Errorf("manifest中未找到version行: %s", path)
	}

	updated := manifestVersionPattern.ReplaceAllString(content, fmt.Sprintf(`version = "%s"`, newVersion))
	return os.WriteFile(path, []byte(updated), 0644)
}
