package relnotes

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Commit 解析后的提交信息
type Commit struct {
	Type     string
	Scope    string
	Message  string
	Breaking bool
}

var conventionalPattern = regexp.MustCompile(
	`^(feat|fix|docs|style|refactor|perf|test|chore|ci|build|revert)(\([^)]+\))?(!)?: (.+)$`)

// CommitsSince 获取指定tag之后的提交标题，tag为空时取全部提交（正序）
func CommitsSince(tag string) ([]string, error) {
	var cmd *exec.Cmd
	if tag != "" {
		cmd = exec.Command("git", "log", "--pretty=format:%s", tag+"..HEAD")
	} else {
		cmd = exec.Command("git", "log", "--pretty=format:%s", "--reverse")
	}

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git log失败: %w", err)
	}

	var commits []string
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			commits = append(commits, line)
		}
	}
	return commits, nil
}

// Parse 解析一条约定式提交信息
func Parse(message string) Commit {
	if strings.Contains(message, "BREAKING CHANGE") {
		msg := message
		if idx := strings.Index(message, ": "); idx >= 0 {
			msg = message[idx+2:]
		}
		return Commit{Type: "breaking", Message: msg, Breaking: true}
	}

	match := conventionalPattern.FindStringSubmatch(message)
	if match == nil {
		return Commit{Type: "other", Message: message}
	}

	commit := Commit{
		Type:    match[1],
		Scope:   strings.Trim(match[2], "()"),
		Message: match[4],
	}
	// feat(scope)!: 形式的破坏性变更标记
	if match[3] == "!" {
		commit.Type = "breaking"
		commit.Breaking = true
	}
	return commit
}

// Categorize 按类型归类提交
func Categorize(messages []string) map[string][]string {
	categories := map[string][]string{
		"breaking": {},
		"feat":     {},
		"fix":      {},
		"docs":     {},
		"chore":    {},
		"other":    {},
	}

	for _, message := range messages {
		commit := Parse(message)
		switch {
		case commit.Type == "breaking":
			categories["breaking"] = append(categories["breaking"], "- **BREAKING**: "+commit.Message)
		case hasCategory(commit.Type):
			categories[commit.Type] = append(categories[commit.Type], "- "+commit.Message)
		default:
			categories["other"] = append(categories["other"], "- "+message)
		}
	}

	return categories
}

func hasCategory(kind string) bool {
	switch kind {
	case "feat", "fix", "docs", "chore":
		return true
	}
	return false
}

// RenderBody 生成release正文markdown
func RenderBody(version string, categories map[string][]string) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("## 🚀 Release v%s", version), "")

	sections := []struct {
		key     string
		heading string
	}{
		{"breaking", "### ⚠️ Breaking Changes"},
		{"feat", "### ✨ New Features"},
		{"fix", "### 🐛 Bug Fixes"},
		{"docs", "### 📚 Documentation"},
		{"chore", "### 🔧 Maintenance"},
		{"other", "### 📝 Other Changes"},
	}

	for _, section := range sections {
		entries := categories[section.key]
		if len(entries) == 0 {
			continue
		}
		lines = append(lines, section.heading)
		lines = append(lines, entries...)
		lines = append(lines, "")
	}

	lines = append(lines,
		"### 🚀 Quick Start",
		"```bash",
		"git clone https://github.com/yourusername/observer-go.git",
		"cd observer-go",
		"go run ./cmd",
		"```",
		"",
		"### 🌐 Access Points",
		"- **Application**: http://localhost:8000",
		"- **Prometheus**: http://localhost:9090",
		"- **Grafana**: http://localhost:3000 (admin/admin)",
		"",
		"---",
		"*This release was automatically generated based on conventional commits.*",
	)

	return strings.Join(lines, "\n")
}
