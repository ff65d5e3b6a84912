package relnotes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseConventional(t *testing.T) {
	cases := []struct {
		message string
		want    Commit
	}{
		{"feat: add metrics endpoint", Commit{Type: "feat", Message: "add metrics endpoint"}},
		{"fix(web): handle panic in middleware", Commit{Type: "fix", Scope: "web", Message: "handle panic in middleware"}},
		{"docs: update readme", Commit{Type: "docs", Message: "update readme"}},
		{"chore(deps): bump gin", Commit{Type: "chore", Scope: "deps", Message: "bump gin"}},
		{"feat!: drop legacy endpoint", Commit{Type: "breaking", Message: "drop legacy endpoint", Breaking: true}},
		{"random commit message", Commit{Type: "other", Message: "random commit message"}},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Parse(tc.message), "message: %s", tc.message)
	}
}

func TestParseBreakingChangeFooter(t *testing.T) {
	commit := Parse("feat: new api BREAKING CHANGE drops old routes")
	assert.Equal(t, "breaking", commit.Type)
	assert.True(t, commit.Breaking)
}

func TestCategorize(t *testing.T) {
	commits := []string{
		"feat: add /simulate endpoint",
		"fix: pair gauge decrement on panic",
		"docs: add tutorial",
		"chore: tidy modules",
		"feat!: remove /legacy",
		"just some message",
	}

	categories := Categorize(commits)

	assert.Len(t, categories["feat"], 1)
	assert.Len(t, categories["fix"], 1)
	assert.Len(t, categories["docs"], 1)
	assert.Len(t, categories["chore"], 1)
	assert.Len(t, categories["breaking"], 1)
	assert.Len(t, categories["other"], 1)

	assert.Equal(t, "- **BREAKING**: remove /legacy", categories["breaking"][0])
	assert.Equal(t, "- just some message", categories["other"][0])
}

func TestRenderBody(t *testing.T) {
	categories := Categorize([]string{
		"feat: add metrics endpoint",
		"fix: handle panic",
	})

	body := RenderBody("1.2.3", categories)

	assert.Contains(t, body, "## 🚀 Release v1.2.3")
	assert.Contains(t, body, "### ✨ New Features")
	assert.Contains(t, body, "- add metrics endpoint")
	assert.Contains(t, body, "### 🐛 Bug Fixes")
	assert.Contains(t, body, "- handle panic")
	// 无破坏性变更时不输出该小节
	assert.NotContains(t, body, "Breaking Changes")
	assert.Contains(t, body, "### 🚀 Quick Start")
}
