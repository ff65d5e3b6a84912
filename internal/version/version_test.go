package version

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeVersionFile 写入临时版本文件
func writeVersionFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".version")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGetFrom(t *testing.T) {
	path := writeVersionFile(t, "1.2.3\n")
	assert.Equal(t, "1.2.3", GetFrom(path))
}

func TestGetFromMissingFileFallsBack(t *testing.T) {
	assert.Equal(t, "0.0.0", GetFrom(filepath.Join(t.TempDir(), "missing")))
}

func TestGetFromEmptyFileFallsBack(t *testing.T) {
	path := writeVersionFile(t, "  \n")
	assert.Equal(t, "0.0.0", GetFrom(path))
}

func TestBumpPatch(t *testing.T) {
	path := writeVersionFile(t, "1.2.3")

	current, next, err := Bump(path, "patch")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", current)
	assert.Equal(t, "1.2.4", next)
	assert.Equal(t, "1.2.4", GetFrom(path))
}

func TestBumpMinorResetsPatch(t *testing.T) {
	path := writeVersionFile(t, "1.2.3")

	_, next, err := Bump(path, "minor")
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", next)
}

func TestBumpMajorResetsMinorAndPatch(t *testing.T) {
	path := writeVersionFile(t, "1.2.3")

	_, next, err := Bump(path, "major")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", next)
}

func TestBumpRejectsInvalidKind(t *testing.T) {
	path := writeVersionFile(t, "1.2.3")

	_, _, err := Bump(path, "huge")
	assert.Error(t, err)
}

func TestBumpRejectsInvalidVersion(t *testing.T) {
	path := writeVersionFile(t, "1.2")

	_, _, err := Bump(path, "patch")
	assert.Error(t, err)
}

func TestUpdateManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.toml")
	content := "name = \"observer\"\nversion = \"1.2.3\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	require.NoError(t, UpdateManifest(path, "1.2.4"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `version = "1.2.4"`)
	assert.NotContains(t, string(data), `version = "1.2.3"`)
}

func TestUpdateManifestMissingVersionLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.toml")
	require.NoError(t, os.WriteFile(path, []byte("name = \"observer\"\n"), 0644))

	assert.Error(t, UpdateManifest(path, "1.2.4"))
}
