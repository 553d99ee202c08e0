// file: cmd/mcp-gateway/config_cmd_test.go
package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestConfigInit_CreatesFileWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	out, err := runRoot(t, "config", "init", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized at")
	assert.FileExists(t, path)
}

func TestConfigInit_RefusesToOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	_, err := runRoot(t, "config", "init", "--output", path)
	require.NoError(t, err)

	_, err = runRoot(t, "config", "init", "--output", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestConfigInit_ForceOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	_, err := runRoot(t, "config", "init", "--output", path)
	require.NoError(t, err)

	_, err = runRoot(t, "config", "init", "--output", path, "--force")
	assert.NoError(t, err)
}

func TestConfigValidate_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	_, err := runRoot(t, "config", "init", "--output", path)
	require.NoError(t, err)

	out, err := runRoot(t, "config", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "Scan rules:")
}

func TestConfigValidate_MissingFile(t *testing.T) {
	_, err := runRoot(t, "config", "validate", filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestConfigShow_PrintsConfiguredJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	_, err := runRoot(t, "config", "init", "--output", path)
	require.NoError(t, err)

	out, err := runRoot(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"logging"`)
	assert.Contains(t, out, `"scanning"`)
}
