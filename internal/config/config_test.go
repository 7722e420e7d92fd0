package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writePlan(t, `
tag: ecommerce-assistant:latest
port: 8080
env:
  FLASK_ENV: production
`)

	plan, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ecommerce-assistant:latest", plan.Tag)
	assert.Equal(t, 8080, plan.Port)
	assert.Equal(t, "production", plan.Env["FLASK_ENV"])
	// Defaults survive a partial file.
	assert.Equal(t, "1", plan.Env["PYTHONUNBUFFERED"])
	assert.Equal(t, "/app", plan.Workdir)
	assert.Equal(t, "requirements.txt", plan.Manifest)
	assert.Equal(t, []string{"python", "app.py"}, plan.Entrypoint)
}

func TestLoadEmptyFileYieldsDefaults(t *testing.T) {
	path := writePlan(t, "")

	plan, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, plan.Port)
	assert.Equal(t, "python:3.11-slim", plan.BaseImage)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writePlan(t, "dockerfile: Dockerfile\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidPlan(t *testing.T) {
	path := writePlan(t, "workdir: relative/path\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absolute")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
