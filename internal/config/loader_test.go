package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_ReadsYAMLAndAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
vantage:
  url: http://vantage.example.org
  port: 5000
  username: researcher
  password: secret
collaboration:
  id: 7
  organization_ids: [2, 3, 5]
workflows:
  statistics:
    cutoff: 365
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://vantage.example.org", cfg.Vantage.URL)
	assert.Equal(t, 7, cfg.Collaboration.ID)
	assert.Equal(t, []int{2, 3, 5}, cfg.Collaboration.OrganizationIDs)
	assert.Equal(t, 365, cfg.Workflows.Statistics.Cutoff)
	// Defaults filled in for unset fields.
	assert.Equal(t, DefaultDelta, cfg.Workflows.Statistics.Delta)
	assert.Equal(t, "/api", cfg.Vantage.APIPath)
	assert.Equal(t, "enumeration", cfg.Staging.Policy)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidConfigFails(t *testing.T) {
	path := writeTempConfig(t, `
vantage:
  url: http://vantage.example.org
  port: 5000
collaboration:
  id: 1
  organization_ids: [2]
staging:
  policy: neither
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_EnvOverridesFileKeys(t *testing.T) {
	path := writeTempConfig(t, `
vantage:
  url: http://file.example.org
  port: 5000
collaboration:
  id: 1
  organization_ids: [2, 3]
`)
	t.Setenv("HEALTHAI_VANTAGE_URL", "http://env.example.org")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example.org", cfg.Vantage.URL)
}

func TestLoadFromEnv_MissingRequiredFails(t *testing.T) {
	// Without a file, required gateway settings are absent and validation
	// rejects the result.
	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "absent.yaml"))
	})
}

//Personal.AI order the ending
