package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
)

const sampleConfig = `
openpath:
  url: https://api.openpath.example
  org_id: "42"
  email: sync@example.edu
campuscafe:
  username: reports
  columns:
    key: EMAIL
groups:
  - name: Faculty
    source: https://reports.example.edu/faculty.csv
    holds: https://reports.example.edu/faculty-holds.csv
  - name: Staff
    id: "20"
    source: ./staff.csv
concurrency: 8
timeout: 5m
metrics_file: /tmp/rostersync.prom
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), constants.FilePermissions))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rostersync.yaml", sampleConfig)
	t.Setenv("ROSTERSYNC_OPENPATH_PASSWORD", "s3cret")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, "https://api.openpath.example", cfg.Openpath.URL)
	assert.Equal(t, "42", cfg.Openpath.OrgID)
	assert.Equal(t, "s3cret", cfg.Openpath.Password, "secrets come from the environment")
	assert.Equal(t, constants.DefaultPageSize, cfg.Openpath.PageSize)
	assert.Equal(t, "reports", cfg.CampusCafe.Username)
	assert.Equal(t, "EMAIL", cfg.CampusCafe.Columns.Key)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, constants.DefaultGroupConcurrency, cfg.GroupConcurrency)
	assert.Equal(t, 5*time.Minute, cfg.Timeout)
	assert.Equal(t, "/tmp/rostersync.prom", cfg.MetricsFile)

	require.Len(t, cfg.Groups, 2)
	faculty := cfg.Groups["Faculty"]
	assert.Equal(t, "Faculty", faculty.Name, "group names keep their case")
	assert.True(t, faculty.HasHolds())
	assert.Equal(t, "20", cfg.Groups["Staff"].ID)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rostersync.yaml", sampleConfig)
	t.Setenv("ROSTERSYNC_CONCURRENCY", "2")
	t.Setenv("ROSTERSYNC_OPENPATH_ORG_ID", "7")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, "7", cfg.Openpath.OrgID)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	var cfgErr *errors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestLoadConfigRejectsBadGroups(t *testing.T) {
	tests := map[string]string{
		"duplicate":      "groups:\n  - {name: A, source: a.csv}\n  - {name: A, source: b.csv}\n",
		"missing source": "groups:\n  - {name: A}\n",
		"map form":       "groups:\n  A: {source: a.csv}\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "rostersync.yaml", content)
			_, err := LoadConfig(path)
			var cfgErr *errors.ConfigError
			assert.True(t, errors.As(err, &cfgErr), "got %v", err)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rostersync.yaml", sampleConfig)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Error(t, cfg.Validate(), "openpath password missing")

	cfg.DirectoryFixture = "directory.yaml"
	assert.NoError(t, cfg.Validate(), "a fixture directory needs no credentials")

	cfg.Groups = nil
	assert.Error(t, cfg.Validate())
}

func TestUpdateFromFlags(t *testing.T) {
	cfg := &Config{Format: "json", LogLevel: "info"}
	cfg.UpdateFromFlags(true, false, true, "", "debug")
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "debug", cfg.LogLevel)
}
