package projectconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "reviewers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSiteConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  driver: mysql
  dsn: user:pass@tcp(db:3306)/reviewers
repositories:
  base_path: /srv/git
workers: 8
explicitly_enable_projects: true
projects:
  MyApp:
    enabled: true
    max_reviewers: 2
`)

	c, err := LoadSiteConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, c.Server.Port)
	assert.Equal(t, "localhost", c.Server.Host)
	assert.Equal(t, "mysql", c.Database.Driver)
	assert.Equal(t, "/srv/git", c.Repositories.BasePath)
	assert.Equal(t, 8, c.Workers)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, time.Duration(0), c.Accounts.CacheTTL)
	assert.True(t, c.IsProjectEnabled("MyApp"))
	assert.True(t, c.IsProjectEnabled("myapp"))
	assert.False(t, c.IsProjectEnabled("other"))
}

func TestLoadSiteConfigEnvOverrides(t *testing.T) {
	t.Setenv("REVIEWERS_SERVER_PORT", "9100")
	t.Setenv("REVIEWERS_WORKERS", "2")

	c, err := LoadSiteConfig(writeConfig(t, "logging:\n  format: json\n"))
	require.NoError(t, err)

	assert.Equal(t, 9100, c.Server.Port)
	assert.Equal(t, 2, c.Workers)
	assert.Equal(t, "json", c.Logging.Format)
	assert.Equal(t, "sqlite", c.Database.Driver)
	assert.True(t, c.IsProjectEnabled("any"))
}

func TestLoadSiteConfigAccountCacheTTL(t *testing.T) {
	c, err := LoadSiteConfig(writeConfig(t, "accounts:\n  cache_ttl: 30s\n"))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, c.Accounts.CacheTTL)
}

func TestLoadSiteConfigValidates(t *testing.T) {
	_, err := LoadSiteConfig(writeConfig(t, "workers: 0\n"))
	assert.True(t, errors.Is(err, ErrInvalidSiteConfig))

	_, err = LoadSiteConfig(writeConfig(t, "database:\n  driver: oracle\n"))
	assert.True(t, errors.Is(err, ErrInvalidSiteConfig))

	_, err = LoadSiteConfig(writeConfig(t, "accounts:\n  cache_ttl: -1m\n"))
	assert.True(t, errors.Is(err, ErrInvalidSiteConfig))

	_, err = LoadSiteConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
