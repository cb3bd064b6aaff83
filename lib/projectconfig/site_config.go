package projectconfig

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var ErrInvalidSiteConfig = errors.New("invalid site configuration")

const (
	defaultPort    = 2427
	defaultHost    = "localhost"
	defaultWorkers = 4
	maxPort        = 65535
)

// SiteConfig is the configuration of the whole installation, read from
// reviewers.yaml and REVIEWERS_* environment variables.
type SiteConfig struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Repositories RepositoriesConfig `mapstructure:"repositories"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Accounts     AccountsConfig     `mapstructure:"accounts"`
	Workers      int                `mapstructure:"workers"`

	// ExplicitlyEnableProjects makes every project disabled unless
	// projects.<name>.enabled is true.
	ExplicitlyEnableProjects bool                       `mapstructure:"explicitly_enable_projects"`
	Projects                 map[string]ProjectOverride `mapstructure:"projects"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type RepositoriesConfig struct {
	BasePath string `mapstructure:"base_path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type AccountsConfig struct {
	// CacheTTL is how long account states are kept between passes. Changes
	// made by other processes, like deactivating an account, take up to this
	// long to be seen. 0 reads them on every pass.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type ProjectOverride struct {
	Enabled      *bool `mapstructure:"enabled"`
	MaxReviewers *int  `mapstructure:"max_reviewers"`
}

// LoadSiteConfig reads the site config from path. With an empty path it looks
// for reviewers.yaml in the current dir and in ~/.reviewers, and uses only the
// defaults when there is none.
func LoadSiteConfig(path string) (*SiteConfig, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("reviewers")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.reviewers")
	}

	v.SetEnvPrefix("REVIEWERS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "error reading site config")
		}
	}

	var result SiteConfig
	err = v.Unmarshal(&result)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing site config")
	}

	err = result.validate()
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", defaultHost)
	v.SetDefault("server.port", defaultPort)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "~/.reviewers/reviewers.sqlite")

	v.SetDefault("repositories.base_path", ".")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("accounts.cache_ttl", "0s")

	v.SetDefault("workers", defaultWorkers)
	v.SetDefault("explicitly_enable_projects", false)
}

func (c *SiteConfig) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > maxPort {
		return errors.Wrapf(ErrInvalidSiteConfig, "invalid server port: %v", c.Server.Port)
	}

	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		return errors.Wrapf(ErrInvalidSiteConfig, "unknown database driver: %v", c.Database.Driver)
	}

	if c.Accounts.CacheTTL < 0 {
		return errors.Wrapf(ErrInvalidSiteConfig, "accounts.cache_ttl can't be negative: %v", c.Accounts.CacheTTL)
	}

	if c.Workers <= 0 {
		return errors.Wrapf(ErrInvalidSiteConfig, "workers must be positive: %v", c.Workers)
	}

	for name, p := range c.Projects {
		if p.MaxReviewers != nil && *p.MaxReviewers < 0 {
			return errors.Wrapf(ErrInvalidSiteConfig, "%v: max_reviewers can't be negative", name)
		}
	}

	return nil
}

func (c *SiteConfig) project(name string) (ProjectOverride, bool) {
	// viper lower cases map keys
	p, ok := c.Projects[strings.ToLower(name)]
	return p, ok
}

func (c *SiteConfig) IsProjectEnabled(name string) bool {
	p, ok := c.project(name)
	if ok && p.Enabled != nil {
		return *p.Enabled
	}

	return !c.ExplicitlyEnableProjects
}
