package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/rostersync/internal/campuscafe"
	"github.com/agentstation/rostersync/internal/openpath"
	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/identity"
	"github.com/agentstation/rostersync/pkg/roster"
)

// envPrefix is prepended to every environment variable, e.g.
// ROSTERSYNC_OPENPATH_PASSWORD.
var envPrefix = strings.ToUpper(constants.AppName)

// Config holds the application configuration loaded from the config file,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	// Directory and record system
	Openpath   openpath.Config
	CampusCafe campuscafe.Config

	// DirectoryFixture, when set, replaces Openpath with an in-memory
	// directory loaded from this YAML file.
	DirectoryFixture string

	Groups identity.Groups

	// Sync settings
	Concurrency      int
	GroupConcurrency int
	Timeout          time.Duration
	MetricsFile      string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied by the commands)
//  2. Environment variables (ROSTERSYNC_*)
//  3. .env files
//  4. Config file (--config, ./rostersync.yaml or ~/rostersync.yaml)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(constants.AppName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "reading "+configFileName(configFile), err)
		}
	}

	config := &Config{
		Verbose:    v.GetBool("verbose"),
		Quiet:      v.GetBool("quiet"),
		NoColor:    v.GetBool("no_color"),
		Format:     v.GetString("format"),
		ConfigFile: v.ConfigFileUsed(),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),

		Openpath: openpath.Config{
			URL:      v.GetString("openpath.url"),
			OrgID:    v.GetString("openpath.org_id"),
			Email:    v.GetString("openpath.email"),
			Password: v.GetString("openpath.password"),
			PageSize: v.GetInt("openpath.page_size"),
		},
		CampusCafe: campuscafe.Config{
			Username: v.GetString("campuscafe.username"),
			Password: v.GetString("campuscafe.password"),
			Columns: roster.Columns{
				Key:         v.GetString("campuscafe.columns.key"),
				SecondaryID: v.GetString("campuscafe.columns.secondary_id"),
				FirstName:   v.GetString("campuscafe.columns.first_name"),
				LastName:    v.GetString("campuscafe.columns.last_name"),
			},
		},
		DirectoryFixture: v.GetString("directory_fixture"),

		Concurrency:      v.GetInt("concurrency"),
		GroupConcurrency: v.GetInt("group_concurrency"),
		Timeout:          v.GetDuration("timeout"),
		MetricsFile:      v.GetString("metrics_file"),
	}

	groups, err := loadGroups(v)
	if err != nil {
		return nil, err
	}
	config.Groups = groups

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("concurrency", constants.DefaultConcurrency)
	v.SetDefault("group_concurrency", constants.DefaultGroupConcurrency)
	v.SetDefault("openpath.page_size", constants.DefaultPageSize)
}

// loadGroups reads the groups list. Viper folds map keys to lower case, and
// group names are matched exactly against the directory, so groups are a
// list with an explicit name rather than a map keyed by name.
func loadGroups(v *viper.Viper) (identity.Groups, error) {
	var list []identity.GroupConfig
	if err := v.UnmarshalKey("groups", &list); err != nil {
		return nil, errors.NewConfigError("groups", "groups must be a list of {name, source, holds, id}", err)
	}
	groups := make(identity.Groups, len(list))
	for _, g := range list {
		if err := g.Validate(); err != nil {
			return nil, errors.NewConfigError("groups", err.Error(), err)
		}
		if _, dup := groups[g.Name]; dup {
			return nil, errors.NewConfigError("groups", "group "+g.Name+" is configured twice", nil)
		}
		groups[g.Name] = g
	}
	return groups, nil
}

// Validate checks the settings a sync needs before any network call.
func (c *Config) Validate() error {
	if len(c.Groups) == 0 {
		return errors.NewConfigError("groups", "no groups configured", nil)
	}
	if c.DirectoryFixture == "" {
		if err := c.Openpath.Validate(); err != nil {
			return err
		}
	}
	return c.CampusCafe.Validate()
}

// UpdateFromFlags updates config values from parsed command flags so that
// flag values take precedence over the config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads .env then .env.local; existing variables are kept.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

func configFileName(configFile string) string {
	if configFile != "" {
		return configFile
	}
	return constants.AppName + " config"
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
