package config

import (
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Build    BuildConfig    `yaml:"build" mapstructure:"build"`
	Discover DiscoverConfig `yaml:"discover" mapstructure:"discover"`
	Sites    SitesConfig    `yaml:"sites" mapstructure:"sites"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// FetchConfig configures the page fetcher.
type FetchConfig struct {
	// PolitenessDelay is the minimum gap between the end of one request and
	// the start of the next.
	PolitenessDelay time.Duration `yaml:"politeness_delay" mapstructure:"politeness_delay"`
	TimeoutSecs     int           `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxAttempts     int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	BackoffStepMs   int           `yaml:"backoff_step_ms" mapstructure:"backoff_step_ms"`
	CacheMaxEntries int           `yaml:"cache_max_entries" mapstructure:"cache_max_entries"`
	UserAgent       string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// BuildConfig configures target extraction.
type BuildConfig struct {
	MaxTargets     int  `yaml:"max_targets" mapstructure:"max_targets"`
	DropNoContact  bool `yaml:"drop_no_contact" mapstructure:"drop_no_contact"`
	FollowSubpages bool `yaml:"follow_subpages" mapstructure:"follow_subpages"`
}

// DiscoverConfig configures target discovery.
type DiscoverConfig struct {
	ExcludePaths []string `yaml:"exclude_paths" mapstructure:"exclude_paths"`
}

// SitesConfig maps host suffixes to site families.
type SitesConfig struct {
	Directory DirectorySite `yaml:"directory" mapstructure:"directory"`
	Roster    RosterSite    `yaml:"roster" mapstructure:"roster"`
	Hub       HubSite       `yaml:"hub" mapstructure:"hub"`
}

// DirectorySite configures the combined advisors/teams directory family.
type DirectorySite struct {
	Hosts []string `yaml:"hosts" mapstructure:"hosts"`
}

// RosterSite configures the fixed-path team roster family.
type RosterSite struct {
	Hosts       []string `yaml:"hosts" mapstructure:"hosts"`
	PathPattern string   `yaml:"path_pattern" mapstructure:"path_pattern"`
}

// HubSite configures the hub listing family.
type HubSite struct {
	Hosts   []string `yaml:"hosts" mapstructure:"hosts"`
	HubPath string   `yaml:"hub_path" mapstructure:"hub_path"`
}

// ExportConfig configures result files.
type ExportConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
	Schema string `yaml:"schema" mapstructure:"schema"`
	Output string `yaml:"output" mapstructure:"output"`
}

// StoreConfig configures the optional run sink.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	// MaxRequestsPerMinute caps API calls across all clients. 0 disables it.
	MaxRequestsPerMinute int `yaml:"max_requests_per_minute" mapstructure:"max_requests_per_minute"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("directory")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DIRECTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("fetch.politeness_delay", 750*time.Millisecond)
	v.SetDefault("fetch.timeout_secs", 25)
	v.SetDefault("fetch.max_attempts", 3)
	v.SetDefault("fetch.backoff_step_ms", 1000)
	v.SetDefault("fetch.cache_max_entries", 512)
	v.SetDefault("fetch.user_agent", "")
	v.SetDefault("fetch.max_body_bytes", 4<<20)
	v.SetDefault("build.max_targets", 80)
	v.SetDefault("build.drop_no_contact", false)
	v.SetDefault("build.follow_subpages", true)
	v.SetDefault("discover.exclude_paths", []string{
		"/web/montreal-*", "/*.pdf", "/*/*.pdf", "/documents/*", "/media/*", "/assets/*",
	})
	v.SetDefault("sites.directory.hosts", []string{"ca.rbcwealthmanagement.com"})
	v.SetDefault("sites.roster.hosts", []string{"nbfwm.ca"})
	v.SetDefault("sites.roster.path_pattern", `(?i)^/(en/|fr/)?advisor/[a-z0-9-]+/(our-team|notre-equipe)(\.html)?/?$`)
	v.SetDefault("sites.hub.hosts", []string{"woodgundyadvisors.cibc.com"})
	v.SetDefault("sites.hub.hub_path", "our-investment-advisors-and-their-teams")
	v.SetDefault("export.format", "csv")
	v.SetDefault("export.schema", "minimal")
	v.SetDefault("export.output", "")
	v.SetDefault("store.driver", "")
	v.SetDefault("store.database_url", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_requests_per_minute", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks option values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	var errs []string

	if c.Fetch.PolitenessDelay < 0 {
		errs = append(errs, "fetch.politeness_delay must be >= 0")
	}
	if c.Fetch.MaxAttempts < 1 {
		errs = append(errs, "fetch.max_attempts must be >= 1")
	}
	if c.Build.MaxTargets < 0 {
		errs = append(errs, "build.max_targets must be >= 0")
	}
	switch c.Export.Format {
	case "csv", "xlsx", "json":
	default:
		errs = append(errs, "export.format must be csv, xlsx or json")
	}
	switch c.Export.Schema {
	case "minimal", "extended":
	default:
		errs = append(errs, "export.schema must be minimal or extended")
	}
	switch c.Store.Driver {
	case "":
	case "sqlite", "postgres":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required when store.driver is set")
		}
	default:
		errs = append(errs, "store.driver must be empty, sqlite or postgres")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 0 and 65535")
	}
	if c.Server.MaxRequestsPerMinute < 0 {
		errs = append(errs, "server.max_requests_per_minute must be >= 0")
	}
	if c.Sites.Roster.PathPattern != "" {
		if _, err := regexp.Compile(c.Sites.Roster.PathPattern); err != nil {
			errs = append(errs, "sites.roster.path_pattern is not a valid regexp")
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
