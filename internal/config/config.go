package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	cefierrors "github.com/wagiedev/cefi-mcp/internal/errors"
)

// EnvConfigPath is the environment variable that overrides the config path.
const EnvConfigPath = "CEFI_MCP_CONFIG"

// Default endpoint and tuning values. These point at the public NOAA PSL
// CEFI portal and work without any configuration file.
const (
	DefaultDataTreeURL = "https://psl.noaa.gov/cefi_portal/data_option_json/cefi_data_tree.json"
	DefaultTHREDDSBase = "https://psl.noaa.gov/thredds/catalog/Projects/CEFI/regional_mom6/cefi_portal/"
	DefaultOPeNDAPBase = "http://psl.noaa.gov/thredds/dodsC/Projects/CEFI/regional_mom6/cefi_portal/"

	DefaultHTTPTimeout      = 10 * time.Second
	DefaultRefreshInterval  = 6 * time.Hour
	DefaultCrawlConcurrency = 4
)

// Config holds the complete runtime configuration for the server suite.
type Config struct {
	Portal PortalConfig `toml:"portal"`
	Crawl  CrawlConfig  `toml:"crawl"`
	Log    LogConfig    `toml:"log"`
}

// PortalConfig holds the CEFI portal endpoints and catalog cache tuning.
type PortalConfig struct {
	DataTreeURL string `toml:"data_tree_url"`
	THREDDSBase string `toml:"thredds_base"`
	OPeNDAPBase string `toml:"opendap_base"`

	HTTPTimeout     duration `toml:"http_timeout"`
	RefreshInterval duration `toml:"refresh_interval"`
}

// CrawlConfig holds THREDDS crawler tuning.
type CrawlConfig struct {
	Concurrency int `toml:"concurrency"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level"`
}

// duration wraps time.Duration for TOML decoding of strings like "10s".
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}

	d.Duration = parsed

	return nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Portal: PortalConfig{
			DataTreeURL:     DefaultDataTreeURL,
			THREDDSBase:     DefaultTHREDDSBase,
			OPeNDAPBase:     DefaultOPeNDAPBase,
			HTTPTimeout:     duration{DefaultHTTPTimeout},
			RefreshInterval: duration{DefaultRefreshInterval},
		},
		Crawl: CrawlConfig{Concurrency: DefaultCrawlConcurrency},
		Log:   LogConfig{Level: "info"},
	}
}

// Path returns the configuration file path, honoring the env override.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}

	return filepath.Join(home, ".config", "cefi-mcp", "config.toml"), nil
}

// Load reads the configuration file at path, falling back to defaults for
// a missing file or absent fields.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects field values that defaulting cannot repair.
func (c *Config) validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return &cefierrors.ConfigError{
			Field:  "log.level",
			Reason: fmt.Sprintf("unknown level %q, want debug, info, warn, or error", c.Log.Level),
		}
	}

	return nil
}

// HTTPTimeout returns the configured HTTP timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return c.Portal.HTTPTimeout.Duration
}

// RefreshInterval returns the configured catalog refresh interval.
func (c *Config) RefreshInterval() time.Duration {
	return c.Portal.RefreshInterval.Duration
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	def := Default()

	if c.Portal.DataTreeURL == "" {
		c.Portal.DataTreeURL = def.Portal.DataTreeURL
	}

	if c.Portal.THREDDSBase == "" {
		c.Portal.THREDDSBase = def.Portal.THREDDSBase
	}

	if c.Portal.OPeNDAPBase == "" {
		c.Portal.OPeNDAPBase = def.Portal.OPeNDAPBase
	}

	if c.Portal.HTTPTimeout.Duration <= 0 {
		c.Portal.HTTPTimeout = def.Portal.HTTPTimeout
	}

	if c.Portal.RefreshInterval.Duration <= 0 {
		c.Portal.RefreshInterval = def.Portal.RefreshInterval
	}

	if c.Crawl.Concurrency <= 0 {
		c.Crawl.Concurrency = def.Crawl.Concurrency
	}

	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
