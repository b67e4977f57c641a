package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/pageprops/internal/codec"
)

// Config holds runtime settings for the pageprops CLI.
//
// Units: RequestTimeout and OnlineCheckInterval are time.Duration values.
type Config struct {
	SiteURL   string
	ListTitle string
	// ListID is resolved from ListTitle when empty.
	ListID       string
	ItemID       int
	AccessToken  string
	SharedLockID string
	Mode         string

	DBPath              string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ListTitle = "Site Pages"
	c.Mode = codec.StringLiteral.String()
	c.DBPath = "pageprops.db"
	c.RequestTimeout = 15 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the config file (if given with -c/--config) and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TransportMode returns the parsed submission mode.
func (c *Config) TransportMode() (codec.TransportMode, error) {
	return codec.ParseTransportMode(c.Mode)
}

// Validate reports every setting that prevents the client from starting.
func (c *Config) Validate() error {
	var errs []error

	if c.SiteURL == "" {
		errs = append(errs, errors.New("site url is required"))
	} else if u, err := url.Parse(c.SiteURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("site url %q must be an absolute http(s) url", c.SiteURL))
	}
	if c.ListTitle == "" {
		errs = append(errs, errors.New("list title is required"))
	}
	if c.ListID != "" {
		if err := uuid.Validate(c.ListID); err != nil {
			errs = append(errs, fmt.Errorf("list id %q: %w", c.ListID, err))
		}
	}
	if c.ItemID <= 0 {
		errs = append(errs, errors.New("item id must be a positive integer"))
	}
	if _, err := c.TransportMode(); err != nil {
		errs = append(errs, err)
	}
	if c.RequestTimeout < 0 || c.OnlineCheckInterval <= 0 {
		errs = append(errs, errors.New("timeout and check interval must be positive"))
	}

	return errors.Join(errs...)
}
