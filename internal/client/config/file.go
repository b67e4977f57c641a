package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/pageprops/internal/flagx"
	"github.com/dmitrijs2005/pageprops/internal/timex"
)

// FileConfig is a DTO used exclusively for config file unmarshalling.
// It relies on timex.Duration so files can specify intervals either as
// strings like "3s" or as integer nanoseconds. Only keys present in the
// file override the runtime Config.
type FileConfig struct {
	SiteURL             string         `json:"site_url" yaml:"site_url"`
	ListTitle           string         `json:"list_title" yaml:"list_title"`
	ListID              string         `json:"list_id" yaml:"list_id"`
	ItemID              int            `json:"item_id" yaml:"item_id"`
	AccessToken         string         `json:"access_token" yaml:"access_token"`
	SharedLockID        string         `json:"shared_lock_id" yaml:"shared_lock_id"`
	Mode                string         `json:"mode" yaml:"mode"`
	DBPath              string         `json:"db_path" yaml:"db_path"`
	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
	LogFormat           string         `json:"log_format" yaml:"log_format"`
}

// parseFile overlays cfg with the file named by -c/--config, if any.
// Files ending in .yaml or .yml are YAML; anything else is JSON, where
// comments and trailing commas are allowed.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	fc, err := decodeFile(path, data)
	if err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	fc.apply(cfg)
	return nil
}

func decodeFile(path string, data []byte) (*FileConfig, error) {
	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), &fc); err != nil {
			return nil, err
		}
	}
	return &fc, nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.SiteURL, fc.SiteURL)
	setString(&cfg.ListTitle, fc.ListTitle)
	setString(&cfg.ListID, fc.ListID)
	setString(&cfg.AccessToken, fc.AccessToken)
	setString(&cfg.SharedLockID, fc.SharedLockID)
	setString(&cfg.Mode, fc.Mode)
	setString(&cfg.DBPath, fc.DBPath)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)

	if fc.ItemID != 0 {
		cfg.ItemID = fc.ItemID
	}
	if fc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
