package config

import (
	"io"

	"github.com/spf13/pflag"

	"github.com/dmitrijs2005/pageprops/internal/flagx"
)

var knownFlags = []string{
	"-s", "--site",
	"-l", "--list",
	"--list-id",
	"-i", "--item",
	"-t", "--token",
	"--lock-id",
	"-m", "--mode",
	"--db",
	"--timeout",
	"--check-interval",
	"--log-level",
	"--log-format",
}

// newFlagSet binds every flag to cfg, using its current values as defaults.
func newFlagSet(cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("pageprops", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVarP(&cfg.SiteURL, "site", "s", cfg.SiteURL, "absolute url of the site")
	fs.StringVarP(&cfg.ListTitle, "list", "l", cfg.ListTitle, "title of the pages list")
	fs.StringVar(&cfg.ListID, "list-id", cfg.ListID, "id of the pages list (resolved from the title when empty)")
	fs.IntVarP(&cfg.ItemID, "item", "i", cfg.ItemID, "id of the page item to edit")
	fs.StringVarP(&cfg.AccessToken, "token", "t", cfg.AccessToken, "bearer token sent with every request")
	fs.StringVar(&cfg.SharedLockID, "lock-id", cfg.SharedLockID, "co-authoring shared lock id")
	fs.StringVarP(&cfg.Mode, "mode", "m", cfg.Mode, "submission mode: literal or native")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path of the local draft store")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "per-request timeout")
	fs.DurationVar(&cfg.OnlineCheckInterval, "check-interval", cfg.OnlineCheckInterval, "online status check interval")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json")

	return fs
}

// parseFlags populates Config fields from command-line flags. args are
// filtered with flagx.FilterArgs first so that -c/--config and flags owned by
// other components do not cause parse errors.
func parseFlags(cfg *Config, args []string) error {
	return newFlagSet(cfg).Parse(flagx.FilterArgs(args, knownFlags))
}

// Usage returns the flag help text.
func Usage() string {
	var cfg Config
	cfg.LoadDefaults()
	return "  -c, --config string     config file (YAML or JSON with comments)\n" + newFlagSet(&cfg).FlagUsages()
}
