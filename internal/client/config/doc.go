// Package config loads runtime configuration for the pageprops CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or --config.
//  3. Command-line flags, which override earlier values.
//
// # Config file
//
// Files ending in .yaml or .yml are read as YAML; any other file is read as
// JSON, with comments and trailing commas allowed. Durations may be strings
// like "3s" or integer nanoseconds:
//
//	# pageprops.yaml
//	site_url: https://contoso.sharepoint.com/sites/news
//	list_title: Site Pages
//	item_id: 7
//	mode: literal
//	request_timeout: 15s
//	online_check_interval: 3s
//
// Call (*Config).Validate before using a loaded Config.
package config
