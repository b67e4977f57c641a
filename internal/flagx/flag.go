// Package flagx helps several flag consumers share one argument list.
package flagx

import (
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// Split partitions args into the allowed flags with their values and
// everything else, both in their original order.
//
// A flag's value is taken from "--flag=value" or from the following
// argument when that argument does not start with '-'. Arguments after a
// bare "--" are never treated as flags.
func Split(args []string, allowedFlags []string) (kept, rest []string) {
	allowed := make(map[string]bool, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = true
	}

	kept = []string{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			rest = append(rest, args[i:]...)
			break
		}

		name, _, hasValue := strings.Cut(arg, "=")
		if !strings.HasPrefix(arg, "-") || !allowed[name] {
			rest = append(rest, arg)
			continue
		}

		kept = append(kept, arg)
		if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			kept = append(kept, args[i])
		}
	}
	return kept, rest
}

// FilterArgs returns only the allowed flags of args, with their values.
func FilterArgs(args []string, allowedFlags []string) []string {
	kept, _ := Split(args, allowedFlags)
	return kept
}

// ConfigFile extracts the config file path given with -c or --config.
//
// Only these flags are parsed; other arguments are ignored, so the caller can
// parse its own flag set afterwards without interference. If neither flag is
// present, an empty string is returned.
func ConfigFile(args []string) string {
	var config string

	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVarP(&config, "config", "c", "", "Path to config file (YAML or JSON with comments)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "--config"}))

	return config
}
