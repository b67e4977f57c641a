package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var configFlags = []string{"-c", "--config"}

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		allowed  []string
		wantKept []string
		wantRest []string
	}{
		{
			name:     "separate value",
			args:     []string{"-c", "pageprops.yaml", "-s", "https://contoso"},
			allowed:  configFlags,
			wantKept: []string{"-c", "pageprops.yaml"},
			wantRest: []string{"-s", "https://contoso"},
		},
		{
			name:     "equals form keeps dashes in value",
			args:     []string{"--config=--odd.json", "-i", "7"},
			allowed:  configFlags,
			wantKept: []string{"--config=--odd.json"},
			wantRest: []string{"-i", "7"},
		},
		{
			name:     "next flag is not a value",
			args:     []string{"-c", "--config=alt.json"},
			allowed:  configFlags,
			wantKept: []string{"-c", "--config=alt.json"},
		},
		{
			name:     "trailing flag without value",
			args:     []string{"-i", "7", "-c"},
			allowed:  configFlags,
			wantKept: []string{"-c"},
			wantRest: []string{"-i", "7"},
		},
		{
			name:     "repeated flag keeps order",
			args:     []string{"-c", "one.json", "--config", "two.json"},
			allowed:  configFlags,
			wantKept: []string{"-c", "one.json", "--config", "two.json"},
		},
		{
			name:     "positional args go to rest",
			args:     []string{"edit", "-m", "native", "now"},
			allowed:  []string{"-m", "--mode"},
			wantKept: []string{"-m", "native"},
			wantRest: []string{"edit", "now"},
		},
		{
			name:     "double dash ends flag parsing",
			args:     []string{"-m", "native", "--", "-c", "x.yaml"},
			allowed:  []string{"-m", "-c"},
			wantKept: []string{"-m", "native"},
			wantRest: []string{"--", "-c", "x.yaml"},
		},
		{
			name:     "empty",
			args:     nil,
			allowed:  configFlags,
			wantKept: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, rest := Split(tt.args, tt.allowed)
			assert.Equal(t, tt.wantKept, kept)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestFilterArgs(t *testing.T) {
	got := FilterArgs([]string{"-x", "1", "--token=abc", "-c", "a.yaml"}, []string{"--token", "-c"})
	assert.Equal(t, []string{"--token=abc", "-c", "a.yaml"}, got)

	assert.Equal(t, []string{}, FilterArgs([]string{"-x", "1"}, configFlags))
}

func TestConfigFile(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short -c with value", []string{"-c", "/path/short.yaml"}, "/path/short.yaml"},
		{"long --config with equals", []string{"--config=/path/long.json"}, "/path/long.json"},
		{"mixed with other flags", []string{"-s", "https://contoso", "--config", "a.yaml", "-i", "7"}, "a.yaml"},
		{"unknown flags are ignored", []string{"-x", "1", "--y", "2"}, ""},
		{"last wins", []string{"-c", "/path/1.yaml", "--config", "/path/2.yaml"}, "/path/2.yaml"},
		{"missing value", []string{"-c"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigFile(tt.args))
		})
	}
}
