package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		start       Config
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-d", "a.db", "-m", "grpc", "-r", "dsn", "-a", "127.0.0.1:9090", "-k", "key",
				"-t", "5", "-i", "30", "-o", "out", "-l", "debug"},
			expected: &Config{
				DatabasePath:        "a.db",
				RemoteMode:          "grpc",
				RemoteDSN:           "dsn",
				RemoteEndpoint:      "127.0.0.1:9090",
				AnonKey:             "key",
				RemoteTimeout:       5 * time.Second,
				OnlineCheckInterval: 30 * time.Second,
				ReportDir:           "out",
				LogLevel:            "debug",
			},
		},
		{
			name:     "unset durations are kept",
			start:    Config{RemoteTimeout: 500 * time.Millisecond},
			args:     []string{"-m", "off"},
			expected: &Config{RemoteMode: "off", RemoteTimeout: 500 * time.Millisecond},
		},
		{name: "incorrect check interval", args: []string{"-i", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t, tt.args...)

			config := &tt.start
			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
