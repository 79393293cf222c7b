package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-e", "redis:6379", "-s", "secret", "-m", "HS512",
			"-t", "20", "-r", "7", "-l", "5", "-w", "30",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddrHTTP:             "127.0.0.1:9090",
				DatabaseDSN:                  "db",
				RedisAddr:                    "redis:6379",
				SecretKey:                    "secret",
				Algorithm:                    "HS512",
				AccessTokenValidityDuration:  20 * time.Minute,
				RefreshTokenValidityDuration: 7 * 24 * time.Hour,
				LoginMaxAttempts:             5,
				LoginAttemptWindow:           30 * time.Second,
			}},
		{name: "Test2 defaults survive absent flags", args: []string{"cmd", "-a", ":9000"},
			expectPanic: false,
			expected: &Config{
				EndpointAddrHTTP: ":9000",
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {

				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
