package config

import (
	"encoding/json"
	"os"

	"github.com/avoronova/postboard-auth/internal/flagx"
	"github.com/avoronova/postboard-auth/internal/timex"
)

// JsonConfig is the DTO for the optional JSON configuration file. Interval
// fields use timex.Duration, which accepts both strings such as "15m" and
// integer nanoseconds. Values are copied into the runtime Config after
// unmarshalling.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	RedisAddr                    string         `json:"redis_addr"`
	SecretKey                    string         `json:"secret_key"`
	Algorithm                    string         `json:"algorithm"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	LoginMaxAttempts             int            `json:"login_max_attempts"`
	LoginAttemptWindow           timex.Duration `json:"login_attempt_window"`
}

// parseJson loads configuration values from the JSON file named by the
// -c or -config flags into the provided Config. When neither flag is set,
// nothing is loaded. An unreadable or invalid file panics: a server started
// with an explicit config path should not silently fall back to defaults.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.RedisAddr = c.RedisAddr
	config.SecretKey = c.SecretKey
	config.Algorithm = c.Algorithm
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	config.LoginMaxAttempts = c.LoginMaxAttempts
	config.LoginAttemptWindow = c.LoginAttemptWindow.Duration
}
