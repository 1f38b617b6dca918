package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Dashboard.GapThreshold)
	assert.Equal(t, "epoch_ms", cfg.Dashboard.TimeEncoding)
	assert.Equal(t, "light", cfg.Dashboard.Theme)
	assert.Equal(t, 10, cfg.Dashboard.TopTradersLimit)
	assert.Equal(t, 60*time.Second, cfg.Database.CacheTTL)
	assert.NoError(t, cfg.validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid default",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero gap threshold",
			mutate:  func(c *Config) { c.Dashboard.GapThreshold = 0 },
			wantErr: "gap threshold",
		},
		{
			name:    "unknown time encoding",
			mutate:  func(c *Config) { c.Dashboard.TimeEncoding = "unix_ns" },
			wantErr: "invalid time encoding",
		},
		{
			name:    "unknown theme",
			mutate:  func(c *Config) { c.Dashboard.Theme = "solarized" },
			wantErr: "invalid theme",
		},
		{
			name:    "no allowed origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: "allowed origin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMergeConfigs(t *testing.T) {
	fileCfg := Config{}
	fileCfg.Server.Port = 9090
	fileCfg.Database.DSN = "postgres://file"
	fileCfg.Dashboard.TimeEncoding = "iso8601"

	envCfg := Config{}
	envCfg.Database.DSN = "postgres://env"

	merged := mergeConfigs(fileCfg, envCfg)

	// env wins where set, file fills the gaps
	assert.Equal(t, "postgres://env", merged.Database.DSN)
	assert.Equal(t, 9090, merged.Server.Port)
	assert.Equal(t, "iso8601", merged.Dashboard.TimeEncoding)
}
