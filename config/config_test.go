package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	v := newViper()
	v.Set("FIREBASE_API_KEY", "test-key")

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, StoreMongo, cfg.Store)
	assert.Equal(t, "taskboard", cfg.Mongo.Database)
	assert.Equal(t, IdentityFirebase, cfg.Identity.Provider)
	assert.Equal(t, "https://identitytoolkit.googleapis.com", cfg.Identity.BaseURL)
	assert.Equal(t, time.Hour, cfg.Identity.TokenTTL)
	assert.Empty(t, cfg.Notifications.Hosts)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestFromViperOverrides(t *testing.T) {
	v := newViper()
	v.Set("STORE", "MEMORY")
	v.Set("IDENTITY_PROVIDER", "local")
	v.Set("JWT_SECRET", "0123456789abcdef0123")
	v.Set("TOKEN_TTL", "15m")
	v.Set("CASS_DB", " cass-1 , cass-2,, ")
	v.Set("IDENTITY_BASE_URL", "http://localhost:9099/")

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, IdentityLocal, cfg.Identity.Provider)
	assert.Equal(t, 15*time.Minute, cfg.Identity.TokenTTL)
	assert.Equal(t, []string{"cass-1", "cass-2"}, cfg.Notifications.Hosts)
	assert.Equal(t, "http://localhost:9099", cfg.Identity.BaseURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing firebase key",
			mutate:  func(c *Config) { c.Identity.APIKey = "" },
			wantErr: "FIREBASE_API_KEY is required",
		},
		{
			name: "short jwt secret",
			mutate: func(c *Config) {
				c.Identity.Provider = IdentityLocal
				c.Identity.JWTSecret = "short"
			},
			wantErr: "JWT_SECRET must be at least 16 characters",
		},
		{
			name:    "unknown store",
			mutate:  func(c *Config) { c.Store = "sqlite" },
			wantErr: `unknown STORE "sqlite"`,
		},
		{
			name:    "unknown identity provider",
			mutate:  func(c *Config) { c.Identity.Provider = "ldap" },
			wantErr: `unknown IDENTITY_PROVIDER "ldap"`,
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: "SERVER_PORT is not set",
		},
		{
			name: "cassandra without keyspace",
			mutate: func(c *Config) {
				c.Notifications.Hosts = []string{"cass-1"}
				c.Notifications.Keyspace = ""
			},
			wantErr: "CASS_KEYSPACE is required",
		},
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server:   ServerConfig{Port: "8080"},
				Store:    StoreMongo,
				Mongo:    MongoConfig{URI: "mongodb://localhost:27017", Database: "taskboard"},
				Identity: IdentityConfig{Provider: IdentityFirebase, APIKey: "key"},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
