package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	IdentityFirebase = "firebase"
	IdentityLocal    = "local"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Store         string
	Mongo         MongoConfig
	Identity      IdentityConfig
	Notifications NotificationsConfig
	Log           LogConfig
	Avatar        AvatarConfig
}

type ServerConfig struct {
	Port         string
	CORSOrigin   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// IdentityConfig selects and configures the credential backend.
type IdentityConfig struct {
	Provider  string
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	JWTSecret string
	TokenTTL  time.Duration
}

// NotificationsConfig enables the Cassandra-backed feed when Hosts is non-empty.
type NotificationsConfig struct {
	Hosts    []string
	Keyspace string
}

type LogConfig struct {
	Level string
	File  string
}

type AvatarConfig struct {
	BaseURL string
}

// Load reads .env (when present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("READ_TIMEOUT", "10s")
	v.SetDefault("WRITE_TIMEOUT", "10s")
	v.SetDefault("STORE", StoreMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB_NAME", "taskboard")
	v.SetDefault("MONGO_CONNECT_TIMEOUT", "10s")
	v.SetDefault("IDENTITY_PROVIDER", IdentityFirebase)
	v.SetDefault("IDENTITY_BASE_URL", "https://identitytoolkit.googleapis.com")
	v.SetDefault("IDENTITY_TIMEOUT", "10s")
	v.SetDefault("TOKEN_TTL", "1h")
	v.SetDefault("CASS_KEYSPACE", "notifications")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("AVATAR_BASE_URL", "https://api.dicebear.com/7.x/adventurer/svg")
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			CORSOrigin:   v.GetString("CORS_ORIGIN"),
			ReadTimeout:  v.GetDuration("READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("WRITE_TIMEOUT"),
		},
		Store: strings.ToLower(v.GetString("STORE")),
		Mongo: MongoConfig{
			URI:            v.GetString("MONGO_URI"),
			Database:       v.GetString("MONGO_DB_NAME"),
			ConnectTimeout: v.GetDuration("MONGO_CONNECT_TIMEOUT"),
		},
		Identity: IdentityConfig{
			Provider:  strings.ToLower(v.GetString("IDENTITY_PROVIDER")),
			APIKey:    v.GetString("FIREBASE_API_KEY"),
			BaseURL:   strings.TrimRight(v.GetString("IDENTITY_BASE_URL"), "/"),
			Timeout:   v.GetDuration("IDENTITY_TIMEOUT"),
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  v.GetDuration("TOKEN_TTL"),
		},
		Notifications: NotificationsConfig{
			Hosts:    splitHosts(v.GetString("CASS_DB")),
			Keyspace: v.GetString("CASS_KEYSPACE"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			File:  v.GetString("LOG_FILE"),
		},
		Avatar: AvatarConfig{
			BaseURL: v.GetString("AVATAR_BASE_URL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitHosts(raw string) []string {
	var hosts []string
	for _, h := range strings.Split(raw, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

// Validate rejects inconsistent settings.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("SERVER_PORT is not set")
	}

	switch c.Store {
	case StoreMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return errors.New("MONGO_URI and MONGO_DB_NAME are required when STORE=mongo")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE %q", c.Store)
	}

	switch c.Identity.Provider {
	case IdentityFirebase:
		if c.Identity.APIKey == "" {
			return errors.New("FIREBASE_API_KEY is required when IDENTITY_PROVIDER=firebase")
		}
	case IdentityLocal:
		if len(c.Identity.JWTSecret) < 16 {
			return errors.New("JWT_SECRET must be at least 16 characters when IDENTITY_PROVIDER=local")
		}
	default:
		return fmt.Errorf("unknown IDENTITY_PROVIDER %q", c.Identity.Provider)
	}

	if len(c.Notifications.Hosts) > 0 && c.Notifications.Keyspace == "" {
		return errors.New("CASS_KEYSPACE is required when CASS_DB is set")
	}
	return nil
}
