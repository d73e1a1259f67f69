package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level usermanual configuration.
type Config struct {
	Language  string    `mapstructure:"language"`
	Store     Store     `mapstructure:"store"`
	Cache     Cache     `mapstructure:"cache"`
	Narrative Narrative `mapstructure:"narrative"`
	Server    Server    `mapstructure:"server"`
	Output    Output    `mapstructure:"output"`
	Log       Log       `mapstructure:"log"`
}

// Store selects and configures the session store.
type Store struct {
	Driver        string `mapstructure:"driver"` // sqlite or mongo
	Path          string `mapstructure:"path"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
}

// Cache configures the Redis analysis cache. An empty address disables it.
type Cache struct {
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// Narrative configures the chapter writer and the Gemini client.
type Narrative struct {
	Model          string        `mapstructure:"model"`
	APIKey         string        `mapstructure:"api_key"`
	Concurrency    int           `mapstructure:"concurrency"`
	ChapterTimeout time.Duration `mapstructure:"chapter_timeout"`
}

// Server configures the REST API.
type Server struct {
	Addr      string        `mapstructure:"addr"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// Log sets the log level (debug, info, warn, error).
type Log struct {
	Level string `mapstructure:"level"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied. Environment variables
// prefixed with USERMANUAL_ override file values.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("language", DefaultLanguage)
	v.SetDefault("store.driver", DefaultStore.Driver)
	v.SetDefault("store.path", DBPath())
	v.SetDefault("store.mongo_uri", "")
	v.SetDefault("store.mongo_database", DefaultStore.MongoDatabase)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl", DefaultCache.TTL)
	v.SetDefault("narrative.model", DefaultNarrative.Model)
	v.SetDefault("narrative.api_key", "")
	v.SetDefault("narrative.concurrency", DefaultNarrative.Concurrency)
	v.SetDefault("narrative.chapter_timeout", DefaultNarrative.ChapterTimeout)
	v.SetDefault("server.addr", DefaultServer.Addr)
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.token_ttl", DefaultServer.TokenTTL)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("log.level", DefaultLogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Store.Path = expandPath(cfg.Store.Path)
	cfg.Language = strings.ToLower(strings.TrimSpace(cfg.Language))
	if cfg.Narrative.APIKey == "" {
		cfg.Narrative.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Narrative.Concurrency < 1 {
		cfg.Narrative.Concurrency = 1
	}

	return &cfg, nil
}

// DBPath returns the full path to the SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
