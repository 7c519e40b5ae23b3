// Package config loads the service settings from notes.yml, the environment and .env.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "NOTES"
	configFileName = "notes"
)

type Config struct {
	Mode  string      `mapstructure:"mode"`
	DB    DBConfig    `mapstructure:"db"`
	HTTP  HTTPConfig  `mapstructure:"http"`
	Cache CacheConfig `mapstructure:"cache"`
	Redis RedisConfig `mapstructure:"redis"`
	Kafka KafkaConfig `mapstructure:"kafka"`
	LLM   LLMConfig   `mapstructure:"llm"`
	Jobs  JobsConfig  `mapstructure:"jobs"`
	Vault VaultConfig `mapstructure:"vault"`
	Log   LogConfig   `mapstructure:"log"`
}

type DBConfig struct {
	// Driver is one of sqlite, postgres or mysql.
	Driver string `mapstructure:"driver"`
	// DSN is the connection string, for sqlite the database file.
	DSN string `mapstructure:"dsn"`
}

type HTTPConfig struct {
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type CacheConfig struct {
	// Kind is one of memory, redis or none.
	Kind        string        `mapstructure:"kind"`
	TTL         time.Duration `mapstructure:"ttl"`
	Compression string        `mapstructure:"compression"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	// Brokers is empty when events are not published.
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

type LLMConfig struct {
	// Provider is openai or dictionary.
	Provider          string        `mapstructure:"provider"`
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

type JobsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	OrphanSweep        string        `mapstructure:"orphan_sweep"`
	OrphanGrace        time.Duration `mapstructure:"orphan_grace"`
	StaleRefresh       string        `mapstructure:"stale_refresh"`
	StaleAge           time.Duration `mapstructure:"stale_age"`
	DictionaryInterval time.Duration `mapstructure:"dictionary_interval"`
}

type VaultConfig struct {
	Dir     string `mapstructure:"dir"`
	Pattern string `mapstructure:"pattern"`
	UserID  string `mapstructure:"user_id"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "development")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "notes.db")

	v.SetDefault("http.port", 4040)
	v.SetDefault("http.cors_origins", []string{"*"})

	v.SetDefault("cache.kind", "memory")
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("cache.compression", "gzip")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic", "notes.profile.events")

	v.SetDefault("llm.provider", "dictionary")
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.timeout", time.Minute)
	v.SetDefault("llm.requests_per_second", 2.0)

	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.orphan_sweep", "@every 10m")
	v.SetDefault("jobs.orphan_grace", 24*time.Hour)
	v.SetDefault("jobs.stale_refresh", "@every 15m")
	v.SetDefault("jobs.stale_age", 10*time.Minute)
	v.SetDefault("jobs.dictionary_interval", time.Minute)

	v.SetDefault("vault.dir", "vault")
	v.SetDefault("vault.pattern", "**/*.md")
	v.SetDefault("vault.user_id", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// LoadConfig reads notes.yml from the working directory or ~/.config/notes,
// then applies NOTES_* environment variables, e.g. NOTES_DB_DRIVER.
// A missing file is not an error.
func LoadConfig() (*Config, error) {
	return Load("")
}

// Load reads the settings from path, or from the default locations when path is empty.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/notes")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported db driver %q", c.DB.Driver)
	}

	switch c.Cache.Kind {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("unsupported cache kind %q", c.Cache.Kind)
	}

	switch c.LLM.Provider {
	case "openai":
		if c.LLM.APIKey == "" {
			return errors.New("llm.api_key is required for the openai provider")
		}
	case "dictionary":
	default:
		return fmt.Errorf("unsupported llm provider %q", c.LLM.Provider)
	}

	durations := []struct {
		key   string
		value time.Duration
	}{
		{"jobs.orphan_grace", c.Jobs.OrphanGrace},
		{"jobs.stale_age", c.Jobs.StaleAge},
		{"jobs.dictionary_interval", c.Jobs.DictionaryInterval},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.key, d.value)
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Mode == "production"
}
