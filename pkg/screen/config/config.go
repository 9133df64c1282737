package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/komsit37/screen/pkg/screen/rules"
)

const (
	EnvPrefix = "SCREEN"
	// APIKeyEnv is read when data_fetching.api_key is not set.
	APIKeyEnv = "FINNHUB_API_KEY"

	QuoteSourceFinnhub = "finnhub"
	QuoteSourceYahoo   = "yahoo"
)

type Config struct {
	DataFetching DataFetching         `mapstructure:"data_fetching" yaml:"data_fetching"`
	Analysis     rules.AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Cache        Cache                `mapstructure:"cache" yaml:"cache"`
	Output       Output               `mapstructure:"output" yaml:"output"`
	Log          Log                  `mapstructure:"log" yaml:"log"`
}

type DataFetching struct {
	APIKey               string   `mapstructure:"api_key" yaml:"api_key"`
	MaxAPICallsPerMinute int      `mapstructure:"max_api_calls_per_minute" yaml:"max_api_calls_per_minute"`
	Exchanges            []string `mapstructure:"exchanges" yaml:"exchanges"`
	// Workers is the pool size; 0 derives it from MaxAPICallsPerMinute.
	Workers     int           `mapstructure:"workers" yaml:"workers"`
	QuoteSource string        `mapstructure:"quote_source" yaml:"quote_source"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type Cache struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	Dir     string        `mapstructure:"dir" yaml:"dir"`
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

type Output struct {
	Format      string   `mapstructure:"format" yaml:"format"`
	Columns     []string `mapstructure:"columns" yaml:"columns"`
	Dir         string   `mapstructure:"dir" yaml:"dir"`
	Color       bool     `mapstructure:"color" yaml:"color"`
	MaxColWidth int      `mapstructure:"max_col_width" yaml:"max_col_width"`
}

type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the built-in configuration. Finnhub's free tier allows
// 60 calls per minute.
func Default() Config {
	return Config{
		DataFetching: DataFetching{
			MaxAPICallsPerMinute: 60,
			Exchanges:            []string{"US"},
			QuoteSource:          QuoteSourceFinnhub,
			Timeout:              10 * time.Second,
		},
		Analysis: rules.DefaultAnalysis(),
		Cache: Cache{
			Dir: defaultCacheDir(),
			TTL: 12 * time.Hour,
		},
		Output: Output{
			Format: "table",
			Color:  true,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "screen")
	}
	return ".screen-cache"
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	df := c.DataFetching
	if df.MaxAPICallsPerMinute < 1 {
		return fmt.Errorf("data_fetching.max_api_calls_per_minute must be at least 1, got %d", df.MaxAPICallsPerMinute)
	}
	if df.Workers < 0 {
		return fmt.Errorf("data_fetching.workers must not be negative, got %d", df.Workers)
	}
	if df.Timeout <= 0 {
		return fmt.Errorf("data_fetching.timeout must be positive, got %s", df.Timeout)
	}
	switch df.QuoteSource {
	case QuoteSourceFinnhub, QuoteSourceYahoo:
	default:
		return fmt.Errorf("data_fetching.quote_source must be %s or %s, got %q", QuoteSourceFinnhub, QuoteSourceYahoo, df.QuoteSource)
	}
	if c.Cache.Enabled {
		if c.Cache.Dir == "" {
			return errors.New("cache.dir is required when the cache is enabled")
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
		}
	}
	switch c.Output.Format {
	case "table", "json", "syms":
	default:
		return fmt.Errorf("output.format must be table, json or syms, got %q", c.Output.Format)
	}
	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	return nil
}

// Load builds the configuration from defaults, the config file and the
// environment, in increasing priority. An empty path searches ./screen.* and
// $HOME/.config/screen/screen.*; a missing file is fine in that case.
func Load(path string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v, err := newViper()
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("screen")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "screen"))
		}
	}
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.DataFetching.APIKey == "" {
		cfg.DataFetching.APIKey = os.Getenv(APIKeyEnv)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// newViper returns a viper seeded with Default, so every key is known for
// env lookups (SCREEN_DATA_FETCHING_MAX_API_CALLS_PER_MINUTE and so on).
func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	data, err := yaml.Marshal(Default())
	if err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

// WriteDefault writes the default configuration to path; the extension
// picks the format. An existing file is not overwritten.
func WriteDefault(path string) error {
	v, err := newViper()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := v.SafeWriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Redacted returns c as YAML with the API key masked.
func (c Config) Redacted() ([]byte, error) {
	if c.DataFetching.APIKey != "" {
		c.DataFetching.APIKey = "****"
	}
	return yaml.Marshal(c)
}
