package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment variable overrides.
const envPrefix = "QASENTINEL"

// configFileName is the base name of the config file (without extension).
const configFileName = "qasentinel"

// Loader handles configuration loading via Viper.
//
// Create with [NewLoader], then call [Loader.Load] for the full discovery
// chain or [Loader.LoadFromFile] for an explicit path.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration [Loader] with environment variable
// support enabled.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// Load loads configuration using the discovery chain documented on the
// package: QASENTINEL_CONFIG_PATH, the user config directory, legacy
// locations in the working directory, then defaults. A missing config file
// is not an error; a malformed one is.
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	if path := os.Getenv(envPrefix + "_CONFIG_PATH"); path != "" {
		return l.LoadFromFile(path)
	}

	l.v.SetConfigName(configFileName)
	l.v.SetConfigType("yaml")
	if dir, err := ConfigDir(); err == nil {
		l.v.AddConfigPath(dir)
	}
	l.v.AddConfigPath("./config")
	l.v.AddConfigPath(".")

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return l.unmarshal()
}

// LoadFromFile loads configuration from an explicit file path. The file
// must exist and parse; environment overrides still apply on top.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.setDefaults()
	l.v.SetConfigFile(path)

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return l.unmarshal()
}

// MustLoad loads configuration with the default chain and panics on error.
// Intended for program startup where a broken config file is fatal anyway.
func MustLoad() *Config {
	cfg, err := NewLoader().Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// setDefaults registers [DefaultConfig] values with Viper so partial config
// files inherit the rest.
func (l *Loader) setDefaults() {
	def := DefaultConfig()
	l.v.SetDefault("provider.model", def.Provider.Model)
	l.v.SetDefault("provider.api_key", def.Provider.APIKey)
	l.v.SetDefault("provider.base_url", def.Provider.BaseURL)
	l.v.SetDefault("memory.top_k", def.Memory.TopK)
	l.v.SetDefault("memory.seed_path", def.Memory.SeedPath)
	l.v.SetDefault("export.dir", def.Export.Dir)
	l.v.SetDefault("pipeline.default_qa_context", def.Pipeline.DefaultQAContext)
	l.v.SetDefault("logging.level", def.Logging.Level)
}

// unmarshal decodes the loaded Viper state into a [Config].
func (l *Loader) unmarshal() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// ConfigDir returns the platform-standard configuration directory for
// qasentinel (e.g. ~/.config/qasentinel on Linux).
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine user config dir: %w", err)
	}
	return filepath.Join(base, "qasentinel"), nil
}

// DefaultConfigPath returns the full path of the user-level config file.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName+".yaml"), nil
}

// EnsureConfigDir creates the user-level config directory if needed.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	return nil
}
