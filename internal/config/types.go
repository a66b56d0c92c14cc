// Package config provides configuration loading and management for qasentinel.
//
// Configuration is loaded using Viper, supporting YAML config files and
// environment variable overrides. The package provides sensible defaults that
// work out of the box, with the ability to customize the model provider,
// style memory, export locations, and logging.
//
// Key types:
//   - [Config] is the root configuration container with all settings
//   - [Loader] handles Viper-based configuration loading
//   - [ProviderConfig] contains model provider credentials and selection
//
// Configuration priority (highest to lowest):
//  1. Environment variables (QASENTINEL_ prefix)
//  2. Config file specified by QASENTINEL_CONFIG_PATH
//  3. User config directory (platform-standard):
//     - Linux: ~/.config/qasentinel/qasentinel.yaml
//     - macOS: ~/Library/Application Support/qasentinel/qasentinel.yaml
//     - Windows: %APPDATA%\qasentinel\qasentinel.yaml
//  4. ./config/qasentinel.yaml (legacy fallback)
//  5. ./qasentinel.yaml (legacy fallback)
//  6. [DefaultConfig] defaults
package config

// Config represents the root configuration structure.
//
// This is the main configuration container loaded by [Loader] and used
// throughout the application. Use [DefaultConfig] to get sensible defaults.
type Config struct {
	// Provider contains model provider settings.
	Provider ProviderConfig `mapstructure:"provider"`

	// Memory contains style memory settings.
	Memory MemoryConfig `mapstructure:"memory"`

	// Export contains artifact export settings.
	Export ExportConfig `mapstructure:"export"`

	// Pipeline contains pipeline run settings.
	Pipeline PipelineConfig `mapstructure:"pipeline"`

	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
}

// ProviderConfig contains model provider configuration.
//
// These settings control which generative model backs the pipeline stages
// and how it is reached.
type ProviderConfig struct {
	// APIKey is the provider API key.
	// Can be set with the QASENTINEL_PROVIDER_API_KEY environment variable.
	APIKey string `mapstructure:"api_key"`

	// Model is the model identifier sent with each request.
	// Default: "gpt-4o-mini"
	Model string `mapstructure:"model"`

	// BaseURL overrides the provider endpoint. Leave empty for the
	// provider's public API. Useful for gateways and local test servers.
	BaseURL string `mapstructure:"base_url"`
}

// MemoryConfig contains style memory configuration.
type MemoryConfig struct {
	// TopK is the number of similar past examples injected into the
	// test case generation prompt.
	// Default: 3
	TopK int `mapstructure:"top_k"`

	// SeedPath is an optional YAML file of examples loaded into memory at
	// startup. Empty means start with an empty memory.
	SeedPath string `mapstructure:"seed_path"`
}

// ExportConfig contains artifact export configuration.
type ExportConfig struct {
	// Dir is the export root directory. Markdown lands in <dir>/markdown,
	// JSON in <dir>/json.
	// Default: "exports"
	Dir string `mapstructure:"dir"`
}

// PipelineConfig contains pipeline run configuration.
type PipelineConfig struct {
	// DefaultQAContext is used when a story carries no qa_context of its own.
	DefaultQAContext string `mapstructure:"default_qa_context"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `mapstructure:"level"`
}

// DefaultConfig returns a new [Config] with sensible defaults.
//
// The defaults work out of the box without any configuration file, except
// that a provider API key must come from the environment or a config file
// before live runs.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Model: "gpt-4o-mini",
		},
		Memory: MemoryConfig{
			TopK: 3,
		},
		Export: ExportConfig{
			Dir: "exports",
		},
		Pipeline: PipelineConfig{
			DefaultQAContext: "Standard functional testing with attention to negative paths.",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
