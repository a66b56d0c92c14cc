package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "gpt-4o-mini", cfg.Provider.Model)
	assert.Empty(t, cfg.Provider.APIKey)
	assert.Equal(t, 3, cfg.Memory.TopK)
	assert.Equal(t, "exports", cfg.Export.Dir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NotEmpty(t, cfg.Pipeline.DefaultQAContext)
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.v)
}

func TestLoader_LoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
provider:
  model: gpt-4o
  base_url: http://localhost:8080/v1
memory:
  top_k: 5
export:
  dir: /tmp/qa-exports
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	loader := NewLoader()
	cfg, err := loader.LoadFromFile(configPath)

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.Provider.Model)
	assert.Equal(t, "http://localhost:8080/v1", cfg.Provider.BaseURL)
	assert.Equal(t, 5, cfg.Memory.TopK)
	assert.Equal(t, "/tmp/qa-exports", cfg.Export.Dir)
}

func TestLoader_LoadFromFile_PartialInheritsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.yaml")

	configContent := `
memory:
  top_k: 7
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	loader := NewLoader()
	cfg, err := loader.LoadFromFile(configPath)

	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Memory.TopK)
	// Untouched sections keep their defaults
	assert.Equal(t, "gpt-4o-mini", cfg.Provider.Model)
	assert.Equal(t, "exports", cfg.Export.Dir)
}

func TestLoader_LoadFromFile_NonExistent(t *testing.T) {
	loader := NewLoader()
	_, err := loader.LoadFromFile("/nonexistent/path/config.yaml")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoader_LoadFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidContent := `
provider:
  - this is not valid yaml for this structure
    missing: colon here
`
	err := os.WriteFile(configPath, []byte(invalidContent), 0644)
	require.NoError(t, err)

	loader := NewLoader()
	_, err = loader.LoadFromFile(configPath)

	assert.Error(t, err)
}

func TestLoader_Load_WithEnvOverride(t *testing.T) {
	os.Setenv("QASENTINEL_PROVIDER_MODEL", "gpt-4-turbo")
	defer os.Unsetenv("QASENTINEL_PROVIDER_MODEL")

	loader := NewLoader()
	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, "gpt-4-turbo", cfg.Provider.Model)
}

func TestLoader_Load_DefaultsWithNoConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	originalWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(originalWd)

	os.Unsetenv("QASENTINEL_CONFIG_PATH")
	os.Unsetenv("QASENTINEL_PROVIDER_MODEL")

	loader := NewLoader()
	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "gpt-4o-mini", cfg.Provider.Model)
	assert.Equal(t, 3, cfg.Memory.TopK)
}

func TestLoader_Load_WithConfigPathEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "custom-config.yaml")

	configContent := `
provider:
  model: from-env-path
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	os.Setenv("QASENTINEL_CONFIG_PATH", configPath)
	defer os.Unsetenv("QASENTINEL_CONFIG_PATH")

	loader := NewLoader()
	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, "from-env-path", cfg.Provider.Model)
}

func TestLoader_Load_EnvOverridesTakePrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
provider:
  model: from-file
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	os.Setenv("QASENTINEL_CONFIG_PATH", configPath)
	os.Setenv("QASENTINEL_PROVIDER_MODEL", "from-env")
	defer os.Unsetenv("QASENTINEL_CONFIG_PATH")
	defer os.Unsetenv("QASENTINEL_PROVIDER_MODEL")

	loader := NewLoader()
	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Provider.Model)
}

func TestMustLoad_Success(t *testing.T) {
	tmpDir := t.TempDir()
	originalWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(originalWd)

	os.Unsetenv("QASENTINEL_CONFIG_PATH")

	cfg := MustLoad()
	assert.NotNil(t, cfg)
}

func TestLoader_LoadFromFile_DifferentExtension(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	jsonContent := `{
		"provider": {
			"model": "from-json"
		}
	}`
	err := os.WriteFile(configPath, []byte(jsonContent), 0644)
	require.NoError(t, err)

	loader := NewLoader()
	cfg, err := loader.LoadFromFile(configPath)

	require.NoError(t, err)
	assert.Equal(t, "from-json", cfg.Provider.Model)
}

func TestConfigDir(t *testing.T) {
	configDir, err := ConfigDir()
	require.NoError(t, err)
	assert.NotEmpty(t, configDir)
	assert.Contains(t, configDir, "qasentinel")
}

func TestDefaultConfigPath(t *testing.T) {
	configPath, err := DefaultConfigPath()
	require.NoError(t, err)
	assert.Contains(t, configPath, "qasentinel")
	assert.Contains(t, configPath, "qasentinel.yaml")
}

func TestEnsureConfigDir(t *testing.T) {
	err := EnsureConfigDir()
	if err != nil {
		assert.NotContains(t, err.Error(), "not implemented")
	}
}
