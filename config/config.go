// Package config loads service configuration from a TOML file with
// environment overrides. API keys are never written to disk; they are
// read from the environment at provider construction time.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig mirrors the on-disk config.toml layout.
type FileConfig struct {
	Provider      string         `toml:"provider"`
	Model         string         `toml:"model,omitempty"`
	DataDirectory string         `toml:"data_directory"`
	Server        ServerConfig   `toml:"server"`
	Endpoints     EndpointConfig `toml:"endpoints"`
}

type ServerConfig struct {
	ListenAddr            string `toml:"listen_addr"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	DefaultLanguage       string `toml:"default_language"`
}

type EndpointConfig struct {
	OllamaHost        string `toml:"ollama_host"`
	OpenAIBaseURL     string `toml:"openai_base_url,omitempty"`
	OpenRouterBaseURL string `toml:"openrouter_base_url,omitempty"`
	AnthropicBaseURL  string `toml:"anthropic_base_url,omitempty"`
}

// Config is the resolved runtime configuration.
type Config struct {
	Provider              string
	Model                 string
	DataDirectory         string
	ListenAddr            string
	RequestTimeoutSeconds int
	DefaultLanguage       string
	OllamaHost            string
	OpenAIBaseURL         string
	OpenRouterBaseURL     string
	AnthropicBaseURL      string
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// BaseURLFor returns the configured endpoint for a provider id, empty
// for an unknown id (providers fall back to their own defaults).
func (c *Config) BaseURLFor(providerID string) string {
	switch providerID {
	case "ollama":
		return c.OllamaHost
	case "openai":
		return c.OpenAIBaseURL
	case "openrouter":
		return c.OpenRouterBaseURL
	case "anthropic":
		return c.AnthropicBaseURL
	}
	return ""
}

// APIKeyFor reads the provider's API key from the environment.
func (c *Config) APIKeyFor(providerID string) string {
	switch providerID {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "openrouter":
		return os.Getenv("OPENROUTER_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return ""
}

func (c *Config) applyEnvOverrides() {
	if provider := os.Getenv("RXCHAT_PROVIDER"); provider != "" {
		c.Provider = provider
	}
	if model := os.Getenv("RXCHAT_MODEL"); model != "" {
		c.Model = model
	} else if model := os.Getenv("MODEL"); model != "" {
		// Plain MODEL is honored for .env compatibility.
		c.Model = model
	}
	if addr := os.Getenv("RXCHAT_LISTEN_ADDR"); addr != "" {
		c.ListenAddr = addr
	}
	if dataDir := os.Getenv("RXCHAT_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if host := os.Getenv("RXCHAT_OLLAMA_HOST"); host != "" {
		c.OllamaHost = host
	}
	if lang := os.Getenv("RXCHAT_DEFAULT_LANGUAGE"); lang != "" {
		c.DefaultLanguage = lang
	}
}

func CheckDebug() bool {
	debug := os.Getenv("RXCHAT_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: debug output may include conversation content
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (RXCHAT_DEBUG=%s) ===", os.Getenv("RXCHAT_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Load reads the config file (creating a default one on first run),
// applies environment overrides, and ensures the data directory
// exists.
func Load() (*Config, error) {
	return LoadFromPath(GetConfigFilePath())
}

// LoadFromPath behaves like Load but reads a specific config file.
// A missing file at the default location is created from the template;
// a missing file anywhere else is an error.
func LoadFromPath(path string) (*Config, error) {
	fileCfg := DefaultFileConfig()

	if !FileExists(path) {
		if path != GetConfigFilePath() {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		if err := CreateDefaultConfig(); err != nil {
			return nil, fmt.Errorf("failed to create config: %w", err)
		}
	} else {
		if _, err := toml.DecodeFile(path, fileCfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg := fileCfg.resolve()
	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

func (f *FileConfig) resolve() *Config {
	return &Config{
		Provider:              f.Provider,
		Model:                 f.Model,
		DataDirectory:         f.DataDirectory,
		ListenAddr:            f.Server.ListenAddr,
		RequestTimeoutSeconds: f.Server.RequestTimeoutSeconds,
		DefaultLanguage:       f.Server.DefaultLanguage,
		OllamaHost:            f.Endpoints.OllamaHost,
		OpenAIBaseURL:         f.Endpoints.OpenAIBaseURL,
		OpenRouterBaseURL:     f.Endpoints.OpenRouterBaseURL,
		AnthropicBaseURL:      f.Endpoints.AnthropicBaseURL,
	}
}

// Save writes the config back to the default location.
func Save(fileCfg *FileConfig) error {
	configDir := GetConfigDir()
	if err := EnsureDir(configDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path := GetConfigFilePath()
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(fileCfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// CreateDefaultConfig writes the commented template on first run.
func CreateDefaultConfig() error {
	configDir := GetConfigDir()
	if err := EnsureDir(configDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path := GetConfigFilePath()
	if FileExists(path) {
		return nil
	}

	content := GenerateConfigTemplate()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
