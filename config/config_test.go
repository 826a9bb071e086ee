package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
)

func clearEnvOverrides(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RXCHAT_PROVIDER", "RXCHAT_MODEL", "MODEL",
		"RXCHAT_LISTEN_ADDR", "RXCHAT_DATA_DIR",
		"RXCHAT_OLLAMA_HOST", "RXCHAT_DEFAULT_LANGUAGE",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig()

	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, want %q", cfg.Provider, "openai")
	}
	if cfg.Model != "" {
		t.Errorf("Model = %q, want empty (provider default)", cfg.Model)
	}
	if cfg.DataDirectory != "~/.local/share/rxchat" {
		t.Errorf("DataDirectory = %q, want %q", cfg.DataDirectory, "~/.local/share/rxchat")
	}
	if cfg.Server.ListenAddr != ":8000" {
		t.Errorf("ListenAddr = %q, want %q", cfg.Server.ListenAddr, ":8000")
	}
	if cfg.Server.RequestTimeoutSeconds != 120 {
		t.Errorf("RequestTimeoutSeconds = %d, want 120", cfg.Server.RequestTimeoutSeconds)
	}
	if cfg.Server.DefaultLanguage != "en" {
		t.Errorf("DefaultLanguage = %q, want %q", cfg.Server.DefaultLanguage, "en")
	}
	if cfg.Endpoints.OllamaHost != "http://localhost:11434" {
		t.Errorf("OllamaHost = %q, want %q", cfg.Endpoints.OllamaHost, "http://localhost:11434")
	}
}

func TestGenerateConfigTemplateParses(t *testing.T) {
	var cfg FileConfig
	if _, err := toml.Decode(GenerateConfigTemplate(), &cfg); err != nil {
		t.Fatalf("template is not valid TOML: %v", err)
	}

	if cfg.Provider != "openai" {
		t.Errorf("template provider = %q, want %q", cfg.Provider, "openai")
	}
	if cfg.Server.ListenAddr != ":8000" {
		t.Errorf("template listen_addr = %q, want %q", cfg.Server.ListenAddr, ":8000")
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("RXCHAT_TEST_DIR", "/var/lib")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty", "", ""},
		{"home prefix", "~/.local/share/rxchat", "/home/tester/.local/share/rxchat"},
		{"env variable", "$RXCHAT_TEST_DIR/rxchat", "/var/lib/rxchat"},
		{"cleans dots", "/data/./rxchat/../rxchat", "/data/rxchat"},
		{"absolute untouched", "/srv/rxchat", "/srv/rxchat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.path); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestConfigPaths(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	if got := GetConfigDir(); got != "/home/tester/.config/rxchat" {
		t.Errorf("GetConfigDir() = %q", got)
	}
	if got := GetConfigFilePath(); got != "/home/tester/.config/rxchat/config.toml" {
		t.Errorf("GetConfigFilePath() = %q", got)
	}
	if got := GetDefaultDataDir(); got != "/home/tester/.local/share/rxchat" {
		t.Errorf("GetDefaultDataDir() = %q", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv("RXCHAT_PROVIDER", "ollama")
	t.Setenv("RXCHAT_MODEL", "qwen3:8b")
	t.Setenv("RXCHAT_LISTEN_ADDR", ":9000")
	t.Setenv("RXCHAT_OLLAMA_HOST", "http://ollama:11434")
	t.Setenv("RXCHAT_DEFAULT_LANGUAGE", "he")

	cfg := DefaultFileConfig().resolve()
	cfg.applyEnvOverrides()

	if cfg.Provider != "ollama" {
		t.Errorf("Provider = %q, want %q", cfg.Provider, "ollama")
	}
	if cfg.Model != "qwen3:8b" {
		t.Errorf("Model = %q, want %q", cfg.Model, "qwen3:8b")
	}
	if cfg.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, ":9000")
	}
	if cfg.OllamaHost != "http://ollama:11434" {
		t.Errorf("OllamaHost = %q, want %q", cfg.OllamaHost, "http://ollama:11434")
	}
	if cfg.DefaultLanguage != "he" {
		t.Errorf("DefaultLanguage = %q, want %q", cfg.DefaultLanguage, "he")
	}
}

func TestApplyEnvOverridesPlainModel(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv("MODEL", "gpt-4o")

	cfg := DefaultFileConfig().resolve()
	cfg.applyEnvOverrides()

	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q, want %q (plain MODEL fallback)", cfg.Model, "gpt-4o")
	}

	// RXCHAT_MODEL wins over the plain form.
	t.Setenv("RXCHAT_MODEL", "gpt-4o-mini")
	cfg = DefaultFileConfig().resolve()
	cfg.applyEnvOverrides()

	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want %q", cfg.Model, "gpt-4o-mini")
	}
}

func TestCheckDebug(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"true", "true", true},
		{"one", "1", true},
		{"false", "false", false},
		{"empty", "", false},
		{"other", "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RXCHAT_DEBUG", tt.value)
			if got := CheckDebug(); got != tt.want {
				t.Errorf("CheckDebug() with RXCHAT_DEBUG=%q = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestInitDebugLog(t *testing.T) {
	t.Setenv("RXCHAT_DEBUG", "true")
	defer func() {
		Debug = false
		DebugLog = nil
	}()

	dir := t.TempDir()
	InitDebugLog(dir)

	if !Debug {
		t.Error("Debug = false after InitDebugLog")
	}
	if DebugLog == nil {
		t.Fatal("DebugLog is nil after InitDebugLog")
	}
	if !FileExists(filepath.Join(dir, "debug.log")) {
		t.Error("debug.log was not created")
	}
}

func TestLoadFromPath(t *testing.T) {
	clearEnvOverrides(t)
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	dataDir := filepath.Join(dir, "rxchat-data")
	content := `provider = "anthropic"
model = "claude-sonnet-4-5-20250929"
data_directory = "` + dataDir + `"

[server]
listen_addr = ":9090"
request_timeout_seconds = 30
default_language = "he"

[endpoints]
ollama_host = "http://ollama:11434"
anthropic_base_url = "https://proxy.example.com"
`
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Provider != "anthropic" {
		t.Errorf("Provider = %q, want %q", cfg.Provider, "anthropic")
	}
	if cfg.Model != "claude-sonnet-4-5-20250929" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, ":9090")
	}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Errorf("RequestTimeout() = %v, want 30s", cfg.RequestTimeout())
	}
	if cfg.DefaultLanguage != "he" {
		t.Errorf("DefaultLanguage = %q, want %q", cfg.DefaultLanguage, "he")
	}
	if cfg.BaseURLFor("anthropic") != "https://proxy.example.com" {
		t.Errorf("BaseURLFor(anthropic) = %q", cfg.BaseURLFor("anthropic"))
	}

	// The data directory is created as part of loading.
	if !FileExists(dataDir) {
		t.Error("data directory was not created")
	}
}

func TestLoadFromPathPartialFileKeepsDefaults(t *testing.T) {
	clearEnvOverrides(t)
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("RXCHAT_DATA_DIR", filepath.Join(dir, "data"))

	path := filepath.Join(dir, "partial.toml")
	if err := os.WriteFile(path, []byte(`provider = "ollama"`+"\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Provider != "ollama" {
		t.Errorf("Provider = %q, want %q", cfg.Provider, "ollama")
	}
	if cfg.ListenAddr != ":8000" {
		t.Errorf("ListenAddr = %q, want default %q", cfg.ListenAddr, ":8000")
	}
	if cfg.OllamaHost != "http://localhost:11434" {
		t.Errorf("OllamaHost = %q, want default", cfg.OllamaHost)
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv("HOME", t.TempDir())

	_, err := LoadFromPath("/nonexistent/rxchat.toml")
	if err == nil {
		t.Fatal("expected error for missing config at explicit path")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("error = %q, want mention of missing file", err.Error())
	}
}

func TestLoadCreatesDefaultConfig(t *testing.T) {
	clearEnvOverrides(t)
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !FileExists(GetConfigFilePath()) {
		t.Error("default config file was not created")
	}
	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, want default %q", cfg.Provider, "openai")
	}

	// A second load parses the template it just wrote.
	cfg2, err := Load()
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if cfg2.Provider != cfg.Provider || cfg2.ListenAddr != cfg.ListenAddr {
		t.Error("second Load disagrees with first")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnvOverrides(t)
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	fileCfg := DefaultFileConfig()
	fileCfg.Provider = "openrouter"
	fileCfg.Model = "openai/gpt-4o-mini"

	if err := Save(fileCfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}
	if cfg.Provider != "openrouter" {
		t.Errorf("Provider = %q, want %q", cfg.Provider, "openrouter")
	}
	if cfg.Model != "openai/gpt-4o-mini" {
		t.Errorf("Model = %q, want %q", cfg.Model, "openai/gpt-4o-mini")
	}
}

func TestBaseURLFor(t *testing.T) {
	cfg := &Config{
		OllamaHost:        "http://localhost:11434",
		OpenAIBaseURL:     "https://openai.example.com",
		OpenRouterBaseURL: "https://openrouter.example.com",
		AnthropicBaseURL:  "https://anthropic.example.com",
	}

	tests := []struct {
		provider string
		want     string
	}{
		{"ollama", "http://localhost:11434"},
		{"openai", "https://openai.example.com"},
		{"openrouter", "https://openrouter.example.com"},
		{"anthropic", "https://anthropic.example.com"},
		{"unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			if got := cfg.BaseURLFor(tt.provider); got != tt.want {
				t.Errorf("BaseURLFor(%q) = %q, want %q", tt.provider, got, tt.want)
			}
		})
	}
}

func TestAPIKeyFor(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("OPENROUTER_API_KEY", "sk-or")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg := &Config{}

	tests := []struct {
		provider string
		want     string
	}{
		{"openai", "sk-openai"},
		{"openrouter", "sk-or"},
		{"anthropic", "sk-ant"},
		{"ollama", ""},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			if got := cfg.APIKeyFor(tt.provider); got != tt.want {
				t.Errorf("APIKeyFor(%q) = %q, want %q", tt.provider, got, tt.want)
			}
		})
	}
}
