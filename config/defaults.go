package config

func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		Provider:      "openai",
		DataDirectory: "~/.local/share/rxchat",
		Server: ServerConfig{
			ListenAddr:            ":8000",
			RequestTimeoutSeconds: 120,
			DefaultLanguage:       "en",
		},
		Endpoints: EndpointConfig{
			OllamaHost: "http://localhost:11434",
		},
	}
}

func GenerateConfigTemplate() string {
	return `# rxchat Configuration
# Location: ~/.config/rxchat/config.toml
# This file uses TOML format: https://toml.io

# LLM provider: "openai", "openrouter", "anthropic" or "ollama"
# API keys are read from the environment, never from this file:
#   OPENAI_API_KEY / OPENROUTER_API_KEY / ANTHROPIC_API_KEY
provider = "openai"

# Model name; leave empty for the provider default
# (gpt-4o-mini / openai/gpt-4o-mini / claude-sonnet-4-5 / llama3.1:latest)
model = ""

# Directory for the reservation ledger and debug log
data_directory = "~/.local/share/rxchat"

[server]
# HTTP listen address
listen_addr = ":8000"

# Per-request timeout applied at the HTTP boundary
request_timeout_seconds = 120

# Fallback language for tool responses: "en" or "he"
default_language = "en"

[endpoints]
# Ollama server URL (local models, no API key)
ollama_host = "http://localhost:11434"

# Override cloud endpoints only when proxying
# openai_base_url = ""
# openrouter_base_url = ""
# anthropic_base_url = ""
`
}
