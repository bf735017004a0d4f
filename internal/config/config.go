package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OllamaConfig holds connection details for the local Ollama server used for
// embeddings and generation.
type OllamaConfig struct {
	Host          string `yaml:"host"`
	EmbedModel    string `yaml:"embed_model"`
	GenerateModel string `yaml:"generate_model"`
	TimeoutSecs   int    `yaml:"timeout_secs"`
}

// OpenAIEmbedderConfig configures the OpenAI-compatible embeddings endpoint,
// used when embedder type is "openai".
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
}

// EmbedderConfig selects the embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// QdrantConfig contains connection details for the Qdrant vector store.
type QdrantConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key,omitempty"`
	UseTLS bool   `yaml:"use_tls,omitempty"`
}

// VectorStoreConfig selects the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// RetryConfig shapes the backoff applied to transient collaborator failures.
type RetryConfig struct {
	MaxAttempts  int `yaml:"max_attempts"`
	BaseDelayMS  int `yaml:"base_delay_ms"`
	MaxDelaySecs int `yaml:"max_delay_secs"`
}

// AppConfig is the root infrastructure configuration. User-facing knobs
// (chunk size, top-k, persona) live in the session file instead and are
// mutated by the configure command.
type AppConfig struct {
	Ollama      OllamaConfig      `yaml:"ollama"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Retry       RetryConfig       `yaml:"retry"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./doclens.yaml first, then ~/.config/doclens/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "doclens.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "doclens", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Ollama: OllamaConfig{
			Host:          "http://localhost:11434",
			EmbedModel:    "nomic-embed-text",
			GenerateModel: "llama3",
			TimeoutSecs:   60,
		},
		Embedder: EmbedderConfig{Type: "ollama"},
		VectorStore: VectorStoreConfig{
			Type:   "qdrant",
			Qdrant: &QdrantConfig{Host: "localhost", Port: 6334},
		},
		Retry: RetryConfig{MaxAttempts: 3, BaseDelayMS: 200, MaxDelaySecs: 5},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Ollama.Host == "" {
		cfg.Ollama.Host = def.Ollama.Host
	}
	if cfg.Ollama.EmbedModel == "" {
		cfg.Ollama.EmbedModel = def.Ollama.EmbedModel
	}
	if cfg.Ollama.GenerateModel == "" {
		cfg.Ollama.GenerateModel = def.Ollama.GenerateModel
	}
	if cfg.Ollama.TimeoutSecs == 0 {
		cfg.Ollama.TimeoutSecs = def.Ollama.TimeoutSecs
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "ollama"
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
		if cfg.Embedder.OpenAI.BatchSize == 0 {
			cfg.Embedder.OpenAI.BatchSize = 32
		}
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "qdrant"
	}
	if cfg.VectorStore.Type == "qdrant" {
		if cfg.VectorStore.Qdrant == nil {
			cfg.VectorStore.Qdrant = def.VectorStore.Qdrant
		} else {
			if cfg.VectorStore.Qdrant.Host == "" {
				cfg.VectorStore.Qdrant.Host = "localhost"
			}
			if cfg.VectorStore.Qdrant.Port == 0 {
				cfg.VectorStore.Qdrant.Port = 6334
			}
		}
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = def.Retry.MaxAttempts
	}
	if cfg.Retry.BaseDelayMS == 0 {
		cfg.Retry.BaseDelayMS = def.Retry.BaseDelayMS
	}
	if cfg.Retry.MaxDelaySecs == 0 {
		cfg.Retry.MaxDelaySecs = def.Retry.MaxDelaySecs
	}
}
