package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Model 选择模型后端及其连接参数。
type Model struct {
	Provider string `toml:"provider"`
	URL      string `toml:"url"`
	Token    string `toml:"token"`
	Name     string `toml:"name"`
}

// Config is the only persisted config file schema.
type Config struct {
	Workdir               string `toml:"workdir"`
	SandboxMode           string `toml:"sandbox_mode"`
	ApprovalPolicy        string `toml:"approval_policy"`
	MaxContextTokens      int    `toml:"max_context_tokens"`
	Encoding              string `toml:"encoding"`
	CommandTimeoutSeconds int    `toml:"command_timeout_seconds"`
	MaxTurns              int    `toml:"max_turns"`
	LogLevel              string `toml:"log_level"`
	Model                 Model  `toml:"model"`
	Source                string `toml:"-"`
}

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderEcho      = "echo"
)

func Default() Config {
	return Config{
		SandboxMode:           "workspace-write",
		ApprovalPolicy:        "on-request",
		MaxContextTokens:      32000,
		Encoding:              "cl100k_base",
		CommandTimeoutSeconds: 120,
		MaxTurns:              25,
		LogLevel:              "info",
		Model: Model{
			Provider: ProviderOpenAI,
			Name:     "gpt-4o",
		},
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".manta", "config.toml")
}

// Load 读取配置文件；文件不存在时使用默认值。环境变量优先于文件内容。
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg), nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	switch cfg.Model.Provider {
	case ProviderAnthropic:
		if env := strings.TrimSpace(os.Getenv("ANTHROPIC_BASE_URL")); env != "" {
			cfg.Model.URL = env
		}
		if env := strings.TrimSpace(os.Getenv("ANTHROPIC_AUTH_TOKEN")); env != "" {
			cfg.Model.Token = env
		}
	case ProviderOpenAI:
		if env := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); env != "" {
			cfg.Model.URL = env
		}
		if env := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); env != "" {
			cfg.Model.Token = env
		}
	}
	if env := strings.TrimSpace(os.Getenv("MANTA_MODEL")); env != "" {
		cfg.Model.Name = env
	}
	return cfg
}
