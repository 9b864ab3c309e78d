package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "algolens.yaml"

type Config struct {
	Providers Providers `yaml:"providers"`
	Pipeline  Pipeline  `yaml:"pipeline"`
	Server    Server    `yaml:"server"`
	Results   Results   `yaml:"results"`
	Pricing   Pricing   `yaml:"pricing"`
	Secrets   Secrets   `yaml:"secrets"`
	Logging   Logging   `yaml:"logging"`
}

type Providers struct {
	Default           string  `yaml:"default" validate:"omitempty,oneof=gemini ollama hf gateway"`
	RequestsPerMinute int     `yaml:"requests_per_minute" validate:"gte=0"`
	Retries           int     `yaml:"retries" validate:"gte=0,lte=10"`
	Gemini            Gemini  `yaml:"gemini"`
	Ollama            Ollama  `yaml:"ollama"`
	Gateway           Gateway `yaml:"gateway"`
}

type Gemini struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// APIKey resolves the key from the configured environment variable.
func (g Gemini) APIKey() string {
	return os.Getenv(g.APIKeyEnv)
}

type Ollama struct {
	Endpoint string `yaml:"endpoint" validate:"omitempty,url"`
	Model    string `yaml:"model"`
}

type Gateway struct {
	URL       string `yaml:"url" validate:"omitempty,url"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

func (g Gateway) APIKey() string {
	if g.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(g.APIKeyEnv)
}

// Pipeline holds the artificial per-stage delays that pace a staged run.
type Pipeline struct {
	Delays Delays `yaml:"delays"`
}

type Delays struct {
	Parse     time.Duration `yaml:"parse" validate:"gte=0"`
	Static    time.Duration `yaml:"static" validate:"gte=0"`
	Benchmark time.Duration `yaml:"benchmark" validate:"gte=0"`
	Judge     time.Duration `yaml:"judge" validate:"gte=0"`
}

type Server struct {
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
	// APIDelays keeps the stage delays for HTTP analyze runs.
	APIDelays bool `yaml:"api_delays"`
}

type Results struct {
	Dir string `yaml:"dir"`
}

type Pricing struct {
	File string `yaml:"file"`
}

type Secrets struct {
	EnvFile string `yaml:"env_file"`
}

type Logging struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// DefaultDelays mirror the pacing of the interactive workflow.
var DefaultDelays = Delays{
	Parse:     600 * time.Millisecond,
	Static:    800 * time.Millisecond,
	Benchmark: 1200 * time.Millisecond,
	Judge:     600 * time.Millisecond,
}

var validate = validator.New()

// Default returns a fully defaulted config.
func Default() *Config {
	cfg := &Config{Pipeline: Pipeline{Delays: DefaultDelays}}
	applyDefaults(cfg)
	return cfg
}

// Load reads and validates the config at path. A missing file at DefaultPath
// yields the defaults; a missing file anywhere else is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == DefaultPath {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Config{Pipeline: Pipeline{Delays: DefaultDelays}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	p := &cfg.Providers
	if p.Default == "" {
		p.Default = "gemini"
	}
	if p.RequestsPerMinute == 0 {
		p.RequestsPerMinute = 30
	}
	if p.Gemini.Model == "" {
		p.Gemini.Model = "gemini-3-flash-preview"
	}
	if p.Gemini.APIKeyEnv == "" {
		p.Gemini.APIKeyEnv = "GEMINI_API_KEY"
	}
	if p.Ollama.Endpoint == "" {
		p.Ollama.Endpoint = "http://localhost:11434"
	}
	if p.Ollama.Model == "" {
		p.Ollama.Model = "llama3"
	}
	if p.Gateway.URL != "" && p.Gateway.Model == "" {
		p.Gateway.Model = "gpt-4o-mini"
	}
	if p.Gateway.APIKeyEnv == "" {
		p.Gateway.APIKeyEnv = "LITELLM_API_KEY"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = "localhost:8080"
	}
	if cfg.Results.Dir == "" {
		cfg.Results.Dir = "results"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
