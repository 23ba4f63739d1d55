// Package config loads application settings from defaults, an optional
// YAML file, MOMENTUM_* environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/momentum/internal/llm"
)

// Backends selectable with the "backend" key.
const (
	BackendHTTP = "http"
	BackendLLM  = "llm"
	BackendMock = "mock"
)

// Keys shared with flag bindings.
const (
	KeyBackend     = "backend"
	KeyAPIURL      = "api_url"
	KeyTimeout     = "timeout"
	KeyCatalog     = "catalog"
	KeyLogLevel    = "log.level"
	KeyLogFormat   = "log.format"
	KeyLogFile     = "log.file"
	KeyMetricsAddr = "metrics.addr"
	KeyLLMProvider = "llm.provider"
)

// Config is the resolved application configuration.
type Config struct {
	Backend string
	APIURL  string
	Timeout time.Duration

	// Catalog is a path to a YAML catalog. Empty selects the built-in one.
	Catalog string

	Log         Log
	MetricsAddr string
	LLM         llm.Config

	// File is the config file that was read, if any.
	File string
}

// Log configures the application logger.
type Log struct {
	Level  string
	Format string
	File   string
}

// New returns a viper instance with defaults and environment binding in
// place. Flags are bound by the caller.
func New() *viper.Viper {
	v := viper.New()

	def := llm.DefaultConfig()
	v.SetDefault(KeyBackend, BackendHTTP)
	v.SetDefault(KeyAPIURL, "http://localhost:8001")
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyCatalog, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyMetricsAddr, "")
	v.SetDefault(KeyLLMProvider, "")
	v.SetDefault("llm.timeout", def.Timeout)
	for name, model := range map[string]string{
		"anthropic":  def.Anthropic.Model,
		"openai":     def.OpenAI.Model,
		"gemini":     def.Gemini.Model,
		"openrouter": def.OpenRouter.Model,
	} {
		v.SetDefault("llm."+name+".api_key", "")
		v.SetDefault("llm."+name+".model", model)
		v.SetDefault("llm."+name+".base_url", "")
	}

	v.SetEnvPrefix("momentum")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file into v and resolves the configuration. An
// explicit file must exist; otherwise momentum.yaml is looked up in
// $HOME/.config/momentum and the working directory and may be absent.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("momentum")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "momentum"))
		}
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Backend: strings.ToLower(v.GetString(KeyBackend)),
		APIURL:  v.GetString(KeyAPIURL),
		Timeout: v.GetDuration(KeyTimeout),
		Catalog: v.GetString(KeyCatalog),
		Log: Log{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
			File:   v.GetString(KeyLogFile),
		},
		MetricsAddr: v.GetString(KeyMetricsAddr),
		LLM:         llmConfig(v),
		File:        v.ConfigFileUsed(),
	}
	return cfg, nil
}

// llmConfig reads the llm block. Without an explicit provider the
// standard provider API key variables are probed.
func llmConfig(v *viper.Viper) llm.Config {
	cfg := llm.Config{
		Provider: v.GetString(KeyLLMProvider),
		Timeout:  v.GetDuration("llm.timeout"),
		Anthropic: llm.AnthropicConfig{
			APIKey:  v.GetString("llm.anthropic.api_key"),
			Model:   v.GetString("llm.anthropic.model"),
			BaseURL: v.GetString("llm.anthropic.base_url"),
		},
		OpenAI: llm.OpenAIConfig{
			APIKey:  v.GetString("llm.openai.api_key"),
			Model:   v.GetString("llm.openai.model"),
			BaseURL: v.GetString("llm.openai.base_url"),
		},
		Gemini: llm.GeminiConfig{
			APIKey:  v.GetString("llm.gemini.api_key"),
			Model:   v.GetString("llm.gemini.model"),
			BaseURL: v.GetString("llm.gemini.base_url"),
		},
		OpenRouter: llm.OpenRouterConfig{
			APIKey:  v.GetString("llm.openrouter.api_key"),
			Model:   v.GetString("llm.openrouter.model"),
			BaseURL: v.GetString("llm.openrouter.base_url"),
		},
	}
	if cfg.Provider != "" {
		return cfg
	}
	if found, ok := llm.DiscoverConfig(); ok {
		cfg.Provider = found.Provider
		switch found.Provider {
		case "anthropic":
			cfg.Anthropic.APIKey = found.Anthropic.APIKey
		case "openai":
			cfg.OpenAI.APIKey = found.OpenAI.APIKey
		case "gemini":
			cfg.Gemini.APIKey = found.Gemini.APIKey
		case "openrouter":
			cfg.OpenRouter.APIKey = found.OpenRouter.APIKey
		}
	}
	return cfg
}

// Validate checks the settings the selected backend depends on.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendHTTP:
		u, err := url.Parse(c.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("api_url %q is not an http(s) URL", c.APIURL)
		}
	case BackendLLM:
		if c.LLM.Provider == "" {
			return errors.New("llm backend selected but no provider configured; set MOMENTUM_LLM_PROVIDER or a provider API key")
		}
		if err := c.LLM.Validate(); err != nil {
			return err
		}
	case BackendMock:
	default:
		return fmt.Errorf("unknown backend %q (want http, llm or mock)", c.Backend)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	return nil
}
