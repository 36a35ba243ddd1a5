// Package geoagent wires configuration and provider selection for the agent
// services.
package geoagent

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/opengeos/geoagent/pkg/configutil"
	"github.com/opengeos/geoagent/pkg/transports/httpapi"
)

type Config struct {
	Vendors       VendorsConfig       `mapstructure:"vendors"`
	Server        httpapi.Config      `mapstructure:"server"`
	Agent         AgentConfig         `mapstructure:"agent"`
	Environment   string              `mapstructure:"environment"`
	LogLevel      string              `mapstructure:"log_level"`
	LogFormat     string              `mapstructure:"log_format"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Privacy       PrivacyConfig       `mapstructure:"privacy"`
}

// VendorConfig selects a provider implementation plus its free-form settings.
type VendorConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

type VendorsConfig struct {
	LLM VendorConfig `mapstructure:"llm"`
}

// AgentConfig carries optional dispatcher overrides. The system prompt has a
// per-service default; deployments may tune it without rebuilding.
type AgentConfig struct {
	SystemPrompt string `mapstructure:"system_prompt"`
}

type ObservabilityConfig struct {
	ArtifactsDir string `mapstructure:"artifacts_dir"`
}

type PrivacyConfig struct {
	RedactPII bool `mapstructure:"redact_pii"`
}

// LoadConfig reads a YAML config file, applies defaults, expands ${ENV}
// references, and validates the result.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("server.server_addr", ":8000")
	v.SetDefault("server.chat_path", "/chat")
	v.SetDefault("server.health_path", "/")
	v.SetDefault("server.ws_path", "/ws")
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("observability.artifacts_dir", "")
	v.SetDefault("privacy.redact_pii", true)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}

	expandConfig(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := configutil.RequireString(c.Vendors.LLM.Provider, "vendors.llm.provider"); err != nil {
		return err
	}
	return nil
}

func expandConfig(cfg *Config) {
	cfg.Environment = os.ExpandEnv(cfg.Environment)
	cfg.Agent.SystemPrompt = os.ExpandEnv(cfg.Agent.SystemPrompt)
	cfg.Server.ServerAddr = os.ExpandEnv(cfg.Server.ServerAddr)
	cfg.Server.Title = os.ExpandEnv(cfg.Server.Title)
	cfg.Observability.ArtifactsDir = os.ExpandEnv(cfg.Observability.ArtifactsDir)
	cfg.Vendors.LLM.Settings = expandSettings(cfg.Vendors.LLM.Settings)
}

func expandSettings(settings map[string]any) map[string]any {
	if settings == nil {
		return nil
	}
	for k, v := range settings {
		settings[k] = expandAny(v)
	}
	return settings
}

func expandAny(v any) any {
	switch val := v.(type) {
	case string:
		return os.ExpandEnv(val)
	case []any:
		for i := range val {
			val[i] = expandAny(val[i])
		}
		return val
	case map[string]any:
		for k, inner := range val {
			val[k] = expandAny(inner)
		}
		return val
	default:
		return v
	}
}
