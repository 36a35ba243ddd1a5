package geoagent

import (
	"fmt"
	"strings"

	"github.com/opengeos/geoagent/pkg/configutil"
	"github.com/opengeos/geoagent/pkg/llm"
	mockprovider "github.com/opengeos/geoagent/pkg/providers/mock"
	openaiprovider "github.com/opengeos/geoagent/pkg/providers/openai"
)

// LLMFactory builds a completion adapter from the loaded config.
type LLMFactory func(cfg Config) (llm.Adapter, error)

// ProviderRegistry maps provider names to adapter factories. Names are
// matched case-insensitively.
type ProviderRegistry struct {
	llm map[string]LLMFactory
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{llm: make(map[string]LLMFactory)}
}

func (r *ProviderRegistry) RegisterLLM(name string, factory LLMFactory) {
	r.llm[strings.ToLower(strings.TrimSpace(name))] = factory
}

func (r *ProviderRegistry) BuildLLM(provider string, cfg Config) (llm.Adapter, error) {
	fn := r.llm[strings.ToLower(strings.TrimSpace(provider))]
	if fn == nil {
		return nil, fmt.Errorf("llm provider not registered: %s", provider)
	}
	return fn(cfg)
}

// DefaultProviders returns a registry with the built-in adapters.
func DefaultProviders() *ProviderRegistry {
	r := NewProviderRegistry()
	r.RegisterLLM("openai", buildOpenAI)
	r.RegisterLLM("mock", buildMock)
	return r
}

func buildOpenAI(cfg Config) (llm.Adapter, error) {
	settings := cfg.Vendors.LLM.Settings
	if err := configutil.ValidateSettings(settings, configutil.Schema{
		Required: []string{"model"},
		Optional: []string{"api_key", "base_url", "timeout_ms"},
	}); err != nil {
		return nil, fmt.Errorf("vendors.llm.settings: %w", err)
	}
	var pc openaiprovider.Config
	if err := configutil.DecodeSettings(settings, &pc); err != nil {
		return nil, fmt.Errorf("vendors.llm.settings: %w", err)
	}
	return openaiprovider.NewAdapter(pc), nil
}

func buildMock(cfg Config) (llm.Adapter, error) {
	var pc mockprovider.Config
	if err := configutil.DecodeSettings(cfg.Vendors.LLM.Settings, &pc); err != nil {
		return nil, fmt.Errorf("vendors.llm.settings: %w", err)
	}
	return mockprovider.NewAdapter(pc), nil
}
