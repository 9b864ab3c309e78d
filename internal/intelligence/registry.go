package intelligence

import (
	"fmt"

	"github.com/signalnine/algolens/internal/config"
)

// DefaultProviderID is what Get falls back to for unknown ids.
const DefaultProviderID = "gemini"

// Registry is an ordered, fixed set of providers.
type Registry struct {
	order     []string
	providers map[string]Provider
	fallback  string
	// selected answers Get("") when set.
	selected string
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider), fallback: DefaultProviderID}
	for _, p := range providers {
		if _, dup := r.providers[p.ID()]; dup {
			continue
		}
		r.order = append(r.order, p.ID())
		r.providers[p.ID()] = p
	}
	if _, ok := r.providers[r.fallback]; !ok && len(r.order) > 0 {
		r.fallback = r.order[0]
	}
	return r
}

// NewRegistryFromConfig builds gemini, ollama, hf and gateway in that order.
// An empty provider id selects cfg.Default.
func NewRegistryFromConfig(cfg config.Providers) *Registry {
	r := NewRegistry(
		NewGeminiProvider(cfg.Gemini.Model, cfg.Gemini.APIKey()),
		NewOllamaProvider(cfg.Ollama.Endpoint, cfg.Ollama.Model),
		HuggingFaceProvider{},
		NewGatewayProvider(cfg.Gateway.URL, cfg.Gateway.Model, cfg.Gateway.APIKey()),
	)
	if _, ok := r.providers[cfg.Default]; ok {
		r.selected = cfg.Default
	}
	return r
}

// Get returns the provider for id. An empty id picks the configured default;
// an unknown id picks the fallback provider.
func (r *Registry) Get(id string) Provider {
	if id == "" && r.selected != "" {
		id = r.selected
	}
	if p, ok := r.providers[id]; ok {
		return p
	}
	return r.providers[r.fallback]
}

// Lookup is Get without the fallback.
func (r *Registry) Lookup(id string) (Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", id)
	}
	return p, nil
}

// Available lists every provider in registration order.
func (r *Registry) Available() []Provider {
	out := make([]Provider, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.providers[id])
	}
	return out
}
