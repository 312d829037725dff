// Package registry resolves configured providers for a capability.
//
// Providers are built once from configuration and are immutable afterwards,
// so a Registry is safe for concurrent use without locking.
package registry

import (
	"sort"

	"github.com/tjfontaine/polyglot-media-gateway/internal/domain"
	"github.com/tjfontaine/polyglot-media-gateway/internal/pkg/config"
)

// Registry holds the provider records keyed by name.
type Registry struct {
	providers       map[string]*domain.Provider
	defaultProvider string
}

// New creates a registry from the provider configuration.
func New(providers map[string]config.ProviderConfig, defaultProvider string) *Registry {
	r := &Registry{
		providers:       make(map[string]*domain.Provider, len(providers)),
		defaultProvider: defaultProvider,
	}
	for key, cfg := range providers {
		name := cfg.Name
		if name == "" {
			name = key
		}
		r.providers[key] = &domain.Provider{
			Name:    name,
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Models: domain.ProviderModels{
				Text:          cloneStrings(cfg.Models.Text),
				Transcription: cloneStrings(cfg.Models.Transcription),
				Image:         cloneStrings(cfg.Models.Image),
				Video:         cloneStrings(cfg.Models.Video),
			},
		}
	}
	return r
}

// Resolve returns the provider for capability. An empty name selects the
// default provider. Video additionally requires at least one video model.
func (r *Registry) Resolve(capability domain.Capability, name string) (*domain.Provider, error) {
	if name == "" {
		name = r.defaultProvider
	}

	p, ok := r.providers[name]
	if !ok {
		return nil, domain.ErrProviderNotFound(name)
	}

	if capability == domain.CapabilityVideo && len(p.Models.Video) == 0 {
		return nil, domain.ErrCapabilityUnsupported(name, capability)
	}

	return p, nil
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (*domain.Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Names returns the configured provider keys sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the default provider name.
func (r *Registry) Default() string {
	return r.defaultProvider
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
