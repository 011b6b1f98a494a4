package videos

import (
	"sync"

	"philcali.me/recipebot/internal/provider"
)

// Registry keeps providers in declaration order. Order is the priority used
// when results are concatenated.
type Registry struct {
	mutex     sync.RWMutex
	providers []provider.VideoProvider
}

func NewRegistry(providers ...provider.VideoProvider) *Registry {
	registry := &Registry{}
	for _, p := range providers {
		registry.Register(p)
	}
	return registry
}

// Register appends a provider, or replaces one already registered under the same name in place.
func (r *Registry) Register(p provider.VideoProvider) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for i, existing := range r.providers {
		if existing.Name() == p.Name() {
			r.providers[i] = p
			return
		}
	}
	r.providers = append(r.providers, p)
}

func (r *Registry) Unregister(name string) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for i, existing := range r.providers {
		if existing.Name() == name {
			r.providers = append(r.providers[:i], r.providers[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Registry) Providers() []provider.VideoProvider {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	out := make([]provider.VideoProvider, len(r.providers))
	copy(out, r.providers)
	return out
}
