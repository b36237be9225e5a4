package caps

import "sync"

// Registry records which capability key each remote resource currently
// advertises. Bindings are overwritten by each capability-bearing presence
// for the same (entity, resource); superseded bindings are not retained,
// and stale bindings are harmless until superseded.
type Registry struct {
	mu sync.RWMutex

	// bindings maps bare entity -> resource -> key.
	bindings map[string]map[string]Key
}

// NewRegistry creates an empty binding registry.
func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[string]map[string]Key),
	}
}

// Bind records that (entity, resource) currently advertises key,
// overwriting any previous binding.
func (r *Registry) Bind(entity, resource string, key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byResource, ok := r.bindings[entity]
	if !ok {
		byResource = make(map[string]Key)
		r.bindings[entity] = byResource
	}
	byResource[resource] = key
}

// Binding returns the key currently bound to (entity, resource).
func (r *Registry) Binding(entity, resource string) (Key, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byResource, ok := r.bindings[entity]
	if !ok {
		return Key{}, false
	}
	key, ok := byResource[resource]
	return key, ok
}

// Resources returns the resources of entity with a recorded binding.
func (r *Registry) Resources(entity string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byResource := r.bindings[entity]
	out := make([]string, 0, len(byResource))
	for res := range byResource {
		out = append(out, res)
	}
	return out
}
