package core

import "sync"

// Registry is a concurrency-safe mapping from agent id to capability handle.
// Lookups dominate writes, so access follows a reader-many/writer-rare
// discipline via RWMutex. Registration order is preserved so that broadcast
// and introspection are deterministic.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]Agent
	order  []string
}

// NewRegistry constructs an empty agent registry.
func NewRegistry() *Registry {
	return &Registry{agents: make(map[string]Agent)}
}

// Register inserts an agent under the given id. Duplicate ids are rejected
// with ErrDuplicateAgent.
func (r *Registry) Register(id string, agent Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[id]; exists {
		return ErrDuplicateAgent
	}
	r.agents[id] = agent
	r.order = append(r.order, id)
	return nil
}

// Unregister removes an agent and reports whether it was present.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[id]; !exists {
		return false
	}
	delete(r.agents, id)
	for i, registered := range r.order {
		if registered == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the agent registered under id, if any.
func (r *Registry) Get(id string) (Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	agent, ok := r.agents[id]
	return agent, ok
}

// IDs returns the registered agent ids in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
