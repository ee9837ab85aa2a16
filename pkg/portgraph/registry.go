package portgraph

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/svdagen/pkg/svdagerr"
)

// PortBundle is a mapping from port name to its typed value.
type PortBundle map[string]PortValue

// Params is a mapping of static configuration merged from the node
// descriptor's own params and the global region parameters
// ({resolution, seed, offsetX, offsetZ}).
type Params map[string]interface{}

// Node is one executable unit in a node graph.
type Node interface {
	// Process computes this node's outputs from its inputs and params.
	Process(inputs PortBundle, params Params) (PortBundle, error)
}

// NodeFactory produces a fresh Node instance for a given kind.
type NodeFactory func() Node

// Registry maps a node-kind tag to a factory. It is initialized at startup
// and treated as immutable (read-only shared) by concurrent executions, per
// the core's concurrency model.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]NodeFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]NodeFactory)}
}

// Register adds a factory for kind. Go can't detect whether two calls pass
// "the same" factory function, so Register isn't idempotent: it accepts
// only the first registration of a kind and rejects any later call for
// that kind with ConfigError, even if the factory would behave
// identically. Callers that want idempotent startup registration should
// guard with their own "registered already" check, or call
// RegisterOrReplace.
func (r *Registry) Register(kind string, factory NodeFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if factory == nil {
		return svdagerr.New(svdagerr.ErrConfig, fmt.Sprintf("registering node kind %q", kind))
	}
	if _, exists := r.factories[kind]; exists {
		return svdagerr.New(svdagerr.ErrConfig, fmt.Sprintf("node kind %q already registered", kind))
	}
	r.factories[kind] = factory
	return nil
}

// RegisterOrReplace installs a factory for kind unconditionally. Intended
// for tests and tools that rebuild a registry repeatedly; production
// startup code should use Register.
func (r *Registry) RegisterOrReplace(kind string, factory NodeFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = factory
}

// New instantiates a node of the given kind. The second return value
// reports whether kind was registered.
func (r *Registry) New(kind string) (Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[kind]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Kinds returns all registered kind tags, sorted for deterministic logging.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
