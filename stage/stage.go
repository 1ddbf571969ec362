package stage

import (
	"context"
	"sort"
	"sync"

	"github.com/storypipe/storypipe/message"
)

// Func is a stage body: it consumes a message it exclusively owns and
// returns the updated message or an error.
type Func func(ctx context.Context, msg *message.Message) (*message.Message, error)

// Registry provides named stage lookup for invoker construction.
type Registry struct {
	mu     sync.RWMutex
	stages map[string]Func
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{stages: make(map[string]Func)}
}

// Register adds a stage function under a name.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages[name] = fn
}

// Get retrieves a stage function by name.
func (r *Registry) Get(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.stages[name]
	return fn, ok
}

// List returns sorted names of all registered stages.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.stages))
	for name := range r.stages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
