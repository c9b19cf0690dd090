package resources

import (
	"fmt"
	"sort"
	"sync"

	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime"
	configpkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/config"
)

// Kind describes one deployable publisher: where it reads from, what it
// writes and how it resolves resources into events.
type Kind struct {
	Name         string
	ConsumerName string
	OutputTopic  string
	// RoutingKeys are the keys the queue is bound to. Routes may recognize
	// more keys than are subscribed.
	RoutingKeys []string
	SchemaName  string
	Schema      string
	Routes      Routes
}

// Resolver builds the kind's resolver over env.
func (k Kind) Resolver(env Env) (runtime.Resolver, error) {
	return NewRouteResolver(k.Routes, env)
}

// Definition builds the runtime definition, applying CONSUMER_NAME and
// OUTPUT_TOPIC overrides from conf.
func (k Kind) Definition(conf *configpkg.Config, env Env) (runtime.Definition, error) {
	resolver, err := k.Resolver(env)
	if err != nil {
		return runtime.Definition{}, fmt.Errorf("%s: %w", k.Name, err)
	}

	consumer, topic := k.ConsumerName, k.OutputTopic
	if conf != nil {
		conf.WithDefaults(k.ConsumerName, k.OutputTopic)
		consumer, topic = conf.ConsumerName, conf.OutputTopic
	}

	return runtime.Definition{
		Event: runtime.EventConfig{
			Name:   k.SchemaName,
			Topic:  topic,
			Schema: k.Schema,
		},
		Resource: runtime.ResourceConfig{
			ConsumerName: consumer,
			RoutingKeys:  append([]string(nil), k.RoutingKeys...),
		},
		Resolver: resolver,
	}, nil
}

// Registry maintains the resource kinds known to the binary. Kind packages
// register themselves from init.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Kind
}

// DefaultRegistry is the global kind registry.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Kind)}
}

// Register adds a kind, replacing any kind with the same name.
func (r *Registry) Register(k Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[k.Name] = k
}

// Lookup returns the kind registered under name.
func (r *Registry) Lookup(name string) (Kind, error) {
	r.mu.RLock()
	k, ok := r.kinds[name]
	r.mu.RUnlock()

	if !ok {
		return Kind{}, fmt.Errorf("unknown resource kind: %q (registered: %v)", name, r.Names())
	}
	return k, nil
}

// Names returns the registered kind names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has returns true if a kind is registered with the given name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.kinds[name]
	return ok
}

// Register adds a kind to the default registry.
func Register(k Kind) {
	DefaultRegistry.Register(k)
}

// Lookup finds a kind in the default registry.
func Lookup(name string) (Kind, error) {
	return DefaultRegistry.Lookup(name)
}

// Names lists the kinds in the default registry.
func Names() []string {
	return DefaultRegistry.Names()
}
