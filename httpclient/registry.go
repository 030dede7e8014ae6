package httpclient

import (
	"fmt"
	"slices"
	"sync"

	"github.com/andyle182810/webber/config"
)

// Registry keeps independently configured clients side by side, for example
// one per downstream service with its own application name and handler.
// A handler set with OnError sees the failures of every registered client,
// after the client's own handler.
type Registry struct {
	clients     map[string]*Client
	mu          sync.RWMutex
	defaultOpts []Option
	onError     ErrorHandler
}

func NewRegistry(defaultOpts ...Option) *Registry {
	return &Registry{
		clients:     make(map[string]*Client),
		mu:          sync.RWMutex{},
		defaultOpts: defaultOpts,
		onError:     nil,
	}
}

// OnError replaces the registry-wide handler. Clients registered earlier
// pick it up too.
func (r *Registry) OnError(handler ErrorHandler) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.onError = handler

	return r
}

func (r *Registry) errorHandler() ErrorHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.onError
}

func (r *Registry) Register(name string, opts ...Option) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()

	allOpts := make([]Option, 0, len(r.defaultOpts)+len(opts))
	allOpts = append(allOpts, r.defaultOpts...)
	allOpts = append(allOpts, opts...)

	client := New(allOpts...)
	client.registryHandler = r.errorHandler
	r.clients[name] = client

	return r
}

// RegisterFromConfig registers a client configured like NewFromConfig, with
// opts applied after the configuration.
func (r *Registry) RegisterFromConfig(name string, cfg *config.Config, opts ...Option) *Registry {
	return r.Register(name, append(configOptions(cfg), opts...)...)
}

func (r *Registry) Client(name string) *Client {
	client, ok := r.GetClient(name)
	if !ok {
		panic(fmt.Sprintf("httpclient: client %q not registered", name))
	}

	return client
}

func (r *Registry) GetClient(name string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[name]

	return client, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.GetClient(name)

	return ok
}

func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.clients[name]
	if ok {
		delete(r.clients, name)
	}

	return ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.clients)
}
