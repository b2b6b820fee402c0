package plugin

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/alexisbeaulieu97/cdotctl/internal/config"
	"github.com/alexisbeaulieu97/cdotctl/internal/model"
	"github.com/alexisbeaulieu97/cdotctl/internal/zapi"
)

// Registry maps kinds to plugins.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// Register adds a plugin to the registry.
func (r *Registry) Register(p Plugin) error {
	if p == nil {
		return fmt.Errorf("plugin is nil")
	}

	meta := p.Metadata()
	if err := meta.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[meta.Name]; exists {
		return fmt.Errorf("plugin '%s' already registered", meta.Name)
	}
	r.plugins[meta.Name] = p
	return nil
}

// Get retrieves the plugin for kind.
func (r *Registry) Get(kind string) (Plugin, error) {
	r.mu.RLock()
	p, ok := r.plugins[kind]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrPluginNotFound{Name: kind, Known: r.names()}
	}
	return p, nil
}

// List returns the metadata of every plugin, sorted by name.
func (r *Registry) List() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Metadata, 0, len(r.plugins))
	for _, p := range r.plugins {
		out = append(out, p.Metadata())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Reconcile dispatches res to the plugin registered for its kind.
func (r *Registry) Reconcile(ctx context.Context, client zapi.Client, res config.Resource, opts RunOptions) (*model.Outcome, error) {
	p, err := r.Get(res.Kind)
	if err != nil {
		return nil, err
	}
	return p.Reconcile(ctx, client, res, opts)
}

func (r *Registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
