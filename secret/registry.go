package secret

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DetectorFactory creates a Detector from configuration.
type DetectorFactory func(cfg map[string]any) (Detector, error)

// Registry manages detector factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]DetectorFactory
}

// NewRegistry creates a new detector registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]DetectorFactory)}
}

// Register adds a detector factory.
func (r *Registry) Register(name string, factory DetectorFactory) error {
	if strings.TrimSpace(name) == "" || factory == nil {
		return errors.New("invalid detector registration")
	}
	name = strings.TrimSpace(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("secret detector %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Create instantiates a detector by factory name.
func (r *Registry) Create(name string, cfg map[string]any) (Detector, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("detector name is required")
	}

	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("secret detector %q is not registered", name)
	}

	return factory(cfg)
}

// List returns registered factory names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global registry for detector factories. It ships
// with the "key" factory (cfg: {"name": <credential key>}) and the "pem"
// factory (no cfg).
var DefaultRegistry = NewRegistry()

func init() {
	_ = DefaultRegistry.Register("key", func(cfg map[string]any) (Detector, error) {
		name, _ := cfg["name"].(string)
		return NewKeyDetector(name)
	})
	_ = DefaultRegistry.Register("pem", func(map[string]any) (Detector, error) {
		return NewPEMDetector(), nil
	})
}
