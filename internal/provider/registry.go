package provider

import (
	"errors"
	"fmt"

	"github.com/ashwch/aiarch/internal/config"
)

var (
	ErrUnknownProvider     = errors.New("unknown provider")
	ErrUnknownProviderKind = errors.New("unknown provider kind")
	ErrMissingCommand      = errors.New("missing command")
	ErrShellUnsupported    = errors.New("command strings need a POSIX shell; use an argv list on windows")
)

// Registry resolves provider names against a loaded config. Entries are
// decoded on lookup, so a broken descriptor only fails the call that uses it.
type Registry struct {
	providers map[string]map[string]any
}

func NewRegistry(cfg config.Config) *Registry {
	return &Registry{providers: cfg.Providers}
}

func (r *Registry) Lookup(name string) (Descriptor, error) {
	raw, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: provider %s has no descriptor", ErrUnknownProviderKind, name)
	}
	return decodeDescriptor(name, raw)
}

func (r *Registry) Names() []string {
	return config.Config{Providers: r.providers}.ProviderNames()
}

// Validate decodes every provider and reports the ones that cannot run.
func (r *Registry) Validate() []error {
	issues := []error{}
	for _, name := range r.Names() {
		desc, err := r.Lookup(name)
		if err != nil {
			issues = append(issues, err)
			continue
		}
		if _, err := HealthCheck(desc); err != nil {
			issues = append(issues, fmt.Errorf("provider %q health check failed: %w", name, err))
		}
	}
	return issues
}
