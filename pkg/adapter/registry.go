package adapter

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/leapstack-labs/dremio-connector/pkg/dsn"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[dsn.Scheme]func(*slog.Logger) Provider)
)

// Register adds a provider factory for a DSN scheme.
// Called by provider implementations in their init() functions.
func Register(scheme dsn.Scheme, factory func(*slog.Logger) Provider) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[scheme] = factory
}

// Get retrieves a provider factory by scheme.
func Get(scheme dsn.Scheme) (func(*slog.Logger) Provider, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[scheme]
	return f, ok
}

// NewProvider creates the provider for a DSN's scheme.
// The logger parameter is passed to the provider constructor (nil uses discard logger).
func NewProvider(d dsn.DSN, logger *slog.Logger) (Provider, error) {
	scheme := d.Scheme()
	if scheme == "" {
		return nil, fmt.Errorf("DSN scheme not specified")
	}

	factory, ok := Get(scheme)
	if !ok {
		return nil, &UnknownProviderError{
			Scheme:    scheme,
			Available: ListProviders(),
		}
	}
	return factory(logger), nil
}

// ListProviders returns all registered schemes (sorted).
func ListProviders() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for scheme := range registry {
		names = append(names, string(scheme))
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a provider is registered for scheme.
func IsRegistered(scheme dsn.Scheme) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[scheme]
	return ok
}

// UnknownProviderError is returned when no provider serves a DSN scheme.
type UnknownProviderError struct {
	Scheme    dsn.Scheme
	Available []string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("no connection provider for scheme %q\nAvailable providers: %v\nHint: import github.com/leapstack-labs/dremio-connector/pkg/adapters/dremio to register the odbc and dremio providers", e.Scheme, e.Available)
}
