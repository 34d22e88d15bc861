package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/leapstack-labs/dremio-connector/pkg/adapter"
	"github.com/leapstack-labs/dremio-connector/pkg/config"
	"github.com/leapstack-labs/dremio-connector/pkg/dialect"
	"github.com/leapstack-labs/dremio-connector/pkg/dsn"

	// Import the providers and the dremio dialect to ensure they're registered
	_ "github.com/leapstack-labs/dremio-connector/pkg/adapters/dremio"
)

// ConnectionFactory opens a dialect-bound connection for a descriptor.
type ConnectionFactory func(ctx context.Context, d *config.Descriptor, logger *slog.Logger) (*adapter.Connection, error)

// SchemaFactory builds the catalog introspector for a connection.
type SchemaFactory func(conn *adapter.Connection) *dialect.Introspector

// Factory creates a Service from a record.
type Factory func(rec Record, logger *slog.Logger) (*Service, error)

// ServiceType is the registrable description of a service kind.
type ServiceType struct {
	Name                 string
	Label                string
	Description          string
	Group                string
	SubscriptionRequired string
	ConfigSchema         []config.Field
	Factory              Factory
}

// Connect is the ConnectionFactory for the dremio driver: it builds the DSN
// and provisions a connection through the registered providers.
func Connect(ctx context.Context, d *config.Descriptor, logger *slog.Logger) (*adapter.Connection, error) {
	return connect(ctx, d, logger, adapter.NewProvider)
}

func connect(ctx context.Context, d *config.Descriptor, logger *slog.Logger, resolve func(dsn.DSN, *slog.Logger) (adapter.Provider, error)) (*adapter.Connection, error) {
	target, err := dsn.Build(d)
	if err != nil {
		return nil, err
	}
	dia, err := dialect.Lookup(config.DriverName)
	if err != nil {
		return nil, err
	}

	p := adapter.NewProvisioner(dia, d.Schema, logger)
	p.Resolve = resolve
	return p.Connect(ctx, target, adapter.Credentials{})
}

// NewSchema is the SchemaFactory for the dremio driver.
func NewSchema(conn *adapter.Connection) *dialect.Introspector {
	return conn.Introspector()
}

// Registry is the host-facing registration surface.
type Registry struct {
	mu      sync.RWMutex
	types   map[string]ServiceType
	db      map[string]ConnectionFactory
	schemas map[string]SchemaFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:   make(map[string]ServiceType),
		db:      make(map[string]ConnectionFactory),
		schemas: make(map[string]SchemaFactory),
	}
}

// RegisterServiceType adds a service type, replacing any with the same name.
func (r *Registry) RegisterServiceType(t ServiceType) error {
	if t.Name == "" {
		return fmt.Errorf("service type name is required")
	}
	if t.Factory == nil {
		return fmt.Errorf("service type %q has no factory", t.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t.Name] = t
	return nil
}

// RegisterDBExtension adds a connection factory for a driver name.
func (r *Registry) RegisterDBExtension(driver string, f ConnectionFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.db[driver] = f
}

// RegisterSchemaExtension adds a schema factory for a driver name.
func (r *Registry) RegisterSchemaExtension(driver string, f SchemaFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[driver] = f
}

// ServiceType retrieves a service type by name.
func (r *Registry) ServiceType(name string) (ServiceType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// ServiceTypes returns all registered service types sorted by name.
func (r *Registry) ServiceTypes() []ServiceType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ServiceType, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DBExtension retrieves the connection factory for a driver.
func (r *Registry) DBExtension(driver string) (ConnectionFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.db[driver]
	return f, ok
}

// SchemaExtension retrieves the schema factory for a driver.
func (r *Registry) SchemaExtension(driver string) (SchemaFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.schemas[driver]
	return f, ok
}

// NewService instantiates a service of the named type.
func (r *Registry) NewService(typeName string, rec Record, logger *slog.Logger) (*Service, error) {
	t, ok := r.ServiceType(typeName)
	if !ok {
		return nil, &UnknownServiceTypeError{Name: typeName, Available: r.typeNames()}
	}
	return t.Factory(rec, logger)
}

func (r *Registry) typeNames() []string {
	types := r.ServiceTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name
	}
	return names
}

// UnknownServiceTypeError is returned when a service type is not registered.
type UnknownServiceTypeError struct {
	Name      string
	Available []string
}

func (e *UnknownServiceTypeError) Error() string {
	return fmt.Sprintf("unknown service type %q\nAvailable types: %v\nHint: call service.RegisterDremio on the registry", e.Name, e.Available)
}

// DremioServiceType describes the dremio service kind. Its factory
// creates services with the default connection and schema factories.
func DremioServiceType() ServiceType {
	return ServiceType{
		Name:                 config.DriverName,
		Label:                "Dremio",
		Description:          "Database service supporting Dremio connections.",
		Group:                "Database",
		SubscriptionRequired: "SILVER",
		ConfigSchema:         config.ConfigSchema(),
		Factory: func(rec Record, logger *slog.Logger) (*Service, error) {
			return New(rec, WithLogger(logger))
		},
	}
}

// RegisterDremio registers the dremio service type together with its
// connection and schema extensions. Services created through r use the
// extensions registered on r at creation time.
func RegisterDremio(r *Registry) error {
	r.RegisterDBExtension(config.DriverName, Connect)
	r.RegisterSchemaExtension(config.DriverName, NewSchema)

	t := DremioServiceType()
	t.Factory = func(rec Record, logger *slog.Logger) (*Service, error) {
		opts := []Option{WithLogger(logger)}
		if f, ok := r.DBExtension(config.DriverName); ok {
			opts = append(opts, WithConnectionFactory(f))
		}
		if f, ok := r.SchemaExtension(config.DriverName); ok {
			opts = append(opts, WithSchemaFactory(f))
		}
		return New(rec, opts...)
	}
	return r.RegisterServiceType(t)
}
