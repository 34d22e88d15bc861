// Package service is the per-service entry point the host instantiates for
// a Dremio data source, plus the registration surface the host uses to
// discover it.
//
// A Service normalizes its configuration record on construction, derives a
// configuration-based cache prefix, and provisions its single connection on
// first use. It is not safe for concurrent use; the host serializes calls.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/bluele/gcache"
	"github.com/google/uuid"
	"github.com/leapstack-labs/dremio-connector/pkg/adapter"
	"github.com/leapstack-labs/dremio-connector/pkg/config"
	"github.com/leapstack-labs/dremio-connector/pkg/core"
	"github.com/leapstack-labs/dremio-connector/pkg/dsn"
)

// Table-listing cache defaults.
const (
	DefaultCacheSize = 64
	DefaultCacheTTL  = 5 * time.Minute
)

var cacheNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/leapstack-labs/dremio-connector/cache"))

// Record is a service as the host persists it.
type Record struct {
	ID          int            `koanf:"id" yaml:"id"`
	Name        string         `koanf:"name" yaml:"name"`
	Label       string         `koanf:"label" yaml:"label"`
	Description string         `koanf:"description" yaml:"description"`
	IsActive    bool           `koanf:"is_active" yaml:"is_active"`
	Config      map[string]any `koanf:"config" yaml:"config"`
}

// EnsureName assigns the fallback name dremio-<id> when Name is empty.
func (r *Record) EnsureName() {
	if r.Name == "" {
		r.Name = fmt.Sprintf("%s-%d", config.DriverName, r.ID)
	}
}

// ResourceKind classifies a resource handler.
type ResourceKind string

const (
	ResourceTable     ResourceKind = "table"
	ResourceProcedure ResourceKind = "procedure"
	ResourceFunction  ResourceKind = "function"
)

// Resource paths exposed by the service.
const (
	PathTable     = "_table"
	PathProcedure = "_proc"
	PathFunction  = "_func"
)

// ResourceHandler describes one resource the service exposes to the API layer.
type ResourceHandler struct {
	Name  string
	Label string
	Kind  ResourceKind
}

// Endpoint is an advertised resource path and the verbs it accepts.
type Endpoint struct {
	Resource string
	Verbs    []string
}

// Capabilities is the API surface the service advertises.
type Capabilities struct {
	ReadOnly  bool
	Endpoints []Endpoint
}

// Allows reports whether verb is advertised for resource.
func (c Capabilities) Allows(resource, verb string) bool {
	for _, ep := range c.Endpoints {
		if ep.Resource != resource {
			continue
		}
		for _, v := range ep.Verbs {
			if v == verb {
				return true
			}
		}
	}
	return false
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithNormalizer overrides the configuration normalizer.
func WithNormalizer(n *config.Normalizer) Option {
	return func(s *Service) { s.normalizer = n }
}

// WithConnectionFactory overrides how the service opens its connection.
func WithConnectionFactory(f ConnectionFactory) Option {
	return func(s *Service) { s.connect = f }
}

// WithSchemaFactory overrides the catalog introspector factory.
func WithSchemaFactory(f SchemaFactory) Option {
	return func(s *Service) { s.schema = f }
}

// WithCache sets the table-listing cache size and expiration.
func WithCache(size int, ttl time.Duration) Option {
	return func(s *Service) {
		s.cacheSize = size
		s.cacheTTL = ttl
	}
}

// Service is one logical Dremio service.
type Service struct {
	record     Record
	descriptor *config.Descriptor
	dsn        dsn.DSN
	prefix     string

	normalizer *config.Normalizer
	connect    ConnectionFactory
	schema     SchemaFactory
	logger     *slog.Logger

	conn      *adapter.Connection
	tables    gcache.Cache
	cacheSize int
	cacheTTL  time.Duration
}

// New creates a Service for rec. The configuration is normalized and the
// DSN built immediately, so configuration errors surface here.
func New(rec Record, opts ...Option) (*Service, error) {
	s := &Service{
		record:    rec,
		connect:   Connect,
		schema:    NewSchema,
		cacheSize: DefaultCacheSize,
		cacheTTL:  DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.normalizer == nil {
		s.normalizer = config.NewNormalizer()
	}

	if s.cacheSize <= 0 {
		return nil, fmt.Errorf("table cache size must be positive, got %d", s.cacheSize)
	}
	if err := s.configure(); err != nil {
		return nil, err
	}
	s.tables = gcache.New(s.cacheSize).LRU().Expiration(s.cacheTTL).Build()
	return s, nil
}

func (s *Service) configure() error {
	raw, err := config.Decode(s.record.Config)
	if err != nil {
		return err
	}
	desc, err := s.normalizer.Normalize(raw)
	if err != nil {
		return err
	}
	d, err := dsn.Build(desc)
	if err != nil {
		return err
	}
	prefix, err := CachePrefix(desc)
	if err != nil {
		return err
	}

	s.descriptor = desc
	s.dsn = d
	s.prefix = prefix
	return nil
}

// CachePrefix derives a stable key from a descriptor. Descriptors that
// differ in any field yield different prefixes.
func CachePrefix(d *config.Descriptor) (string, error) {
	canonical, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to encode descriptor: %w", err)
	}
	return uuid.NewSHA1(cacheNamespace, canonical).String(), nil
}

// Name returns the service name.
func (s *Service) Name() string {
	return s.record.Name
}

// Record returns a copy of the service record.
func (s *Service) Record() Record {
	return s.record
}

// Descriptor returns the normalized configuration.
func (s *Service) Descriptor() *config.Descriptor {
	return s.descriptor
}

// DSN returns the connection string. Log it as is; it redacts itself.
func (s *Service) DSN() dsn.DSN {
	return s.dsn
}

// CachePrefix returns the configuration-based cache prefix.
func (s *Service) CachePrefix() string {
	return s.prefix
}

// GetDriverName returns the driver identifier.
func (s *Service) GetDriverName() string {
	return config.DriverName
}

// ResourceHandlers lists the resources every dremio service exposes: the
// table resource plus stored procedures and functions.
func ResourceHandlers() []ResourceHandler {
	return []ResourceHandler{
		{Name: PathTable, Label: "Tables", Kind: ResourceTable},
		{Name: PathProcedure, Label: "Stored Procedures", Kind: ResourceProcedure},
		{Name: PathFunction, Label: "Stored Functions", Kind: ResourceFunction},
	}
}

// GetResourceHandlers returns ResourceHandlers.
func (s *Service) GetResourceHandlers() []ResourceHandler {
	return ResourceHandlers()
}

// Capabilities advertises read-only table listing.
func (s *Service) Capabilities() Capabilities {
	return Capabilities{
		ReadOnly:  true,
		Endpoints: []Endpoint{{Resource: PathTable, Verbs: []string{"GET"}}},
	}
}

// GetConnection returns the live connection, provisioning it on first call.
func (s *Service) GetConnection(ctx context.Context) (*adapter.Connection, error) {
	if s.conn != nil {
		return s.conn, nil
	}

	d := s.descriptor
	s.logger.Debug("provisioning connection",
		slog.String("service", s.record.Name),
		slog.Any("dsn", s.dsn),
		slog.Bool("host_set", d.Host != ""),
		slog.Bool("token_set", d.Token() != ""),
		slog.Bool("http_path_set", d.HTTPPath() != ""),
		slog.Bool("use_odbc", d.UseODBC),
		slog.Bool("driver_path_set", d.DriverPath != ""))

	conn, err := s.connect(ctx, d, s.logger)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	return conn, nil
}

// ListTables lists tables in schema, caching results per configuration.
// An empty schema lists the connection's current schema, so those results
// are cached under the schema in effect at call time. Callers own the
// returned map.
func (s *Service) ListTables(ctx context.Context, schema string) (map[string]*core.TableDescriptor, error) {
	key := s.prefix + ":" + schema
	var conn *adapter.Connection
	if schema == "" {
		var err error
		if conn, err = s.GetConnection(ctx); err != nil {
			return nil, err
		}
		key += "@" + conn.CurrentSchema()
	}
	if v, err := s.tables.Get(key); err == nil {
		return cloneTables(v.(map[string]*core.TableDescriptor)), nil
	}

	if conn == nil {
		var err error
		if conn, err = s.GetConnection(ctx); err != nil {
			return nil, err
		}
	}
	tables, err := s.schema(conn).ListTables(ctx, schema)
	if err != nil {
		return nil, err
	}
	if err := s.tables.Set(key, cloneTables(tables)); err != nil {
		return nil, fmt.Errorf("failed to cache table list: %w", err)
	}
	return tables, nil
}

func cloneTables(tables map[string]*core.TableDescriptor) map[string]*core.TableDescriptor {
	out := maps.Clone(tables)
	for k, t := range out {
		cp := *t
		out[k] = &cp
	}
	return out
}

// OnServiceModified applies an updated record. An empty name gets the
// fallback name. The configuration is re-normalized, cached listings are
// dropped and any open connection is closed.
func (s *Service) OnServiceModified(rec *Record) error {
	rec.EnsureName()

	prev := s.record
	s.record = *rec
	if err := s.configure(); err != nil {
		s.record = prev
		return err
	}

	s.tables.Purge()
	s.logger.Debug("service modified", slog.String("service", rec.Name), slog.String("cache_prefix", s.prefix))
	return s.closeConn()
}

// Close releases the connection and drops cached listings.
func (s *Service) Close() error {
	s.tables.Purge()
	return s.closeConn()
}

func (s *Service) closeConn() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
