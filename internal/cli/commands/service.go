package commands

import (
	"context"

	"github.com/leapstack-labs/dremio-connector/internal/config"
	"github.com/leapstack-labs/dremio-connector/pkg/service"
)

// newRegistry builds the registry commands resolve services from.
var newRegistry = func() (*service.Registry, error) {
	r := service.NewRegistry()
	if err := service.RegisterDremio(r); err != nil {
		return nil, err
	}
	return r, nil
}

// openService instantiates the service selected by --service.
func openService(ctx context.Context) (*service.Service, error) {
	cfg := config.FromContext(ctx)
	rec, err := cfg.Find(cfg.Service)
	if err != nil {
		return nil, err
	}

	r, err := newRegistry()
	if err != nil {
		return nil, err
	}
	return r.NewService(service.DremioServiceType().Name, *rec, config.GetLogger(ctx))
}
