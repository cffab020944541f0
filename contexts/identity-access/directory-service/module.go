// Package directoryservice is the identity-access composition root: client
// company management and the tenant-scoped user directory behind /api/clients,
// /api/user and /api/me.
package directoryservice

import (
	"log/slog"

	httpadapter "foreman/contexts/identity-access/directory-service/adapters/http"
	"foreman/contexts/identity-access/directory-service/adapters/memory"
	"foreman/contexts/identity-access/directory-service/application"
	"foreman/contexts/identity-access/directory-service/ports"
)

// Module is exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Tenants     ports.TenantRepository
	Users       ports.UserRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// NewModule wires the service and transport handler from explicit ports.
func NewModule(deps Dependencies) Module {
	service := application.Service{
		Tenants:     deps.Tenants,
		Users:       deps.Users,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Tenants:     store,
		Users:       store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
