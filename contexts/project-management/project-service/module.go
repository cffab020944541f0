// Package projectservice is the project-management composition root: the
// tenant-scoped RBAC and membership core behind the /api/projects surface.
package projectservice

import (
	"log/slog"
	"time"

	httpadapter "foreman/contexts/project-management/project-service/adapters/http"
	"foreman/contexts/project-management/project-service/adapters/memory"
	"foreman/contexts/project-management/project-service/application"
	"foreman/contexts/project-management/project-service/ports"
)

// Module is exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Projects      ports.ProjectRepository
	Memberships   ports.MembershipRepository
	Users         ports.UserDirectory
	OwnerCache    ports.OwnerCache
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	OwnerCacheTTL time.Duration
	Logger        *slog.Logger
}

// NewModule wires the orchestrator and transport handler from explicit ports.
func NewModule(deps Dependencies) Module {
	service := application.Service{
		Projects:      deps.Projects,
		Memberships:   deps.Memberships,
		Users:         deps.Users,
		OwnerCache:    deps.OwnerCache,
		Clock:         deps.Clock,
		IDGenerator:   deps.IDGenerator,
		OwnerCacheTTL: deps.OwnerCacheTTL,
		Logger:        deps.Logger,
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
		Projects:      store,
		Memberships:   store,
		Users:         store,
		OwnerCache:    store,
		Clock:         store,
		IDGenerator:   store,
		OwnerCacheTTL: 5 * time.Minute,
		Logger:        logger,
	})
	module.Store = store
	return module
}
