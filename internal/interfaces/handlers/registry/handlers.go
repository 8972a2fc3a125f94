package registry

import (
	listsvc "airgrid-backend/internal/application/listings"
	mktsvc "airgrid-backend/internal/application/marketplace"
	"airgrid-backend/internal/middleware"
	"airgrid-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Marketplace *mktsvc.Service
	Listings    *listsvc.Service
}

// Initialize POST /api/v1/registry/initialize — creates the singleton
// registry with the caller as authority. Second call fails with 409.
func (h *Handlers) Initialize(c *fiber.Ctx) error {
	caller := middleware.Caller(c)
	registry, err := h.Marketplace.InitializeRegistry(c.Context(), caller)
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Registry initialized", registry, nil)
}

// Get GET /api/v1/registry
func (h *Handlers) Get(c *fiber.Ctx) error {
	registry, err := h.Listings.Registry(c.Context())
	if err != nil {
		return err
	}
	return response.Success(c, "Registry", registry, nil)
}
