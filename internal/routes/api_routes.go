package routes

import (
	"gearhouse/catalog/internal/api"
	"gearhouse/catalog/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers.
// This keeps API route registration separate from the main router setup.
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies) {

	adminOnly := middleware.AdminAuthMiddleware(deps.Repo.Keys, deps.Services.Session, deps.Services.URLSigner)

	// Presigned-link login exchange stays outside the auth gate.
	r.Get("/admin/login", handlers.AdminLoginHandler())
	r.Post("/admin/logout", handlers.AdminLogoutHandler())

	r.Route("/api/v1", func(v1 chi.Router) {

		// Public storefront reads
		v1.Get("/products", handlers.ListProducts())
		v1.Get("/products/{id}", handlers.GetProduct())
		v1.Get("/products/{id}/compatibility", handlers.GetProductCompatibility())
		v1.Get("/vehicles", handlers.ListVehicles())
		v1.Get("/categories", handlers.ListCategories())

		// Back office: one boolean gate, no role ladder behind it.
		v1.Group(func(admin chi.Router) {
			admin.Use(adminOnly)

			admin.Post("/products", handlers.CreateProduct())
			admin.Patch("/products/{id}", handlers.PatchProduct())
			admin.Delete("/products/{id}", handlers.DeleteProduct())

			admin.Post("/vehicles", handlers.CreateVehicle())
			admin.Delete("/vehicles/{id}", handlers.DeleteVehicle())

			admin.Post("/categories", handlers.CreateCategory())
			admin.Delete("/categories/{id}", handlers.DeleteCategory())

			admin.Post("/compatibility/seed", handlers.SeedCompatibility())
			admin.Get("/compatibility/seed", handlers.PreviewSeedDistribution())

			admin.Get("/schema/migrate", handlers.ListSchemaMigrations())
			admin.Post("/schema/migrate/{changeID}", handlers.RunSchemaMigration())
			admin.Get("/schema/migrate/{changeID}", handlers.GetSchemaMigrationStatus())

			admin.Post("/auth/generate-dashboard-link", handlers.GenerateDashboardLinkHandler())
		})
	})
}
