// internal/app/features/organizations/routes.go
package organizations

import (
	"github.com/ansarhub/ansarhub/internal/app/system/auth"
	"github.com/ansarhub/ansarhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for the admin organization endpoints
// (superadmin only).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleSuperAdmin))
		pr.Get("/", h.ServeList)
		pr.Post("/", h.ServeCreate)
		pr.Delete("/{id}", h.ServeDelete)
	})

	return r
}
