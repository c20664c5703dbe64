// internal/app/features/users/routes.go
package users

import (
	"github.com/ansarhub/ansarhub/internal/app/system/auth"
	"github.com/ansarhub/ansarhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for the admin user endpoints (superadmin only).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleSuperAdmin))
		pr.Get("/", h.ServeList)
		pr.Put("/{id}/role", h.ServeSetRole)
	})

	return r
}
