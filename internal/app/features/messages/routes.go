// internal/app/features/messages/routes.go
package messages

import (
	"github.com/ansarhub/ansarhub/internal/app/system/auth"
	"github.com/ansarhub/ansarhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the dispatcher-facing write endpoints (any signed-in
// caller; the dispatcher runs with a service account session).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/", h.ServeLog)
		pr.Put("/{id}/status", h.ServeUpdateStatus)
	})

	return r
}

// AdminRoutes returns the read-only listing endpoints (superadmin only).
func AdminRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleSuperAdmin))
		pr.Get("/", h.ServeList)
	})

	return r
}
