// internal/app/features/diagnostics/routes.go
package diagnostics

import (
	"github.com/ansarhub/ansarhub/internal/app/system/auth"
	"github.com/ansarhub/ansarhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for the diagnostic endpoints (superadmin only).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleSuperAdmin))
		pr.Get("/diagnostics", h.ServeDiagnose)
		pr.Post("/partner-applications/repair-emails", h.ServeRepairEmails)
	})

	return r
}
