// internal/app/features/diagnostics/handler.go
package diagnostics

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ansarhub/ansarhub/internal/app/store/partnerapps"
	"github.com/ansarhub/ansarhub/internal/app/system/diagnose"
	"github.com/ansarhub/ansarhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler serves the operator-facing diagnostic and repair endpoints.
type Handler struct {
	Log       *zap.Logger
	Inspector *diagnose.Inspector
	Apps      *partnerapps.Store
}

func NewHandler(inspector *diagnose.Inspector, apps *partnerapps.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Log:       logger,
		Inspector: inspector,
		Apps:      apps,
	}
}

// ServeDiagnose handles GET /admin/diagnostics?email=…
//
// The email is passed through to the inspector verbatim, with no trimming or
// lower-casing, so the response shows exactly what an exact-match lookup
// sees for the stored records.
func (h *Handler) ServeDiagnose(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "email query parameter is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	report, err := h.Inspector.Diagnose(ctx, email)
	if err != nil {
		h.Log.Error("diagnosis failed", zap.String("email", email), zap.Error(err))
		http.Error(w, "diagnosis failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}

// ServeRepairEmails handles POST /admin/partner-applications/repair-emails.
// Re-running it is always safe; once the data has converged it reports zero.
func (h *Handler) ServeRepairEmails(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	fixed, err := h.Apps.RepairLeadEmailCasing(ctx)
	if err != nil {
		h.Log.Error("lead email casing repair failed",
			zap.Int64("fixed_before_failure", fixed),
			zap.Error(err))
		http.Error(w, "repair failed", http.StatusInternalServerError)
		return
	}

	h.Log.Info("lead email casing repair complete", zap.Int64("fixed", fixed))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int64{"repaired": fixed})
}
