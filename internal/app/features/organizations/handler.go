// internal/app/features/organizations/handler.go
package organizations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	organizationstore "github.com/ansarhub/ansarhub/internal/app/store/organizations"
	"github.com/ansarhub/ansarhub/internal/app/store/partnerapps"
	"github.com/ansarhub/ansarhub/internal/app/system/timeouts"
	"github.com/ansarhub/ansarhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin organization endpoints: listing, provisioning a
// hub from an approved application, and deletion.
type Handler struct {
	Log  *zap.Logger
	Orgs *organizationstore.Store
	Apps *partnerapps.Store
}

func NewHandler(orgs *organizationstore.Store, apps *partnerapps.Store, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Orgs: orgs, Apps: apps}
}

// ServeList handles GET /admin/organizations.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	orgs, err := h.Orgs.List(ctx)
	if err != nil {
		h.Log.Error("organization listing failed", zap.Error(err))
		http.Error(w, "listing failed", http.StatusInternalServerError)
		return
	}
	if orgs == nil {
		orgs = []models.Organization{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(orgs)
}

// createRequest is the body of POST /admin/organizations.
type createRequest struct {
	Name                 string `json:"name"`
	City                 string `json:"city,omitempty"`
	State                string `json:"state,omitempty"`
	PartnerApplicationID string `json:"partner_application_id,omitempty"`
}

// ServeCreate handles POST /admin/organizations. When the body names a
// partner application, the new hub is linked to it in both directions, which
// is the step that makes the application's lead eligible for partner_lead on
// their next first-login.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	org := models.Organization{
		Name:  req.Name,
		City:  req.City,
		State: req.State,
	}

	var appID *primitive.ObjectID
	if req.PartnerApplicationID != "" {
		oid, err := primitive.ObjectIDFromHex(req.PartnerApplicationID)
		if err != nil {
			http.Error(w, "invalid partner_application_id", http.StatusBadRequest)
			return
		}
		appID = &oid
		org.PartnerApplicationID = appID
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if appID != nil {
		if _, err := h.Apps.GetByID(ctx, *appID); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				http.Error(w, "partner application not found", http.StatusNotFound)
				return
			}
			h.Log.Error("application lookup failed", zap.Error(err))
			http.Error(w, "provisioning failed", http.StatusInternalServerError)
			return
		}
	}

	created, err := h.Orgs.Create(ctx, org)
	if err != nil {
		if errors.Is(err, organizationstore.ErrDuplicateOrganization) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		h.Log.Error("organization create failed", zap.Error(err))
		http.Error(w, "provisioning failed", http.StatusInternalServerError)
		return
	}

	if appID != nil {
		if err := h.Apps.AttachOrganization(ctx, *appID, created.ID); err != nil {
			// The org exists but the application link failed; deleting the
			// org reverts cleanly, so surface the failure rather than leave
			// a half-linked pair.
			h.Log.Error("application link failed; rolling back organization",
				zap.String("organization_id", created.ID.Hex()),
				zap.Error(err))
			if _, delErr := h.Orgs.Delete(ctx, created.ID); delErr != nil {
				h.Log.Error("rollback delete failed", zap.Error(delErr))
			}
			http.Error(w, "provisioning failed", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

// ServeDelete handles DELETE /admin/organizations/{id}. Any application
// referencing the organization is reverted to pending first; deleting an
// organization that is already gone is a no-op 204.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid organization id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := h.Orgs.Delete(ctx, id)
	if err != nil {
		h.Log.Error("organization delete failed",
			zap.String("organization_id", id.Hex()),
			zap.Error(err))
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}

	h.Log.Info("organization deleted",
		zap.String("organization_id", id.Hex()),
		zap.Int64("deleted", deleted))

	w.WriteHeader(http.StatusNoContent)
}
