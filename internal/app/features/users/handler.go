// internal/app/features/users/handler.go
package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	userstore "github.com/ansarhub/ansarhub/internal/app/store/users"
	"github.com/ansarhub/ansarhub/internal/app/system/normalize"
	"github.com/ansarhub/ansarhub/internal/app/system/timeouts"
	"github.com/ansarhub/ansarhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin user listing and the role override endpoint.
type Handler struct {
	Log   *zap.Logger
	Users *userstore.Store
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Users: users}
}

// ServeList handles GET /admin/users, optionally filtered with
// ?organization_id=<hex>.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		list []models.User
		err  error
	)
	if orgParam := query.Get(r, "organization_id"); orgParam != "" {
		orgID, parseErr := primitive.ObjectIDFromHex(orgParam)
		if parseErr != nil {
			http.Error(w, "invalid organization_id", http.StatusBadRequest)
			return
		}
		list, err = h.Users.ListByOrganization(ctx, orgID)
	} else {
		list, err = h.Users.List(ctx)
	}
	if err != nil {
		h.Log.Error("user listing failed", zap.Error(err))
		http.Error(w, "listing failed", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.User{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// setRoleRequest is the body of PUT /admin/users/{id}/role.
type setRoleRequest struct {
	Role           string `json:"role"`
	OrganizationID string `json:"organization_id,omitempty"`
}

// ServeSetRole handles PUT /admin/users/{id}/role, the only sanctioned way
// to change a user's role or organization after reconciliation created them.
func (h *Handler) ServeSetRole(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	role := normalize.Role(req.Role)
	if !models.IsValidRole(role) {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	var orgID *primitive.ObjectID
	if req.OrganizationID != "" {
		oid, err := primitive.ObjectIDFromHex(req.OrganizationID)
		if err != nil {
			http.Error(w, "invalid organization_id", http.StatusBadRequest)
			return
		}
		orgID = &oid
	}
	if role == models.RolePartnerLead && orgID == nil {
		http.Error(w, "partner_lead requires organization_id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetRole(ctx, id, role, orgID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		h.Log.Error("role override failed",
			zap.String("user_id", id.Hex()),
			zap.Error(err))
		http.Error(w, "role update failed", http.StatusInternalServerError)
		return
	}

	h.Log.Info("role overridden",
		zap.String("user_id", id.Hex()),
		zap.String("role", role))

	w.WriteHeader(http.StatusNoContent)
}
