// internal/app/features/messages/handler.go
package messages

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	messagestore "github.com/ansarhub/ansarhub/internal/app/store/messages"
	"github.com/ansarhub/ansarhub/internal/app/system/timeouts"
	"github.com/ansarhub/ansarhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the notification audit log: the dispatcher collaborator
// records attempts and outcomes, admins read the history.
type Handler struct {
	Log      *zap.Logger
	Messages *messagestore.Store
}

func NewHandler(store *messagestore.Store, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Messages: store}
}

// logRequest is the body of POST /messages.
type logRequest struct {
	Type           string `json:"type"`
	RecipientID    string `json:"recipient_id"`
	RecipientPhone string `json:"recipient_phone,omitempty"`
	RecipientEmail string `json:"recipient_email,omitempty"`
	Template       string `json:"template"`
	Subject        string `json:"subject,omitempty"`
	Status         string `json:"status,omitempty"`
}

// ServeLog handles POST /messages, one append per send attempt. Retrying a
// failed call re-posts a new record, so the dispatcher dedupes on its side.
func (h *Handler) ServeLog(w http.ResponseWriter, r *http.Request) {
	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	recipientID, err := primitive.ObjectIDFromHex(req.RecipientID)
	if err != nil {
		http.Error(w, "invalid recipient_id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	logged, err := h.Messages.Log(ctx, models.Message{
		Type:           req.Type,
		RecipientID:    recipientID,
		RecipientPhone: req.RecipientPhone,
		RecipientEmail: req.RecipientEmail,
		Template:       req.Template,
		Subject:        req.Subject,
		Status:         req.Status,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) || isValidation(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.Log.Error("message log failed", zap.Error(err))
		http.Error(w, "log failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(logged)
}

// statusRequest is the body of PUT /messages/{id}/status.
type statusRequest struct {
	Status       string `json:"status"`
	ProviderID   string `json:"provider_id,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// ServeUpdateStatus handles PUT /messages/{id}/status.
func (h *Handler) ServeUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid message id", http.StatusBadRequest)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Messages.UpdateStatus(ctx, id, req.Status, req.ProviderID, req.ErrorMessage); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "message not found", http.StatusNotFound)
			return
		}
		if isValidation(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.Log.Error("message status update failed",
			zap.String("message_id", id.Hex()),
			zap.Error(err))
		http.Error(w, "status update failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ServeList handles GET /admin/messages, optionally filtered with
// ?recipient_id=<hex>. Newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		list []models.Message
		err  error
	)
	if recipParam := query.Get(r, "recipient_id"); recipParam != "" {
		recipientID, parseErr := primitive.ObjectIDFromHex(recipParam)
		if parseErr != nil {
			http.Error(w, "invalid recipient_id", http.StatusBadRequest)
			return
		}
		list, err = h.Messages.ListByRecipient(ctx, recipientID)
	} else {
		list, err = h.Messages.List(ctx)
	}
	if err != nil {
		h.Log.Error("message listing failed", zap.Error(err))
		http.Error(w, "listing failed", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Message{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// isValidation reports whether err is one of the store's input-validation
// sentinels (as opposed to a storage failure).
func isValidation(err error) bool {
	return errors.Is(err, messagestore.ErrValidation)
}
