package messages_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	messagesfeature "github.com/ansarhub/ansarhub/internal/app/features/messages"
	messagestore "github.com/ansarhub/ansarhub/internal/app/store/messages"
	"github.com/ansarhub/ansarhub/internal/domain/models"
	"github.com/ansarhub/ansarhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*messagesfeature.Handler, *messagestore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := messagestore.New(db)
	return messagesfeature.NewHandler(store, zap.NewNop()), store
}

func TestServeLog(t *testing.T) {
	handler, _ := newTestHandler(t)

	recipient := primitive.NewObjectID()
	body := `{"type":"email","recipient_id":"` + recipient.Hex() + `","recipient_email":"seeker@example.com","template":"welcome","subject":"Welcome"}`
	req := httptest.NewRequest("POST", "/messages", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeLog(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var logged models.Message
	if err := json.NewDecoder(rec.Body).Decode(&logged); err != nil {
		t.Fatalf("decoding body failed: %v", err)
	}
	if logged.ID.IsZero() {
		t.Error("expected an assigned message id")
	}
	if logged.Status != models.MessagePending {
		t.Errorf("status: got %q, want %q", logged.Status, models.MessagePending)
	}
}

func TestServeLog_ValidationError(t *testing.T) {
	handler, _ := newTestHandler(t)

	// Email message with no recipient address.
	body := `{"type":"email","recipient_id":"` + primitive.NewObjectID().Hex() + `","template":"welcome"}`
	req := httptest.NewRequest("POST", "/messages", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeLog(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServeLog_InvalidRecipientID(t *testing.T) {
	handler, _ := newTestHandler(t)

	body := `{"type":"email","recipient_id":"nope","recipient_email":"a@b.c","template":"welcome"}`
	req := httptest.NewRequest("POST", "/messages", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeLog(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServeUpdateStatus(t *testing.T) {
	handler, store := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logged, err := store.Log(ctx, models.Message{
		Type:           "sms",
		RecipientID:    primitive.NewObjectID(),
		RecipientPhone: "+15555550100",
		Template:       "match-found",
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	body := `{"status":"failed","error_message":"number unreachable"}`
	req := httptest.NewRequest("PUT", "/messages/"+logged.ID.Hex()+"/status", strings.NewReader(body))
	req = testutil.WithChiURLParam(req, "id", logged.ID.Hex())
	rec := httptest.NewRecorder()

	handler.ServeUpdateStatus(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusNoContent)
	}

	msgs, err := store.ListByRecipient(ctx, logged.RecipientID)
	if err != nil {
		t.Fatalf("ListByRecipient failed: %v", err)
	}
	if msgs[0].Status != models.MessageFailed {
		t.Errorf("status: got %q, want %q", msgs[0].Status, models.MessageFailed)
	}
	if msgs[0].ErrorMessage != "number unreachable" {
		t.Errorf("error_message: got %q", msgs[0].ErrorMessage)
	}
}

func TestServeUpdateStatus_NotFound(t *testing.T) {
	handler, _ := newTestHandler(t)

	id := primitive.NewObjectID().Hex()
	req := httptest.NewRequest("PUT", "/messages/"+id+"/status", strings.NewReader(`{"status":"sent"}`))
	req = testutil.WithChiURLParam(req, "id", id)
	rec := httptest.NewRecorder()

	handler.ServeUpdateStatus(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServeList_FilterByRecipient(t *testing.T) {
	handler, store := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	recipient := primitive.NewObjectID()
	other := primitive.NewObjectID()
	for _, rid := range []primitive.ObjectID{recipient, other} {
		if _, err := store.Log(ctx, models.Message{
			Type:           "email",
			RecipientID:    rid,
			RecipientEmail: "x@example.com",
			Template:       "reminder",
		}); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	req := httptest.NewRequest("GET", "/admin/messages?recipient_id="+recipient.Hex(), nil)
	rec := httptest.NewRecorder()

	handler.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}

	var list []models.Message
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decoding body failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 message, got %d", len(list))
	}
	if list[0].RecipientID != recipient {
		t.Errorf("recipient: got %v, want %v", list[0].RecipientID, recipient)
	}
}
