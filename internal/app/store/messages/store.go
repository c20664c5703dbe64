// internal/app/store/messages/store.go
package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ansarhub/ansarhub/internal/app/system/normalize"
	"github.com/ansarhub/ansarhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the append-only audit log of outbound notification attempts.
// The notification dispatcher writes here; it never reads its own records.
type Store struct {
	c *mongo.Collection
}

// New creates a new message audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("messages")}
}

// ErrValidation is the common base of every input-validation failure from
// this store, so callers can tell a bad request apart from a storage failure.
var ErrValidation = errors.New("invalid message")

var (
	errBadType         = fmt.Errorf(`%w: type must be "sms"|"email"`, ErrValidation)
	errBadMsgStatus    = fmt.Errorf(`%w: status must be "pending"|"sent"|"failed"`, ErrValidation)
	errRecipientNeeded = fmt.Errorf("%w: recipient_id is required", ErrValidation)
	errContactNeeded   = fmt.Errorf("%w: recipient_phone (sms) or recipient_email (email) is required", ErrValidation)
)

// Log appends one message attempt and returns the stored record with its new
// id. Retrying a failed Log call without deduplication creates a duplicate
// audit entry; callers that retry must dedupe on their side.
func (s *Store) Log(ctx context.Context, m models.Message) (models.Message, error) {
	m.ID = primitive.NewObjectID()
	m.Type = strings.ToLower(strings.TrimSpace(m.Type))
	if m.Status == "" {
		m.Status = models.MessagePending
	}
	m.Status = normalize.Status(m.Status)

	if m.Type != models.MessageSMS && m.Type != models.MessageEmail {
		return models.Message{}, errBadType
	}
	if m.Status != models.MessagePending && m.Status != models.MessageSent && m.Status != models.MessageFailed {
		return models.Message{}, errBadMsgStatus
	}
	if m.RecipientID.IsZero() {
		return models.Message{}, errRecipientNeeded
	}
	if (m.Type == models.MessageSMS && m.RecipientPhone == "") ||
		(m.Type == models.MessageEmail && m.RecipientEmail == "") {
		return models.Message{}, errContactNeeded
	}

	if m.SentAt.IsZero() {
		m.SentAt = time.Now()
	}

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// UpdateStatus records a delivery outcome reported by the provider. There is
// no monotonicity check on the transition; a caller can legally move a record
// backward, and nothing in normal operation revisits a terminal record.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, st, providerID, errorMessage string) error {
	st = normalize.Status(st)
	if st != models.MessagePending && st != models.MessageSent && st != models.MessageFailed {
		return errBadMsgStatus
	}

	set := bson.M{"status": st}
	if providerID != "" {
		set["provider_id"] = providerID
	}
	if errorMessage != "" {
		set["error_message"] = errorMessage
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// List returns all messages, newest first.
func (s *Store) List(ctx context.Context) ([]models.Message, error) {
	return s.find(ctx, bson.M{})
}

// ListByRecipient returns the messages sent to one recipient, newest first.
func (s *Store) ListByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]models.Message, error) {
	return s.find(ctx, bson.M{"recipient_id": recipientID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sent_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []models.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}
