// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message types.
const (
	MessageSMS   = "sms"
	MessageEmail = "email"
)

// Message statuses.
const (
	MessagePending = "pending"
	MessageSent    = "sent"
	MessageFailed  = "failed"
)

// Message is an append-only audit record of one outbound notification attempt.
// The dispatcher creates it at send time and reports the delivery outcome via
// later status updates; the store does not police the order those updates
// arrive in.
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type           string             `bson:"type" json:"type"` // sms | email
	RecipientID    primitive.ObjectID `bson:"recipient_id" json:"recipient_id"`
	RecipientPhone string             `bson:"recipient_phone,omitempty" json:"recipient_phone,omitempty"`
	RecipientEmail string             `bson:"recipient_email,omitempty" json:"recipient_email,omitempty"`
	Template       string             `bson:"template" json:"template"`
	Subject        string             `bson:"subject,omitempty" json:"subject,omitempty"`
	Status         string             `bson:"status" json:"status"` // pending | sent | failed
	ErrorMessage   string             `bson:"error_message,omitempty" json:"error_message,omitempty"`

	// ProviderID is the delivery provider's identifier for this message,
	// recorded once the provider acknowledges the send.
	ProviderID string `bson:"provider_id,omitempty" json:"provider_id,omitempty"`

	SentAt time.Time `bson:"sent_at" json:"sent_at"`
}
