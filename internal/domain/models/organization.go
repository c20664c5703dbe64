// internal/domain/models/organization.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization is a partner hub that sponsors seekers and ansars locally.
// Includes case/diacritic-insensitive fields for search/sort.
type Organization struct {
	ID     primitive.ObjectID `bson:"_id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"name_ci"` // ← always stored
	City   string             `bson:"city" json:"city"`
	State  string             `bson:"state" json:"state"`
	Status string             `bson:"status" json:"status"`

	// PartnerApplicationID back-references the application this hub was
	// provisioned from. Deleting the organization reverts that application
	// to pending so it re-enters the queue.
	PartnerApplicationID *primitive.ObjectID `bson:"partner_application_id,omitempty" json:"partner_application_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
