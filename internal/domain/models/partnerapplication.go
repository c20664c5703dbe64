// internal/domain/models/partnerapplication.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Partner application statuses.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// IsValidApplicationStatus reports whether s is a known application status.
func IsValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

// PartnerApplication is an organization-affiliation application filed by a
// prospective partner lead, possibly before their first login.
//
// LeadEmail is intended to be stored in canonical (lower-case) form; records
// written before that rule was enforced may carry inconsistent casing, which
// is what RepairLeadEmailCasing converges.
type PartnerApplication struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LeadName  string             `bson:"lead_name" json:"lead_name"`
	LeadEmail string             `bson:"lead_email" json:"lead_email"`
	HubName   string             `bson:"hub_name" json:"hub_name"`
	Status    string             `bson:"status" json:"status"` // pending | approved | rejected

	// OrganizationID is set when an Organization is provisioned for an
	// approved application, and cleared again if that Organization is deleted.
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty" json:"organization_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
