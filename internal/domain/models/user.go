// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Role is derived exactly once at creation (see the identity
// package); after that only an explicit administrative SetRole may change it.
const (
	RoleSuperAdmin  = "super_admin"
	RolePartnerLead = "partner_lead"
	RoleAnsar       = "ansar"
	RoleSeeker      = "seeker"
)

// IsValidRole reports whether role is one of the known user roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RolePartnerLead, RoleAnsar, RoleSeeker:
		return true
	}
	return false
}

// User is the internally-owned mirror of an externally-managed auth identity.
//
// NOTE:
//   - AuthID is the identity provider's stable ID. It is set once at creation
//     and never changed; a unique index on auth_id enforces one User per
//     external identity even under concurrent first-login.
//   - Email and FullName track the provider on every sync; Role and
//     OrganizationID do not.
type User struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AuthID         string              `bson:"auth_id" json:"auth_id"`
	FullName       string              `bson:"full_name" json:"full_name"`
	FullNameCI     string              `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email          string              `bson:"email" json:"email"`
	Role           string              `bson:"role" json:"role"` // super_admin | partner_lead | ansar | seeker
	Status         string              `bson:"status,omitempty" json:"status,omitempty"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty" json:"organization_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
