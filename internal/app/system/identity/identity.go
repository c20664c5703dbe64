// Package identity keeps externally-managed auth identities in sync with the
// internally-owned user records.
//
// The auth provider owns the identity (stable ID, verified email, display
// name); this package owns the mirror record and its derived role. There is
// no transaction spanning the partner-application lookup and the user insert,
// so the unique index on users.auth_id is the backstop that keeps "exactly
// one user per identity" true under concurrent first-login.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/ansarhub/ansarhub/internal/app/store/partnerapps"
	userstore "github.com/ansarhub/ansarhub/internal/app/store/users"
	"github.com/ansarhub/ansarhub/internal/app/system/normalize"
	"github.com/ansarhub/ansarhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	// ErrMissingAuthID is returned when the identity assertion has no stable ID.
	ErrMissingAuthID = errors.New("identity assertion is missing the auth ID")
	// ErrMissingEmail is returned when the identity assertion has no email.
	ErrMissingEmail = errors.New("identity assertion is missing the email")
)

// DeriveRole computes the role and organization affiliation a new user gets
// from the partner application found for their email (or nil when none was
// found). This is the only place role is computed from business data; every
// later change goes through the administrative SetRole.
//
// An approved application whose organization has not been provisioned yet
// still yields seeker: role assignment lags organization provisioning, and a
// later SetRole (or re-created account) picks the lead role up.
func DeriveRole(app *models.PartnerApplication) (string, *primitive.ObjectID) {
	if app == nil || app.OrganizationID == nil {
		return models.RoleSeeker, nil
	}
	return models.RolePartnerLead, app.OrganizationID
}

// Reconciler upserts user records from identity assertions.
type Reconciler struct {
	users *userstore.Store
	apps  *partnerapps.Store
	log   *zap.Logger
}

// New creates a Reconciler over the given stores.
func New(users *userstore.Store, apps *partnerapps.Store, logger *zap.Logger) *Reconciler {
	return &Reconciler{users: users, apps: apps, log: logger}
}

// Reconcile is called on every login/provisioning event with the provider's
// identity assertion and returns the internal user id.
//
// If a user already exists for authID, only email and name are refreshed;
// role and organization are never recomputed on this path. Otherwise a new
// user is created with the role derived from any non-pending partner
// application matching the (canonicalized) email.
//
// Reconcile is idempotent and safe to retry: a retry after a partial success
// finds the record created the first time, and losing the insert race to a
// concurrent call degrades into the update path.
func (r *Reconciler) Reconcile(ctx context.Context, authID, email, name string) (primitive.ObjectID, error) {
	if authID == "" {
		return primitive.NilObjectID, ErrMissingAuthID
	}
	if normalize.Email(email) == "" {
		return primitive.NilObjectID, ErrMissingEmail
	}

	existing, err := r.users.GetByAuthID(ctx, authID)
	if err == nil {
		if err := r.users.UpdateProfile(ctx, existing.ID, email, name); err != nil {
			return primitive.NilObjectID, fmt.Errorf("update profile: %w", err)
		}
		return existing.ID, nil
	}
	if err != mongo.ErrNoDocuments {
		return primitive.NilObjectID, fmt.Errorf("look up user by auth ID: %w", err)
	}

	// First login for this identity: derive role from any non-pending
	// application filed for this email. Pending applications confer nothing.
	app, err := r.apps.FindByLeadEmail(ctx, normalize.Email(email), models.ApplicationPending)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("look up partner application: %w", err)
	}

	role, orgID := DeriveRole(app)

	created, err := r.users.Create(ctx, models.User{
		AuthID:         authID,
		FullName:       name,
		Email:          email,
		Role:           role,
		OrganizationID: orgID,
	})
	if err == nil {
		r.log.Info("user provisioned from identity assertion",
			zap.String("auth_id", authID),
			zap.String("role", role))
		return created.ID, nil
	}

	if err == userstore.ErrDuplicateAuthID {
		// A concurrent reconcile for the same identity won the insert race.
		// That user's role stands; we just refresh the profile.
		winner, err := r.users.GetByAuthID(ctx, authID)
		if err != nil {
			return primitive.NilObjectID, fmt.Errorf("re-read user after duplicate insert: %w", err)
		}
		if err := r.users.UpdateProfile(ctx, winner.ID, email, name); err != nil {
			return primitive.NilObjectID, fmt.Errorf("update profile: %w", err)
		}
		return winner.ID, nil
	}

	return primitive.NilObjectID, fmt.Errorf("create user: %w", err)
}
