// Package diagnose cross-checks a partner application against the user record
// reconciliation should have produced for it.
//
// Both lookups use the caller's input verbatim, with no normalization. That
// is deliberate: the inspector exists to expose casing drift between stored
// records and what operators expect, so a canonicalizing lookup would mask
// exactly the failures it is meant to find.
package diagnose

import (
	"context"
	"fmt"

	"github.com/ansarhub/ansarhub/internal/app/store/partnerapps"
	userstore "github.com/ansarhub/ansarhub/internal/app/store/users"
	"github.com/ansarhub/ansarhub/internal/domain/models"
	"go.uber.org/zap"
)

// Verdict strings, in the order the decision chain checks them. More than one
// failure can be true at once; the chain reports the first.
const (
	VerdictNoApplication  = "no partner application found for this email"
	VerdictUserNotCreated = "application approved but no user has been created"
	VerdictOK             = "approved application and partner_lead user are in sync"
)

// Report is the inspector's read-only findings for one email.
type Report struct {
	Email string `json:"email"`

	// User and Application are nil when the exact-match lookup found nothing.
	// Application carries the literal stored lead_email so an operator can
	// compare casing by eye.
	User        *models.User               `json:"user"`
	Application *models.PartnerApplication `json:"application"`

	Verdict string `json:"verdict"`
}

// Inspector performs the cross-check. It never mutates anything.
type Inspector struct {
	users *userstore.Store
	apps  *partnerapps.Store
	log   *zap.Logger
}

// New creates an Inspector over the given stores.
func New(users *userstore.Store, apps *partnerapps.Store, logger *zap.Logger) *Inspector {
	return &Inspector{users: users, apps: apps, log: logger}
}

// Diagnose looks up the user and partner application records exactly matching
// email and reports why reconciliation did or did not produce a partner lead.
//
// The verdict is decided in this fixed priority order:
//  1. no application found
//  2. application found but not approved
//  3. application approved but no user
//  4. user exists but is not partner_lead
//  5. everything in sync
func (i *Inspector) Diagnose(ctx context.Context, email string) (Report, error) {
	rpt := Report{Email: email}

	app, err := i.apps.FindByLeadEmail(ctx, email, "")
	if err != nil {
		return Report{}, fmt.Errorf("look up partner application: %w", err)
	}
	rpt.Application = app

	user, err := i.users.GetByEmailExact(ctx, email)
	if err != nil {
		return Report{}, fmt.Errorf("look up user: %w", err)
	}
	rpt.User = user

	rpt.Verdict = verdict(app, user)

	i.log.Debug("diagnosis complete",
		zap.String("email", email),
		zap.Bool("application_found", app != nil),
		zap.Bool("user_found", user != nil),
		zap.String("verdict", rpt.Verdict))

	return rpt, nil
}

func verdict(app *models.PartnerApplication, user *models.User) string {
	switch {
	case app == nil:
		return VerdictNoApplication
	case app.Status != models.ApplicationApproved:
		return fmt.Sprintf("application found but status is %q, not approved", app.Status)
	case user == nil:
		return VerdictUserNotCreated
	case user.Role != models.RolePartnerLead:
		return fmt.Sprintf("user exists but role is %q, not partner_lead", user.Role)
	default:
		return VerdictOK
	}
}
