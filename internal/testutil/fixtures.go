package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/ansarhub/ansarhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
//
// Documents are inserted directly, bypassing the stores, so tests can set up
// state the stores would normalize away (mixed-case lead emails, for example).
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateOrganization creates a test partner hub organization.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		City:      "Test City",
		State:     "TS",
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("organizations").InsertOne(ctx, org)
	if err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}

	return org
}

// CreateUser creates a test user with the given parameters.
// Partner leads must be given an orgID.
func (f *Fixtures) CreateUser(ctx context.Context, authID, fullName, email, role string, orgID *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:             primitive.NewObjectID(),
		AuthID:         authID,
		FullName:       fullName,
		FullNameCI:     text.Fold(fullName),
		Email:          email,
		Role:           role,
		Status:         "active",
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateSeeker creates a test seeker user.
func (f *Fixtures) CreateSeeker(ctx context.Context, authID, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, authID, fullName, email, models.RoleSeeker, nil)
}

// CreatePartnerLead creates a test partner lead linked to the given organization.
func (f *Fixtures) CreatePartnerLead(ctx context.Context, authID, fullName, email string, orgID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, authID, fullName, email, models.RolePartnerLead, &orgID)
}

// CreateDisabledUser creates a test user with disabled status.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, authID, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		AuthID:     authID,
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Role:       models.RoleSeeker,
		Status:     "disabled",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create disabled test user: %v", err)
	}

	return user
}

// CreatePartnerApplication creates a partner application document exactly as
// given. LeadEmail is stored verbatim so tests can reproduce legacy records
// with mixed-case addresses.
func (f *Fixtures) CreatePartnerApplication(ctx context.Context, leadName, leadEmail, hubName, status string, orgID *primitive.ObjectID) models.PartnerApplication {
	f.t.Helper()

	now := time.Now().UTC()
	app := models.PartnerApplication{
		ID:             primitive.NewObjectID(),
		LeadName:       leadName,
		LeadEmail:      leadEmail,
		HubName:        hubName,
		Status:         status,
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := f.db.Collection("partner_applications").InsertOne(ctx, app)
	if err != nil {
		f.t.Fatalf("failed to create test partner application: %v", err)
	}

	return app
}
