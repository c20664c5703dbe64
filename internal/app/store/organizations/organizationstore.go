// internal/app/store/organizations/organizationstore.go
package organizationstore

import (
	"context"
	"errors"
	"time"

	"github.com/ansarhub/ansarhub/internal/app/system/status"
	"github.com/ansarhub/ansarhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c    *mongo.Collection
	apps *mongo.Collection
}

var ErrDuplicateOrganization = errors.New("an organization with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{
		c:    db.Collection("organizations"),
		apps: db.Collection("partner_applications"),
	}
}

// Create provisions a new partner hub. When the organization originates from
// an approved application, PartnerApplicationID carries the back-reference;
// the caller is responsible for linking the application's organization_id in
// the other direction (see partnerapps.AttachOrganization).
func (s *Store) Create(ctx context.Context, org models.Organization) (models.Organization, error) {
	now := time.Now().UTC()
	org.ID = primitive.NewObjectID()
	org.NameCI = text.Fold(org.Name)
	if org.Status == "" {
		org.Status = status.Active
	}
	org.CreatedAt = now
	org.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, org)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Organization{}, ErrDuplicateOrganization
		}
		return models.Organization{}, err
	}
	return org, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Organization, error) {
	var org models.Organization
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if err != nil {
		return models.Organization{}, err
	}
	return org, nil
}

// List returns all organizations sorted by folded name.
func (s *Store) List(ctx context.Context) ([]models.Organization, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var orgs []models.Organization
	if err := cur.All(ctx, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// Delete removes an organization. Before the delete, any partner application
// referencing it is reverted to {organization_id: unset, status: pending} so
// the application re-enters the pending queue rather than pointing at a dead
// organization. A missing organization, or one with no linked application,
// is a no-op, not an error.
//
// The revert and the delete are two record-level writes with no transaction
// between them; if the process dies in between, re-running Delete is safe
// (the revert matches nothing the second time).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	_, err := s.apps.UpdateMany(ctx,
		bson.M{"organization_id": id},
		bson.M{
			"$unset": bson.M{"organization_id": ""},
			"$set": bson.M{
				"status":     models.ApplicationPending,
				"updated_at": time.Now(),
			},
		})
	if err != nil {
		return 0, err
	}

	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
