// internal/app/store/partnerapps/store.go
package partnerapps

import (
	"context"
	"errors"
	"time"

	"github.com/ansarhub/ansarhub/internal/app/system/normalize"
	"github.com/ansarhub/ansarhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("partner_applications")}
}

var (
	errLeadEmailNeeded = errors.New("lead_email is required")
	errBadAppStatus    = errors.New(`status must be "pending"|"approved"|"rejected"`)
)

// GetByID loads an application by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PartnerApplication, error) {
	var app models.PartnerApplication
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&app); err != nil {
		return nil, err
	}
	return &app, nil
}

// FindByLeadEmail looks up an application by the *exact stored value* of
// lead_email; it does not normalize the query. Callers that want canonical
// matching must normalize first (records written before the casing fix may
// still miss until RepairLeadEmailCasing has run). When excludeStatus is
// non-empty, applications with that status are not considered.
//
// Returns (nil, nil) when nothing matches. If several applications share one
// lead_email, which one is returned is unspecified.
func (s *Store) FindByLeadEmail(ctx context.Context, email, excludeStatus string) (*models.PartnerApplication, error) {
	filter := bson.M{"lead_email": email}
	if excludeStatus != "" {
		filter["status"] = bson.M{"$ne": excludeStatus}
	}

	var app models.PartnerApplication
	err := s.c.FindOne(ctx, filter).Decode(&app)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Create inserts a new application (intake path). lead_email is stored in
// canonical form so new records never need the casing repair.
func (s *Store) Create(ctx context.Context, app models.PartnerApplication) (models.PartnerApplication, error) {
	app.ID = primitive.NewObjectID()
	app.LeadName = normalize.Name(app.LeadName)
	app.LeadEmail = normalize.Email(app.LeadEmail)
	app.HubName = normalize.Name(app.HubName)
	if app.Status == "" {
		app.Status = models.ApplicationPending
	}

	if app.LeadEmail == "" {
		return models.PartnerApplication{}, errLeadEmailNeeded
	}
	if !models.IsValidApplicationStatus(app.Status) {
		return models.PartnerApplication{}, errBadAppStatus
	}

	now := time.Now()
	app.CreatedAt = now
	app.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, app); err != nil {
		return models.PartnerApplication{}, err
	}
	return app, nil
}

// SetStatus transitions an application's status (administrative action).
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	st = normalize.Status(st)
	if !models.IsValidApplicationStatus(st) {
		return errBadAppStatus
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     st,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AttachOrganization links a provisioned organization to an application.
func (s *Store) AttachOrganization(ctx context.Context, id, orgID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"organization_id": orgID,
		"updated_at":      time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RepairLeadEmailCasing rewrites every lead_email that is not already in
// canonical form. Each record's fix is independent, so an interrupted run can
// simply be re-run; once converged, further runs report zero changes.
func (s *Store) RepairLeadEmailCasing(ctx context.Context) (int64, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"lead_email": 1}))
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var fixed int64
	for cur.Next(ctx) {
		var rec struct {
			ID        primitive.ObjectID `bson:"_id"`
			LeadEmail string             `bson:"lead_email"`
		}
		if err := cur.Decode(&rec); err != nil {
			return fixed, err
		}

		canonical := normalize.Email(rec.LeadEmail)
		if canonical == rec.LeadEmail {
			continue
		}

		_, err := s.c.UpdateByID(ctx, rec.ID, bson.M{"$set": bson.M{
			"lead_email": canonical,
			"updated_at": time.Now(),
		}})
		if err != nil {
			return fixed, err
		}
		fixed++
	}
	if err := cur.Err(); err != nil {
		return fixed, err
	}
	return fixed, nil
}

// List returns all applications, newest first.
func (s *Store) List(ctx context.Context) ([]models.PartnerApplication, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var apps []models.PartnerApplication
	if err := cur.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}
