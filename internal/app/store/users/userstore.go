// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/ansarhub/ansarhub/internal/app/system/normalize"
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
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateAuthID is returned when an insert collides with the unique
	// auth_id index. Callers treat it as "someone else already created this
	// user" and re-read rather than failing.
	ErrDuplicateAuthID = errors.New("a user with this auth ID already exists")
	errBadRole         = errors.New(`role must be "super_admin"|"partner_lead"|"ansar"|"seeker"`)
	errBadStatus       = errors.New(`status must be "active"|"disabled"`)
	errOrgNeeded       = errors.New("partner_lead must have organization_id")
	errOrgForbidden    = errors.New("only partner_lead may have organization_id")
	errAuthIDNeeded    = errors.New("auth_id is required")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByAuthID loads a user by the identity provider's stable ID.
// Returns mongo.ErrNoDocuments if no user has been created for it yet.
func (s *Store) GetByAuthID(ctx context.Context, authID string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"auth_id": authID}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmailExact looks up a user by the literal stored email, with no
// normalization of the query. The diagnostic inspector uses this on purpose
// so that casing drift is exposed rather than masked; everything else should
// use GetByEmail. Returns (nil, nil) when no user matches.
func (s *Store) GetByEmailExact(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
// Role and OrganizationID are fixed here for the lifetime of the record;
// only SetRole may change them afterward.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	// Normalize core fields
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	if u.Status == "" {
		u.Status = status.Active
	}

	if u.AuthID == "" {
		return models.User{}, errAuthIDNeeded
	}

	if !models.IsValidRole(u.Role) {
		return models.User{}, errBadRole
	}

	if !status.IsValid(u.Status) {
		return models.User{}, errBadStatus
	}

	// Partner leads are scoped to an org; nobody else carries one.
	if u.Role == models.RolePartnerLead && u.OrganizationID == nil {
		return models.User{}, errOrgNeeded
	}
	if u.Role != models.RolePartnerLead && u.OrganizationID != nil {
		return models.User{}, errOrgForbidden
	}

	// Timestamps
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	// Insert
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateAuthID
		}
		return models.User{}, err
	}
	return u, nil
}

// UpdateProfile refreshes the fields that mirror the identity provider:
// email and full name. Role, organization, and status are deliberately not
// touched here; every sync after the first goes through this path.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, email, fullName string) error {
	fullName = normalize.Name(fullName)
	set := bson.M{
		"email":        normalize.Email(email),
		"full_name":    fullName,
		"full_name_ci": text.Fold(fullName),
		"updated_at":   time.Now(),
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// SetRole is the only sanctioned way to change a user's role or organization
// after creation. partner_lead requires orgID; any other role clears it.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string, orgID *primitive.ObjectID) error {
	role = normalize.Role(role)
	if !models.IsValidRole(role) {
		return errBadRole
	}
	if role == models.RolePartnerLead && orgID == nil {
		return errOrgNeeded
	}

	update := bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": time.Now(),
	}}
	if role == models.RolePartnerLead {
		update["$set"].(bson.M)["organization_id"] = *orgID
	} else {
		update["$unset"] = bson.M{"organization_id": ""}
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetStatus enables or disables an account.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	st = normalize.Status(st)
	if !status.IsValid(st) {
		return errBadStatus
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

// List returns all users sorted by folded name.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	return s.find(ctx, bson.M{})
}

// ListByOrganization returns all users affiliated with the given organization,
// sorted by folded name.
func (s *Store) ListByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]models.User, error) {
	return s.find(ctx, bson.M{"organization_id": orgID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
