package userstore_test

import (
	"testing"

	userstore "github.com/ansarhub/ansarhub/internal/app/store/users"
	"github.com/ansarhub/ansarhub/internal/app/system/indexes"
	"github.com/ansarhub/ansarhub/internal/domain/models"
	"github.com/ansarhub/ansarhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create_Seeker(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		AuthID:   "auth-1",
		FullName: "Sara Ali",
		Email:    "Sara@Example.com",
		Role:     models.RoleSeeker,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Email != "sara@example.com" {
		t.Errorf("Email not canonicalized: got %q", created.Email)
	}
	if created.FullNameCI == "" {
		t.Error("expected FullNameCI to be set")
	}
	if created.Status != "active" {
		t.Errorf("default status: got %q, want %q", created.Status, "active")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_PartnerLeadRequiresOrg(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{
		AuthID:   "auth-2",
		FullName: "Lead User",
		Email:    "lead@example.com",
		Role:     models.RolePartnerLead,
	})
	if err == nil {
		t.Fatal("expected error when creating partner_lead without org")
	}
}

func TestStore_Create_SeekerMayNotHaveOrg(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Test Org")
	_, err := store.Create(ctx, models.User{
		AuthID:         "auth-3",
		FullName:       "Seeker User",
		Email:          "seeker@example.com",
		Role:           models.RoleSeeker,
		OrganizationID: &org.ID,
	})
	if err == nil {
		t.Fatal("expected error when a seeker carries organization_id")
	}
}

func TestStore_Create_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{
		AuthID:   "auth-4",
		FullName: "Test User",
		Email:    "test@example.com",
		Role:     "invalid_role",
	})
	if err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestStore_Create_RequiresAuthID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{
		FullName: "No Auth",
		Email:    "noauth@example.com",
		Role:     models.RoleSeeker,
	})
	if err == nil {
		t.Fatal("expected error when auth_id is missing")
	}
}

func TestStore_Create_DuplicateAuthID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := store.Create(ctx, models.User{
		AuthID:   "auth-dup",
		FullName: "User One",
		Email:    "one@example.com",
		Role:     models.RoleSeeker,
	})
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err = store.Create(ctx, models.User{
		AuthID:   "auth-dup",
		FullName: "User Two",
		Email:    "two@example.com",
		Role:     models.RoleSeeker,
	})
	if err != userstore.ErrDuplicateAuthID {
		t.Errorf("expected ErrDuplicateAuthID, got %v", err)
	}
}

func TestStore_GetByAuthID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		AuthID:   "auth-get",
		FullName: "Get User",
		Email:    "get@example.com",
		Role:     models.RoleSeeker,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := store.GetByAuthID(ctx, "auth-get")
	if err != nil {
		t.Fatalf("GetByAuthID failed: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID: got %v, want %v", found.ID, created.ID)
	}

	_, err = store.GetByAuthID(ctx, "auth-missing")
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_GetByEmail_Canonicalizes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		AuthID:   "auth-email",
		FullName: "Email User",
		Email:    "FindMe@Example.COM",
		Role:     models.RoleSeeker,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := store.GetByEmail(ctx, "FINDME@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID: got %v, want %v", found.ID, created.ID)
	}
}

func TestStore_GetByEmailExact_NoNormalization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{
		AuthID:   "auth-exact",
		FullName: "Exact User",
		Email:    "exact@example.com",
		Role:     models.RoleSeeker,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Mixed-case query does not match the canonically stored record.
	found, err := store.GetByEmailExact(ctx, "Exact@Example.com")
	if err != nil {
		t.Fatalf("GetByEmailExact failed: %v", err)
	}
	if found != nil {
		t.Error("exact lookup should not canonicalize the query")
	}

	found, err = store.GetByEmailExact(ctx, "exact@example.com")
	if err != nil {
		t.Fatalf("GetByEmailExact failed: %v", err)
	}
	if found == nil {
		t.Error("expected exact lookup to find the stored value")
	}
}

func TestStore_UpdateProfile_LeavesRoleAlone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Lead Hub")
	created, err := store.Create(ctx, models.User{
		AuthID:         "auth-profile",
		FullName:       "Old Name",
		Email:          "old@example.com",
		Role:           models.RolePartnerLead,
		OrganizationID: &org.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.UpdateProfile(ctx, created.ID, "New@Example.com", "New Name"); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	found, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Email != "new@example.com" {
		t.Errorf("Email: got %q, want %q", found.Email, "new@example.com")
	}
	if found.FullName != "New Name" {
		t.Errorf("FullName: got %q, want %q", found.FullName, "New Name")
	}
	if found.Role != models.RolePartnerLead {
		t.Errorf("Role changed by profile update: got %q", found.Role)
	}
	if found.OrganizationID == nil || *found.OrganizationID != org.ID {
		t.Error("OrganizationID changed by profile update")
	}
}

func TestStore_SetRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Promote Hub")
	created, err := store.Create(ctx, models.User{
		AuthID:   "auth-role",
		FullName: "Role User",
		Email:    "role@example.com",
		Role:     models.RoleSeeker,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Promote to partner_lead with an org.
	if err := store.SetRole(ctx, created.ID, models.RolePartnerLead, &org.ID); err != nil {
		t.Fatalf("SetRole failed: %v", err)
	}
	found, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Role != models.RolePartnerLead {
		t.Errorf("Role: got %q, want %q", found.Role, models.RolePartnerLead)
	}
	if found.OrganizationID == nil || *found.OrganizationID != org.ID {
		t.Errorf("OrganizationID: got %v, want %v", found.OrganizationID, org.ID)
	}

	// Demote back to seeker; the org affiliation is cleared.
	if err := store.SetRole(ctx, created.ID, models.RoleSeeker, nil); err != nil {
		t.Fatalf("SetRole failed: %v", err)
	}
	found, err = store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Role != models.RoleSeeker {
		t.Errorf("Role: got %q, want %q", found.Role, models.RoleSeeker)
	}
	if found.OrganizationID != nil {
		t.Error("expected OrganizationID to be cleared")
	}
}

func TestStore_SetRole_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := primitive.NewObjectID()
	if err := store.SetRole(ctx, id, "bogus", nil); err == nil {
		t.Error("expected error for invalid role")
	}
	if err := store.SetRole(ctx, id, models.RolePartnerLead, nil); err == nil {
		t.Error("expected error for partner_lead without org")
	}
	if err := store.SetRole(ctx, id, models.RoleSeeker, nil); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments for missing user, got %v", err)
	}
}

func TestStore_ListByOrganization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "List Hub")
	fixtures.CreatePartnerLead(ctx, "auth-l1", "Zed Lead", "zed@example.com", org.ID)
	fixtures.CreatePartnerLead(ctx, "auth-l2", "Amal Lead", "amal@example.com", org.ID)
	fixtures.CreateSeeker(ctx, "auth-l3", "Outside Seeker", "outside@example.com")

	users, err := store.ListByOrganization(ctx, org.ID)
	if err != nil {
		t.Fatalf("ListByOrganization failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	// Sorted by folded name.
	if users[0].FullName != "Amal Lead" || users[1].FullName != "Zed Lead" {
		t.Errorf("unexpected order: %q, %q", users[0].FullName, users[1].FullName)
	}
}
