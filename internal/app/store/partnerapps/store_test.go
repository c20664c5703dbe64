package partnerapps_test

import (
	"testing"

	"github.com/ansarhub/ansarhub/internal/app/store/partnerapps"
	"github.com/ansarhub/ansarhub/internal/domain/models"
	"github.com/ansarhub/ansarhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create_CanonicalizesLeadEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := partnerapps.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.PartnerApplication{
		LeadName:  "  Omar Khan ",
		LeadEmail: " Omar@Example.COM ",
		HubName:   "Mercy Hub",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.LeadEmail != "omar@example.com" {
		t.Errorf("LeadEmail: got %q, want %q", created.LeadEmail, "omar@example.com")
	}
	if created.LeadName != "Omar Khan" {
		t.Errorf("LeadName: got %q, want %q", created.LeadName, "Omar Khan")
	}
	if created.Status != models.ApplicationPending {
		t.Errorf("Status: got %q, want %q", created.Status, models.ApplicationPending)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
}

func TestStore_Create_RequiresLeadEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := partnerapps.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.PartnerApplication{
		LeadName: "No Email",
		HubName:  "Hub",
	})
	if err == nil {
		t.Fatal("expected error when lead_email is missing")
	}
}

func TestStore_FindByLeadEmail_ExactMatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := partnerapps.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// A legacy record with mixed-case lead_email, inserted directly.
	fixtures.CreatePartnerApplication(ctx, "Omar Khan", "Omar@Example.com", "Hub", models.ApplicationApproved, nil)

	// Canonical query misses the legacy record.
	found, err := store.FindByLeadEmail(ctx, "omar@example.com", "")
	if err != nil {
		t.Fatalf("FindByLeadEmail failed: %v", err)
	}
	if found != nil {
		t.Errorf("canonical query should miss the mixed-case record, found %v", found.ID)
	}

	// The stored casing finds it.
	found, err = store.FindByLeadEmail(ctx, "Omar@Example.com", "")
	if err != nil {
		t.Fatalf("FindByLeadEmail failed: %v", err)
	}
	if found == nil {
		t.Fatal("expected to find the record by its stored casing")
	}
	if found.LeadEmail != "Omar@Example.com" {
		t.Errorf("LeadEmail: got %q, want stored value", found.LeadEmail)
	}
}

func TestStore_FindByLeadEmail_ExcludeStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := partnerapps.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreatePartnerApplication(ctx, "Pending Lead", "lead@example.com", "Hub", models.ApplicationPending, nil)

	found, err := store.FindByLeadEmail(ctx, "lead@example.com", models.ApplicationPending)
	if err != nil {
		t.Fatalf("FindByLeadEmail failed: %v", err)
	}
	if found != nil {
		t.Error("excluded status should not match")
	}

	found, err = store.FindByLeadEmail(ctx, "lead@example.com", models.ApplicationRejected)
	if err != nil {
		t.Fatalf("FindByLeadEmail failed: %v", err)
	}
	if found == nil {
		t.Error("pending application should match when only rejected is excluded")
	}
}

func TestStore_SetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := partnerapps.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.PartnerApplication{
		LeadName:  "Lead",
		LeadEmail: "lead@example.com",
		HubName:   "Hub",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetStatus(ctx, created.ID, models.ApplicationApproved); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.ApplicationApproved {
		t.Errorf("Status: got %q, want %q", got.Status, models.ApplicationApproved)
	}

	if err := store.SetStatus(ctx, created.ID, "bogus"); err == nil {
		t.Error("expected error for invalid status")
	}
	if err := store.SetStatus(ctx, primitive.NewObjectID(), models.ApplicationRejected); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_AttachOrganization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := partnerapps.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Attach Hub")
	created, err := store.Create(ctx, models.PartnerApplication{
		LeadName:  "Lead",
		LeadEmail: "attach@example.com",
		HubName:   "Attach Hub",
		Status:    models.ApplicationApproved,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.AttachOrganization(ctx, created.ID, org.ID); err != nil {
		t.Fatalf("AttachOrganization failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.OrganizationID == nil || *got.OrganizationID != org.ID {
		t.Errorf("OrganizationID: got %v, want %v", got.OrganizationID, org.ID)
	}
}

func TestStore_RepairLeadEmailCasing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := partnerapps.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreatePartnerApplication(ctx, "A", "Alice@Example.com", "Hub A", models.ApplicationApproved, nil)
	fixtures.CreatePartnerApplication(ctx, "B", " bob@example.com", "Hub B", models.ApplicationPending, nil)
	fixtures.CreatePartnerApplication(ctx, "C", "carol@example.com", "Hub C", models.ApplicationApproved, nil)

	fixed, err := store.RepairLeadEmailCasing(ctx)
	if err != nil {
		t.Fatalf("RepairLeadEmailCasing failed: %v", err)
	}
	if fixed != 2 {
		t.Errorf("fixed: got %d, want 2", fixed)
	}

	// Every record is now findable by its canonical address.
	for _, email := range []string{"alice@example.com", "bob@example.com", "carol@example.com"} {
		found, err := store.FindByLeadEmail(ctx, email, "")
		if err != nil {
			t.Fatalf("FindByLeadEmail(%q) failed: %v", email, err)
		}
		if found == nil {
			t.Errorf("expected canonical lookup to find %q after repair", email)
		}
	}

	// Converged: a second run changes nothing.
	fixed, err = store.RepairLeadEmailCasing(ctx)
	if err != nil {
		t.Fatalf("second RepairLeadEmailCasing failed: %v", err)
	}
	if fixed != 0 {
		t.Errorf("second run fixed: got %d, want 0", fixed)
	}
}
