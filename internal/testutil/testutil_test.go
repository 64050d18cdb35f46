package testutil_test

import (
	"testing"

	"cattery/internal/errors"
	"cattery/internal/models"
	"cattery/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "cats", "photos", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	testutil.CreateTestUser(t, first)

	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	var count int64
	second.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected a fresh database, found %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == 0 {
		t.Fatal("user should have a non-zero ID")
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("expected admin role, got %s", user.Role)
	}

	father := testutil.CreateTestBreeder(t, db, models.GenderMale)
	mother := testutil.CreateTestBreeder(t, db, models.GenderFemale)
	kitten := testutil.CreateTestKitten(t, db, father.ID, mother.ID)
	if kitten.FatherID == nil || *kitten.FatherID != father.ID {
		t.Errorf("expected father %d, got %v", father.ID, kitten.FatherID)
	}

	photo := testutil.CreateTestPhoto(t, db, kitten.ID, false, 2)
	var stored models.Photo
	if err := db.First(&stored, photo.ID).Error; err != nil {
		t.Fatalf("failed to load photo: %v", err)
	}
	if stored.Cover {
		t.Error("expected cover to stay false")
	}
	if stored.Position != 2 {
		t.Errorf("expected position 2, got %d", stored.Position)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrCatNotFound, "custom message")
	testutil.AssertAppError(t, err, "CAT_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
