package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"cattery/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates an admin with a hashed password and unique username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithUsername(t, db, fmt.Sprintf("user%d", nextID()))
}

// CreateTestUserWithUsername creates an admin with the given username.
func CreateTestUserWithUsername(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBreeder creates an available breeder of the given gender.
func CreateTestBreeder(t *testing.T, db *gorm.DB, gender models.Gender) *models.Cat {
	t.Helper()

	cat := &models.Cat{
		Name:   fmt.Sprintf("Breeder %d", nextID()),
		Gender: gender,
		Type:   models.CatTypeBreeder,
		Status: models.CatStatusAvailable,
	}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("failed to create test breeder: %v", err)
	}
	return cat
}

// CreateTestKitten creates an available kitten linked to both parents.
func CreateTestKitten(t *testing.T, db *gorm.DB, fatherID, motherID uint) *models.Cat {
	t.Helper()

	cat := &models.Cat{
		Name:     fmt.Sprintf("Kitten %d", nextID()),
		Gender:   models.GenderFemale,
		Type:     models.CatTypeKitten,
		Status:   models.CatStatusAvailable,
		FatherID: &fatherID,
		MotherID: &motherID,
	}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("failed to create test kitten: %v", err)
	}
	return cat
}

// CreateTestPhoto creates a photo of catID with a unique public id.
func CreateTestPhoto(t *testing.T, db *gorm.DB, catID uint, cover bool, position int) *models.Photo {
	t.Helper()

	publicID := fmt.Sprintf("cattery/photo-%d", nextID())
	photo := &models.Photo{
		CatID:    catID,
		URL:      "https://res.cloudinary.com/demo/image/upload/" + publicID + ".jpg",
		PublicID: &publicID,
		Cover:    cover,
		Position: position,
	}
	if err := db.Create(photo).Error; err != nil {
		t.Fatalf("failed to create test photo: %v", err)
	}
	return photo
}
