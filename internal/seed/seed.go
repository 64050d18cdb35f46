// Package seed fills a development database with a default admin and a few
// cats. Running it twice is harmless: records are matched by name.
package seed

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"cattery/internal/logger"
	"cattery/internal/models"
	"cattery/internal/validator"
)

// Default admin credentials for development databases.
const (
	AdminUsername = "admin"
	AdminPassword = "admin123"
)

type breeder struct {
	name, gender, birthDate, sire, dam string
}

type kitten struct {
	name, gender, birthDate, status string
	father, mother                  string
}

var breeders = []breeder{
	{"Luna", "female", "2021-03-10", "Ch. Silver Moon", "Lady Bella"},
	{"Simba", "male", "2020-07-22", "King Leo", "Queen Zara"},
	{"Nala", "female", "2021-05-18", "Golden Star", "Princess Mia"},
}

var kittens = []kitten{
	{"Milo", "male", "2024-06-01", "available", "Simba", "Luna"},
	{"Cleo", "female", "2024-06-01", "reserved", "Simba", "Luna"},
	{"Oreo", "male", "2024-06-10", "available", "Simba", "Nala"},
	{"Misty", "female", "2024-06-10", "sold", "Simba", "Nala"},
	{"Leo", "male", "2024-07-05", "available", "Simba", "Luna"},
}

// Run creates the admin user, the breeders and their kittens when missing.
func Run(db *gorm.DB, bcryptCost int) error {
	log := logger.Get()

	hash, err := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.User{}
	if err := db.Where(models.User{Username: AdminUsername}).
		Attrs(models.User{PasswordHash: string(hash), Role: models.RoleAdmin}).
		FirstOrCreate(&admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	ids := map[string]uint{}
	for _, b := range breeders {
		cat, err := upsertCat(db, map[string]any{
			"name": b.name, "gender": b.gender, "type": "breeder",
			"birthDate": b.birthDate, "status": "available",
			"sireName": b.sire, "damName": b.dam,
		})
		if err != nil {
			return err
		}
		ids[b.name] = cat.ID
	}

	for _, k := range kittens {
		if _, err := upsertCat(db, map[string]any{
			"name": k.name, "gender": k.gender, "type": "kitten",
			"birthDate": k.birthDate, "status": k.status,
			"fatherId": ids[k.father], "motherId": ids[k.mother],
		}); err != nil {
			return err
		}
	}

	log.Infow("Dev seed done", "admin", AdminUsername, "cats", len(breeders)+len(kittens))
	return nil
}

func upsertCat(db *gorm.DB, raw map[string]any) (*models.Cat, error) {
	record, v := validator.ValidateCatCreate(raw)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("seed cat %v: %w (%v)", raw["name"], err, v)
	}
	attrs := record.ToModel()
	attrs.Photos = nil

	cat := models.Cat{}
	if err := db.Where(models.Cat{Name: attrs.Name}).Attrs(*attrs).FirstOrCreate(&cat).Error; err != nil {
		return nil, fmt.Errorf("seed cat %s: %w", attrs.Name, err)
	}
	return &cat, nil
}
