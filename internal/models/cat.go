package models

// Gender represents a cat's sex
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// CatType classifies a cat as a reproducing adult or as offspring.
// It is fixed at creation.
type CatType string

const (
	CatTypeBreeder CatType = "breeder"
	CatTypeKitten  CatType = "kitten"
)

// CatStatus represents the public availability of a cat
type CatStatus string

const (
	CatStatusAvailable CatStatus = "available"
	CatStatusReserved  CatStatus = "reserved"
	CatStatusSold      CatStatus = "sold"
)

// Cat represents a breeder or a kitten in the catalog.
//
// Kittens reference their parents through FatherID/MotherID; breeders carry
// free-text external parentage in the Sire*/Dam* fields. The two groups are
// mutually exclusive.
type Cat struct {
	Base
	Name      string    `gorm:"size:255;not null" json:"name"`
	Gender    Gender    `gorm:"size:10;not null" json:"gender"`
	Type      CatType   `gorm:"size:10;not null;index" json:"type"`
	BirthDate *Date     `gorm:"type:date" json:"birthDate"`
	Status    CatStatus `gorm:"size:10;not null;default:available;index" json:"status"`

	// Linked parents (kittens only)
	FatherID *uint `gorm:"index" json:"fatherId"`
	MotherID *uint `gorm:"index" json:"motherId"`

	// External parentage (breeders only)
	SireName         *string `gorm:"size:255" json:"sireName"`
	DamName          *string `gorm:"size:255" json:"damName"`
	SireRegistration *string `gorm:"size:255" json:"sireRegistration"`
	DamRegistration  *string `gorm:"size:255" json:"damRegistration"`

	// Relationships
	Father *Cat    `gorm:"foreignKey:FatherID;constraint:OnDelete:SET NULL" json:"-"`
	Mother *Cat    `gorm:"foreignKey:MotherID;constraint:OnDelete:SET NULL" json:"-"`
	Photos []Photo `gorm:"foreignKey:CatID;constraint:OnDelete:CASCADE" json:"photos"`
}

// IsKitten reports whether the cat is offspring with linked parents.
func (c *Cat) IsKitten() bool {
	return c.Type == CatTypeKitten
}
