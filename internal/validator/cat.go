package validator

import (
	"cattery/internal/models"
)

const textMaxLen = 255

// CatRecord is a validated cat ready to be created. It is either a Kitten
// or a Breeder; no other implementation exists.
type CatRecord interface {
	CatType() models.CatType
	ToModel() *models.Cat
	isCatRecord()
}

// CatCommon holds the fields shared by every cat.
type CatCommon struct {
	Name      string
	Gender    models.Gender
	BirthDate *models.Date
	Status    models.CatStatus
}

// Kitten is a validated offspring record linked to both parents.
type Kitten struct {
	CatCommon
	FatherID uint
	MotherID uint
}

// Breeder is a validated adult record with optional external parentage.
type Breeder struct {
	CatCommon
	SireName         *string
	DamName          *string
	SireRegistration *string
	DamRegistration  *string
}

func (Kitten) isCatRecord()  {}
func (Breeder) isCatRecord() {}

// CatType implements CatRecord.
func (Kitten) CatType() models.CatType { return models.CatTypeKitten }

// CatType implements CatRecord.
func (Breeder) CatType() models.CatType { return models.CatTypeBreeder }

// ToModel builds the persistent model. Sire and dam fields are always null.
func (k Kitten) ToModel() *models.Cat {
	father, mother := k.FatherID, k.MotherID
	cat := k.CatCommon.model(models.CatTypeKitten)
	cat.FatherID = &father
	cat.MotherID = &mother
	return cat
}

// ToModel builds the persistent model. Parent links are always null.
func (b Breeder) ToModel() *models.Cat {
	cat := b.CatCommon.model(models.CatTypeBreeder)
	cat.SireName = b.SireName
	cat.DamName = b.DamName
	cat.SireRegistration = b.SireRegistration
	cat.DamRegistration = b.DamRegistration
	return cat
}

func (c CatCommon) model(t models.CatType) *models.Cat {
	return &models.Cat{
		Name:      c.Name,
		Gender:    c.Gender,
		Type:      t,
		BirthDate: c.BirthDate,
		Status:    c.Status,
		Photos:    []models.Photo{},
	}
}

// catPayload is the decoded form of a coerced cat payload.
type catPayload struct {
	Name             *string           `mapstructure:"name"`
	Gender           *models.Gender    `mapstructure:"gender"`
	Type             *models.CatType   `mapstructure:"type"`
	BirthDate        *models.Date      `mapstructure:"birthDate"`
	Status           *models.CatStatus `mapstructure:"status"`
	FatherID         *uint             `mapstructure:"fatherId"`
	MotherID         *uint             `mapstructure:"motherId"`
	SireName         *string           `mapstructure:"sireName"`
	DamName          *string           `mapstructure:"damName"`
	SireRegistration *string           `mapstructure:"sireRegistration"`
	DamRegistration  *string           `mapstructure:"damRegistration"`
}

// readCat coerces a cat payload. stored is the type already persisted, empty
// on create. Registry fields sent for a kitten are not read at all: they are
// nulled whatever their value.
func readCat(r *reader, stored models.CatType) *catPayload {
	r.text("name", true, false, textMaxLen)
	r.enum("gender", true, "cat_gender", string(models.GenderMale), string(models.GenderFemale))
	r.enum("type", true, "cat_type", string(models.CatTypeBreeder), string(models.CatTypeKitten))
	r.date("birthDate", false, true)
	r.enum("status", false, "cat_status",
		string(models.CatStatusAvailable), string(models.CatStatusReserved), string(models.CatStatusSold))
	r.id("fatherId", false, true)
	r.id("motherId", false, true)
	kitten := stored == models.CatTypeKitten
	if t, ok := r.out["type"].(string); ok {
		kitten = t == string(models.CatTypeKitten)
	}
	for _, f := range registryFields {
		if kitten {
			r.discard(f)
			continue
		}
		r.text(f, false, true, textMaxLen)
	}

	var p catPayload
	r.decode(&p)
	return &p
}

// ValidateCatCreate validates a create payload and returns the typed record
// for its type. Kittens have their sire/dam fields nulled; breeders may not
// carry parent links.
func ValidateCatCreate(raw map[string]any) (CatRecord, Violations) {
	r := newReader(raw, modeCreate)
	p := readCat(r, "")

	if p.Type != nil {
		checkCreateRules(*p.Type, p, r.v)
	}
	if len(r.v) > 0 {
		return nil, r.v
	}

	common := CatCommon{
		Name:      *p.Name,
		Gender:    *p.Gender,
		BirthDate: p.BirthDate,
		Status:    models.CatStatusAvailable,
	}
	if p.Status != nil {
		common.Status = *p.Status
	}

	if *p.Type == models.CatTypeKitten {
		return Kitten{CatCommon: common, FatherID: *p.FatherID, MotherID: *p.MotherID}, nil
	}
	return Breeder{
		CatCommon:        common,
		SireName:         p.SireName,
		DamName:          p.DamName,
		SireRegistration: p.SireRegistration,
		DamRegistration:  p.DamRegistration,
	}, nil
}

// Nullable is a tri-state update value: not provided, provided as null, or
// provided with a value.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Null reports whether the value was explicitly cleared.
func (n Nullable[T]) Null() bool {
	return n.Set && n.Value == nil
}

func nullableOf[T any](r *reader, field string, value *T) Nullable[T] {
	return Nullable[T]{Set: r.provided(field), Value: value}
}

// CatPatch is a validated partial update of a cat.
type CatPatch struct {
	Name             *string
	Gender           *models.Gender
	Status           *models.CatStatus
	BirthDate        Nullable[models.Date]
	FatherID         Nullable[uint]
	MotherID         Nullable[uint]
	SireName         Nullable[string]
	DamName          Nullable[string]
	SireRegistration Nullable[string]
	DamRegistration  Nullable[string]
}

// ParentIDs returns the non-null parent links the patch sets.
func (p *CatPatch) ParentIDs() []uint {
	var ids []uint
	if p.FatherID.Value != nil {
		ids = append(ids, *p.FatherID.Value)
	}
	if p.MotherID.Value != nil {
		ids = append(ids, *p.MotherID.Value)
	}
	return ids
}

// Updates returns the column/value map of the provided fields, suitable for
// a gorm Updates call. Null values are written as SQL NULL.
func (p *CatPatch) Updates() map[string]any {
	updates := map[string]any{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.Gender != nil {
		updates["gender"] = *p.Gender
	}
	if p.Status != nil {
		updates["status"] = *p.Status
	}
	setNullable(updates, "birth_date", p.BirthDate)
	setNullable(updates, "father_id", p.FatherID)
	setNullable(updates, "mother_id", p.MotherID)
	setNullable(updates, "sire_name", p.SireName)
	setNullable(updates, "dam_name", p.DamName)
	setNullable(updates, "sire_registration", p.SireRegistration)
	setNullable(updates, "dam_registration", p.DamRegistration)
	return updates
}

func setNullable[T any](updates map[string]any, column string, n Nullable[T]) {
	if !n.Set {
		return
	}
	if n.Value == nil {
		updates[column] = nil
		return
	}
	updates[column] = *n.Value
}

// ValidateCatUpdate validates a partial update against the stored type of
// the cat. Changing the type is rejected; the business rules run against
// the effective type.
func ValidateCatUpdate(raw map[string]any, stored models.CatType) (*CatPatch, Violations) {
	r := newReader(raw, modeUpdate)
	p := readCat(r, stored)

	effective := stored
	if p.Type != nil {
		effective = *p.Type
		if *p.Type != stored {
			r.v.Add("type", "type cannot be changed (currently "+string(stored)+")")
		}
	}

	patch := &CatPatch{
		Name:             p.Name,
		Gender:           p.Gender,
		Status:           p.Status,
		BirthDate:        nullableOf(r, "birthDate", p.BirthDate),
		FatherID:         nullableOf(r, "fatherId", p.FatherID),
		MotherID:         nullableOf(r, "motherId", p.MotherID),
		SireName:         nullableOf(r, "sireName", p.SireName),
		DamName:          nullableOf(r, "damName", p.DamName),
		SireRegistration: nullableOf(r, "sireRegistration", p.SireRegistration),
		DamRegistration:  nullableOf(r, "damRegistration", p.DamRegistration),
	}
	checkUpdateRules(effective, patch, r.v)

	if len(r.v) > 0 {
		return nil, r.v
	}
	return patch, nil
}
