package validator

import "cattery/internal/models"

// registryFields are the free-text parentage fields carried by breeders only.
var registryFields = []string{"sireName", "damName", "sireRegistration", "damRegistration"}

// checkCreateRules enforces kitten/breeder exclusivity on a create payload.
// Sire/dam text submitted for a kitten is dropped rather than rejected.
func checkCreateRules(t models.CatType, p *catPayload, v Violations) {
	switch t {
	case models.CatTypeKitten:
		if p.FatherID == nil && !v.Has("fatherId") {
			v.Add("fatherId", "fatherId is required for kittens")
		}
		if p.MotherID == nil && !v.Has("motherId") {
			v.Add("motherId", "motherId is required for kittens")
		}
		if p.FatherID != nil && p.MotherID != nil && *p.FatherID == *p.MotherID {
			v.Add("motherId", "fatherId and motherId must reference different cats")
		}
		p.SireName, p.DamName, p.SireRegistration, p.DamRegistration = nil, nil, nil, nil

	case models.CatTypeBreeder:
		if p.FatherID != nil {
			v.Add("fatherId", "fatherId is not allowed for breeders")
		}
		if p.MotherID != nil {
			v.Add("motherId", "motherId is not allowed for breeders")
		}
	}
}

// checkUpdateRules enforces the same exclusivity on a partial update, using
// the effective type of the cat. Kitten parents are replaced both or neither.
func checkUpdateRules(t models.CatType, p *CatPatch, v Violations) {
	switch t {
	case models.CatTypeKitten:
		fatherGiven := p.FatherID.Set || v.Has("fatherId")
		motherGiven := p.MotherID.Set || v.Has("motherId")
		if fatherGiven && !motherGiven {
			v.Add("motherId", "motherId is required when updating a kitten's parents")
		}
		if motherGiven && !fatherGiven {
			v.Add("fatherId", "fatherId is required when updating a kitten's parents")
		}
		if p.FatherID.Null() {
			v.Add("fatherId", "fatherId cannot be null for kittens")
		}
		if p.MotherID.Null() {
			v.Add("motherId", "motherId cannot be null for kittens")
		}
		if p.FatherID.Value != nil && p.MotherID.Value != nil && *p.FatherID.Value == *p.MotherID.Value {
			v.Add("motherId", "fatherId and motherId must reference different cats")
		}
		for _, n := range []*Nullable[string]{&p.SireName, &p.DamName, &p.SireRegistration, &p.DamRegistration} {
			if n.Set {
				n.Value = nil
			}
		}

	case models.CatTypeBreeder:
		if p.FatherID.Value != nil {
			v.Add("fatherId", "fatherId is not allowed for breeders")
		}
		if p.MotherID.Value != nil {
			v.Add("motherId", "motherId is not allowed for breeders")
		}
	}
}
