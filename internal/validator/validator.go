// Package validator turns untrusted request payloads into typed catalog
// records. Every function in this package is pure: it takes an untyped
// key-value mapping and returns either a normalized record or the full set of
// field violations.
package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"cattery/internal/models"
)

var sortSpecRegex = regexp.MustCompile(`^[a-zA-Z_]+:(?i:asc|desc)$`)

// engine performs the scalar checks behind the payload readers.
var engine = newEngine()

func newEngine() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	registerCustom(v)
	return v
}

// Register registers the catalog validators and JSON field naming with the
// Gin binding engine, so that binding errors name fields the way clients
// send them.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustom(v)
	}
}

func registerCustom(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("cat_gender", validateCatGender)
	_ = v.RegisterValidation("cat_type", validateCatType)
	_ = v.RegisterValidation("cat_status", validateCatStatus)
	_ = v.RegisterValidation("sort_spec", validateSortSpec)
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func validateCatGender(fl validator.FieldLevel) bool {
	switch models.Gender(fl.Field().String()) {
	case models.GenderMale, models.GenderFemale:
		return true
	}
	return false
}

func validateCatType(fl validator.FieldLevel) bool {
	switch models.CatType(fl.Field().String()) {
	case models.CatTypeBreeder, models.CatTypeKitten:
		return true
	}
	return false
}

func validateCatStatus(fl validator.FieldLevel) bool {
	switch models.CatStatus(fl.Field().String()) {
	case models.CatStatusAvailable, models.CatStatusReserved, models.CatStatusSold:
		return true
	}
	return false
}

func validateSortSpec(fl validator.FieldLevel) bool {
	return sortSpecRegex.MatchString(fl.Field().String())
}
