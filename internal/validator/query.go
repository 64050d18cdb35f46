package validator

import (
	"math"

	"cattery/internal/models"
	"cattery/internal/pagination"
)

// CatSortable maps the public sort fields of cats to their columns.
var CatSortable = map[string]string{
	"id":        "id",
	"name":      "name",
	"gender":    "gender",
	"type":      "type",
	"status":    "status",
	"birthDate": "birth_date",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// PhotoSortable maps the public sort fields of photos to their columns.
var PhotoSortable = map[string]string{
	"id":        "id",
	"position":  "position",
	"cover":     "cover",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

var (
	defaultCatSort   = pagination.SortSpec{Field: "createdAt", Column: "created_at", Desc: true}
	defaultPhotoSort = pagination.SortSpec{Field: "position", Column: "position"}
)

// CatListQuery is a validated cat listing request.
type CatListQuery struct {
	Page   pagination.PageRequest
	Sort   pagination.SortSpec
	Type   *models.CatType   `mapstructure:"type"`
	Status *models.CatStatus `mapstructure:"status"`
	Gender *models.Gender    `mapstructure:"gender"`
}

// Filters reports every supported filter, nil when unset.
func (q *CatListQuery) Filters() map[string]any {
	f := map[string]any{"type": nil, "status": nil, "gender": nil}
	if q.Type != nil {
		f["type"] = *q.Type
	}
	if q.Status != nil {
		f["status"] = *q.Status
	}
	if q.Gender != nil {
		f["gender"] = *q.Gender
	}
	return f
}

// PhotoListQuery is a validated photo listing request.
type PhotoListQuery struct {
	Page  pagination.PageRequest
	Sort  pagination.SortSpec
	CatID *uint `mapstructure:"catId"`
}

// Filters reports every supported filter, nil when unset.
func (q *PhotoListQuery) Filters() map[string]any {
	f := map[string]any{"catId": nil}
	if q.CatID != nil {
		f["catId"] = *q.CatID
	}
	return f
}

// readPage reads page and limit, clamping them instead of rejecting out of
// range values. Non-numeric values are violations.
func readPage(r *reader) pagination.PageRequest {
	r.clamped("page", 1, math.MaxInt32)
	r.clamped("limit", 1, pagination.MaxLimit)

	var req pagination.PageRequest
	if n, ok := r.out["page"].(int); ok {
		req.Page = n
	}
	if n, ok := r.out["limit"].(int); ok {
		req.Limit = n
	}
	req.Defaults()
	return req
}

func readSort(r *reader, sortable map[string]string, fallback pagination.SortSpec) pagination.SortSpec {
	val, ok := r.lookup("sort", false, false)
	if !ok {
		return fallback
	}
	s, isStr := val.(string)
	if !isStr || engine.Var(s, "sort_spec") != nil {
		r.v.Add("sort", "sort must look like field:asc|desc")
		return fallback
	}
	spec, err := pagination.ParseSort(s, sortable)
	if err != nil {
		r.v.Add("sort", err.Error())
		return fallback
	}
	return spec
}

// ValidateCatListQuery validates the query of a cat listing: pagination,
// sort and the type, status and gender filters.
func ValidateCatListQuery(raw map[string]any) (*CatListQuery, Violations) {
	r := newReader(raw, modeQuery)
	page := readPage(r)
	spec := readSort(r, CatSortable, defaultCatSort)
	r.enum("type", false, "cat_type", string(models.CatTypeBreeder), string(models.CatTypeKitten))
	r.enum("status", false, "cat_status",
		string(models.CatStatusAvailable), string(models.CatStatusReserved), string(models.CatStatusSold))
	r.enum("gender", false, "cat_gender", string(models.GenderMale), string(models.GenderFemale))

	q := CatListQuery{Page: page, Sort: spec}
	delete(r.out, "page")
	delete(r.out, "limit")
	r.decode(&q)
	if len(r.v) > 0 {
		return nil, r.v
	}
	return &q, nil
}

// ValidatePhotoListQuery validates the query of a photo listing: pagination,
// sort and the catId filter.
func ValidatePhotoListQuery(raw map[string]any) (*PhotoListQuery, Violations) {
	r := newReader(raw, modeQuery)
	page := readPage(r)
	spec := readSort(r, PhotoSortable, defaultPhotoSort)
	r.id("catId", false, false)

	q := PhotoListQuery{Page: page, Sort: spec}
	delete(r.out, "page")
	delete(r.out, "limit")
	r.decode(&q)
	if len(r.v) > 0 {
		return nil, r.v
	}
	return &q, nil
}
