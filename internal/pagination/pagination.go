package pagination

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageRequest holds pagination parameters parsed from query strings.
type PageRequest struct {
	Page  int
	Limit int
}

// Defaults clamps the request: page to a minimum of 1, limit to [1, MaxLimit].
// A zero limit means "not provided" and becomes DefaultLimit.
func (p *PageRequest) Defaults() {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.Limit == 0:
		p.Limit = DefaultLimit
	case p.Limit < 1:
		p.Limit = 1
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
}

// Offset returns the SQL OFFSET for the current page.
func (p *PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// SortSpec is a validated "field:direction" ordering.
type SortSpec struct {
	Field  string
	Column string
	Desc   bool
}

// String renders the spec in its canonical query form, e.g. "name:asc".
func (s SortSpec) String() string {
	if s.Desc {
		return s.Field + ":desc"
	}
	return s.Field + ":asc"
}

// ParseSort parses a "field:direction" string. The direction is asc or desc
// in any case; the field must be a key of sortable, which maps public field
// names to column names.
func ParseSort(spec string, sortable map[string]string) (SortSpec, error) {
	field, dir, ok := strings.Cut(spec, ":")
	if !ok || field == "" || strings.Contains(dir, ":") {
		return SortSpec{}, fmt.Errorf("sort must look like field:asc|desc")
	}

	var desc bool
	switch strings.ToLower(dir) {
	case "asc":
	case "desc":
		desc = true
	default:
		return SortSpec{}, fmt.Errorf("sort must look like field:asc|desc")
	}

	column, known := sortable[field]
	if !known {
		fields := make([]string, 0, len(sortable))
		for f := range sortable {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		return SortSpec{}, fmt.Errorf("sort field must be one of: %s", strings.Join(fields, ", "))
	}

	return SortSpec{Field: field, Column: column, Desc: desc}, nil
}

// Meta describes a page of results.
type Meta struct {
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	Total      int64          `json:"total"`
	TotalPages int            `json:"totalPages"`
	Sort       string         `json:"sort"`
	Filters    map[string]any `json:"filters"`
}

// PageResponse wraps a paginated list of items with metadata.
type PageResponse[T any] struct {
	Meta Meta `json:"meta"`
	Data []T  `json:"data"`
}

// TotalPages returns ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit < 1 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// NewPageResponse creates a PageResponse from the given data and total count.
func NewPageResponse[T any](data []T, req PageRequest, total int64, sortSpec SortSpec, filters map[string]any) PageResponse[T] {
	if data == nil {
		data = []T{}
	}
	if filters == nil {
		filters = map[string]any{}
	}
	return PageResponse[T]{
		Meta: Meta{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: TotalPages(total, req.Limit),
			Sort:       sortSpec.String(),
			Filters:    filters,
		},
		Data: data,
	}
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given page request.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset()).Limit(req.Limit)
	}
}

// Order returns a GORM scope ordering by the sort spec, then by the given
// tie-break columns ascending.
func Order(spec SortSpec, tieBreak ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if spec.Column != "" {
			db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: spec.Column}, Desc: spec.Desc})
		}
		for _, col := range tieBreak {
			if col != spec.Column {
				db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: col}})
			}
		}
		return db
	}
}
