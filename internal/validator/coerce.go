package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// minDate is the earliest accepted calendar date. Dates are fixed-width, so
// string order is date order.
const minDate = "1900-01-01"

// maxExactFloat is the largest integer a JSON number can carry without
// losing precision.
const maxExactFloat = 1 << 53

type mode int

const (
	modeCreate mode = iota
	modeUpdate
	modeQuery
)

// reader walks a raw payload field by field and coerces values into their
// normalized Go types. Accepted values land in out, explicit nulls are
// recorded in nulls, and every rejection is added to v without stopping.
type reader struct {
	raw   map[string]any
	mode  mode
	out   map[string]any
	nulls map[string]bool
	v     Violations
}

func newReader(raw map[string]any, m mode) *reader {
	if raw == nil {
		raw = map[string]any{}
	}
	return &reader{
		raw:   raw,
		mode:  m,
		out:   map[string]any{},
		nulls: map[string]bool{},
		v:     Violations{},
	}
}

// lookup returns the raw value of field and whether there is a value to
// coerce. A null counts as absent on create; on update it clears nullable
// fields and is rejected for the others.
func (r *reader) lookup(field string, required, nullable bool) (any, bool) {
	val, present := r.raw[field]
	if present && val == nil {
		if r.mode == modeUpdate {
			if nullable {
				r.nulls[field] = true
			} else {
				r.v.Add(field, field+" must not be null")
			}
			return nil, false
		}
		present = false
	}
	if !present {
		if required && r.mode == modeCreate {
			r.v.Add(field, field+" is required")
		}
		return nil, false
	}
	return val, true
}

// provided reports whether the payload carried field with a value or an
// explicit null.
func (r *reader) provided(field string) bool {
	_, ok := r.out[field]
	return ok || r.nulls[field]
}

// blank treats an empty optional value as null on update and absent otherwise.
func (r *reader) blank(field string) {
	if r.mode == modeUpdate {
		r.nulls[field] = true
	}
}

// discard ignores whatever was sent for field. On update a provided field is
// recorded as null so the stored value is cleared.
func (r *reader) discard(field string) {
	if _, present := r.raw[field]; present && r.mode == modeUpdate {
		r.nulls[field] = true
	}
}

func (r *reader) text(field string, required, nullable bool, maxLen int) {
	val, ok := r.lookup(field, required, nullable)
	if !ok {
		return
	}
	s, isStr := val.(string)
	if !isStr {
		r.v.Add(field, field+" must be a string")
		return
	}
	s = strings.TrimSpace(s)
	if s == "" {
		if nullable {
			r.blank(field)
		} else {
			r.v.Add(field, field+" must not be empty")
		}
		return
	}
	if err := engine.Var(s, "max="+strconv.Itoa(maxLen)); err != nil {
		r.v.Add(field, fmt.Sprintf("%s must be at most %d characters", field, maxLen))
		return
	}
	r.out[field] = s
}

func (r *reader) url(field string, required bool) {
	val, ok := r.lookup(field, required, false)
	if !ok {
		return
	}
	s, isStr := val.(string)
	s = strings.TrimSpace(s)
	if !isStr || engine.Var(s, "required,url,max=1024") != nil ||
		!(strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")) {
		r.v.Add(field, field+" must be a valid http(s) URL")
		return
	}
	r.out[field] = s
}

func (r *reader) enum(field string, required bool, tag string, allowed ...string) {
	val, ok := r.lookup(field, required, false)
	if !ok {
		return
	}
	s, isStr := val.(string)
	if !isStr || engine.Var(s, tag) != nil {
		r.v.Add(field, fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))
		return
	}
	r.out[field] = s
}

func (r *reader) date(field string, required, nullable bool) {
	val, ok := r.lookup(field, required, nullable)
	if !ok {
		return
	}
	s, isStr := val.(string)
	if isStr && strings.TrimSpace(s) == "" && nullable {
		r.blank(field)
		return
	}
	if !isStr || !dateRegex.MatchString(s) || engine.Var(s, "datetime=2006-01-02") != nil {
		r.v.Add(field, field+" must be a valid date in YYYY-MM-DD format")
		return
	}
	if s < minDate {
		r.v.Add(field, field+" must not be before "+minDate)
		return
	}
	r.out[field] = s
}

// id reads a positive record identifier.
func (r *reader) id(field string, required, nullable bool) {
	val, ok := r.lookup(field, required, nullable)
	if !ok {
		return
	}
	n, isInt := toInt(val)
	if !isInt {
		r.v.Add(field, field+" must be an integer")
		return
	}
	if n < 1 || n > math.MaxUint32 {
		r.v.Add(field, field+" must be a positive integer")
		return
	}
	r.out[field] = uint(n)
}

// integer reads a plain integer bounded below by min.
func (r *reader) integer(field string, required bool, min int64) {
	val, ok := r.lookup(field, required, false)
	if !ok {
		return
	}
	n, isInt := toInt(val)
	if !isInt || n > math.MaxInt32 || n < math.MinInt32 {
		r.v.Add(field, field+" must be an integer")
		return
	}
	if n < min {
		r.v.Add(field, fmt.Sprintf("%s must be at least %d", field, min))
		return
	}
	r.out[field] = int(n)
}

// clamped reads an integer and forces it into [lo, hi]. Integers too large
// for int64 saturate rather than fail.
func (r *reader) clamped(field string, lo, hi int64) {
	val, ok := r.lookup(field, false, false)
	if !ok {
		return
	}
	n, isInt := toInt(val)
	if s, isStr := val.(string); isStr && !isInt {
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			n, isInt = i, true
		}
	}
	if !isInt {
		r.v.Add(field, field+" must be an integer")
		return
	}
	r.out[field] = int(min(max(n, lo), hi))
}

func (r *reader) boolean(field string, required bool) {
	val, ok := r.lookup(field, required, false)
	if !ok {
		return
	}
	b, isBool := toBool(val)
	if !isBool {
		r.v.Add(field, field+` must be a boolean ("true" or "false")`)
		return
	}
	r.out[field] = b
}

// decode copies the accepted values into target, a struct tagged with
// mapstructure field names.
func (r *reader) decode(target any) {
	if err := mapstructure.Decode(r.out, target); err != nil {
		r.v.Add("body", "payload could not be decoded: "+err.Error())
	}
}

func toInt(val any) (int64, bool) {
	switch n := val.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), n <= math.MaxInt64
	case float64:
		if n != math.Trunc(n) || n > maxExactFloat || n < -maxExactFloat {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}

func toBool(val any) (bool, bool) {
	switch b := val.(type) {
	case bool:
		return b, true
	case string:
		switch strings.TrimSpace(b) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}
