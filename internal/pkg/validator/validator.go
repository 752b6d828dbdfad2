package validator

import (
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ISODateLayout is the calendar date format used by estimates ("2025-06-01").
const ISODateLayout = "2006-01-02"

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report json field names so paths read like the wire format.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return IsISODate(fl.Field().String())
	})
}

// IsISODate reports whether s is a valid YYYY-MM-DD calendar date.
func IsISODate(s string) bool {
	_, err := time.Parse(ISODateLayout, s)
	return err == nil
}

// Validate struct fields. Keys are field paths without the root type name,
// values are the failed tag.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"": err.Error()}
	}

	errors := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		errors[trimRoot(fe.Namespace())] = fe.Tag()
	}
	return errors
}

// First returns the alphabetically first failing field of a Validate result,
// so callers reporting a single problem stay deterministic.
func First(errs map[string]string) (field, tag string) {
	if len(errs) == 0 {
		return "", ""
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0], errs[keys[0]]
}

func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
