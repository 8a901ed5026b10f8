package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/storefront/backend/internal/domain/shared"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func sectionValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// FieldError describes one invalid field of a section
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a section does not satisfy its schema
type ValidationError struct {
	Key    SectionKey
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("invalid %s content: %s", e.Key, strings.Join(parts, "; "))
}

// Decode reads stored or submitted JSON for key, merged over the section defaults
// and normalised. Empty input yields the defaults.
func Decode(key SectionKey, raw []byte) (Section, error) {
	defaults, err := Defaults(key)
	if err != nil {
		return nil, err
	}
	section, err := newSection(key)
	if err != nil {
		return nil, err
	}
	if err := Merge(defaults, raw, section); err != nil {
		return nil, err
	}
	section.normalize(defaults)
	return section, nil
}

// Merge overlays the top-level fields present in raw onto defaults and decodes the
// result into dst. Fields absent from raw keep their default, present fields win
// (arrays are replaced as a whole) and unknown fields are dropped.
func Merge(defaults any, raw []byte, dst any) error {
	base, err := toFieldMap(defaults)
	if err != nil {
		return err
	}

	if len(raw) > 0 && string(raw) != "null" {
		var stored map[string]json.RawMessage
		if err := json.Unmarshal(raw, &stored); err != nil {
			return shared.NewDomainError("INVALID_CONTENT", "Section content must be a JSON object")
		}
		for field, value := range stored {
			if _, known := base[field]; known {
				base[field] = value
			}
		}
	}

	merged, err := json.Marshal(base)
	if err != nil {
		return fmt.Errorf("marshal merged section: %w", err)
	}
	if err := json.Unmarshal(merged, dst); err != nil {
		return shared.NewDomainError("INVALID_CONTENT", fmt.Sprintf("Section content has the wrong shape: %v", err))
	}
	return nil
}

// Encode serialises a section for storage
func Encode(section Section) ([]byte, error) {
	return json.Marshal(section)
}

// Validate checks a section against its schema
func Validate(key SectionKey, section Section) error {
	err := sectionValidator().Struct(section)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Key: key}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   trimRoot(fe.Namespace()),
			Message: describe(fe),
		})
	}
	return out
}

// Normalize enforces fixed array sizes on a section of the given key
func Normalize(key SectionKey, section Section) error {
	defaults, err := Defaults(key)
	if err != nil {
		return err
	}
	section.normalize(defaults)
	return nil
}

func toFieldMap(v any) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal section defaults: %w", err)
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("section defaults are not an object: %w", err)
	}
	return fields, nil
}

func trimRoot(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "len":
		return "must have exactly " + fe.Param() + " items"
	case "uuid":
		return "must be a valid UUID"
	}
	return "failed " + fe.Tag() + " validation"
}
