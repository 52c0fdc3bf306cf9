package schema

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// colorPattern matches an exact six hex digit color with a leading "#".
const colorPattern = `^#[0-9a-fA-F]{6}$`

var colorRx = regexp.MustCompile(colorPattern)

// FieldError reports one validation failure. Path is the dotted path
// of the offending field, with array elements addressed by decimal
// index, e.g. "stops.0.color".
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Path + ": " + e.Message
}

// Validate checks raw against the declared fields and returns the
// canonical parameter map: defaults substituted for absent optional
// fields, undeclared keys dropped. Failures are collected across the
// whole walk, in field declaration order, rather than stopping at the
// first. On any failure the canonical map is nil. A nil raw map is
// treated as an empty argument bag.
func Validate(fields []Field, raw map[string]any) (map[string]any, []FieldError) {
	var errs []FieldError
	canonical := validateObject(fields, raw, "", &errs)
	if len(errs) > 0 {
		return nil, errs
	}
	return canonical, nil
}

func validateObject(fields []Field, raw map[string]any, prefix string, errs *[]FieldError) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}
		value, present := raw[f.Name]
		if !present {
			if f.Required {
				*errs = append(*errs, FieldError{Path: path, Message: "must be provided"})
				continue
			}
			if f.Default != nil {
				out[f.Name] = f.Default
			}
			continue
		}
		if v, ok := coerce(f.Kind, path, value, errs); ok {
			out[f.Name] = v
		}
	}
	return out
}

// coerce checks value against k and returns its canonical form. The
// bool reports whether the value was structurally usable; constraint
// violations still return true so sibling constraints are checked too.
func coerce(k Kind, path string, value any, errs *[]FieldError) (any, bool) {
	switch k := k.(type) {
	case Number:
		n, ok := value.(float64)
		if !ok {
			*errs = append(*errs, FieldError{Path: path, Message: "must be a number"})
			return nil, false
		}
		if len(k.Values) > 0 && !slices.Contains(k.Values, n) {
			*errs = append(*errs, FieldError{Path: path, Message: "must be one of " + joinNumbers(k.Values)})
		}
		if k.Min != nil && n < *k.Min {
			*errs = append(*errs, FieldError{Path: path, Message: "must be at least " + formatNumber(*k.Min)})
		}
		if k.Max != nil && n > *k.Max {
			*errs = append(*errs, FieldError{Path: path, Message: "must be at most " + formatNumber(*k.Max)})
		}
		return n, true

	case String:
		s, ok := value.(string)
		if !ok {
			*errs = append(*errs, FieldError{Path: path, Message: "must be a string"})
			return nil, false
		}
		if len(k.Values) > 0 && !slices.Contains(k.Values, s) {
			*errs = append(*errs, FieldError{Path: path, Message: "must be one of " + strings.Join(k.Values, ", ")})
		}
		if k.MinLength > 0 && utf8.RuneCountInString(s) < k.MinLength {
			msg := fmt.Sprintf("must have at least %d characters", k.MinLength)
			if k.MinLength == 1 {
				msg = "must not be empty"
			}
			*errs = append(*errs, FieldError{Path: path, Message: msg})
		}
		if k.Pattern != "" && !regexp.MustCompile(k.Pattern).MatchString(s) {
			*errs = append(*errs, FieldError{Path: path, Message: "must match " + k.Pattern})
		}
		return s, true

	case Color:
		s, ok := value.(string)
		if !ok || !colorRx.MatchString(s) {
			*errs = append(*errs, FieldError{Path: path, Message: "must be a hex color in #RRGGBB form"})
			return nil, false
		}
		return s, true

	case Bool:
		b, ok := value.(bool)
		if !ok {
			*errs = append(*errs, FieldError{Path: path, Message: "must be a boolean"})
			return nil, false
		}
		return b, true

	case Array:
		items, ok := value.([]any)
		if !ok {
			*errs = append(*errs, FieldError{Path: path, Message: "must be an array"})
			return nil, false
		}
		if len(items) < k.MinItems {
			noun := "items"
			if k.MinItems == 1 {
				noun = "item"
			}
			*errs = append(*errs, FieldError{Path: path, Message: fmt.Sprintf("must have at least %d %s", k.MinItems, noun)})
		}
		out := make([]any, 0, len(items))
		for i, item := range items {
			if v, ok := coerce(k.Items, path+"."+strconv.Itoa(i), item, errs); ok {
				out = append(out, v)
			}
		}
		return out, true

	case Object:
		m, ok := value.(map[string]any)
		if !ok {
			*errs = append(*errs, FieldError{Path: path, Message: "must be an object"})
			return nil, false
		}
		return validateObject(k.Fields, m, path, errs), true
	}
	// Unreachable while the kind set stays closed.
	*errs = append(*errs, FieldError{Path: path, Message: "has an unsupported kind"})
	return nil, false
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func joinNumbers(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatNumber(v)
	}
	return strings.Join(parts, ", ")
}
