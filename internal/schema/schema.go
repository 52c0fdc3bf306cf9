// Package schema declares parameter contracts for canvas operations.
//
// A contract is a list of named fields, each with a kind describing the
// JSON shape it accepts. Contracts are pure data: they validate raw
// argument maps into canonical parameter maps and render themselves as
// JSON Schema for tool discovery, and do nothing else.
package schema

// Field declares one named parameter of an operation.
type Field struct {
	Name        string
	Description string
	Required    bool
	// Default is substituted when an optional field is absent. It must
	// be nil for required fields. Numeric defaults are declared as
	// float64 so canonical values match JSON-decoded caller values.
	Default any
	Kind    Kind
}

// Kind describes the JSON shape a field accepts. The set of kinds is
// closed: Number, String, Color, Bool, Array and Object.
type Kind interface {
	kind()
}

// Number accepts any JSON number. Min and Max, when set, are inclusive
// bounds. When Values is non-empty the number must equal one of them.
type Number struct {
	Min    *float64
	Max    *float64
	Values []float64
}

// String accepts a JSON string. Pattern, when non-empty, is an RE2
// expression the whole value must satisfy. When Values is non-empty
// the string must equal one of them. MinLength, when positive, is the
// minimum number of characters.
type String struct {
	Pattern   string
	Values    []string
	MinLength int
}

// Color accepts a six hex digit color string with a leading "#", such
// as "#1A2B3C". Case does not matter.
type Color struct{}

// Bool accepts a JSON boolean.
type Bool struct{}

// Array accepts a JSON array whose elements all satisfy Items. When
// MinItems is positive the array must hold at least that many elements.
type Array struct {
	Items    Kind
	MinItems int
}

// Object accepts a JSON object holding the declared fields. Keys not
// declared here are dropped from the canonical value.
type Object struct {
	Fields []Field
}

func (Number) kind() {}
func (String) kind() {}
func (Color) kind()  {}
func (Bool) kind()   {}
func (Array) kind()  {}
func (Object) kind() {}

// Min returns a Number with an inclusive lower bound.
func Min(v float64) Number {
	return Number{Min: &v}
}

// Between returns a Number bounded inclusively on both ends.
func Between(lo, hi float64) Number {
	return Number{Min: &lo, Max: &hi}
}

// OneOf returns a String restricted to the given values.
func OneOf(values ...string) String {
	return String{Values: values}
}

// OneOfNumbers returns a Number restricted to the given values.
func OneOfNumbers(values ...float64) Number {
	return Number{Values: values}
}
