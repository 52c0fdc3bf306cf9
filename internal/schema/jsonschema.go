package schema

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// ObjectSchema renders fields as a JSON Schema object node, suitable
// for advertising as a tool input schema. Unknown keys are left
// permitted: validation drops them instead of rejecting the call.
func ObjectSchema(fields []Field) *jsonschema.Schema {
	props := make(map[string]*jsonschema.Schema, len(fields))
	var required []string
	for _, f := range fields {
		s := kindSchema(f.Kind)
		s.Description = f.Description
		if f.Default != nil {
			if b, err := json.Marshal(f.Default); err == nil {
				s.Default = json.RawMessage(b)
			}
		}
		props[f.Name] = s
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func kindSchema(k Kind) *jsonschema.Schema {
	switch k := k.(type) {
	case Number:
		s := &jsonschema.Schema{Type: "number", Minimum: k.Min, Maximum: k.Max}
		for _, v := range k.Values {
			s.Enum = append(s.Enum, v)
		}
		return s
	case String:
		s := &jsonschema.Schema{Type: "string", Pattern: k.Pattern}
		if k.MinLength > 0 {
			n := k.MinLength
			s.MinLength = &n
		}
		for _, v := range k.Values {
			s.Enum = append(s.Enum, v)
		}
		return s
	case Color:
		return &jsonschema.Schema{Type: "string", Pattern: colorPattern}
	case Bool:
		return &jsonschema.Schema{Type: "boolean"}
	case Array:
		s := &jsonschema.Schema{Type: "array", Items: kindSchema(k.Items)}
		if k.MinItems > 0 {
			n := k.MinItems
			s.MinItems = &n
		}
		return s
	case Object:
		return ObjectSchema(k.Fields)
	}
	return &jsonschema.Schema{}
}
