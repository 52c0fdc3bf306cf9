package catalog

import "github.com/easelworks/easel/internal/schema"

func booleanDefinitions() []Definition {
	ops := []struct {
		name, description string
	}{
		{"boolean_union", "Combine nodes into their union."},
		{"boolean_subtract", "Subtract later nodes from the first."},
		{"boolean_intersect", "Keep only the overlap of the nodes."},
		{"boolean_exclude", "Keep everything except the overlap of the nodes."},
	}

	defs := make([]Definition, 0, len(ops))
	for _, op := range ops {
		defs = append(defs, Definition{
			Name:        op.name,
			Category:    CategoryBoolean,
			Description: op.description,
			Params:      []schema.Field{nodeIDs(2, "nodes to combine, in stacking order")},
		})
	}
	return defs
}
