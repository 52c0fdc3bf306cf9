package catalog

import "github.com/easelworks/easel/internal/schema"

// Field constructors shared across categories. Identifier fields are
// non-empty strings; the canvas plugin resolves them to nodes.

func nodeID(description string) schema.Field {
	return schema.Field{
		Name:        "nodeId",
		Description: description,
		Required:    true,
		Kind:        schema.String{MinLength: 1},
	}
}

func nodeIDs(minItems int, description string) schema.Field {
	return schema.Field{
		Name:        "nodeIds",
		Description: description,
		Required:    true,
		Kind: schema.Array{
			Items:    schema.String{MinLength: 1},
			MinItems: minItems,
		},
	}
}

func xy() []schema.Field {
	return []schema.Field{
		{Name: "x", Description: "x coordinate on the canvas", Required: true, Kind: schema.Number{}},
		{Name: "y", Description: "y coordinate on the canvas", Required: true, Kind: schema.Number{}},
	}
}

func widthHeight() []schema.Field {
	return []schema.Field{
		{Name: "width", Description: "width in pixels", Required: true, Kind: schema.Min(1)},
		{Name: "height", Description: "height in pixels", Required: true, Kind: schema.Min(1)},
	}
}

// fontWeights are the standard weight stops from thin to black.
func fontWeights() schema.Number {
	return schema.OneOfNumbers(100, 200, 300, 400, 500, 600, 700, 800, 900)
}
