package catalog

import "github.com/easelworks/easel/internal/schema"

func componentDefinitions() []Definition {
	return []Definition{
		{
			Name:        "create_component",
			Category:    CategoryComponent,
			Description: "Convert a node into a reusable component.",
			Params: []schema.Field{
				nodeID("node to convert"),
				{Name: "name", Description: "component name, node name when omitted", Kind: schema.String{}},
			},
		},
		{
			Name:        "create_component_instance",
			Category:    CategoryComponent,
			Description: "Place an instance of a component on the canvas.",
			Params: []schema.Field{
				{Name: "componentId", Description: "component to instantiate", Required: true, Kind: schema.String{MinLength: 1}},
				{Name: "x", Description: "x coordinate of the instance", Required: true, Kind: schema.Number{}},
				{Name: "y", Description: "y coordinate of the instance", Required: true, Kind: schema.Number{}},
			},
		},
		{
			Name:        "detach_instance",
			Category:    CategoryComponent,
			Description: "Detach an instance from its component.",
			Params:      []schema.Field{nodeID("instance to detach")},
		},
	}
}
