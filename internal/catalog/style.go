package catalog

import "github.com/easelworks/easel/internal/schema"

func styleDefinitions() []Definition {
	return []Definition{
		{
			Name:        "set_fill_color",
			Category:    CategoryStyle,
			Description: "Set a node's solid fill color.",
			Params: []schema.Field{
				nodeID("node to fill"),
				{Name: "color", Description: "fill color", Required: true, Kind: schema.Color{}},
			},
		},
		{
			Name:        "set_stroke_color",
			Category:    CategoryStyle,
			Description: "Set a node's stroke color and thickness.",
			Params: []schema.Field{
				nodeID("node to stroke"),
				{Name: "color", Description: "stroke color", Required: true, Kind: schema.Color{}},
				{Name: "strokeWeight", Description: "stroke thickness in pixels", Default: 1.0, Kind: schema.Between(0, 400)},
			},
		},
		{
			Name:        "set_opacity",
			Category:    CategoryStyle,
			Description: "Set a node's opacity.",
			Params: []schema.Field{
				nodeID("node to change"),
				{Name: "opacity", Description: "opacity from 0 (transparent) to 1 (opaque)", Required: true, Kind: schema.Between(0, 1)},
			},
		},
		{
			Name:        "set_corner_radius",
			Category:    CategoryStyle,
			Description: "Round a node's corners.",
			Params: []schema.Field{
				nodeID("node to change"),
				{Name: "radius", Description: "corner radius in pixels", Required: true, Kind: schema.Min(0)},
			},
		},
		{
			Name:        "set_blend_mode",
			Category:    CategoryStyle,
			Description: "Set how a node blends with the layers beneath it.",
			Params: []schema.Field{
				nodeID("node to change"),
				{Name: "blendMode", Description: "blend mode", Required: true, Kind: schema.OneOf(
					"NORMAL", "DARKEN", "MULTIPLY", "COLOR_BURN",
					"LIGHTEN", "SCREEN", "COLOR_DODGE", "OVERLAY",
				)},
			},
		},
		{
			Name:        "add_drop_shadow",
			Category:    CategoryStyle,
			Description: "Add a drop shadow effect to a node.",
			Params: []schema.Field{
				nodeID("node to shadow"),
				{Name: "offsetX", Description: "horizontal shadow offset", Default: 0.0, Kind: schema.Number{}},
				{Name: "offsetY", Description: "vertical shadow offset", Default: 4.0, Kind: schema.Number{}},
				{Name: "blur", Description: "blur radius in pixels", Default: 8.0, Kind: schema.Min(0)},
				{Name: "shadowColor", Description: "shadow color", Default: "#000000", Kind: schema.Color{}},
				{Name: "shadowOpacity", Description: "shadow opacity from 0 to 1", Default: 0.25, Kind: schema.Between(0, 1)},
			},
		},
		{
			Name:        "set_gradient_fill",
			Category:    CategoryStyle,
			Description: "Replace a node's fill with a gradient.",
			Params: []schema.Field{
				nodeID("node to fill"),
				{Name: "gradientType", Description: "gradient shape", Default: "LINEAR", Kind: schema.OneOf("LINEAR", "RADIAL", "ANGULAR")},
				{Name: "stops", Description: "color stops from start to end", Required: true, Kind: schema.Array{
					MinItems: 2,
					Items: schema.Object{Fields: []schema.Field{
						{Name: "position", Description: "stop position from 0 to 1", Required: true, Kind: schema.Between(0, 1)},
						{Name: "color", Description: "stop color", Required: true, Kind: schema.Color{}},
					}},
				}},
			},
		},
	}
}
