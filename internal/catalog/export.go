package catalog

import "github.com/easelworks/easel/internal/schema"

func exportDefinitions() []Definition {
	return []Definition{
		{
			Name:        "export_node_image",
			Category:    CategoryExport,
			Description: "Export a node as an image.",
			Params: []schema.Field{
				nodeID("node to export"),
				{Name: "format", Description: "image format", Default: "PNG", Kind: schema.OneOf("PNG", "JPG", "SVG", "PDF")},
				{Name: "scale", Description: "export scale factor", Default: 1.0, Kind: schema.Between(0.01, 4)},
			},
		},
		{
			Name:        "export_canvas_snapshot",
			Category:    CategoryExport,
			Description: "Export a snapshot of the whole canvas.",
			Params: []schema.Field{
				{Name: "format", Description: "image format", Default: "PNG", Kind: schema.OneOf("PNG", "JPG")},
				{Name: "includeHidden", Description: "include hidden nodes", Default: false, Kind: schema.Bool{}},
			},
		},
	}
}
