package catalog

import "github.com/easelworks/easel/internal/schema"

func modificationDefinitions() []Definition {
	return []Definition{
		{
			Name:        "move_node",
			Category:    CategoryModification,
			Description: "Move a node to an absolute position.",
			Params: []schema.Field{
				nodeID("node to move"),
				{Name: "x", Description: "new x coordinate", Required: true, Kind: schema.Number{}},
				{Name: "y", Description: "new y coordinate", Required: true, Kind: schema.Number{}},
			},
		},
		{
			Name:        "resize_node",
			Category:    CategoryModification,
			Description: "Resize a node to the given dimensions.",
			Params: append([]schema.Field{nodeID("node to resize")}, widthHeight()...),
		},
		{
			Name:        "delete_node",
			Category:    CategoryModification,
			Description: "Delete a node from the canvas.",
			Params:      []schema.Field{nodeID("node to delete")},
		},
		{
			Name:        "set_rotation",
			Category:    CategoryModification,
			Description: "Rotate a node around its center.",
			Params: []schema.Field{
				nodeID("node to rotate"),
				{Name: "angle", Description: "rotation in degrees, clockwise", Required: true, Kind: schema.Between(-360, 360)},
			},
		},
		{
			Name:        "duplicate_node",
			Category:    CategoryModification,
			Description: "Duplicate a node, offset from the original.",
			Params: []schema.Field{
				nodeID("node to duplicate"),
				{Name: "offsetX", Description: "horizontal offset of the copy", Default: 10.0, Kind: schema.Number{}},
				{Name: "offsetY", Description: "vertical offset of the copy", Default: 10.0, Kind: schema.Number{}},
			},
		},
		{
			Name:        "set_visibility",
			Category:    CategoryModification,
			Description: "Show or hide a node.",
			Params: []schema.Field{
				nodeID("node to show or hide"),
				{Name: "visible", Description: "whether the node is visible", Required: true, Kind: schema.Bool{}},
			},
		},
	}
}
