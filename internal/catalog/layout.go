package catalog

import "github.com/easelworks/easel/internal/schema"

func layoutDefinitions() []Definition {
	return []Definition{
		{
			Name:        "set_auto_layout",
			Category:    CategoryLayout,
			Description: "Configure auto layout on a frame, or remove it with NONE.",
			Params: []schema.Field{
				nodeID("frame to configure"),
				{Name: "direction", Description: "flow direction, or NONE to remove auto layout", Required: true, Kind: schema.OneOf("HORIZONTAL", "VERTICAL", "NONE")},
				{Name: "spacing", Description: "gap between children in pixels", Default: 8.0, Kind: schema.Min(0)},
				{Name: "padding", Description: "padding inside the frame in pixels", Default: 0.0, Kind: schema.Min(0)},
			},
		},
		{
			Name:        "stack_nodes",
			Category:    CategoryLayout,
			Description: "Stack nodes next to each other with even spacing.",
			Params: []schema.Field{
				nodeIDs(2, "nodes to stack, in order"),
				{Name: "direction", Description: "stacking direction", Default: "VERTICAL", Kind: schema.OneOf("HORIZONTAL", "VERTICAL")},
				{Name: "spacing", Description: "gap between nodes in pixels", Default: 8.0, Kind: schema.Min(0)},
			},
		},
		{
			Name:        "distribute_nodes",
			Category:    CategoryLayout,
			Description: "Distribute nodes evenly along one axis.",
			Params: []schema.Field{
				nodeIDs(2, "nodes to distribute"),
				{Name: "axis", Description: "distribution axis", Default: "HORIZONTAL", Kind: schema.OneOf("HORIZONTAL", "VERTICAL")},
			},
		},
		{
			Name:        "align_nodes",
			Category:    CategoryLayout,
			Description: "Align nodes to a shared edge or center.",
			Params: []schema.Field{
				nodeIDs(2, "nodes to align"),
				{Name: "alignment", Description: "edge or center to align to", Required: true, Kind: schema.OneOf(
					"LEFT", "CENTER_HORIZONTAL", "RIGHT",
					"TOP", "CENTER_VERTICAL", "BOTTOM",
				)},
			},
		},
		{
			Name:        "snap_to_grid",
			Category:    CategoryLayout,
			Description: "Snap node positions to the nearest grid line.",
			Params: []schema.Field{
				nodeIDs(1, "nodes to snap"),
				{Name: "gridSize", Description: "grid cell size in pixels", Default: 8.0, Kind: schema.Min(1)},
			},
		},
	}
}
