package catalog

import "github.com/easelworks/easel/internal/schema"

func hierarchyDefinitions() []Definition {
	return []Definition{
		{
			Name:        "group_nodes",
			Category:    CategoryHierarchy,
			Description: "Group nodes under a new parent group.",
			Params: []schema.Field{
				nodeIDs(2, "nodes to group"),
				{Name: "name", Description: "group name", Default: "Group", Kind: schema.String{}},
			},
		},
		{
			Name:        "ungroup_node",
			Category:    CategoryHierarchy,
			Description: "Dissolve a group, lifting its children to the parent.",
			Params:      []schema.Field{nodeID("group to dissolve")},
		},
		{
			Name:        "reparent_node",
			Category:    CategoryHierarchy,
			Description: "Move a node under a different parent.",
			Params: []schema.Field{
				nodeID("node to move"),
				{Name: "parentId", Description: "new parent node", Required: true, Kind: schema.String{MinLength: 1}},
				{Name: "index", Description: "insertion index among the new siblings, appended when omitted", Kind: schema.Min(0)},
			},
		},
		{
			Name:        "reorder_node",
			Category:    CategoryHierarchy,
			Description: "Change a node's position in the stacking order.",
			Params: []schema.Field{
				nodeID("node to reorder"),
				{Name: "direction", Description: "one step forward or backward, or all the way to the front or back", Required: true, Kind: schema.OneOf("FORWARD", "BACKWARD", "FRONT", "BACK")},
			},
		},
	}
}
