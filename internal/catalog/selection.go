package catalog

import "github.com/easelworks/easel/internal/schema"

func selectionDefinitions() []Definition {
	return []Definition{
		{
			Name:        "get_selection",
			Category:    CategorySelection,
			Description: "Get the nodes currently selected in the canvas.",
		},
		{
			Name:        "set_selection",
			Category:    CategorySelection,
			Description: "Select the given nodes in the canvas.",
			Params:      []schema.Field{nodeIDs(1, "nodes to select")},
		},
		{
			Name:        "get_node_info",
			Category:    CategorySelection,
			Description: "Get a node's properties, optionally with its children.",
			Params: []schema.Field{
				nodeID("node to inspect"),
				{Name: "includeChildren", Description: "include the child subtree", Default: false, Kind: schema.Bool{}},
			},
		},
		{
			Name:        "get_document_info",
			Category:    CategorySelection,
			Description: "Get the document structure: pages and top level nodes.",
		},
		{
			Name:        "scroll_to_node",
			Category:    CategorySelection,
			Description: "Scroll the viewport to a node, optionally zooming.",
			Params: []schema.Field{
				nodeID("node to scroll to"),
				{Name: "zoom", Description: "zoom level, current zoom when omitted", Kind: schema.Between(0.1, 4)},
			},
		},
	}
}
