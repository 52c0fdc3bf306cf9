package catalog

import "github.com/easelworks/easel/internal/schema"

func textDefinitions() []Definition {
	return []Definition{
		{
			Name:        "set_text_content",
			Category:    CategoryText,
			Description: "Replace the content of a text node.",
			Params: []schema.Field{
				nodeID("text node to edit"),
				{Name: "content", Description: "new text content", Required: true, Kind: schema.String{}},
			},
		},
		{
			Name:        "set_font_size",
			Category:    CategoryText,
			Description: "Set the font size of a text node.",
			Params: []schema.Field{
				nodeID("text node to change"),
				{Name: "fontSize", Description: "font size in points", Required: true, Kind: schema.Between(1, 512)},
			},
		},
		{
			Name:        "set_font_weight",
			Category:    CategoryText,
			Description: "Set the font weight of a text node.",
			Params: []schema.Field{
				nodeID("text node to change"),
				{Name: "fontWeight", Description: "font weight stop", Required: true, Kind: fontWeights()},
			},
		},
		{
			Name:        "set_text_align",
			Category:    CategoryText,
			Description: "Set the horizontal and vertical alignment of a text node.",
			Params: []schema.Field{
				nodeID("text node to align"),
				{Name: "horizontal", Description: "horizontal alignment", Default: "LEFT", Kind: schema.OneOf("LEFT", "CENTER", "RIGHT", "JUSTIFIED")},
				{Name: "vertical", Description: "vertical alignment", Default: "TOP", Kind: schema.OneOf("TOP", "CENTER", "BOTTOM")},
			},
		},
		{
			Name:        "set_text_case",
			Category:    CategoryText,
			Description: "Set the letter casing of a text node.",
			Params: []schema.Field{
				nodeID("text node to change"),
				{Name: "textCase", Description: "letter casing", Required: true, Kind: schema.OneOf("ORIGINAL", "UPPER", "LOWER", "TITLE")},
			},
		},
	}
}
