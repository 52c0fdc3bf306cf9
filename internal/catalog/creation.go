package catalog

import (
	"slices"

	"github.com/easelworks/easel/internal/schema"
)

func creationDefinitions() []Definition {
	return []Definition{
		{
			Name:        "create_rectangle",
			Category:    CategoryCreation,
			Description: "Create a rectangle at the given position and size.",
			Params: slices.Concat(xy(), widthHeight(), []schema.Field{
				{Name: "fillColor", Description: "fill color", Default: "#D9D9D9", Kind: schema.Color{}},
				{Name: "cornerRadius", Description: "corner radius in pixels", Default: 0.0, Kind: schema.Min(0)},
				{Name: "name", Description: "layer name", Default: "Rectangle", Kind: schema.String{}},
			}),
		},
		{
			Name:        "create_ellipse",
			Category:    CategoryCreation,
			Description: "Create an ellipse at the given position and size.",
			Params: slices.Concat(xy(), widthHeight(), []schema.Field{
				{Name: "fillColor", Description: "fill color", Default: "#D9D9D9", Kind: schema.Color{}},
				{Name: "name", Description: "layer name", Default: "Ellipse", Kind: schema.String{}},
			}),
		},
		{
			Name:        "create_frame",
			Category:    CategoryCreation,
			Description: "Create a frame that can hold other nodes.",
			Params: slices.Concat(xy(), widthHeight(), []schema.Field{
				{Name: "backgroundColor", Description: "frame background color", Default: "#FFFFFF", Kind: schema.Color{}},
				{Name: "name", Description: "layer name", Default: "Frame", Kind: schema.String{}},
			}),
		},
		{
			Name:        "create_text",
			Category:    CategoryCreation,
			Description: "Create a text node with the given content.",
			Params: slices.Concat(xy(), []schema.Field{
				{Name: "content", Description: "text content", Required: true, Kind: schema.String{}},
				{Name: "fontSize", Description: "font size in points", Default: 16.0, Kind: schema.Between(1, 512)},
				{Name: "fontWeight", Description: "font weight stop", Default: 400.0, Kind: fontWeights()},
				{Name: "fontColor", Description: "text color", Default: "#000000", Kind: schema.Color{}},
				{Name: "name", Description: "layer name", Default: "Text", Kind: schema.String{}},
			}),
		},
		{
			Name:        "create_line",
			Category:    CategoryCreation,
			Description: "Create a line between two points.",
			Params: []schema.Field{
				{Name: "x1", Description: "start point x coordinate", Required: true, Kind: schema.Number{}},
				{Name: "y1", Description: "start point y coordinate", Required: true, Kind: schema.Number{}},
				{Name: "x2", Description: "end point x coordinate", Required: true, Kind: schema.Number{}},
				{Name: "y2", Description: "end point y coordinate", Required: true, Kind: schema.Number{}},
				{Name: "strokeColor", Description: "stroke color", Default: "#000000", Kind: schema.Color{}},
				{Name: "strokeWeight", Description: "stroke thickness in pixels", Default: 1.0, Kind: schema.Between(0, 400)},
			},
		},
		{
			Name:        "create_polygon",
			Category:    CategoryCreation,
			Description: "Create a regular polygon with the given number of points.",
			Params: slices.Concat(xy(), widthHeight(), []schema.Field{
				{Name: "pointCount", Description: "number of polygon points", Default: 5.0, Kind: schema.Between(3, 100)},
				{Name: "fillColor", Description: "fill color", Default: "#D9D9D9", Kind: schema.Color{}},
				{Name: "name", Description: "layer name", Default: "Polygon", Kind: schema.String{}},
			}),
		},
	}
}
