// Package catalog holds the fixed registry of canvas operations.
//
// Each operation is declared once, with its category, a description for
// tool discovery and the parameter contract callers must satisfy. The
// registry is built at startup and never changes afterwards, so lookups
// need no locking.
package catalog

import "github.com/easelworks/easel/internal/schema"

// Category values group operations for discovery and travel on the
// command envelope so the canvas plugin can route without string
// matching on operation names.
const (
	CategoryCreation     = "creation"
	CategoryModification = "modification"
	CategoryStyle        = "style"
	CategoryText         = "text"
	CategoryLayout       = "layout"
	CategoryComponent    = "component"
	CategoryBoolean      = "boolean"
	CategoryHierarchy    = "hierarchy"
	CategorySelection    = "selection"
	CategoryExport       = "export"
)

// Categories lists every category in catalog order.
func Categories() []string {
	return []string{
		CategoryCreation,
		CategoryModification,
		CategoryStyle,
		CategoryText,
		CategoryLayout,
		CategoryComponent,
		CategoryBoolean,
		CategoryHierarchy,
		CategorySelection,
		CategoryExport,
	}
}

// Definition describes one operation: its wire name, category, human
// readable description and parameter contract.
type Definition struct {
	Name        string
	Category    string
	Description string
	Params      []schema.Field
}

// Registry is the full operation catalog, immutable after New.
type Registry struct {
	defs  []Definition
	index map[string]int
}

// New builds the canvas operation catalog. It panics when two
// operations share a name, which only a catalog programming error can
// cause.
func New() *Registry {
	var defs []Definition
	for _, group := range [][]Definition{
		creationDefinitions(),
		modificationDefinitions(),
		styleDefinitions(),
		textDefinitions(),
		layoutDefinitions(),
		componentDefinitions(),
		booleanDefinitions(),
		hierarchyDefinitions(),
		selectionDefinitions(),
		exportDefinitions(),
	} {
		defs = append(defs, group...)
	}

	index := make(map[string]int, len(defs))
	for i, d := range defs {
		if _, dup := index[d.Name]; dup {
			panic("catalog: duplicate operation " + d.Name)
		}
		index[d.Name] = i
	}
	return &Registry{defs: defs, index: index}
}

// Definitions returns every operation in declaration order. The result
// is shared; callers must not modify it.
func (r *Registry) Definitions() []Definition {
	return r.defs
}

// DefinitionsFor returns the operations of one category, in declaration
// order. An unknown category yields an empty slice.
func (r *Registry) DefinitionsFor(category string) []Definition {
	var out []Definition
	for _, d := range r.defs {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// Lookup returns the definition of the named operation. The second
// return value reports whether the operation exists.
func (r *Registry) Lookup(name string) (Definition, bool) {
	i, ok := r.index[name]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}
