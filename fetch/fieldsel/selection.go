// Package fieldsel implements the field-selective fetch strategy. A request
// carries an explicit recursive selection of field names; resolution touches
// only the requested fields, follows relations lazily through the
// relationship resolver, and produces exactly one logical call regardless of
// relation depth.
package fieldsel

// Selection is the requested shape for one entity: a set of field names,
// each optionally carrying a nested selection for a relation field. A nil
// or empty value marks a scalar leaf; a non-empty value selects into the
// related entity.
//
//	Selection{"title": nil, "author": Selection{"name": nil}}
//
// requests a book's title plus its author's name and nothing else.
type Selection map[string]Selection
