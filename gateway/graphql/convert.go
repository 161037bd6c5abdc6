package graphql

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/c360/fetchlab/errors"
	"github.com/c360/fetchlab/fetch/fieldsel"
	"github.com/c360/fetchlab/store"
)

// wireNames maps schema field names to the strategy's wire names. Fields not
// listed pass through unchanged.
var wireNames = map[string]string{
	"birthYear":        "birth_year",
	"authorId":         "author_id",
	"publishedYear":    "published_year",
	"registrationDate": "registration_date",
	"customerId":       "customer_id",
	"bookIds":          "book_ids",
	"totalAmount":      "total_amount",
	"orderDate":        "order_date",
}

func wireName(field string) string {
	if wire, ok := wireNames[field]; ok {
		return wire
	}
	return field
}

// flatten resolves fragment spreads and inline fragments into a flat field
// list. Validation has already checked that every spread resolves.
func flatten(selSet ast.SelectionSet, fragments ast.FragmentDefinitionList) []*ast.Field {
	var fields []*ast.Field
	for _, sel := range selSet {
		switch s := sel.(type) {
		case *ast.Field:
			fields = append(fields, s)
		case *ast.FragmentSpread:
			if def := fragments.ForName(s.Name); def != nil {
				fields = append(fields, flatten(def.SelectionSet, fragments)...)
			}
		case *ast.InlineFragment:
			fields = append(fields, flatten(s.SelectionSet, fragments)...)
		}
	}
	return fields
}

// toSelection converts a validated selection set into the strategy's
// recursive field selection. __typename is transport-level and handled
// during response shaping, not by the strategy.
func toSelection(selSet ast.SelectionSet, fragments ast.FragmentDefinitionList) fieldsel.Selection {
	sel := make(fieldsel.Selection)
	for _, f := range flatten(selSet, fragments) {
		if f.Name == "__typename" {
			continue
		}
		var sub fieldsel.Selection
		if len(f.SelectionSet) > 0 {
			sub = toSelection(f.SelectionSet, fragments)
		}
		sel[wireName(f.Name)] = sub
	}
	return sel
}

// selectionDepth measures the deepest field nesting of a selection set.
func selectionDepth(selSet ast.SelectionSet, fragments ast.FragmentDefinitionList) int {
	depth := 0
	for _, f := range flatten(selSet, fragments) {
		d := 1 + selectionDepth(f.SelectionSet, fragments)
		if d > depth {
			depth = d
		}
	}
	return depth
}

// reshape renames a strategy result's wire-name keys back into the response
// keys the client asked for (aliases included) and materializes __typename.
func reshape(selSet ast.SelectionSet, fragments ast.FragmentDefinitionList, value any) any {
	switch v := value.(type) {
	case map[string]any:
		// Absent entities resolve to a typed nil map; render them as null.
		if v == nil {
			return nil
		}
		out := make(map[string]any, len(v))
		for _, f := range flatten(selSet, fragments) {
			key := f.Alias
			if key == "" {
				key = f.Name
			}
			if f.Name == "__typename" {
				out[key] = typeName(f)
				continue
			}
			inner := v[wireName(f.Name)]
			if len(f.SelectionSet) > 0 {
				out[key] = reshape(f.SelectionSet, fragments, inner)
			} else {
				out[key] = scalarValue(inner)
			}
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = reshape(selSet, fragments, item)
		}
		return out
	default:
		return value
	}
}

func typeName(f *ast.Field) string {
	if f.ObjectDefinition != nil {
		return f.ObjectDefinition.Name
	}
	return ""
}

// scalarValue adapts store scalars to their GraphQL representation.
func scalarValue(v any) any {
	if status, ok := v.(store.OrderStatus); ok {
		return strings.ToUpper(string(status))
	}
	return v
}

// argumentValues resolves a field's arguments against the variables.
func argumentValues(f *ast.Field, vars map[string]any) (map[string]any, error) {
	args := make(map[string]any, len(f.Arguments))
	for _, arg := range f.Arguments {
		val, err := arg.Value.Value(vars)
		if err != nil {
			return nil, errors.WrapInvalid(err, "Executor", "argumentValues",
				"resolve argument "+arg.Name)
		}
		args[arg.Name] = val
	}
	return args, nil
}
