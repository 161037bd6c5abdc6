package graphql

import (
	"strings"

	"github.com/c360/fetchlab/errors"
	"github.com/c360/fetchlab/store"
)

// Argument values arrive as int64 from document literals and as json-decoded
// values from variables. The coercers normalize both shapes.

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asIntSlice(v any) ([]int, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		n, ok := asInt(item)
		if !ok {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

// intArg reads a required integer argument.
func intArg(args map[string]any, name string) (int, error) {
	n, ok := asInt(args[name])
	if !ok {
		return 0, errors.Invalidf("argument %q must be an integer", name)
	}
	return n, nil
}

// optIntArg reads an optional integer argument, 0 when absent.
func optIntArg(args map[string]any, name string) (int, error) {
	v, present := args[name]
	if !present || v == nil {
		return 0, nil
	}
	n, ok := asInt(v)
	if !ok {
		return 0, errors.Invalidf("argument %q must be an integer", name)
	}
	return n, nil
}

// stringArg reads a required string argument.
func stringArg(args map[string]any, name string) (string, error) {
	s, ok := asString(args[name])
	if !ok {
		return "", errors.Invalidf("argument %q must be a string", name)
	}
	return s, nil
}

// optStringArg reads an optional string argument, "" when absent.
func optStringArg(args map[string]any, name string) (string, error) {
	v, present := args[name]
	if !present || v == nil {
		return "", nil
	}
	s, ok := asString(v)
	if !ok {
		return "", errors.Invalidf("argument %q must be a string", name)
	}
	return s, nil
}

// statusArg reads an OrderStatus enum argument.
func statusArg(args map[string]any, name string, required bool) (store.OrderStatus, error) {
	v, present := args[name]
	if !present || v == nil {
		if required {
			return "", errors.Invalidf("argument %q is required", name)
		}
		return "", nil
	}
	s, ok := asString(v)
	if !ok {
		return "", errors.Invalidf("argument %q must be an order status", name)
	}
	status := store.OrderStatus(strings.ToLower(s))
	if !status.IsValid() {
		return "", errors.Invalidf("unknown order status %q", s)
	}
	return status, nil
}

// inputArg reads a required input-object argument.
func inputArg(args map[string]any, name string) (map[string]any, error) {
	obj, ok := args[name].(map[string]any)
	if !ok {
		return nil, errors.Invalidf("argument %q must be an input object", name)
	}
	return obj, nil
}

// The input builders translate validated input objects into store inputs.
// Schema validation guarantees types; the checks here guard variable-borne
// values that bypass literal validation.

func authorInput(obj map[string]any) (store.AuthorInput, error) {
	var in store.AuthorInput
	var ok bool
	if in.Name, ok = asString(obj["name"]); !ok {
		return in, errors.Invalidf("input field %q must be a string", "name")
	}
	if v, present := obj["bio"]; present && v != nil {
		if in.Bio, ok = asString(v); !ok {
			return in, errors.Invalidf("input field %q must be a string", "bio")
		}
	}
	if v, present := obj["birthYear"]; present && v != nil {
		if in.BirthYear, ok = asInt(v); !ok {
			return in, errors.Invalidf("input field %q must be an integer", "birthYear")
		}
	}
	return in, nil
}

func authorUpdate(obj map[string]any) (store.AuthorUpdate, error) {
	var up store.AuthorUpdate
	if v, present := obj["name"]; present && v != nil {
		s, ok := asString(v)
		if !ok {
			return up, errors.Invalidf("input field %q must be a string", "name")
		}
		up.Name = &s
	}
	if v, present := obj["bio"]; present && v != nil {
		s, ok := asString(v)
		if !ok {
			return up, errors.Invalidf("input field %q must be a string", "bio")
		}
		up.Bio = &s
	}
	if v, present := obj["birthYear"]; present && v != nil {
		n, ok := asInt(v)
		if !ok {
			return up, errors.Invalidf("input field %q must be an integer", "birthYear")
		}
		up.BirthYear = &n
	}
	return up, nil
}

func bookInput(obj map[string]any) (store.BookInput, error) {
	var in store.BookInput
	var ok bool
	if in.Title, ok = asString(obj["title"]); !ok {
		return in, errors.Invalidf("input field %q must be a string", "title")
	}
	if in.AuthorID, ok = asInt(obj["authorId"]); !ok {
		return in, errors.Invalidf("input field %q must be an integer", "authorId")
	}
	if in.Price, ok = asFloat(obj["price"]); !ok {
		return in, errors.Invalidf("input field %q must be a number", "price")
	}
	if in.Genre, ok = asString(obj["genre"]); !ok {
		return in, errors.Invalidf("input field %q must be a string", "genre")
	}
	if in.ISBN, ok = asString(obj["isbn"]); !ok {
		return in, errors.Invalidf("input field %q must be a string", "isbn")
	}
	if v, present := obj["publishedYear"]; present && v != nil {
		if in.PublishedYear, ok = asInt(v); !ok {
			return in, errors.Invalidf("input field %q must be an integer", "publishedYear")
		}
	}
	if v, present := obj["description"]; present && v != nil {
		if in.Description, ok = asString(v); !ok {
			return in, errors.Invalidf("input field %q must be a string", "description")
		}
	}
	return in, nil
}

func bookUpdate(obj map[string]any) (store.BookUpdate, error) {
	var up store.BookUpdate
	if v, present := obj["title"]; present && v != nil {
		s, ok := asString(v)
		if !ok {
			return up, errors.Invalidf("input field %q must be a string", "title")
		}
		up.Title = &s
	}
	if v, present := obj["authorId"]; present && v != nil {
		n, ok := asInt(v)
		if !ok {
			return up, errors.Invalidf("input field %q must be an integer", "authorId")
		}
		up.AuthorID = &n
	}
	if v, present := obj["price"]; present && v != nil {
		f, ok := asFloat(v)
		if !ok {
			return up, errors.Invalidf("input field %q must be a number", "price")
		}
		up.Price = &f
	}
	if v, present := obj["genre"]; present && v != nil {
		s, ok := asString(v)
		if !ok {
			return up, errors.Invalidf("input field %q must be a string", "genre")
		}
		up.Genre = &s
	}
	if v, present := obj["publishedYear"]; present && v != nil {
		n, ok := asInt(v)
		if !ok {
			return up, errors.Invalidf("input field %q must be an integer", "publishedYear")
		}
		up.PublishedYear = &n
	}
	if v, present := obj["isbn"]; present && v != nil {
		s, ok := asString(v)
		if !ok {
			return up, errors.Invalidf("input field %q must be a string", "isbn")
		}
		up.ISBN = &s
	}
	if v, present := obj["description"]; present && v != nil {
		s, ok := asString(v)
		if !ok {
			return up, errors.Invalidf("input field %q must be a string", "description")
		}
		up.Description = &s
	}
	return up, nil
}

func customerInput(obj map[string]any) (store.CustomerInput, error) {
	var in store.CustomerInput
	var ok bool
	if in.Name, ok = asString(obj["name"]); !ok {
		return in, errors.Invalidf("input field %q must be a string", "name")
	}
	if in.Email, ok = asString(obj["email"]); !ok {
		return in, errors.Invalidf("input field %q must be a string", "email")
	}
	return in, nil
}

func customerUpdate(obj map[string]any) (store.CustomerUpdate, error) {
	var up store.CustomerUpdate
	if v, present := obj["name"]; present && v != nil {
		s, ok := asString(v)
		if !ok {
			return up, errors.Invalidf("input field %q must be a string", "name")
		}
		up.Name = &s
	}
	if v, present := obj["email"]; present && v != nil {
		s, ok := asString(v)
		if !ok {
			return up, errors.Invalidf("input field %q must be a string", "email")
		}
		up.Email = &s
	}
	return up, nil
}

func orderInput(obj map[string]any) (store.OrderInput, error) {
	var in store.OrderInput
	var ok bool
	if in.CustomerID, ok = asInt(obj["customerId"]); !ok {
		return in, errors.Invalidf("input field %q must be an integer", "customerId")
	}
	if in.BookIDs, ok = asIntSlice(obj["bookIds"]); !ok {
		return in, errors.Invalidf("input field %q must be a list of integers", "bookIds")
	}
	return in, nil
}
