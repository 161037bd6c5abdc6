package graphql

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/c360/fetchlab/errors"
	"github.com/c360/fetchlab/fetch"
	"github.com/c360/fetchlab/fetch/fieldsel"
	"github.com/c360/fetchlab/metric"
)

// Executor parses, validates, and resolves GraphQL documents against the
// field-selective strategy. Every root field becomes exactly one strategy
// request; the document's total cost is the sum over its root fields.
type Executor struct {
	schema   *ast.Schema
	strategy *fieldsel.Strategy
	metrics  *metric.Metrics
	maxDepth int
}

// NewExecutor creates an executor over the given strategy. metrics may be
// nil to disable instrumentation.
func NewExecutor(strategy *fieldsel.Strategy, metrics *metric.Metrics, maxDepth int) *Executor {
	return &Executor{
		schema:   loadSchema(),
		strategy: strategy,
		metrics:  metrics,
		maxDepth: maxDepth,
	}
}

// Response is the GraphQL wire response plus the measured fetch cost.
type Response struct {
	Data   map[string]any `json:"data"`
	Errors gqlerror.List  `json:"errors,omitempty"`
	Stats  fetch.Stats    `json:"-"`
}

// Execute runs one GraphQL request.
func (e *Executor) Execute(query string, vars map[string]any, operationName string) *Response {
	doc, errList := gqlparser.LoadQuery(e.schema, query)
	if len(errList) > 0 {
		return &Response{Errors: errList}
	}

	op := e.selectOperation(doc, operationName)
	if op == nil {
		return &Response{Errors: gqlerror.List{
			requestError("OPERATION_NOT_FOUND", "operation %q not found in document", operationName),
		}}
	}
	if op.Operation == ast.Subscription {
		return &Response{Errors: gqlerror.List{
			requestError("UNSUPPORTED_OPERATION", "subscriptions are not supported"),
		}}
	}

	if depth := selectionDepth(op.SelectionSet, doc.Fragments); depth > e.maxDepth {
		return &Response{Errors: gqlerror.List{
			requestError("MAX_DEPTH_EXCEEDED", "selection depth %d exceeds limit %d", depth, e.maxDepth),
		}}
	}

	resp := &Response{Data: make(map[string]any)}
	for _, f := range flatten(op.SelectionSet, doc.Fragments) {
		key := f.Alias
		if key == "" {
			key = f.Name
		}
		if f.Name == "__typename" {
			resp.Data[key] = rootTypeName(op.Operation)
			continue
		}

		path := ast.Path{ast.PathName(key)}
		args, err := argumentValues(f, vars)
		if err != nil {
			resp.Data[key] = nil
			resp.Errors = append(resp.Errors, mapError(err, f.Name, path))
			continue
		}

		sel := toSelection(f.SelectionSet, doc.Fragments)
		result, stats, err := e.resolve(f.Name, args, sel)
		resp.Stats.Calls += stats.Calls
		resp.Stats.Bytes += stats.Bytes
		if err != nil {
			resp.Data[key] = nil
			resp.Errors = append(resp.Errors, mapError(err, f.Name, path))
			continue
		}

		resp.Data[key] = reshape(f.SelectionSet, doc.Fragments, result)
	}

	return resp
}

func (e *Executor) selectOperation(doc *ast.QueryDocument, name string) *ast.OperationDefinition {
	if name != "" {
		return doc.Operations.ForName(name)
	}
	if len(doc.Operations) == 1 {
		return doc.Operations[0]
	}
	return nil
}

func rootTypeName(kind ast.Operation) string {
	if kind == ast.Mutation {
		return "Mutation"
	}
	return "Query"
}

// resolve dispatches one root field to the strategy, instrumented.
func (e *Executor) resolve(name string, args map[string]any, sel fieldsel.Selection) (any, fetch.Stats, error) {
	return metric.Instrument(e.metrics, metric.StrategyFieldSel, name,
		func() (any, fetch.Stats, error) {
			return e.dispatch(name, args, sel)
		})
}

func (e *Executor) dispatch(name string, args map[string]any, sel fieldsel.Selection) (any, fetch.Stats, error) {
	switch name {
	case "author":
		id, err := intArg(args, "id")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.Author(id, sel)

	case "authors":
		limit, err := optIntArg(args, "limit")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.Authors(limit, sel)

	case "book":
		id, err := intArg(args, "id")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.Book(id, sel)

	case "books":
		authorID, err := optIntArg(args, "authorId")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		genre, err := optStringArg(args, "genre")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		limit, err := optIntArg(args, "limit")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.Books(fieldsel.BookFilter{AuthorID: authorID, Genre: genre, Limit: limit}, sel)

	case "searchBooks":
		query, err := stringArg(args, "query")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		limit, err := optIntArg(args, "limit")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.SearchBooks(query, limit, sel)

	case "customer":
		id, err := intArg(args, "id")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.Customer(id, sel)

	case "customers":
		limit, err := optIntArg(args, "limit")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.Customers(limit, sel)

	case "order":
		id, err := intArg(args, "id")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.Order(id, sel)

	case "orders":
		customerID, err := optIntArg(args, "customerId")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		status, err := statusArg(args, "status", false)
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		limit, err := optIntArg(args, "limit")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.Orders(fieldsel.OrderFilter{CustomerID: customerID, Status: status, Limit: limit}, sel)

	case "createAuthor":
		obj, err := inputArg(args, "input")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		in, err := authorInput(obj)
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.CreateAuthor(in, sel)

	case "updateAuthor":
		id, err := intArg(args, "id")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		obj, err := inputArg(args, "input")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		up, err := authorUpdate(obj)
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.UpdateAuthor(id, up, sel)

	case "deleteAuthor":
		id, err := intArg(args, "id")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.DeleteAuthor(id)

	case "createBook":
		obj, err := inputArg(args, "input")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		in, err := bookInput(obj)
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.CreateBook(in, sel)

	case "updateBook":
		id, err := intArg(args, "id")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		obj, err := inputArg(args, "input")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		up, err := bookUpdate(obj)
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.UpdateBook(id, up, sel)

	case "deleteBook":
		id, err := intArg(args, "id")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.DeleteBook(id)

	case "createCustomer":
		obj, err := inputArg(args, "input")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		in, err := customerInput(obj)
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.CreateCustomer(in, sel)

	case "updateCustomer":
		id, err := intArg(args, "id")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		obj, err := inputArg(args, "input")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		up, err := customerUpdate(obj)
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.UpdateCustomer(id, up, sel)

	case "deleteCustomer":
		id, err := intArg(args, "id")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.DeleteCustomer(id)

	case "createOrder":
		obj, err := inputArg(args, "input")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		in, err := orderInput(obj)
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.CreateOrder(in, sel)

	case "updateOrderStatus":
		id, err := intArg(args, "id")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		status, err := statusArg(args, "status", true)
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.UpdateOrderStatus(id, status, sel)

	case "cancelOrder":
		id, err := intArg(args, "id")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.CancelOrder(id)

	case "deleteOrder":
		id, err := intArg(args, "id")
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		return e.strategy.DeleteOrder(id)

	default:
		return nil, fetch.Stats{}, errors.Wrap(errors.ErrUnknownOperation,
			"Executor", "dispatch", "resolve root field "+name)
	}
}
