package graphql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/fetchlab/fetch/fieldsel"
	"github.com/c360/fetchlab/relation"
	"github.com/c360/fetchlab/store"
)

func newTestExecutor() (*Executor, *store.Store) {
	s := store.NewSeeded()
	strategy := fieldsel.New(s, relation.NewResolver(s))
	return NewExecutor(strategy, nil, 10), s
}

func exec(t *testing.T, e *Executor, query string, vars map[string]any) *Response {
	t.Helper()
	resp := e.Execute(query, vars, "")
	require.Empty(t, resp.Errors, "unexpected errors: %v", resp.Errors)
	return resp
}

func TestExecute_BookWithNestedAuthor(t *testing.T) {
	e, _ := newTestExecutor()

	resp := exec(t, e, `{
		book(id: 3) {
			title
			author { name birthYear }
		}
	}`, nil)

	assert.Equal(t, 1, resp.Stats.Calls, "one logical request regardless of depth")
	assert.Positive(t, resp.Stats.Bytes)

	book := resp.Data["book"].(map[string]any)
	assert.Equal(t, "1984", book["title"])
	author := book["author"].(map[string]any)
	assert.Equal(t, "George Orwell", author["name"])
	assert.Equal(t, 1903, author["birthYear"])

	// Only the requested fields appear.
	assert.NotContains(t, book, "price")
	assert.NotContains(t, author, "bio")
}

func TestExecute_Variables(t *testing.T) {
	e, _ := newTestExecutor()

	resp := exec(t, e, `query Book($id: Int!) {
		book(id: $id) { title }
	}`, map[string]any{"id": float64(5)})

	book := resp.Data["book"].(map[string]any)
	assert.Equal(t, "Pride and Prejudice", book["title"])
}

func TestExecute_AliasesAndFragments(t *testing.T) {
	e, _ := newTestExecutor()

	resp := exec(t, e, `
	query {
		first: book(id: 1) { ...bookFields }
		second: book(id: 2) { ...bookFields }
	}
	fragment bookFields on Book {
		title
		price
	}`, nil)

	assert.Equal(t, 2, resp.Stats.Calls, "one call per root field")
	first := resp.Data["first"].(map[string]any)
	second := resp.Data["second"].(map[string]any)
	assert.Equal(t, "Harry Potter and the Philosopher's Stone", first["title"])
	assert.Equal(t, 32.99, second["price"])
}

func TestExecute_CustomerOrderSummaryStaysOneCall(t *testing.T) {
	e, _ := newTestExecutor()

	resp := exec(t, e, `{
		customer(id: 1) {
			name
			orders {
				totalAmount
				books { title author { name } }
			}
		}
	}`, nil)

	assert.Equal(t, 1, resp.Stats.Calls)

	customer := resp.Data["customer"].(map[string]any)
	orders := customer["orders"].([]any)
	require.Len(t, orders, 2)
	books := orders[0].(map[string]any)["books"].([]any)
	require.Len(t, books, 2)
	author := books[0].(map[string]any)["author"].(map[string]any)
	assert.Equal(t, "J.K. Rowling", author["name"])
}

func TestExecute_FiltersAndEnums(t *testing.T) {
	e, _ := newTestExecutor()

	resp := exec(t, e, `{
		orders(status: PENDING) { id status }
	}`, nil)

	orders := resp.Data["orders"].([]any)
	require.Len(t, orders, 2)
	assert.Equal(t, "PENDING", orders[0].(map[string]any)["status"])

	resp = exec(t, e, `{
		books(genre: "Mystery", limit: 1) { id }
	}`, nil)
	books := resp.Data["books"].([]any)
	require.Len(t, books, 1)
	assert.Equal(t, 8, books[0].(map[string]any)["id"])
}

func TestExecute_UnknownIDIsNullNotError(t *testing.T) {
	e, _ := newTestExecutor()

	resp := exec(t, e, `{ book(id: 999) { title } }`, nil)
	assert.Nil(t, resp.Data["book"])
	assert.Equal(t, 1, resp.Stats.Calls)
}

func TestExecute_ValidationErrors(t *testing.T) {
	e, _ := newTestExecutor()

	t.Run("unknown field", func(t *testing.T) {
		resp := e.Execute(`{ book(id: 1) { publisher } }`, nil, "")
		assert.Nil(t, resp.Data)
		require.NotEmpty(t, resp.Errors)
	})

	t.Run("malformed document", func(t *testing.T) {
		resp := e.Execute(`{ book(id: 1) {`, nil, "")
		require.NotEmpty(t, resp.Errors)
	})

	t.Run("missing operation name", func(t *testing.T) {
		resp := e.Execute(`query A { authors { id } } query B { customers { id } }`, nil, "")
		require.NotEmpty(t, resp.Errors)
		assert.Equal(t, "OPERATION_NOT_FOUND", resp.Errors[0].Extensions["code"])
	})
}

func TestExecute_DepthLimit(t *testing.T) {
	s := store.NewSeeded()
	strategy := fieldsel.New(s, relation.NewResolver(s))
	e := NewExecutor(strategy, nil, 3)

	resp := e.Execute(`{
		customer(id: 1) {
			orders {
				books {
					author { name }
				}
			}
		}
	}`, nil, "")
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "MAX_DEPTH_EXCEEDED", resp.Errors[0].Extensions["code"])
}

func TestExecute_Mutations(t *testing.T) {
	e, s := newTestExecutor()

	resp := exec(t, e, `mutation {
		createAuthor(input: {name: "New Author", birthYear: 1980}) { id name }
	}`, nil)
	created := resp.Data["createAuthor"].(map[string]any)
	assert.Equal(t, 6, created["id"])

	resp = exec(t, e, `mutation {
		updateAuthor(id: 6, input: {bio: "Updated"}) { bio }
	}`, nil)
	assert.Equal(t, "Updated", resp.Data["updateAuthor"].(map[string]any)["bio"])

	resp = exec(t, e, `mutation { deleteAuthor(id: 6) }`, nil)
	assert.Equal(t, true, resp.Data["deleteAuthor"])
	_, found := s.AuthorByID(6)
	assert.False(t, found)
}

func TestExecute_MutationErrors(t *testing.T) {
	e, _ := newTestExecutor()

	t.Run("update of unknown id", func(t *testing.T) {
		resp := e.Execute(`mutation {
			updateAuthor(id: 999, input: {bio: "x"}) { bio }
		}`, nil, "")
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "NOT_FOUND", resp.Errors[0].Extensions["code"])
		assert.Nil(t, resp.Data["updateAuthor"])
	})

	t.Run("invalid order input", func(t *testing.T) {
		resp := e.Execute(`mutation {
			createOrder(input: {customerId: 1, bookIds: [999]}) { id }
		}`, nil, "")
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "INVALID_INPUT", resp.Errors[0].Extensions["code"])
	})

	t.Run("terminal status transition", func(t *testing.T) {
		resp := e.Execute(`mutation {
			updateOrderStatus(id: 1, status: CANCELLED) { status }
		}`, nil, "")
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "INVALID_INPUT", resp.Errors[0].Extensions["code"])
	})
}

func TestExecute_OrderLifecycle(t *testing.T) {
	e, s := newTestExecutor()

	resp := exec(t, e, `mutation {
		createOrder(input: {customerId: 2, bookIds: [1, 3]}) { id totalAmount status }
	}`, nil)
	order := resp.Data["createOrder"].(map[string]any)
	assert.Equal(t, 6, order["id"])
	assert.InDelta(t, 49.98, order["totalAmount"].(float64), 0.001)
	assert.Equal(t, "PENDING", order["status"])

	resp = exec(t, e, `mutation { cancelOrder(id: 6) }`, nil)
	assert.Equal(t, true, resp.Data["cancelOrder"])

	got, found := s.OrderByID(6)
	require.True(t, found)
	assert.Equal(t, store.StatusCancelled, got.Status)
}

func TestExecute_Typename(t *testing.T) {
	e, _ := newTestExecutor()

	resp := exec(t, e, `{ __typename book(id: 1) { __typename title } }`, nil)
	assert.Equal(t, "Query", resp.Data["__typename"])
	book := resp.Data["book"].(map[string]any)
	assert.Contains(t, book, "__typename")
	assert.Equal(t, "Harry Potter and the Philosopher's Stone", book["title"])
}
