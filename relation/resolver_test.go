package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/fetchlab/store"
)

func seeded(t *testing.T) (*store.Store, *Resolver) {
	t.Helper()
	s := store.NewSeeded()
	return s, NewResolver(s)
}

func TestBooksOf_ReturnsExactlyMatchingBooksInOrder(t *testing.T) {
	s, r := seeded(t)

	for _, author := range s.Authors() {
		books := r.BooksOf(author)
		for _, b := range books {
			assert.Equal(t, author.ID, b.AuthorID)
		}
		// Insertion order: ids strictly increasing within the result.
		for i := 1; i < len(books); i++ {
			assert.Greater(t, books[i].ID, books[i-1].ID)
		}
	}

	author, ok := s.AuthorByID(1)
	require.True(t, ok)
	books := r.BooksOf(author)
	require.Len(t, books, 2)
	assert.InDelta(t, 29.99, books[0].Price, 0.001)
	assert.InDelta(t, 32.99, books[1].Price, 0.001)
}

func TestAuthorOf_DanglingReferenceIsAbsent(t *testing.T) {
	s, r := seeded(t)

	book, ok := s.BookByID(1)
	require.True(t, ok)

	author, ok := r.AuthorOf(book)
	require.True(t, ok)
	assert.Equal(t, "J.K. Rowling", author.Name)

	require.True(t, s.DeleteAuthor(1))
	_, ok = r.AuthorOf(book)
	assert.False(t, ok, "deleted author must resolve as absent, never fabricated")
}

func TestCustomerOf(t *testing.T) {
	s, r := seeded(t)

	order, ok := s.OrderByID(3)
	require.True(t, ok)

	customer, ok := r.CustomerOf(order)
	require.True(t, ok)
	assert.Equal(t, "Bob Smith", customer.Name)

	require.True(t, s.DeleteCustomer(customer.ID))
	_, ok = r.CustomerOf(order)
	assert.False(t, ok)
}

func TestOrdersOf(t *testing.T) {
	s, r := seeded(t)

	customer, ok := s.CustomerByID(1)
	require.True(t, ok)

	orders := r.OrdersOf(customer)
	require.Len(t, orders, 2)
	assert.Equal(t, 1, orders[0].ID)
	assert.Equal(t, 2, orders[1].ID)
}

func TestBooksIn_DropsUnresolvableIDsPreservingOrder(t *testing.T) {
	s, r := seeded(t)

	order, ok := s.OrderByID(1) // references books 1 and 2
	require.True(t, ok)

	books := r.BooksIn(order)
	require.Len(t, books, 2)
	assert.Equal(t, 1, books[0].ID)
	assert.Equal(t, 2, books[1].ID)

	require.True(t, s.DeleteBook(1))
	books = r.BooksIn(order)
	require.Len(t, books, 1, "result must never exceed the id list and drops dangling ids")
	assert.Equal(t, 2, books[0].ID)
}

func TestBooksIn_DuplicateIDsResolveTwice(t *testing.T) {
	s := store.NewSeeded()
	r := NewResolver(s)

	order, err := s.CreateOrder(store.OrderInput{CustomerID: 1, BookIDs: []int{3, 3}})
	require.NoError(t, err)

	books := r.BooksIn(order)
	require.Len(t, books, 2)
	assert.Equal(t, books[0].ID, books[1].ID)
}
