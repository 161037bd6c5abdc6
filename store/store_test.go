package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/fetchlab/errors"
)

func TestNewSeeded(t *testing.T) {
	s := NewSeeded()

	assert.Len(t, s.Authors(), 5)
	assert.Len(t, s.Books(), 9)
	assert.Len(t, s.Customers(), 4)
	assert.Len(t, s.Orders(), 5)

	author, ok := s.AuthorByID(1)
	require.True(t, ok)
	assert.Equal(t, "J.K. Rowling", author.Name)

	order, ok := s.OrderByID(1)
	require.True(t, ok)
	assert.InDelta(t, 62.98, order.TotalAmount, 0.001)
	assert.Equal(t, []int{1, 2}, order.BookIDs)
}

func TestByID_Absent(t *testing.T) {
	s := NewSeeded()

	_, ok := s.AuthorByID(999)
	assert.False(t, ok)
	_, ok = s.BookByID(0)
	assert.False(t, ok)
	_, ok = s.CustomerByID(-1)
	assert.False(t, ok)
	_, ok = s.OrderByID(42)
	assert.False(t, ok)
}

func TestBooksByAuthor_PreservesInsertionOrder(t *testing.T) {
	s := NewSeeded()

	books := s.BooksByAuthor(1)
	require.Len(t, books, 2)
	assert.Equal(t, 1, books[0].ID)
	assert.Equal(t, 2, books[1].ID)
	assert.InDelta(t, 29.99, books[0].Price, 0.001)
	assert.InDelta(t, 32.99, books[1].Price, 0.001)

	assert.Empty(t, s.BooksByAuthor(999))
}

func TestOrdersByCustomer(t *testing.T) {
	s := NewSeeded()

	orders := s.OrdersByCustomer(1)
	require.Len(t, orders, 2)
	assert.Equal(t, 1, orders[0].ID)
	assert.Equal(t, 2, orders[1].ID)
}

func TestCreateAuthor_AssignsMonotonicID(t *testing.T) {
	s := New()

	first, err := s.CreateAuthor(AuthorInput{Name: "First"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)

	second, err := s.CreateAuthor(AuthorInput{Name: "Second"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)
}

func TestCreate_NoIDReuseAfterDelete(t *testing.T) {
	s := NewSeeded()

	require.True(t, s.DeleteAuthor(5))

	created, err := s.CreateAuthor(AuthorInput{Name: "New Author"})
	require.NoError(t, err)
	assert.Equal(t, 6, created.ID, "ids must not be reused after deletion")
}

func TestCreateAuthor_RequiresName(t *testing.T) {
	s := New()

	_, err := s.CreateAuthor(AuthorInput{Bio: "no name"})
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestCreateBook_ValidatesAuthorExists(t *testing.T) {
	s := NewSeeded()

	_, err := s.CreateBook(BookInput{
		Title:    "Orphan",
		AuthorID: 999,
		Price:    9.99,
		Genre:    "Fantasy",
		ISBN:     "978-0000000000",
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))

	book, err := s.CreateBook(BookInput{
		Title:         "The Casual Vacancy",
		AuthorID:      1,
		Price:         21.99,
		Genre:         "Fiction",
		PublishedYear: 2012,
		ISBN:          "978-0316228534",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, book.ID)
	assert.Equal(t, 1, book.AuthorID)
}

func TestCreateOrder_SnapshotTotal(t *testing.T) {
	s := NewSeeded()

	order, err := s.CreateOrder(OrderInput{CustomerID: 1, BookIDs: []int{1, 2}})
	require.NoError(t, err)
	assert.InDelta(t, 62.98, order.TotalAmount, 0.001)
	assert.Equal(t, StatusPending, order.Status)

	// Price changes after creation must not affect the stored total.
	newPrice := 99.99
	_, ok := s.UpdateBook(1, BookUpdate{Price: &newPrice})
	require.True(t, ok)

	stored, ok := s.OrderByID(order.ID)
	require.True(t, ok)
	assert.InDelta(t, 62.98, stored.TotalAmount, 0.001)
}

func TestCreateOrder_DuplicateBookIDsCountTwice(t *testing.T) {
	s := NewSeeded()

	order, err := s.CreateOrder(OrderInput{CustomerID: 2, BookIDs: []int{3, 3}})
	require.NoError(t, err)
	assert.InDelta(t, 39.98, order.TotalAmount, 0.001)
	assert.Equal(t, []int{3, 3}, order.BookIDs)
}

func TestCreateOrder_Validation(t *testing.T) {
	s := NewSeeded()

	_, err := s.CreateOrder(OrderInput{BookIDs: []int{1}})
	assert.True(t, errors.IsInvalid(err), "missing customer_id")

	_, err = s.CreateOrder(OrderInput{CustomerID: 1})
	assert.True(t, errors.IsInvalid(err), "missing book_ids")

	_, err = s.CreateOrder(OrderInput{CustomerID: 999, BookIDs: []int{1}})
	assert.True(t, errors.IsInvalid(err), "unknown customer")

	_, err = s.CreateOrder(OrderInput{CustomerID: 1, BookIDs: []int{1, 999}})
	assert.True(t, errors.IsInvalid(err), "unknown book")

	assert.Len(t, s.Orders(), 5, "failed creates must not append")
}

func TestUpdateAuthor_MergeByOmission(t *testing.T) {
	s := NewSeeded()

	name := "Joanne Rowling"
	updated, ok := s.UpdateAuthor(1, AuthorUpdate{Name: &name})
	require.True(t, ok)
	assert.Equal(t, "Joanne Rowling", updated.Name)
	// Omitted fields retain their previous values.
	assert.Equal(t, 1965, updated.BirthYear)
	assert.Equal(t, "British author best known for Harry Potter series", updated.Bio)

	_, ok = s.UpdateAuthor(999, AuthorUpdate{Name: &name})
	assert.False(t, ok)
}

func TestUpdateOrderStatus_Transitions(t *testing.T) {
	s := NewSeeded()

	// Order 4 is pending in the seed data.
	order, err := s.UpdateOrderStatus(4, StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, order.Status)

	// Shipped is terminal.
	_, err = s.UpdateOrderStatus(4, StatusCancelled)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))

	// Pending -> cancelled is allowed.
	order, err = s.UpdateOrderStatus(5, StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, order.Status)

	_, err = s.UpdateOrderStatus(999, StatusShipped)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	_, err = s.UpdateOrderStatus(1, OrderStatus("misplaced"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestDelete_UnknownIDLeavesCollectionUnchanged(t *testing.T) {
	s := NewSeeded()

	assert.False(t, s.DeleteBook(999))
	assert.Len(t, s.Books(), 9)

	assert.False(t, s.DeleteOrder(999))
	assert.Len(t, s.Orders(), 5)
}

func TestDeleteAuthor_NoCascade(t *testing.T) {
	s := NewSeeded()

	require.True(t, s.DeleteAuthor(1))

	_, ok := s.AuthorByID(1)
	assert.False(t, ok)

	// Books keep their dangling AuthorID.
	assert.Len(t, s.BooksByAuthor(1), 2)
	book, ok := s.BookByID(1)
	require.True(t, ok)
	assert.Equal(t, 1, book.AuthorID)
}

func TestDelete_ReindexesRemainingEntities(t *testing.T) {
	s := NewSeeded()

	require.True(t, s.DeleteBook(3))

	// Entities after the deleted position must still resolve.
	for _, id := range []int{1, 2, 4, 5, 6, 7, 8, 9} {
		got, ok := s.BookByID(id)
		require.True(t, ok, "book %d should survive unrelated delete", id)
		assert.Equal(t, id, got.ID)
	}
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{StatusPending, StatusShipped, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusPending, false},
		{StatusShipped, StatusCancelled, false},
		{StatusCancelled, StatusShipped, false},
	}

	for _, test := range tests {
		assert.Equal(t, test.allowed, test.from.CanTransitionTo(test.to),
			"%s -> %s", test.from, test.to)
	}
}

func TestValidationErrorSentinels(t *testing.T) {
	s := NewSeeded()

	_, err := s.CreateAuthor(AuthorInput{})
	assert.ErrorIs(t, err, errors.ErrMissingField)

	_, err = s.CreateBook(BookInput{Title: "x", AuthorID: 999, Genre: "g", ISBN: "i"})
	assert.ErrorIs(t, err, errors.ErrUnknownForeignKey)

	_, err = s.CreateOrder(OrderInput{CustomerID: 1, BookIDs: []int{999}})
	assert.ErrorIs(t, err, errors.ErrUnknownForeignKey)

	_, err = s.UpdateOrderStatus(4, OrderStatus("mislaid"))
	assert.ErrorIs(t, err, errors.ErrInvalidFieldValue)

	// Order 1 shipped at seed time; shipped is terminal.
	_, err = s.UpdateOrderStatus(1, StatusCancelled)
	assert.ErrorIs(t, err, errors.ErrInvalidTransition)
}
