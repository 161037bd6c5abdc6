package eager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/fetchlab/errors"
	"github.com/c360/fetchlab/store"
)

func TestAuthorWithBooks_TwoCalls(t *testing.T) {
	st := New(store.NewSeeded())

	view, stats, err := st.AuthorWithBooks(1)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Calls, "one call for the author, one for the books")
	assert.Positive(t, stats.Bytes)

	assert.Equal(t, "J.K. Rowling", view.Name)
	require.Len(t, view.Books, 2)
	assert.InDelta(t, 29.99, view.Books[0].Price, 0.001)
	assert.InDelta(t, 32.99, view.Books[1].Price, 0.001)
}

func TestAuthorWithBooks_NotFound(t *testing.T) {
	st := New(store.NewSeeded())

	_, stats, err := st.AuthorWithBooks(999)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Zero(t, stats.Calls, "failed root lookup issues no payload-bearing calls")
}

func TestCustomerWithOrders_NPlusOneCallCount(t *testing.T) {
	st := New(store.NewSeeded())

	// Customer 1 has orders [1, 2] referencing books {1, 2} and {3}:
	// 3 distinct book references.
	view, stats, err := st.CustomerWithOrders(1, true)
	require.NoError(t, err)

	assert.Equal(t, 2+3, stats.Calls, "customer + orders + one call per distinct book")
	assert.Equal(t, "Alice Johnson", view.Customer.Name)
	require.Len(t, view.Orders, 2)
	assert.Len(t, view.Orders[0].Books, 2)
	assert.Len(t, view.Orders[1].Books, 1)
}

func TestCustomerWithOrders_WithoutBooksIsTwoCalls(t *testing.T) {
	st := New(store.NewSeeded())

	view, stats, err := st.CustomerWithOrders(1, false)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Calls)
	require.Len(t, view.Orders, 2)
	assert.Nil(t, view.Orders[0].Books)
}

func TestCustomerWithOrders_DuplicateBookRefsFetchedOnce(t *testing.T) {
	s := store.NewSeeded()
	_, err := s.CreateOrder(store.OrderInput{CustomerID: 4, BookIDs: []int{4, 4, 9}})
	require.NoError(t, err)

	st := New(s)
	// Customer 4 now has orders [5, 6]: refs {4, 9} and {4, 4, 9},
	// still only 2 distinct books.
	view, stats, err := st.CustomerWithOrders(4, true)
	require.NoError(t, err)

	assert.Equal(t, 2+2, stats.Calls)
	// Duplicate ids still appear per item in the assembled view.
	assert.Len(t, view.Orders[1].Books, 3)
}

func TestCustomerWithOrders_DroppedDanglingBook(t *testing.T) {
	s := store.NewSeeded()
	require.True(t, s.DeleteBook(3))

	st := New(s)
	view, stats, err := st.CustomerWithOrders(1, true)
	require.NoError(t, err)

	// Book 3 no longer resolves: 2 distinct resolvable refs remain.
	assert.Equal(t, 2+2, stats.Calls)
	assert.Empty(t, view.Orders[1].Books, "dangling reference silently dropped")
}

func TestBooks_IncludeAuthorOverFetch(t *testing.T) {
	st := New(store.NewSeeded())

	plain, plainStats, err := st.Books(false)
	require.NoError(t, err)
	assert.Equal(t, 1, plainStats.Calls)
	assert.Len(t, plain, 9)

	enriched, enrichedStats, err := st.Books(true)
	require.NoError(t, err)
	assert.Equal(t, 1+5, enrichedStats.Calls, "one call per distinct author")
	assert.Greater(t, enrichedStats.Bytes, plainStats.Bytes)

	for _, v := range enriched {
		require.NotNil(t, v.Author)
		assert.Equal(t, v.AuthorID, v.Author.ID)
	}
}

func TestBookWithAuthor(t *testing.T) {
	st := New(store.NewSeeded())

	view, stats, err := st.BookWithAuthor(3)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Calls)
	assert.Equal(t, "1984", view.Title)
	require.NotNil(t, view.Author)
	assert.Equal(t, "George Orwell", view.Author.Name)

	_, _, err = st.BookWithAuthor(999)
	assert.True(t, errors.IsNotFound(err))
}

func TestBookWithAuthor_DanglingAuthor(t *testing.T) {
	s := store.NewSeeded()
	require.True(t, s.DeleteAuthor(2))

	st := New(s)
	view, stats, err := st.BookWithAuthor(3)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Calls, "absent author costs no call")
	assert.Nil(t, view.Author)
}

func TestSearchBooksWithAuthors(t *testing.T) {
	st := New(store.NewSeeded())

	views, stats, err := st.SearchBooksWithAuthors("harry potter")
	require.NoError(t, err)

	require.Len(t, views, 2)
	// Full collection scan + one author fetch (both hits share an author).
	assert.Equal(t, 1+1, stats.Calls)
	assert.Equal(t, "J.K. Rowling", views[0].Author.Name)
}

func TestStats_BytesCoverEveryPayload(t *testing.T) {
	st := New(store.NewSeeded())

	_, small, err := st.AuthorWithBooks(3) // one book
	require.NoError(t, err)
	_, large, err := st.AuthorWithBooks(1) // two books
	require.NoError(t, err)

	assert.Greater(t, large.Bytes, small.Bytes)
}
