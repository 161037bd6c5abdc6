// Package eager implements the multi-call fetch strategy. It composes views
// the way a REST client does: one store access per related collection and,
// for per-item relations, one access per distinct referenced item (the N+1
// pattern). Every access fetches the full entity shape; field selection is
// deliberately unsupported. The over-fetch cost is what this strategy exists
// to demonstrate.
package eager

import (
	"github.com/c360/fetchlab/errors"
	"github.com/c360/fetchlab/fetch"
	"github.com/c360/fetchlab/relation"
	"github.com/c360/fetchlab/store"
)

// Strategy composes views through eager multi-call traversal of the store.
type Strategy struct {
	store *store.Store
}

// New creates an eager strategy over the given store.
func New(s *store.Store) *Strategy {
	return &Strategy{store: s}
}

// BookView is a book with its optionally included author, full shape.
type BookView struct {
	store.Book
	Author *store.Author `json:"author,omitempty"`
}

// AuthorView is an author together with all of their books.
type AuthorView struct {
	store.Author
	Books []store.Book `json:"books"`
}

// OrderView is an order with its optionally included book details.
type OrderView struct {
	store.Order
	Books []store.Book `json:"books,omitempty"`
}

// CustomerView is a customer together with their orders.
type CustomerView struct {
	Customer store.Customer `json:"customer"`
	Orders   []OrderView    `json:"orders"`
}

// Books fetches all books; with includeAuthor it issues one additional call
// per distinct author referenced by the result.
func (st *Strategy) Books(includeAuthor bool) ([]BookView, fetch.Stats, error) {
	var c fetch.Counter

	books := st.store.Books()
	if err := c.Count(books); err != nil {
		return nil, c.Stats(), err
	}

	views := make([]BookView, len(books))
	for i, b := range books {
		views[i] = BookView{Book: b}
	}

	if includeAuthor {
		authors := make(map[int]*store.Author)
		for i, b := range books {
			author, ok := authors[b.AuthorID]
			if !ok {
				if a, found := st.store.AuthorByID(b.AuthorID); found {
					if err := c.Count(a); err != nil {
						return nil, c.Stats(), err
					}
					author = &a
				}
				authors[b.AuthorID] = author
			}
			views[i].Author = author
		}
	}

	return views, c.Stats(), nil
}

// BookWithAuthor fetches one book and its author: two calls.
func (st *Strategy) BookWithAuthor(id int) (BookView, fetch.Stats, error) {
	var c fetch.Counter

	book, ok := st.store.BookByID(id)
	if !ok {
		return BookView{}, c.Stats(), errors.ErrNotFound
	}
	if err := c.Count(book); err != nil {
		return BookView{}, c.Stats(), err
	}

	view := BookView{Book: book}
	if author, ok := st.store.AuthorByID(book.AuthorID); ok {
		if err := c.Count(author); err != nil {
			return BookView{}, c.Stats(), err
		}
		view.Author = &author
	}

	return view, c.Stats(), nil
}

// AuthorWithBooks fetches an author and their books: two calls.
func (st *Strategy) AuthorWithBooks(id int) (AuthorView, fetch.Stats, error) {
	var c fetch.Counter

	author, ok := st.store.AuthorByID(id)
	if !ok {
		return AuthorView{}, c.Stats(), errors.ErrNotFound
	}
	if err := c.Count(author); err != nil {
		return AuthorView{}, c.Stats(), err
	}

	books := st.store.BooksByAuthor(id)
	if err := c.Count(books); err != nil {
		return AuthorView{}, c.Stats(), err
	}

	return AuthorView{Author: author, Books: books}, c.Stats(), nil
}

// CustomerWithOrders fetches a customer and their orders; with includeBooks
// it additionally fetches each distinct referenced book, one call apiece.
// Total calls: 2 + number of distinct book references across the orders.
func (st *Strategy) CustomerWithOrders(id int, includeBooks bool) (CustomerView, fetch.Stats, error) {
	var c fetch.Counter

	customer, ok := st.store.CustomerByID(id)
	if !ok {
		return CustomerView{}, c.Stats(), errors.ErrNotFound
	}
	if err := c.Count(customer); err != nil {
		return CustomerView{}, c.Stats(), err
	}

	orders := st.store.OrdersByCustomer(id)
	if err := c.Count(orders); err != nil {
		return CustomerView{}, c.Stats(), err
	}

	view := CustomerView{Customer: customer, Orders: make([]OrderView, len(orders))}

	// One lookup per distinct book across all order items; a real REST
	// client would cache repeated ids within the request.
	fetched := make(map[int]*store.Book)
	for i, o := range orders {
		view.Orders[i] = OrderView{Order: o}
		if !includeBooks {
			continue
		}
		for _, bookID := range o.BookIDs {
			book, seen := fetched[bookID]
			if !seen {
				if b, ok := st.store.BookByID(bookID); ok {
					if err := c.Count(b); err != nil {
						return CustomerView{}, c.Stats(), err
					}
					book = &b
				}
				fetched[bookID] = book
			}
			if book != nil {
				view.Orders[i].Books = append(view.Orders[i].Books, *book)
			}
		}
	}

	return view, c.Stats(), nil
}

// SearchBooksWithAuthors scans all books for a title/description match, then
// fetches the author of each hit: 1 + distinct matched authors calls. The
// scan payload is the full book collection, which is the over-fetch a
// multi-endpoint API forces on search clients.
func (st *Strategy) SearchBooksWithAuthors(query string) ([]BookView, fetch.Stats, error) {
	var c fetch.Counter

	books := st.store.Books()
	if err := c.Count(books); err != nil {
		return nil, c.Stats(), err
	}

	var views []BookView
	authors := make(map[int]*store.Author)
	for _, b := range relation.SearchBooks(books, query) {
		view := BookView{Book: b}
		author, seen := authors[b.AuthorID]
		if !seen {
			if a, ok := st.store.AuthorByID(b.AuthorID); ok {
				if err := c.Count(a); err != nil {
					return nil, c.Stats(), err
				}
				author = &a
			}
			authors[b.AuthorID] = author
		}
		view.Author = author
		views = append(views, view)
	}

	return views, c.Stats(), nil
}
