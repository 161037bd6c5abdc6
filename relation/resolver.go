// Package relation provides pure relationship-traversal functions over the
// entity store, plus the filter and limit combinators both fetch strategies
// share. Nothing in this package mutates the store.
package relation

import "github.com/c360/fetchlab/store"

// Resolver computes one-to-many and many-to-one traversals over a store.
type Resolver struct {
	store *store.Store
}

// NewResolver creates a resolver over the given store.
func NewResolver(s *store.Store) *Resolver {
	return &Resolver{store: s}
}

// AuthorOf resolves the book's author. Returns ok=false when the foreign key
// no longer resolves (the author was deleted after the book was created).
func (r *Resolver) AuthorOf(book store.Book) (store.Author, bool) {
	return r.store.AuthorByID(book.AuthorID)
}

// CustomerOf resolves the order's customer. Returns ok=false on a dangling
// reference.
func (r *Resolver) CustomerOf(order store.Order) (store.Customer, bool) {
	return r.store.CustomerByID(order.CustomerID)
}

// BooksOf returns the author's books in collection order.
func (r *Resolver) BooksOf(author store.Author) []store.Book {
	return r.store.BooksByAuthor(author.ID)
}

// OrdersOf returns the customer's orders in collection order.
func (r *Resolver) OrdersOf(customer store.Customer) []store.Order {
	return r.store.OrdersByCustomer(customer.ID)
}

// BooksIn maps the order's book id sequence to books, silently dropping ids
// that no longer resolve. The relative order of resolvable ids is preserved
// and the result is never longer than order.BookIDs.
func (r *Resolver) BooksIn(order store.Order) []store.Book {
	var out []store.Book
	for _, id := range order.BookIDs {
		if book, ok := r.store.BookByID(id); ok {
			out = append(out, book)
		}
	}
	return out
}
