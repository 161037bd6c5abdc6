package relation

import (
	"strings"

	"github.com/c360/fetchlab/store"
)

// BooksByGenre filters books by genre using case-insensitive exact match,
// preserving source order.
func BooksByGenre(books []store.Book, genre string) []store.Book {
	var out []store.Book
	for _, b := range books {
		if strings.EqualFold(b.Genre, genre) {
			out = append(out, b)
		}
	}
	return out
}

// OrdersByStatus filters orders by exact status match, preserving source order.
func OrdersByStatus(orders []store.Order, status store.OrderStatus) []store.Order {
	var out []store.Order
	for _, o := range orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

// SearchBooks filters books whose title or description contains the query,
// case-insensitive, preserving source order.
func SearchBooks(books []store.Book, query string) []store.Book {
	q := strings.ToLower(query)
	var out []store.Book
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Description), q) {
			out = append(out, b)
		}
	}
	return out
}

// Limit truncates a sequence to its first n entries. A non-positive n means
// no limit. Limit is always applied after filtering; the ordering of the two
// operations determines which items remain.
func Limit[T any](items []T, n int) []T {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
