package fieldsel

import (
	"github.com/c360/fetchlab/fetch"
	"github.com/c360/fetchlab/relation"
	"github.com/c360/fetchlab/store"
)

// Strategy resolves field-selective requests against the store. Each
// top-level operation is one logical request: Stats.Calls is always 1 and
// Stats.Bytes is the size of the single serialized response, however deep
// the requested relations go.
type Strategy struct {
	store *store.Store
	rel   *relation.Resolver
}

// New creates a field-selective strategy over the given store.
func New(s *store.Store, rel *relation.Resolver) *Strategy {
	return &Strategy{store: s, rel: rel}
}

// statsFor serializes the single response payload and reports its cost.
func statsFor(payload any) (fetch.Stats, error) {
	data, err := fetch.Marshal(payload)
	if err != nil {
		return fetch.Stats{}, err
	}
	return fetch.Stats{Calls: 1, Bytes: len(data)}, nil
}

// Author resolves one author by id. An unknown id resolves to a nil result,
// not an error.
func (st *Strategy) Author(id int, sel Selection) (map[string]any, fetch.Stats, error) {
	author, ok := st.store.AuthorByID(id)
	if !ok {
		stats, err := statsFor(nil)
		return nil, stats, err
	}

	result, err := st.projectAuthor(author, sel)
	if err != nil {
		return nil, fetch.Stats{}, err
	}
	stats, err := statsFor(result)
	return result, stats, err
}

// Authors resolves all authors, optionally limited.
func (st *Strategy) Authors(limit int, sel Selection) ([]map[string]any, fetch.Stats, error) {
	authors := relation.Limit(st.store.Authors(), limit)

	result := make([]map[string]any, 0, len(authors))
	for _, a := range authors {
		m, err := st.projectAuthor(a, sel)
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		result = append(result, m)
	}
	stats, err := statsFor(result)
	return result, stats, err
}

// Book resolves one book by id. An unknown id resolves to a nil result.
func (st *Strategy) Book(id int, sel Selection) (map[string]any, fetch.Stats, error) {
	book, ok := st.store.BookByID(id)
	if !ok {
		stats, err := statsFor(nil)
		return nil, stats, err
	}

	result, err := st.projectBook(book, sel)
	if err != nil {
		return nil, fetch.Stats{}, err
	}
	stats, err := statsFor(result)
	return result, stats, err
}

// BookFilter narrows a Books request. Zero values mean no constraint.
// Filters apply before Limit.
type BookFilter struct {
	AuthorID int
	Genre    string
	Limit    int
}

// Books resolves books matching the filter.
func (st *Strategy) Books(filter BookFilter, sel Selection) ([]map[string]any, fetch.Stats, error) {
	var books []store.Book
	if filter.AuthorID != 0 {
		books = st.store.BooksByAuthor(filter.AuthorID)
	} else {
		books = st.store.Books()
	}
	if filter.Genre != "" {
		books = relation.BooksByGenre(books, filter.Genre)
	}
	books = relation.Limit(books, filter.Limit)

	result, err := st.projectBooks(books, sel)
	if err != nil {
		return nil, fetch.Stats{}, err
	}
	stats, err := statsFor(result)
	return result, stats, err
}

// SearchBooks resolves books whose title or description matches the query.
func (st *Strategy) SearchBooks(query string, limit int, sel Selection) ([]map[string]any, fetch.Stats, error) {
	books := relation.Limit(relation.SearchBooks(st.store.Books(), query), limit)

	result, err := st.projectBooks(books, sel)
	if err != nil {
		return nil, fetch.Stats{}, err
	}
	stats, err := statsFor(result)
	return result, stats, err
}

// Customer resolves one customer by id. An unknown id resolves to a nil result.
func (st *Strategy) Customer(id int, sel Selection) (map[string]any, fetch.Stats, error) {
	customer, ok := st.store.CustomerByID(id)
	if !ok {
		stats, err := statsFor(nil)
		return nil, stats, err
	}

	result, err := st.projectCustomer(customer, sel)
	if err != nil {
		return nil, fetch.Stats{}, err
	}
	stats, err := statsFor(result)
	return result, stats, err
}

// Customers resolves all customers, optionally limited.
func (st *Strategy) Customers(limit int, sel Selection) ([]map[string]any, fetch.Stats, error) {
	customers := relation.Limit(st.store.Customers(), limit)

	result := make([]map[string]any, 0, len(customers))
	for _, c := range customers {
		m, err := st.projectCustomer(c, sel)
		if err != nil {
			return nil, fetch.Stats{}, err
		}
		result = append(result, m)
	}
	stats, err := statsFor(result)
	return result, stats, err
}

// Order resolves one order by id. An unknown id resolves to a nil result.
func (st *Strategy) Order(id int, sel Selection) (map[string]any, fetch.Stats, error) {
	order, ok := st.store.OrderByID(id)
	if !ok {
		stats, err := statsFor(nil)
		return nil, stats, err
	}

	result, err := st.projectOrder(order, sel)
	if err != nil {
		return nil, fetch.Stats{}, err
	}
	stats, err := statsFor(result)
	return result, stats, err
}

// OrderFilter narrows an Orders request. Zero values mean no constraint.
// Filters apply before Limit.
type OrderFilter struct {
	CustomerID int
	Status     store.OrderStatus
	Limit      int
}

// Orders resolves orders matching the filter.
func (st *Strategy) Orders(filter OrderFilter, sel Selection) ([]map[string]any, fetch.Stats, error) {
	var orders []store.Order
	if filter.CustomerID != 0 {
		orders = st.store.OrdersByCustomer(filter.CustomerID)
	} else {
		orders = st.store.Orders()
	}
	if filter.Status != "" {
		orders = relation.OrdersByStatus(orders, filter.Status)
	}
	orders = relation.Limit(orders, filter.Limit)

	result, err := st.projectOrders(orders, sel)
	if err != nil {
		return nil, fetch.Stats{}, err
	}
	stats, err := statsFor(result)
	return result, stats, err
}
