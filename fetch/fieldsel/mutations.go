package fieldsel

import (
	"github.com/c360/fetchlab/errors"
	"github.com/c360/fetchlab/fetch"
	"github.com/c360/fetchlab/store"
)

// Mutations delegate directly to the store and project the affected entity
// through the request's selection. They carry no resolution logic beyond the
// store's input validation; an unknown id surfaces as errors.ErrNotFound for
// the transport to translate.

// CreateAuthor creates an author and returns it projected by sel.
func (st *Strategy) CreateAuthor(in store.AuthorInput, sel Selection) (map[string]any, fetch.Stats, error) {
	author, err := st.store.CreateAuthor(in)
	if err != nil {
		return nil, fetch.Stats{}, err
	}
	return st.finishAuthor(author, sel)
}

// UpdateAuthor updates an author and returns it projected by sel.
func (st *Strategy) UpdateAuthor(id int, in store.AuthorUpdate, sel Selection) (map[string]any, fetch.Stats, error) {
	author, ok := st.store.UpdateAuthor(id, in)
	if !ok {
		return nil, fetch.Stats{}, errors.ErrNotFound
	}
	return st.finishAuthor(author, sel)
}

// DeleteAuthor deletes an author, reporting success.
func (st *Strategy) DeleteAuthor(id int) (bool, fetch.Stats, error) {
	ok := st.store.DeleteAuthor(id)
	stats, err := statsFor(ok)
	return ok, stats, err
}

// CreateBook creates a book and returns it projected by sel.
func (st *Strategy) CreateBook(in store.BookInput, sel Selection) (map[string]any, fetch.Stats, error) {
	book, err := st.store.CreateBook(in)
	if err != nil {
		return nil, fetch.Stats{}, err
	}
	return st.finishBook(book, sel)
}

// UpdateBook updates a book and returns it projected by sel.
func (st *Strategy) UpdateBook(id int, in store.BookUpdate, sel Selection) (map[string]any, fetch.Stats, error) {
	book, ok := st.store.UpdateBook(id, in)
	if !ok {
		return nil, fetch.Stats{}, errors.ErrNotFound
	}
	return st.finishBook(book, sel)
}

// DeleteBook deletes a book, reporting success.
func (st *Strategy) DeleteBook(id int) (bool, fetch.Stats, error) {
	ok := st.store.DeleteBook(id)
	stats, err := statsFor(ok)
	return ok, stats, err
}

// CreateCustomer creates a customer and returns it projected by sel.
func (st *Strategy) CreateCustomer(in store.CustomerInput, sel Selection) (map[string]any, fetch.Stats, error) {
	customer, err := st.store.CreateCustomer(in)
	if err != nil {
		return nil, fetch.Stats{}, err
	}
	return st.finishCustomer(customer, sel)
}

// UpdateCustomer updates a customer and returns it projected by sel.
func (st *Strategy) UpdateCustomer(id int, in store.CustomerUpdate, sel Selection) (map[string]any, fetch.Stats, error) {
	customer, ok := st.store.UpdateCustomer(id, in)
	if !ok {
		return nil, fetch.Stats{}, errors.ErrNotFound
	}
	return st.finishCustomer(customer, sel)
}

// DeleteCustomer deletes a customer, reporting success. Their orders remain.
func (st *Strategy) DeleteCustomer(id int) (bool, fetch.Stats, error) {
	ok := st.store.DeleteCustomer(id)
	stats, err := statsFor(ok)
	return ok, stats, err
}

// CreateOrder creates an order and returns it projected by sel.
func (st *Strategy) CreateOrder(in store.OrderInput, sel Selection) (map[string]any, fetch.Stats, error) {
	order, err := st.store.CreateOrder(in)
	if err != nil {
		return nil, fetch.Stats{}, err
	}
	return st.finishOrder(order, sel)
}

// UpdateOrderStatus moves an order through a defined status transition and
// returns it projected by sel.
func (st *Strategy) UpdateOrderStatus(id int, status store.OrderStatus, sel Selection) (map[string]any, fetch.Stats, error) {
	order, err := st.store.UpdateOrderStatus(id, status)
	if err != nil {
		return nil, fetch.Stats{}, err
	}
	return st.finishOrder(order, sel)
}

// CancelOrder cancels a pending order, reporting whether the transition
// happened.
func (st *Strategy) CancelOrder(id int) (bool, fetch.Stats, error) {
	_, err := st.store.UpdateOrderStatus(id, store.StatusCancelled)
	ok := err == nil
	stats, serr := statsFor(ok)
	if serr != nil {
		return ok, stats, serr
	}
	if err != nil && !errors.IsNotFound(err) && !errors.IsInvalid(err) {
		return false, stats, err
	}
	return ok, stats, nil
}

// DeleteOrder deletes an order, reporting success.
func (st *Strategy) DeleteOrder(id int) (bool, fetch.Stats, error) {
	ok := st.store.DeleteOrder(id)
	stats, err := statsFor(ok)
	return ok, stats, err
}

func (st *Strategy) finishAuthor(author store.Author, sel Selection) (map[string]any, fetch.Stats, error) {
	result, err := st.projectAuthor(author, sel)
	if err != nil {
		return nil, fetch.Stats{}, err
	}
	stats, err := statsFor(result)
	return result, stats, err
}

func (st *Strategy) finishBook(book store.Book, sel Selection) (map[string]any, fetch.Stats, error) {
	result, err := st.projectBook(book, sel)
	if err != nil {
		return nil, fetch.Stats{}, err
	}
	stats, err := statsFor(result)
	return result, stats, err
}

func (st *Strategy) finishCustomer(customer store.Customer, sel Selection) (map[string]any, fetch.Stats, error) {
	result, err := st.projectCustomer(customer, sel)
	if err != nil {
		return nil, fetch.Stats{}, err
	}
	stats, err := statsFor(result)
	return result, stats, err
}

func (st *Strategy) finishOrder(order store.Order, sel Selection) (map[string]any, fetch.Stats, error) {
	result, err := st.projectOrder(order, sel)
	if err != nil {
		return nil, fetch.Stats{}, err
	}
	stats, err := statsFor(result)
	return result, stats, err
}
