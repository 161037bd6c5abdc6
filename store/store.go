package store

import (
	"slices"
	"time"

	"github.com/c360/fetchlab/errors"
)

// Store owns the in-memory entity collections and their primary-key indices.
// It is constructed explicitly at process start and passed by reference to
// both fetch strategies; there is no package-level instance.
//
// The store is read-mostly and assumes at most one logical mutation in
// flight at a time. Concurrent mutators race; synchronization belongs to the
// transport layer if it ever serves parallel writes.
type Store struct {
	authors   []Author
	books     []Book
	customers []Customer
	orders    []Order

	// Primary-key indices: entity id -> position in the collection slice.
	authorIdx   map[int]int
	bookIdx     map[int]int
	customerIdx map[int]int
	orderIdx    map[int]int

	// Last assigned ids. Ids are monotonically increasing per collection
	// and never reused, even after the max entity is deleted.
	lastAuthorID   int
	lastBookID     int
	lastCustomerID int
	lastOrderID    int

	now func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		authorIdx:   make(map[int]int),
		bookIdx:     make(map[int]int),
		customerIdx: make(map[int]int),
		orderIdx:    make(map[int]int),
		now:         time.Now,
	}
}

// Authors returns all authors in insertion order.
func (s *Store) Authors() []Author {
	return slices.Clone(s.authors)
}

// Books returns all books in insertion order.
func (s *Store) Books() []Book {
	return slices.Clone(s.books)
}

// Customers returns all customers in insertion order.
func (s *Store) Customers() []Customer {
	return slices.Clone(s.customers)
}

// Orders returns all orders in insertion order.
func (s *Store) Orders() []Order {
	return slices.Clone(s.orders)
}

// AuthorByID returns the author with the given id, or ok=false if absent.
func (s *Store) AuthorByID(id int) (Author, bool) {
	if i, ok := s.authorIdx[id]; ok {
		return s.authors[i], true
	}
	return Author{}, false
}

// BookByID returns the book with the given id, or ok=false if absent.
func (s *Store) BookByID(id int) (Book, bool) {
	if i, ok := s.bookIdx[id]; ok {
		return s.books[i], true
	}
	return Book{}, false
}

// CustomerByID returns the customer with the given id, or ok=false if absent.
func (s *Store) CustomerByID(id int) (Customer, bool) {
	if i, ok := s.customerIdx[id]; ok {
		return s.customers[i], true
	}
	return Customer{}, false
}

// OrderByID returns the order with the given id, or ok=false if absent.
func (s *Store) OrderByID(id int) (Order, bool) {
	if i, ok := s.orderIdx[id]; ok {
		return s.orders[i], true
	}
	return Order{}, false
}

// BooksByAuthor returns the books whose AuthorID matches, preserving
// collection order.
func (s *Store) BooksByAuthor(authorID int) []Book {
	var out []Book
	for _, b := range s.books {
		if b.AuthorID == authorID {
			out = append(out, b)
		}
	}
	return out
}

// OrdersByCustomer returns the orders whose CustomerID matches, preserving
// collection order.
func (s *Store) OrdersByCustomer(customerID int) []Order {
	var out []Order
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out
}

// AuthorInput carries the fields for creating an author.
type AuthorInput struct {
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	BirthYear int    `json:"birth_year"`
}

// CreateAuthor validates the input, assigns the next id and appends the
// author to the collection.
func (s *Store) CreateAuthor(in AuthorInput) (Author, error) {
	if in.Name == "" {
		return Author{}, errors.Invalidf("%w: name", errors.ErrMissingField)
	}

	s.lastAuthorID++
	author := Author{
		ID:        s.lastAuthorID,
		Name:      in.Name,
		Bio:       in.Bio,
		BirthYear: in.BirthYear,
	}
	s.authorIdx[author.ID] = len(s.authors)
	s.authors = append(s.authors, author)
	return author, nil
}

// BookInput carries the fields for creating a book.
type BookInput struct {
	Title         string  `json:"title"`
	AuthorID      int     `json:"author_id"`
	Price         float64 `json:"price"`
	Genre         string  `json:"genre"`
	PublishedYear int     `json:"published_year"`
	ISBN          string  `json:"isbn"`
	Description   string  `json:"description,omitempty"`
}

// CreateBook validates the input, requires the referenced author to exist,
// assigns the next id and appends the book to the collection.
func (s *Store) CreateBook(in BookInput) (Book, error) {
	switch {
	case in.Title == "":
		return Book{}, errors.Invalidf("%w: title", errors.ErrMissingField)
	case in.AuthorID == 0:
		return Book{}, errors.Invalidf("%w: author_id", errors.ErrMissingField)
	case in.Genre == "":
		return Book{}, errors.Invalidf("%w: genre", errors.ErrMissingField)
	case in.ISBN == "":
		return Book{}, errors.Invalidf("%w: isbn", errors.ErrMissingField)
	}
	if _, ok := s.AuthorByID(in.AuthorID); !ok {
		return Book{}, errors.Invalidf("%w: author %d", errors.ErrUnknownForeignKey, in.AuthorID)
	}

	s.lastBookID++
	book := Book{
		ID:            s.lastBookID,
		Title:         in.Title,
		AuthorID:      in.AuthorID,
		Price:         in.Price,
		Genre:         in.Genre,
		PublishedYear: in.PublishedYear,
		ISBN:          in.ISBN,
		Description:   in.Description,
	}
	s.bookIdx[book.ID] = len(s.books)
	s.books = append(s.books, book)
	return book, nil
}

// CustomerInput carries the fields for creating a customer.
type CustomerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateCustomer validates the input, assigns the next id and appends the
// customer with the current time as registration date.
func (s *Store) CreateCustomer(in CustomerInput) (Customer, error) {
	switch {
	case in.Name == "":
		return Customer{}, errors.Invalidf("%w: name", errors.ErrMissingField)
	case in.Email == "":
		return Customer{}, errors.Invalidf("%w: email", errors.ErrMissingField)
	}

	s.lastCustomerID++
	customer := Customer{
		ID:           s.lastCustomerID,
		Name:         in.Name,
		Email:        in.Email,
		RegisteredAt: s.now(),
	}
	s.customerIdx[customer.ID] = len(s.customers)
	s.customers = append(s.customers, customer)
	return customer, nil
}

// OrderInput carries the fields for creating an order.
type OrderInput struct {
	CustomerID int   `json:"customer_id"`
	BookIDs    []int `json:"book_ids"`
}

// CreateOrder validates that the customer and every referenced book exist,
// computes TotalAmount as the sum of the referenced book prices at creation
// time (snapshot semantics), and appends the order with status pending.
func (s *Store) CreateOrder(in OrderInput) (Order, error) {
	if in.CustomerID == 0 {
		return Order{}, errors.Invalidf("%w: customer_id", errors.ErrMissingField)
	}
	if len(in.BookIDs) == 0 {
		return Order{}, errors.Invalidf("%w: book_ids", errors.ErrMissingField)
	}
	if _, ok := s.CustomerByID(in.CustomerID); !ok {
		return Order{}, errors.Invalidf("%w: customer %d", errors.ErrUnknownForeignKey, in.CustomerID)
	}

	var total float64
	for _, bookID := range in.BookIDs {
		book, ok := s.BookByID(bookID)
		if !ok {
			return Order{}, errors.Invalidf("%w: book %d", errors.ErrUnknownForeignKey, bookID)
		}
		total += book.Price
	}

	s.lastOrderID++
	order := Order{
		ID:          s.lastOrderID,
		CustomerID:  in.CustomerID,
		BookIDs:     slices.Clone(in.BookIDs),
		TotalAmount: total,
		OrderedAt:   s.now(),
		Status:      StatusPending,
	}
	s.orderIdx[order.ID] = len(s.orders)
	s.orders = append(s.orders, order)
	return order, nil
}

// AuthorUpdate carries the mutable author fields for an update. A nil field
// is treated as omitted and retains its previous value; a non-nil field
// replaces it. This merge-by-explicit-omission policy applies to all entity
// updates.
type AuthorUpdate struct {
	Name      *string `json:"name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	BirthYear *int    `json:"birth_year,omitempty"`
}

// UpdateAuthor applies the update to the matched author. Returns ok=false if
// the id is unknown.
func (s *Store) UpdateAuthor(id int, in AuthorUpdate) (Author, bool) {
	i, ok := s.authorIdx[id]
	if !ok {
		return Author{}, false
	}

	a := &s.authors[i]
	if in.Name != nil {
		a.Name = *in.Name
	}
	if in.Bio != nil {
		a.Bio = *in.Bio
	}
	if in.BirthYear != nil {
		a.BirthYear = *in.BirthYear
	}
	return *a, true
}

// BookUpdate carries the mutable book fields for an update. Foreign keys are
// validated at creation time only; an update may point AuthorID at a missing
// author, which traversal then resolves as absent.
type BookUpdate struct {
	Title         *string  `json:"title,omitempty"`
	AuthorID      *int     `json:"author_id,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Genre         *string  `json:"genre,omitempty"`
	PublishedYear *int     `json:"published_year,omitempty"`
	ISBN          *string  `json:"isbn,omitempty"`
	Description   *string  `json:"description,omitempty"`
}

// UpdateBook applies the update to the matched book. Returns ok=false if the
// id is unknown. Existing order totals are not recomputed when Price changes.
func (s *Store) UpdateBook(id int, in BookUpdate) (Book, bool) {
	i, ok := s.bookIdx[id]
	if !ok {
		return Book{}, false
	}

	b := &s.books[i]
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.AuthorID != nil {
		b.AuthorID = *in.AuthorID
	}
	if in.Price != nil {
		b.Price = *in.Price
	}
	if in.Genre != nil {
		b.Genre = *in.Genre
	}
	if in.PublishedYear != nil {
		b.PublishedYear = *in.PublishedYear
	}
	if in.ISBN != nil {
		b.ISBN = *in.ISBN
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	return *b, true
}

// CustomerUpdate carries the mutable customer fields for an update.
type CustomerUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// UpdateCustomer applies the update to the matched customer. Returns ok=false
// if the id is unknown. The registration date is immutable.
func (s *Store) UpdateCustomer(id int, in CustomerUpdate) (Customer, bool) {
	i, ok := s.customerIdx[id]
	if !ok {
		return Customer{}, false
	}

	c := &s.customers[i]
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	return *c, true
}

// UpdateOrderStatus moves the order to the given status. Only the defined
// transitions are allowed (pending -> shipped, pending -> cancelled).
// Returns errors.ErrNotFound for an unknown id and a validation error for an
// undefined transition; callers translate via errors.IsNotFound/IsInvalid.
func (s *Store) UpdateOrderStatus(id int, status OrderStatus) (Order, error) {
	i, ok := s.orderIdx[id]
	if !ok {
		return Order{}, errors.ErrNotFound
	}
	if !status.IsValid() {
		return Order{}, errors.Invalidf("%w: unknown order status %q", errors.ErrInvalidFieldValue, status)
	}

	o := &s.orders[i]
	if !o.Status.CanTransitionTo(status) {
		return Order{}, errors.Invalidf("%w: from %s to %s", errors.ErrInvalidTransition, o.Status, status)
	}
	o.Status = status
	return *o, nil
}

// DeleteAuthor removes the author with the given id. Returns false if the id
// is unknown. Books referencing the author are not deleted; their AuthorID
// becomes a dangling reference that traversal resolves as absent.
func (s *Store) DeleteAuthor(id int) bool {
	i, ok := s.authorIdx[id]
	if !ok {
		return false
	}
	s.authors = slices.Delete(s.authors, i, i+1)
	s.reindexAuthors()
	return true
}

// DeleteBook removes the book with the given id. Returns false if the id is
// unknown. Orders referencing the book keep the id; traversal drops it.
func (s *Store) DeleteBook(id int) bool {
	i, ok := s.bookIdx[id]
	if !ok {
		return false
	}
	s.books = slices.Delete(s.books, i, i+1)
	s.reindexBooks()
	return true
}

// DeleteCustomer removes the customer with the given id. Returns false if the
// id is unknown. The customer's orders are not deleted.
func (s *Store) DeleteCustomer(id int) bool {
	i, ok := s.customerIdx[id]
	if !ok {
		return false
	}
	s.customers = slices.Delete(s.customers, i, i+1)
	s.reindexCustomers()
	return true
}

// DeleteOrder removes the order with the given id. Returns false if the id is
// unknown.
func (s *Store) DeleteOrder(id int) bool {
	i, ok := s.orderIdx[id]
	if !ok {
		return false
	}
	s.orders = slices.Delete(s.orders, i, i+1)
	s.reindexOrders()
	return true
}

// Deleting from the middle of a collection shifts positions, so the whole
// index for that kind is rebuilt. Collections are small by design.

func (s *Store) reindexAuthors() {
	clear(s.authorIdx)
	for i, a := range s.authors {
		s.authorIdx[a.ID] = i
	}
}

func (s *Store) reindexBooks() {
	clear(s.bookIdx)
	for i, b := range s.books {
		s.bookIdx[b.ID] = i
	}
}

func (s *Store) reindexCustomers() {
	clear(s.customerIdx)
	for i, c := range s.customers {
		s.customerIdx[c.ID] = i
	}
}

func (s *Store) reindexOrders() {
	clear(s.orderIdx)
	for i, o := range s.orders {
		s.orderIdx[o.ID] = i
	}
}
