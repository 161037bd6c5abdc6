// Package store provides the authoritative in-memory entity collections for
// the bookstore dataset shared by both fetch strategies.
package store

import (
	"encoding/json"
	"time"
)

// OrderStatus represents the fulfillment state of an order.
// This enum provides type-safe status values for order filtering and
// transition checks.
type OrderStatus string

const (
	// StatusPending indicates the order has been placed but not shipped.
	// This is the initial state of every created order.
	StatusPending OrderStatus = "pending"

	// StatusShipped indicates the order has left the warehouse.
	StatusShipped OrderStatus = "shipped"

	// StatusCancelled indicates the order was cancelled before shipping.
	StatusCancelled OrderStatus = "cancelled"
)

// String returns the string representation of the OrderStatus.
func (os OrderStatus) String() string {
	return string(os)
}

// MarshalJSON implements json.Marshaler to ensure OrderStatus serializes as a string.
func (os OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(os))
}

// UnmarshalJSON implements json.Unmarshaler to deserialize OrderStatus from string.
func (os *OrderStatus) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*os = OrderStatus(s)
	return nil
}

// IsValid checks if the OrderStatus is one of the defined constants.
func (os OrderStatus) IsValid() bool {
	switch os {
	case StatusPending, StatusShipped, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the status may move to next.
// Only pending orders may change state: pending -> shipped or
// pending -> cancelled. Shipped and cancelled are terminal.
func (os OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if os != StatusPending {
		return false
	}
	return next == StatusShipped || next == StatusCancelled
}

// Author is a book author. An author has many books.
type Author struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	BirthYear int    `json:"birth_year"`
}

// Book belongs to one author via AuthorID. The reference is validated at
// creation time only; deleting the author afterwards leaves it dangling.
type Book struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	AuthorID      int     `json:"author_id"`
	Price         float64 `json:"price"`
	Genre         string  `json:"genre"`
	PublishedYear int     `json:"published_year"`
	ISBN          string  `json:"isbn"`
	Description   string  `json:"description,omitempty"`
}

// Customer is a registered buyer. A customer has many orders.
type Customer struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registration_date"`
}

// Order belongs to one customer and references books by id, in order,
// duplicates allowed. TotalAmount is a snapshot of the referenced book
// prices at creation time and is never recomputed.
type Order struct {
	ID          int         `json:"id"`
	CustomerID  int         `json:"customer_id"`
	BookIDs     []int       `json:"book_ids"`
	TotalAmount float64     `json:"total_amount"`
	OrderedAt   time.Time   `json:"order_date"`
	Status      OrderStatus `json:"status"`
}
