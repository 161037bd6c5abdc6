package fieldsel

import (
	"github.com/c360/fetchlab/errors"
	"github.com/c360/fetchlab/store"
)

// The projectors walk a selection and copy exactly the requested fields into
// the result map. Relation fields recurse through the relationship resolver
// only when a nested selection is present; a dangling many-to-one reference
// projects as nil. Field names are the wire names of the entity types.

func (st *Strategy) projectAuthor(author store.Author, sel Selection) (map[string]any, error) {
	if len(sel) == 0 {
		return nil, errors.Invalidf("author requires a field selection")
	}

	out := make(map[string]any, len(sel))
	for field, sub := range sel {
		switch field {
		case "id", "name", "bio", "birth_year":
			if len(sub) != 0 {
				return nil, errors.Invalidf("field %q does not accept a nested selection", field)
			}
		}
		switch field {
		case "id":
			out[field] = author.ID
		case "name":
			out[field] = author.Name
		case "bio":
			out[field] = author.Bio
		case "birth_year":
			out[field] = author.BirthYear
		case "books":
			books, err := st.projectBooks(st.rel.BooksOf(author), sub)
			if err != nil {
				return nil, err
			}
			out[field] = books
		default:
			return nil, errors.Invalidf("%w: %q on author", errors.ErrUnknownField, field)
		}
	}
	return out, nil
}

func (st *Strategy) projectBook(book store.Book, sel Selection) (map[string]any, error) {
	if len(sel) == 0 {
		return nil, errors.Invalidf("book requires a field selection")
	}

	out := make(map[string]any, len(sel))
	for field, sub := range sel {
		switch field {
		case "id", "title", "author_id", "price", "genre", "published_year", "isbn", "description":
			if len(sub) != 0 {
				return nil, errors.Invalidf("field %q does not accept a nested selection", field)
			}
		}
		switch field {
		case "id":
			out[field] = book.ID
		case "title":
			out[field] = book.Title
		case "author_id":
			out[field] = book.AuthorID
		case "price":
			out[field] = book.Price
		case "genre":
			out[field] = book.Genre
		case "published_year":
			out[field] = book.PublishedYear
		case "isbn":
			out[field] = book.ISBN
		case "description":
			out[field] = book.Description
		case "author":
			author, ok := st.rel.AuthorOf(book)
			if !ok {
				out[field] = nil
				continue
			}
			m, err := st.projectAuthor(author, sub)
			if err != nil {
				return nil, err
			}
			out[field] = m
		default:
			return nil, errors.Invalidf("%w: %q on book", errors.ErrUnknownField, field)
		}
	}
	return out, nil
}

func (st *Strategy) projectBooks(books []store.Book, sel Selection) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(books))
	for _, b := range books {
		m, err := st.projectBook(b, sel)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (st *Strategy) projectCustomer(customer store.Customer, sel Selection) (map[string]any, error) {
	if len(sel) == 0 {
		return nil, errors.Invalidf("customer requires a field selection")
	}

	out := make(map[string]any, len(sel))
	for field, sub := range sel {
		switch field {
		case "id", "name", "email", "registration_date":
			if len(sub) != 0 {
				return nil, errors.Invalidf("field %q does not accept a nested selection", field)
			}
		}
		switch field {
		case "id":
			out[field] = customer.ID
		case "name":
			out[field] = customer.Name
		case "email":
			out[field] = customer.Email
		case "registration_date":
			out[field] = customer.RegisteredAt
		case "orders":
			orders, err := st.projectOrders(st.rel.OrdersOf(customer), sub)
			if err != nil {
				return nil, err
			}
			out[field] = orders
		default:
			return nil, errors.Invalidf("%w: %q on customer", errors.ErrUnknownField, field)
		}
	}
	return out, nil
}

func (st *Strategy) projectOrder(order store.Order, sel Selection) (map[string]any, error) {
	if len(sel) == 0 {
		return nil, errors.Invalidf("order requires a field selection")
	}

	out := make(map[string]any, len(sel))
	for field, sub := range sel {
		switch field {
		case "id", "customer_id", "book_ids", "total_amount", "order_date", "status":
			if len(sub) != 0 {
				return nil, errors.Invalidf("field %q does not accept a nested selection", field)
			}
		}
		switch field {
		case "id":
			out[field] = order.ID
		case "customer_id":
			out[field] = order.CustomerID
		case "book_ids":
			out[field] = order.BookIDs
		case "total_amount":
			out[field] = order.TotalAmount
		case "order_date":
			out[field] = order.OrderedAt
		case "status":
			out[field] = order.Status
		case "customer":
			customer, ok := st.rel.CustomerOf(order)
			if !ok {
				out[field] = nil
				continue
			}
			m, err := st.projectCustomer(customer, sub)
			if err != nil {
				return nil, err
			}
			out[field] = m
		case "books":
			books, err := st.projectBooks(st.rel.BooksIn(order), sub)
			if err != nil {
				return nil, err
			}
			out[field] = books
		default:
			return nil, errors.Invalidf("%w: %q on order", errors.ErrUnknownField, field)
		}
	}
	return out, nil
}

func (st *Strategy) projectOrders(orders []store.Order, sel Selection) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		m, err := st.projectOrder(o, sel)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
