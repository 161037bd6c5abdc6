package store

import "time"

// NewSeeded creates a store populated with the fixed bookstore dataset used
// for strategy comparison: 5 authors, 9 books, 4 customers, 5 orders.
func NewSeeded() *Store {
	s := New()

	s.authors = []Author{
		{ID: 1, Name: "J.K. Rowling", Bio: "British author best known for Harry Potter series", BirthYear: 1965},
		{ID: 2, Name: "George Orwell", Bio: "English novelist and journalist", BirthYear: 1903},
		{ID: 3, Name: "Jane Austen", Bio: "English novelist of romantic fiction", BirthYear: 1775},
		{ID: 4, Name: "Stephen King", Bio: "American author of horror and supernatural fiction", BirthYear: 1947},
		{ID: 5, Name: "Agatha Christie", Bio: "English writer known for detective novels", BirthYear: 1890},
	}

	s.books = []Book{
		{ID: 1, Title: "Harry Potter and the Philosopher's Stone", AuthorID: 1, Price: 29.99, Genre: "Fantasy", PublishedYear: 1997, ISBN: "978-0439708180"},
		{ID: 2, Title: "Harry Potter and the Chamber of Secrets", AuthorID: 1, Price: 32.99, Genre: "Fantasy", PublishedYear: 1998, ISBN: "978-0439064873"},
		{ID: 3, Title: "1984", AuthorID: 2, Price: 19.99, Genre: "Dystopian Fiction", PublishedYear: 1949, ISBN: "978-0451524935"},
		{ID: 4, Title: "Animal Farm", AuthorID: 2, Price: 15.99, Genre: "Allegorical Fiction", PublishedYear: 1945, ISBN: "978-0451526342"},
		{ID: 5, Title: "Pride and Prejudice", AuthorID: 3, Price: 22.99, Genre: "Romance", PublishedYear: 1813, ISBN: "978-0141439518"},
		{ID: 6, Title: "The Shining", AuthorID: 4, Price: 24.99, Genre: "Horror", PublishedYear: 1977, ISBN: "978-0307743657"},
		{ID: 7, Title: "It", AuthorID: 4, Price: 27.99, Genre: "Horror", PublishedYear: 1986, ISBN: "978-1501142970"},
		{ID: 8, Title: "Murder on the Orient Express", AuthorID: 5, Price: 18.99, Genre: "Mystery", PublishedYear: 1934, ISBN: "978-0062693662"},
		{ID: 9, Title: "And Then There Were None", AuthorID: 5, Price: 16.99, Genre: "Mystery", PublishedYear: 1939, ISBN: "978-0062073488"},
	}

	s.customers = []Customer{
		{ID: 1, Name: "Alice Johnson", Email: "alice@example.com", RegisteredAt: date(2023, 1, 15)},
		{ID: 2, Name: "Bob Smith", Email: "bob@example.com", RegisteredAt: date(2023, 3, 22)},
		{ID: 3, Name: "Carol Davis", Email: "carol@example.com", RegisteredAt: date(2023, 5, 10)},
		{ID: 4, Name: "David Wilson", Email: "david@example.com", RegisteredAt: date(2023, 7, 8)},
	}

	// Totals are creation-time snapshots of the referenced book prices.
	s.orders = []Order{
		{ID: 1, CustomerID: 1, BookIDs: []int{1, 2}, TotalAmount: 62.98, OrderedAt: date(2023, 6, 1), Status: StatusShipped},
		{ID: 2, CustomerID: 1, BookIDs: []int{3}, TotalAmount: 19.99, OrderedAt: date(2023, 6, 15), Status: StatusShipped},
		{ID: 3, CustomerID: 2, BookIDs: []int{5, 8}, TotalAmount: 41.98, OrderedAt: date(2023, 7, 3), Status: StatusShipped},
		{ID: 4, CustomerID: 3, BookIDs: []int{6, 7}, TotalAmount: 52.98, OrderedAt: date(2023, 8, 12), Status: StatusPending},
		{ID: 5, CustomerID: 4, BookIDs: []int{4, 9}, TotalAmount: 32.98, OrderedAt: date(2023, 8, 20), Status: StatusPending},
	}

	for i, a := range s.authors {
		s.authorIdx[a.ID] = i
	}
	for i, b := range s.books {
		s.bookIdx[b.ID] = i
	}
	for i, c := range s.customers {
		s.customerIdx[c.ID] = i
	}
	for i, o := range s.orders {
		s.orderIdx[o.ID] = i
	}

	s.lastAuthorID = 5
	s.lastBookID = 9
	s.lastCustomerID = 4
	s.lastOrderID = 5

	return s
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
