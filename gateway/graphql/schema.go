package graphql

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// schemaSDL is the bookstore schema served by this gateway. Field selections
// map one-to-one onto the field-selective strategy's wire names.
const schemaSDL = `
type Author {
  id: Int!
  name: String!
  bio: String
  birthYear: Int
  books: [Book!]!
}

type Book {
  id: Int!
  title: String!
  authorId: Int!
  price: Float!
  genre: String!
  publishedYear: Int
  isbn: String!
  description: String
  author: Author
}

type Customer {
  id: Int!
  name: String!
  email: String!
  registrationDate: String!
  orders: [Order!]!
}

type Order {
  id: Int!
  customerId: Int!
  bookIds: [Int!]!
  totalAmount: Float!
  orderDate: String!
  status: OrderStatus!
  customer: Customer
  books: [Book!]!
}

enum OrderStatus {
  PENDING
  SHIPPED
  CANCELLED
}

type Query {
  author(id: Int!): Author
  authors(limit: Int): [Author!]!
  book(id: Int!): Book
  books(authorId: Int, genre: String, limit: Int): [Book!]!
  searchBooks(query: String!, limit: Int): [Book!]!
  customer(id: Int!): Customer
  customers(limit: Int): [Customer!]!
  order(id: Int!): Order
  orders(customerId: Int, status: OrderStatus, limit: Int): [Order!]!
}

input AuthorInput {
  name: String!
  bio: String
  birthYear: Int
}

input AuthorUpdateInput {
  name: String
  bio: String
  birthYear: Int
}

input BookInput {
  title: String!
  authorId: Int!
  price: Float!
  genre: String!
  publishedYear: Int
  isbn: String!
  description: String
}

input BookUpdateInput {
  title: String
  authorId: Int
  price: Float
  genre: String
  publishedYear: Int
  isbn: String
  description: String
}

input CustomerInput {
  name: String!
  email: String!
}

input CustomerUpdateInput {
  name: String
  email: String
}

input OrderInput {
  customerId: Int!
  bookIds: [Int!]!
}

type Mutation {
  createAuthor(input: AuthorInput!): Author!
  updateAuthor(id: Int!, input: AuthorUpdateInput!): Author!
  deleteAuthor(id: Int!): Boolean!
  createBook(input: BookInput!): Book!
  updateBook(id: Int!, input: BookUpdateInput!): Book!
  deleteBook(id: Int!): Boolean!
  createCustomer(input: CustomerInput!): Customer!
  updateCustomer(id: Int!, input: CustomerUpdateInput!): Customer!
  deleteCustomer(id: Int!): Boolean!
  createOrder(input: OrderInput!): Order!
  updateOrderStatus(id: Int!, status: OrderStatus!): Order!
  cancelOrder(id: Int!): Boolean!
  deleteOrder(id: Int!): Boolean!
}
`

// loadSchema parses and validates the embedded SDL. Panics on a broken
// schema, which is a programming error caught by any test.
func loadSchema() *ast.Schema {
	return gqlparser.MustLoadSchema(&ast.Source{
		Name:  "bookstore.graphql",
		Input: schemaSDL,
	})
}
