package http

import (
	"bytes"
	stdjson "encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/fetchlab/config"
	"github.com/c360/fetchlab/errors"
	"github.com/c360/fetchlab/gateway"
	"github.com/c360/fetchlab/metric"
	"github.com/c360/fetchlab/store"
)

func newTestGateway(t *testing.T) (*Gateway, http.Handler) {
	t.Helper()
	cfg := config.Default().HTTP
	g, err := NewGateway(cfg, store.NewSeeded(), nil, nil)
	require.NoError(t, err)
	return g, g.Router()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := stdjson.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	r := httptest.NewRequest(method, path, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, stdjson.Unmarshal(w.Body.Bytes(), v))
}

func TestListAuthors(t *testing.T) {
	_, h := newTestGateway(t)

	w := doJSON(t, h, http.MethodGet, "/api/authors", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var authors []store.Author
	decodeBody(t, w, &authors)
	assert.Len(t, authors, 5)

	assert.Equal(t, "1", w.Header().Get(gateway.FetchCallsHeader))
	assert.NotEmpty(t, w.Header().Get(gateway.FetchBytesHeader))
	assert.NotEmpty(t, w.Header().Get(gateway.RequestIDHeader))
}

func TestGetAuthor_NotFound(t *testing.T) {
	_, h := newTestGateway(t)

	w := doJSON(t, h, http.MethodGet, "/api/authors/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	decodeBody(t, w, &body)
	assert.Equal(t, "resource not found", body["error"])
}

func TestAuthorBooks_ReportsCallCost(t *testing.T) {
	_, h := newTestGateway(t)

	w := doJSON(t, h, http.MethodGet, "/api/authors/1/books", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get(gateway.FetchCallsHeader))

	var view struct {
		Name  string       `json:"name"`
		Books []store.Book `json:"books"`
	}
	decodeBody(t, w, &view)
	assert.Equal(t, "J.K. Rowling", view.Name)
	assert.Len(t, view.Books, 2)
}

func TestListBooks_IncludeAuthorCost(t *testing.T) {
	_, h := newTestGateway(t)

	plain := doJSON(t, h, http.MethodGet, "/api/books", nil)
	require.Equal(t, http.StatusOK, plain.Code)
	assert.Equal(t, "1", plain.Header().Get(gateway.FetchCallsHeader))

	enriched := doJSON(t, h, http.MethodGet, "/api/books?include_author=true", nil)
	require.Equal(t, http.StatusOK, enriched.Code)
	assert.Equal(t, "6", enriched.Header().Get(gateway.FetchCallsHeader))
}

func TestCustomerOrders_IncludeBooks(t *testing.T) {
	_, h := newTestGateway(t)

	w := doJSON(t, h, http.MethodGet, "/api/customers/1/orders?include_books=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	// Customer + orders + 3 distinct referenced books.
	assert.Equal(t, "5", w.Header().Get(gateway.FetchCallsHeader))
}

func TestSearchBooks(t *testing.T) {
	_, h := newTestGateway(t)

	w := doJSON(t, h, http.MethodGet, "/api/books/search?q=harry", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var hits []stdjson.RawMessage
	decodeBody(t, w, &hits)
	assert.Len(t, hits, 2)

	missing := doJSON(t, h, http.MethodGet, "/api/books/search", nil)
	assert.Equal(t, http.StatusBadRequest, missing.Code)
}

func TestBooksByGenre(t *testing.T) {
	_, h := newTestGateway(t)

	w := doJSON(t, h, http.MethodGet, "/api/books/by-genre/mystery", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var books []store.Book
	decodeBody(t, w, &books)
	require.Len(t, books, 2)
	assert.Equal(t, "Mystery", books[0].Genre)
}

func TestCreateBook(t *testing.T) {
	_, h := newTestGateway(t)

	w := doJSON(t, h, http.MethodPost, "/api/books", map[string]any{
		"title":     "New Book",
		"author_id": 1,
		"price":     12.50,
		"genre":     "Fantasy",
		"isbn":      "978-0-00-000000-0",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var book store.Book
	decodeBody(t, w, &book)
	assert.Equal(t, 10, book.ID)

	t.Run("missing title", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/books", map[string]any{
			"author_id": 1, "genre": "Fantasy", "isbn": "x",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown author", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/books", map[string]any{
			"title": "Orphan", "author_id": 999, "genre": "Fantasy", "isbn": "y",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateBook_PartialMerge(t *testing.T) {
	g, h := newTestGateway(t)

	w := doJSON(t, h, http.MethodPut, "/api/books/1", map[string]any{"price": 19.99})
	require.Equal(t, http.StatusOK, w.Code)

	book, ok := g.store.BookByID(1)
	require.True(t, ok)
	assert.InDelta(t, 19.99, book.Price, 0.001)
	assert.Equal(t, "Harry Potter and the Philosopher's Stone", book.Title)

	missing := doJSON(t, h, http.MethodPut, "/api/books/999", map[string]any{"price": 1.0})
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestDeleteAuthor(t *testing.T) {
	g, h := newTestGateway(t)

	w := doJSON(t, h, http.MethodDelete, "/api/authors/5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, ok := g.store.AuthorByID(5)
	assert.False(t, ok)

	again := doJSON(t, h, http.MethodDelete, "/api/authors/5", nil)
	assert.Equal(t, http.StatusNotFound, again.Code)
}

func TestCreateOrderAndStatus(t *testing.T) {
	_, h := newTestGateway(t)

	w := doJSON(t, h, http.MethodPost, "/api/orders", map[string]any{
		"customer_id": 2,
		"book_ids":    []int{1, 3},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var order store.Order
	decodeBody(t, w, &order)
	assert.Equal(t, 6, order.ID)
	assert.Equal(t, store.StatusPending, order.Status)
	assert.InDelta(t, 29.99+19.99, order.TotalAmount, 0.001)

	t.Run("ship", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPut, "/api/orders/6/status", map[string]any{"status": "shipped"})
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("terminal transition rejected", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPut, "/api/orders/6/status", map[string]any{"status": "cancelled"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListOrders_StatusFilter(t *testing.T) {
	_, h := newTestGateway(t)

	w := doJSON(t, h, http.MethodGet, "/api/orders?status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var orders []store.Order
	decodeBody(t, w, &orders)
	assert.Len(t, orders, 2)

	bad := doJSON(t, h, http.MethodGet, "/api/orders?status=teleported", nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := config.Default().HTTP
	cfg.RateLimit = 1
	cfg.RateBurst = 2
	g, err := NewGateway(cfg, store.NewSeeded(), nil, nil)
	require.NoError(t, err)
	h := g.Router()

	codes := make(map[int]int)
	for i := 0; i < 5; i++ {
		w := doJSON(t, h, http.MethodGet, "/health", nil)
		codes[w.Code]++
	}
	assert.Positive(t, codes[http.StatusTooManyRequests])
}

func TestRejectsUnknownBodyFields(t *testing.T) {
	_, h := newTestGateway(t)

	w := doJSON(t, h, http.MethodPost, "/api/authors", map[string]any{
		"name":    "X",
		"surname": "unexpected",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrafficSnapshotEndpoint(t *testing.T) {
	_, h := newTestGateway(t)

	doJSON(t, h, http.MethodGet, "/api/authors", nil)
	w := doJSON(t, h, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var snap gateway.Snapshot
	decodeBody(t, w, &snap)
	assert.GreaterOrEqual(t, snap.RequestsTotal, uint64(2))
	assert.Positive(t, snap.BytesSent)
}

func TestRegisterMetrics_PublishesTraffic(t *testing.T) {
	g, h := newTestGateway(t)
	reg := metric.NewRegistry()
	require.NoError(t, g.RegisterMetrics(reg))

	doJSON(t, h, http.MethodGet, "/api/authors", nil)
	doJSON(t, h, http.MethodGet, "/api/books", nil)

	assert.Equal(t, 2.0, gaugeValue(t, reg, "fetchlab_gateway_rest_traffic", "requests_total"))
	assert.Positive(t, gaugeValue(t, reg, "fetchlab_gateway_rest_traffic", "bytes_sent"))

	// A second registration of the same gauge is refused.
	err := g.RegisterMetrics(reg)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

// gaugeValue reads one labelled series out of the registry.
func gaugeValue(t *testing.T, reg *metric.Registry, name, counter string) float64 {
	t.Helper()
	families, err := reg.PrometheusRegistry().Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "counter" && label.GetValue() == counter {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("series %s{counter=%q} not found", name, counter)
	return 0
}
