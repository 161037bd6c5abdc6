package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/c360/fetchlab/errors"
	"github.com/c360/fetchlab/fetch"
	"github.com/c360/fetchlab/fetch/eager"
	"github.com/c360/fetchlab/metric"
	"github.com/c360/fetchlab/relation"
	"github.com/c360/fetchlab/store"
)

func (g *Gateway) handleListBooks(w http.ResponseWriter, r *http.Request) {
	includeAuthor := queryFlag(r, "include_author")

	views, stats, err := metric.Instrument(g.metrics, metric.StrategyEager, "list_books",
		func() ([]eager.BookView, fetch.Stats, error) {
			return g.eager.Books(includeAuthor)
		})
	if err != nil {
		g.respondError(w, r, err)
		return
	}

	setFetchHeaders(w, stats)
	g.writeJSON(w, http.StatusOK, views)
}

func (g *Gateway) handleGetBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		g.respondError(w, r, err)
		return
	}

	if queryFlag(r, "include_author") {
		view, stats, err := metric.Instrument(g.metrics, metric.StrategyEager, "book_with_author",
			func() (eager.BookView, fetch.Stats, error) {
				return g.eager.BookWithAuthor(id)
			})
		if err != nil {
			g.respondError(w, r, err)
			return
		}
		setFetchHeaders(w, stats)
		g.writeJSON(w, http.StatusOK, view)
		return
	}

	book, ok := g.store.BookByID(id)
	if !ok {
		g.respondError(w, r, errors.ErrNotFound)
		return
	}

	stats, err := singleCall(book)
	if err != nil {
		g.respondError(w, r, err)
		return
	}
	setFetchHeaders(w, stats)
	g.writeJSON(w, http.StatusOK, book)
}

func (g *Gateway) handleSearchBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		g.respondError(w, r, errors.Invalidf("query parameter %q is required", "q"))
		return
	}

	views, stats, err := metric.Instrument(g.metrics, metric.StrategyEager, "search_books",
		func() ([]eager.BookView, fetch.Stats, error) {
			return g.eager.SearchBooksWithAuthors(query)
		})
	if err != nil {
		g.respondError(w, r, err)
		return
	}

	setFetchHeaders(w, stats)
	g.writeJSON(w, http.StatusOK, views)
}

func (g *Gateway) handleBooksByGenre(w http.ResponseWriter, r *http.Request) {
	genre := mux.Vars(r)["genre"]

	books := relation.BooksByGenre(g.store.Books(), genre)
	stats, err := singleCall(books)
	if err != nil {
		g.respondError(w, r, err)
		return
	}
	setFetchHeaders(w, stats)
	g.writeJSON(w, http.StatusOK, books)
}

func (g *Gateway) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var in store.BookInput
	if err := g.decode(r, &in); err != nil {
		g.respondError(w, r, err)
		return
	}

	book, err := g.store.CreateBook(in)
	if err != nil {
		g.respondError(w, r, err)
		return
	}
	g.writeJSON(w, http.StatusCreated, book)
}

func (g *Gateway) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		g.respondError(w, r, err)
		return
	}

	var in store.BookUpdate
	if err := g.decode(r, &in); err != nil {
		g.respondError(w, r, err)
		return
	}

	book, ok := g.store.UpdateBook(id, in)
	if !ok {
		g.respondError(w, r, errors.ErrNotFound)
		return
	}
	g.writeJSON(w, http.StatusOK, book)
}

func (g *Gateway) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		g.respondError(w, r, err)
		return
	}

	if !g.store.DeleteBook(id) {
		g.respondError(w, r, errors.ErrNotFound)
		return
	}
	g.writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
}
