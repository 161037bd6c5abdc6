package http

import (
	"net/http"

	"github.com/c360/fetchlab/errors"
	"github.com/c360/fetchlab/fetch"
	"github.com/c360/fetchlab/fetch/eager"
	"github.com/c360/fetchlab/metric"
	"github.com/c360/fetchlab/store"
)

// singleCall reports the cost of one full-shape payload fetched in one call.
func singleCall(v any) (fetch.Stats, error) {
	data, err := fetch.Marshal(v)
	if err != nil {
		return fetch.Stats{}, err
	}
	return fetch.Stats{Calls: 1, Bytes: len(data)}, nil
}

func (g *Gateway) handleListAuthors(w http.ResponseWriter, r *http.Request) {
	authors := g.store.Authors()
	stats, err := singleCall(authors)
	if err != nil {
		g.respondError(w, r, err)
		return
	}
	setFetchHeaders(w, stats)
	g.writeJSON(w, http.StatusOK, authors)
}

func (g *Gateway) handleGetAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		g.respondError(w, r, err)
		return
	}

	author, ok := g.store.AuthorByID(id)
	if !ok {
		g.respondError(w, r, errors.ErrNotFound)
		return
	}

	stats, err := singleCall(author)
	if err != nil {
		g.respondError(w, r, err)
		return
	}
	setFetchHeaders(w, stats)
	g.writeJSON(w, http.StatusOK, author)
}

func (g *Gateway) handleAuthorBooks(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		g.respondError(w, r, err)
		return
	}

	view, stats, err := metric.Instrument(g.metrics, metric.StrategyEager, "author_with_books",
		func() (eager.AuthorView, fetch.Stats, error) {
			return g.eager.AuthorWithBooks(id)
		})
	if err != nil {
		g.respondError(w, r, err)
		return
	}

	setFetchHeaders(w, stats)
	g.writeJSON(w, http.StatusOK, view)
}

func (g *Gateway) handleCreateAuthor(w http.ResponseWriter, r *http.Request) {
	var in store.AuthorInput
	if err := g.decode(r, &in); err != nil {
		g.respondError(w, r, err)
		return
	}

	author, err := g.store.CreateAuthor(in)
	if err != nil {
		g.respondError(w, r, err)
		return
	}
	g.writeJSON(w, http.StatusCreated, author)
}

func (g *Gateway) handleUpdateAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		g.respondError(w, r, err)
		return
	}

	var in store.AuthorUpdate
	if err := g.decode(r, &in); err != nil {
		g.respondError(w, r, err)
		return
	}

	author, ok := g.store.UpdateAuthor(id, in)
	if !ok {
		g.respondError(w, r, errors.ErrNotFound)
		return
	}
	g.writeJSON(w, http.StatusOK, author)
}

func (g *Gateway) handleDeleteAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		g.respondError(w, r, err)
		return
	}

	if !g.store.DeleteAuthor(id) {
		g.respondError(w, r, errors.ErrNotFound)
		return
	}
	g.writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
}
