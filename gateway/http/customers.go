package http

import (
	"net/http"

	"github.com/c360/fetchlab/errors"
	"github.com/c360/fetchlab/fetch"
	"github.com/c360/fetchlab/fetch/eager"
	"github.com/c360/fetchlab/metric"
	"github.com/c360/fetchlab/store"
)

func (g *Gateway) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers := g.store.Customers()
	stats, err := singleCall(customers)
	if err != nil {
		g.respondError(w, r, err)
		return
	}
	setFetchHeaders(w, stats)
	g.writeJSON(w, http.StatusOK, customers)
}

func (g *Gateway) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		g.respondError(w, r, err)
		return
	}

	customer, ok := g.store.CustomerByID(id)
	if !ok {
		g.respondError(w, r, errors.ErrNotFound)
		return
	}

	stats, err := singleCall(customer)
	if err != nil {
		g.respondError(w, r, err)
		return
	}
	setFetchHeaders(w, stats)
	g.writeJSON(w, http.StatusOK, customer)
}

func (g *Gateway) handleCustomerOrders(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		g.respondError(w, r, err)
		return
	}
	includeBooks := queryFlag(r, "include_books")

	view, stats, err := metric.Instrument(g.metrics, metric.StrategyEager, "customer_with_orders",
		func() (eager.CustomerView, fetch.Stats, error) {
			return g.eager.CustomerWithOrders(id, includeBooks)
		})
	if err != nil {
		g.respondError(w, r, err)
		return
	}

	setFetchHeaders(w, stats)
	g.writeJSON(w, http.StatusOK, view)
}

func (g *Gateway) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var in store.CustomerInput
	if err := g.decode(r, &in); err != nil {
		g.respondError(w, r, err)
		return
	}

	customer, err := g.store.CreateCustomer(in)
	if err != nil {
		g.respondError(w, r, err)
		return
	}
	g.writeJSON(w, http.StatusCreated, customer)
}

func (g *Gateway) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		g.respondError(w, r, err)
		return
	}

	var in store.CustomerUpdate
	if err := g.decode(r, &in); err != nil {
		g.respondError(w, r, err)
		return
	}

	customer, ok := g.store.UpdateCustomer(id, in)
	if !ok {
		g.respondError(w, r, errors.ErrNotFound)
		return
	}
	g.writeJSON(w, http.StatusOK, customer)
}

func (g *Gateway) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		g.respondError(w, r, err)
		return
	}

	if !g.store.DeleteCustomer(id) {
		g.respondError(w, r, errors.ErrNotFound)
		return
	}
	g.writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
}
