package http

import (
	"net/http"

	"github.com/c360/fetchlab/errors"
	"github.com/c360/fetchlab/relation"
	"github.com/c360/fetchlab/store"
)

func (g *Gateway) handleListOrders(w http.ResponseWriter, r *http.Request) {
	var orders []store.Order
	if customerID := queryInt(r, "customer_id"); customerID != 0 {
		orders = g.store.OrdersByCustomer(customerID)
	} else {
		orders = g.store.Orders()
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := store.OrderStatus(raw)
		if !status.IsValid() {
			g.respondError(w, r, errors.Invalidf("unknown order status %q", raw))
			return
		}
		orders = relation.OrdersByStatus(orders, status)
	}

	stats, err := singleCall(orders)
	if err != nil {
		g.respondError(w, r, err)
		return
	}
	setFetchHeaders(w, stats)
	g.writeJSON(w, http.StatusOK, orders)
}

func (g *Gateway) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		g.respondError(w, r, err)
		return
	}

	order, ok := g.store.OrderByID(id)
	if !ok {
		g.respondError(w, r, errors.ErrNotFound)
		return
	}

	stats, err := singleCall(order)
	if err != nil {
		g.respondError(w, r, err)
		return
	}
	setFetchHeaders(w, stats)
	g.writeJSON(w, http.StatusOK, order)
}

func (g *Gateway) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var in store.OrderInput
	if err := g.decode(r, &in); err != nil {
		g.respondError(w, r, err)
		return
	}

	order, err := g.store.CreateOrder(in)
	if err != nil {
		g.respondError(w, r, err)
		return
	}
	g.writeJSON(w, http.StatusCreated, order)
}

func (g *Gateway) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		g.respondError(w, r, err)
		return
	}

	var body struct {
		Status store.OrderStatus `json:"status"`
	}
	if err := g.decode(r, &body); err != nil {
		g.respondError(w, r, err)
		return
	}

	order, err := g.store.UpdateOrderStatus(id, body.Status)
	if err != nil {
		g.respondError(w, r, err)
		return
	}
	g.writeJSON(w, http.StatusOK, order)
}

func (g *Gateway) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		g.respondError(w, r, err)
		return
	}

	if !g.store.DeleteOrder(id) {
		g.respondError(w, r, errors.ErrNotFound)
		return
	}
	g.writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
}
