package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mariattjoseph2016-code/Masala-storys/internal/orders/journal"
)

type OrdersHandler struct {
	journal *journal.Journal
}

func NewOrdersHandler(j *journal.Journal) *OrdersHandler {
	return &OrdersHandler{journal: j}
}

// ListOrders renders the session's history, newest first.
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	orders, err := h.journal.List(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load orders")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// GetOrder renders one order. An unknown id is a notice and a redirect
// back to the history, never a server error.
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		redirect(w, r, "/cart/orders", "Order not found.")
		return
	}

	order, err := h.journal.GetByID(r.Context(), sessionID, orderID)
	if errors.Is(err, journal.ErrOrderNotFound) {
		redirect(w, r, "/cart/orders", "Order not found.")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}
