package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	checkoutservice "github.com/mariattjoseph2016-code/Masala-storys/internal/checkout/service"
	"github.com/mariattjoseph2016-code/Masala-storys/internal/inventory/store"
	"github.com/mariattjoseph2016-code/Masala-storys/pkg/metrics"
)

type CheckoutHandler struct {
	checkouts *checkoutservice.CheckoutService
	metrics   *metrics.StoreMetrics
}

func NewCheckoutHandler(checkouts *checkoutservice.CheckoutService, m *metrics.StoreMetrics) *CheckoutHandler {
	return &CheckoutHandler{checkouts: checkouts, metrics: m}
}

type PaymentFormDTO struct {
	Total decimal.Decimal `json:"total"`
	Error string          `json:"error,omitempty"`
}

// PaymentForm shows the payment form with the amount due. Without a saved
// address the shopper is sent to their profile first.
func (h *CheckoutHandler) PaymentForm(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	total, err := h.checkouts.PaymentTotal(r.Context(), sessionID)
	if errors.Is(err, checkoutservice.ErrNoAddress) {
		redirect(w, r, "/profile", "Please add a delivery address before making a payment.")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to prepare payment")
		return
	}

	respondJSON(w, http.StatusOK, PaymentFormDTO{Total: total})
}

// SubmitPayment runs validation, the atomic stock commit and order
// journaling. Failures re-render the form with a single message; the cart
// survives every failure so the shopper can adjust and retry.
func (h *CheckoutHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "malformed form body")
		return
	}

	order, err := h.checkouts.Submit(r.Context(), sessionID,
		r.PostFormValue("card_number"),
		r.PostFormValue("expiry"),
		r.PostFormValue("cvv"),
	)

	switch {
	case err == nil:
		h.metrics.OrdersPlaced.Inc()
		log.Info().
			Str("session_id", sessionID).
			Str("request_id", getRequestID(r.Context())).
			Int64("order_id", order.ID).
			Str("total", order.Total.String()).
			Msg("order placed")
		redirect(w, r, "/cart/orders", "Payment successful! Your order has been placed.")

	case errors.Is(err, checkoutservice.ErrNoAddress):
		h.metrics.CheckoutFailed.WithLabelValues("no_address").Inc()
		redirect(w, r, "/profile", "Please add a delivery address before making a payment.")

	case errors.Is(err, checkoutservice.ErrEmptyCart):
		h.metrics.CheckoutFailed.WithLabelValues("empty_cart").Inc()
		redirect(w, r, "/cart", "Your cart is empty.")

	default:
		h.renderFailure(w, r, sessionID, err)
	}
}

// renderFailure re-renders the payment form carrying the first failure
// message, for both rejected input and a stock shortfall.
func (h *CheckoutHandler) renderFailure(w http.ResponseWriter, r *http.Request, sessionID string, err error) {
	var vErr *checkoutservice.ValidationError
	var stockErr *store.InsufficientStockError

	switch {
	case errors.As(err, &vErr):
		h.metrics.CheckoutFailed.WithLabelValues("validation").Inc()
		h.renderFormError(w, r, sessionID, http.StatusOK, vErr.Message)

	case errors.As(err, &stockErr):
		h.metrics.CheckoutFailed.WithLabelValues("insufficient_stock").Inc()
		h.renderFormError(w, r, sessionID, http.StatusConflict,
			fmt.Sprintf("Insufficient stock for %s. Only %d available.", stockErr.Name, stockErr.Available))

	default:
		h.metrics.CheckoutFailed.WithLabelValues("internal").Inc()
		log.Error().Err(err).Str("session_id", sessionID).Msg("checkout failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "checkout failed")
	}
}

func (h *CheckoutHandler) renderFormError(w http.ResponseWriter, r *http.Request, sessionID string, status int, msg string) {
	total, err := h.checkouts.PaymentTotal(r.Context(), sessionID)
	if err != nil {
		total = decimal.Zero
	}
	respondJSON(w, status, PaymentFormDTO{Total: total, Error: msg})
}
