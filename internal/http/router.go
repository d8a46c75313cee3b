package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mariattjoseph2016-code/Masala-storys/pkg/metrics"
)

type Handlers struct {
	Cart     *CartHandler
	Wishlist *WishlistHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Address  *AddressHandler
}

// NewRouter assembles the storefront's HTTP surface.
func NewRouter(h Handlers, m *metrics.StoreMetrics, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware)
	r.Use(metricsMiddleware(m))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.Cart.GetCart)
		r.Post("/add/{productID}", h.Cart.AddItem)
		r.Post("/remove/{productID}", h.Cart.RemoveItem)
		r.Post("/clear", h.Cart.ClearCart)
		r.Post("/buy-now/{productID}", h.Cart.BuyNow)

		r.Get("/payment", h.Checkout.PaymentForm)
		r.Post("/payment", h.Checkout.SubmitPayment)

		r.Get("/orders", h.Orders.ListOrders)
		r.Get("/orders/{orderID}", h.Orders.GetOrder)

		r.Get("/wishlist", h.Wishlist.GetWishlist)
		r.Post("/wishlist/add/{productID}", h.Wishlist.Add)
		r.Post("/wishlist/remove/{productID}", h.Wishlist.Remove)
		r.Post("/wishlist/move-to-cart/{productID}", h.Wishlist.MoveToCart)
	})

	r.Route("/accounts/addresses", func(r chi.Router) {
		r.Post("/{addressID}/set-default", h.Address.SetDefault)
		r.Post("/{addressID}/delete", h.Address.Delete)
	})

	return r
}

func metricsMiddleware(m *metrics.StoreMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = "unmatched"
			}
			m.ObserveRequest(pattern, ww.Status(), time.Since(start))
		})
	}
}
