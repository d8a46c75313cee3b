package http

import (
	"errors"
	"net/http"

	cartservice "github.com/mariattjoseph2016-code/Masala-storys/internal/cart/service"
)

type WishlistHandler struct {
	wishlists *cartservice.WishlistService
}

func NewWishlistHandler(wishlists *cartservice.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists}
}

type WishlistDTO struct {
	Products []LineItemDTO `json:"products"`
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	products, err := h.wishlists.View(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load wishlist")
		return
	}

	dto := WishlistDTO{Products: make([]LineItemDTO, 0, len(products))}
	for _, p := range products {
		dto.Products = append(dto.Products, lineItemDTO(p, 1, p.EffectivePrice()))
	}
	respondJSON(w, http.StatusOK, dto)
}

func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	productID, err := parseProductID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	if err := h.wishlists.Add(r.Context(), sessionID, productID); err != nil {
		if errors.Is(err, cartservice.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add to wishlist")
		return
	}

	redirect(w, r, "/cart/wishlist", "Added to wishlist")
}

func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	productID, err := parseProductID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	if err := h.wishlists.Remove(r.Context(), sessionID, productID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to remove from wishlist")
		return
	}

	redirect(w, r, "/cart/wishlist", "")
}

// MoveToCart shifts one unit from wishlist to cart. A product that has
// vanished from the catalog still leaves the wishlist; the shopper just
// sees it gone.
func (h *WishlistHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	productID, err := parseProductID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	err = h.wishlists.MoveToCart(r.Context(), sessionID, productID)
	if err != nil && !errors.Is(err, cartservice.ErrProductNotFound) {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to move to cart")
		return
	}
	if errors.Is(err, cartservice.ErrProductNotFound) {
		redirect(w, r, "/cart/wishlist", "That product is no longer available")
		return
	}

	redirect(w, r, "/cart", "Moved to cart")
}
