package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	cartservice "github.com/mariattjoseph2016-code/Masala-storys/internal/cart/service"
	catalogdomain "github.com/mariattjoseph2016-code/Masala-storys/internal/catalog/domain"
)

type CartHandler struct {
	carts *cartservice.CartService
}

func NewCartHandler(carts *cartservice.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type LineItemDTO struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	Image     *ImageDTO       `json:"image,omitempty"`
}

type ImageDTO struct {
	Source  string `json:"source"`
	AltText string `json:"alt_text"`
}

type CartViewDTO struct {
	Items []LineItemDTO   `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type BuyNowDTO struct {
	Product LineItemDTO `json:"product"`
}

func cartViewDTO(view *cartservice.CartView) CartViewDTO {
	dto := CartViewDTO{
		Items: make([]LineItemDTO, 0, len(view.Lines)),
		Total: view.Total,
	}
	for _, line := range view.Lines {
		dto.Items = append(dto.Items, lineItemDTO(line.Product, line.Quantity, line.LineTotal))
	}
	return dto
}

func lineItemDTO(p *catalogdomain.Product, quantity int, lineTotal decimal.Decimal) LineItemDTO {
	dto := LineItemDTO{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.EffectivePrice(),
		Quantity:  quantity,
		LineTotal: lineTotal,
	}
	if img, ok := p.PrimaryImage(); ok {
		dto.Image = &ImageDTO{Source: img.Source, AltText: img.AltText}
	}
	return dto
}

// GetCart renders the cart with resolved line items and the running total.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	view, err := h.carts.View(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	respondJSON(w, http.StatusOK, cartViewDTO(view))
}

// AddItem merges qty units into the cart and redirects to the cart view.
// A missing or malformed qty field quietly becomes one unit.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	productID, err := parseProductID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	qty := cartservice.ParseQuantity(r.PostFormValue("qty"))

	if err := h.carts.Add(r.Context(), sessionID, productID, qty); err != nil {
		if errors.Is(err, cartservice.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add to cart")
		return
	}

	redirect(w, r, "/cart", "")
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	productID, err := parseProductID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	if err := h.carts.Remove(r.Context(), sessionID, productID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to remove from cart")
		return
	}

	redirect(w, r, "/cart", "")
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	if err := h.carts.Clear(r.Context(), sessionID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear cart")
		return
	}

	redirect(w, r, "/cart", "")
}

// BuyNow overwrites the cart with a single unit and shows the confirmation.
func (h *CartHandler) BuyNow(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	productID, err := parseProductID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	product, err := h.carts.SetSingle(r.Context(), sessionID, productID)
	if err != nil {
		if errors.Is(err, cartservice.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to set cart")
		return
	}

	respondJSON(w, http.StatusOK, BuyNowDTO{
		Product: lineItemDTO(product, 1, product.EffectivePrice()),
	})
}

func parseProductID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

var errInvalidID = errors.New("invalid id in path")
