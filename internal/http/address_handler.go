package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mariattjoseph2016-code/Masala-storys/internal/accounts/repository"
)

// AddressHandler exposes the address-book mutations invoked adjacent to
// checkout. These return a structured ack instead of a page redirect.
type AddressHandler struct {
	addresses repository.RepoInterface
}

func NewAddressHandler(addresses repository.RepoInterface) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

type SuccessDTO struct {
	Success bool `json:"success"`
}

func (h *AddressHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	addressID, err := parseAddressID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_address_id", "address id must be a positive integer")
		return
	}

	if err := h.addresses.SetDefault(r.Context(), sessionID, addressID); err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			respondError(w, http.StatusNotFound, "address_not_found", "address not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update address")
		return
	}

	respondJSON(w, http.StatusOK, SuccessDTO{Success: true})
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	addressID, err := parseAddressID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_address_id", "address id must be a positive integer")
		return
	}

	if err := h.addresses.Delete(r.Context(), sessionID, addressID); err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			respondError(w, http.StatusNotFound, "address_not_found", "address not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete address")
		return
	}

	respondJSON(w, http.StatusOK, SuccessDTO{Success: true})
}

func parseAddressID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "addressID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
