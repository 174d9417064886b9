package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	cartapp "github.com/hoterry/whatsdish-mobile-sub001/internal/cart/app"
	catalogapp "github.com/hoterry/whatsdish-mobile-sub001/internal/catalog/app"
	checkoutapp "github.com/hoterry/whatsdish-mobile-sub001/internal/checkout/app"
	orderapp "github.com/hoterry/whatsdish-mobile-sub001/internal/order/app"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// httpStatusFromErr maps app-layer sentinels onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body; the original error only goes to
// the log.
func httpStatusFromErr(err error) (int, string) {
	switch {
	case errors.Is(err, catalogapp.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, cartapp.ErrLineNotFound):
		return http.StatusNotFound, "LINE_NOT_FOUND"
	case errors.Is(err, cartapp.ErrInvalidQuantity):
		return http.StatusBadRequest, "INVALID_QUANTITY"
	case errors.Is(err, checkoutapp.ErrEmptyCart):
		return http.StatusConflict, "EMPTY_CART"
	case errors.Is(err, checkoutapp.ErrItemUnavailable):
		return http.StatusConflict, "ITEM_UNAVAILABLE"
	case errors.Is(err, checkoutapp.ErrPriceChanged):
		return http.StatusConflict, "PRICE_CHANGED"
	case errors.Is(err, checkoutapp.ErrInvalidPricingInput):
		return http.StatusBadRequest, "INVALID_PRICING_INPUT"
	case errors.Is(err, catalogapp.ErrMalformedCatalog):
		return http.StatusBadGateway, "MALFORMED_CATALOG"
	case errors.Is(err, orderapp.ErrInvalidOrder):
		return http.StatusUnprocessableEntity, "INVALID_ORDER"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, err error) {
	status, code := httpStatusFromErr(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", slog.Any("err", err))
		respondWithJSON(w, status, errorResponse{Error: "internal error", Code: code})
		return
	}
	respondWithJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, errorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", slog.Any("err", err))
	}
}
