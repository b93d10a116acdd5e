package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/shiva/autospecs/internal/upstream"
)

// ProxyHandler exposes the two thin upstream relays. Both are pure
// request/response passthroughs: no auth, no rate limiting, no state.
type ProxyHandler struct {
	carquery *upstream.CarQueryClient
	nhtsa    *upstream.NHTSAClient
}

// NewProxyHandler creates a proxy handler wired to both upstream clients.
func NewProxyHandler(carquery *upstream.CarQueryClient, nhtsa *upstream.NHTSAClient) *ProxyHandler {
	return &ProxyHandler{carquery: carquery, nhtsa: nhtsa}
}

// CarQuery handles GET /api/carquery?make=&model=&year=
//
// Forwards to the trims aggregator. A malformed upstream body yields
// data:null with success:true — only a transport failure is an error.
func (h *ProxyHandler) CarQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	data, err := h.carquery.GetTrims(r.Context(), q.Get("make"), q.Get("model"), q.Get("year"))
	if err != nil {
		log.Printf("[proxy] carquery fetch failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "fetch_failed",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    nullable(data),
	})
}

// NHTSA handles GET /api/nhtsa?make=&model=&year=
//
// Forwards to the registry's types-by-make endpoint (model and year are
// accepted for interface symmetry but the registry cannot filter on
// them). Non-2xx upstream responses surface as 502 with a body snippet;
// transport failures as 500.
func (h *ProxyHandler) NHTSA(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	data, err := h.nhtsa.GetVehicleTypesForMake(r.Context(), q.Get("make"))
	if err != nil {
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) {
			writeJSON(w, http.StatusBadGateway, map[string]interface{}{
				"success":     false,
				"status":      statusErr.StatusCode,
				"statusText":  statusErr.StatusText,
				"bodySnippet": statusErr.BodySnippet,
			})
			return
		}
		log.Printf("[proxy] nhtsa fetch failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "fetch_failed",
			"details": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    nullable(data),
	})
}

// nullable maps an absent payload to an explicit JSON null.
func nullable(data json.RawMessage) interface{} {
	if data == nil {
		return nil
	}
	return data
}
