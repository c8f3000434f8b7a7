package contact

import (
	"errors"
	"io"
	"net/http"
)

// maxBodyBytes caps a contact request body.
const maxBodyBytes = 64 << 10

// Handler serves the relay over net/http.
type Handler struct {
	relay *Relay
}

// NewHandler wraps a relay.
func NewHandler(relay *Relay) *Handler {
	return &Handler{relay: relay}
}

// ServeHTTP handles POST /api/contact. Every method reaches the relay so that
// non-POST requests receive the JSON 405 body.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if r.Method == http.MethodPost {
		var err error
		body, err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				h.relay.logger.Warn("contact body too large", "limit", tooLarge.Limit)
			}
			writeResponse(w, h.relay.reject(OutcomeInvalidJSON, http.StatusBadRequest, MsgInvalidJSON))
			return
		}
	}
	writeResponse(w, h.relay.Handle(r.Context(), r.Method, body))
}

func writeResponse(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	if resp.StatusCode == http.StatusMethodNotAllowed {
		w.Header().Set("Allow", http.MethodPost)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.JSON())
}
