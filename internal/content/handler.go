package content

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leoman8109754gmailcom/mcm-cleaning/pkg/logging"
)

// Handler serves CMS documents to the site.
type Handler struct {
	source Source
	logger *logging.Logger
}

// NewHandler creates a content handler.
func NewHandler(source Source, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{source: source, logger: logger}
}

// GetDocument handles GET /api/content/{document}.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "document")
	data, err := h.source.Document(r.Context(), name)
	switch {
	case err == nil:
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=60")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	case errors.Is(err, ErrUnknownDocument), errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "document not found")
	default:
		h.logger.Error("content fetch failed", "document", name, "error", err)
		writeError(w, http.StatusBadGateway, "content is temporarily unavailable")
	}
}

// ListDocuments handles GET /api/content.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]string{"documents": Documents()})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
