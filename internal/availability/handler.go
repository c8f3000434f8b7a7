package availability

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/leoman8109754gmailcom/mcm-cleaning/pkg/logging"
)

// Source supplies the operator-configured blocked ranges.
type Source interface {
	BlockedDates(ctx context.Context) ([]BlockedDateRange, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]BlockedDateRange, error)

func (f SourceFunc) BlockedDates(ctx context.Context) ([]BlockedDateRange, error) {
	return f(ctx)
}

// Handler serves the month grid for the availability widget.
type Handler struct {
	source Source
	now    func() time.Time
	loc    *time.Location
	logger *logging.Logger
}

// NewHandler creates a handler. loc is the business timezone used for "today";
// nil means UTC.
func NewHandler(source Source, loc *time.Location, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		source: source,
		now:    time.Now,
		loc:    loc,
		logger: logger,
	}
}

// GetMonth handles GET /api/availability?offset=N
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	offset := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("offset")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || !ValidOffset(parsed) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "offset must be between 0 and 2"})
			return
		}
		offset = parsed
	}

	ranges, err := h.source.BlockedDates(r.Context())
	if err != nil {
		h.logger.Error("failed to load blocked dates", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "availability is temporarily unavailable"})
		return
	}
	for _, br := range ranges {
		if br.Inverted() {
			h.logger.Warn("blocked date range ends before it starts",
				"start", br.Start.String(),
				"end", br.End.String(),
				"reason", br.Reason,
			)
		}
	}

	writeJSON(w, http.StatusOK, Build(h.now().In(h.loc), offset, ranges))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
