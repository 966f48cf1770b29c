package api

import (
	"net/http"
	"strconv"

	"github.com/example/ec-shop-api/internal/domain/activity"
)

// ActivityHandlers serves the audit trail to the admin dashboard.
type ActivityHandlers struct {
	activities *activity.Recorder
}

func NewActivityHandlers(activities *activity.Recorder) *ActivityHandlers {
	return &ActivityHandlers{activities: activities}
}

func (h *ActivityHandlers) Recent(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	offset := queryInt(r, "offset", 0)

	entityType := activity.EntityType(r.URL.Query().Get("entity_type"))
	entityID := r.URL.Query().Get("entity_id")

	var (
		records []*activity.Record
		err     error
	)
	if entityType != "" && entityID != "" {
		records, err = h.activities.ByEntity(r.Context(), entityType, entityID, limit)
	} else {
		records, err = h.activities.Recent(r.Context(), limit, offset)
	}
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
