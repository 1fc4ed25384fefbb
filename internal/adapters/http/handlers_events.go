package web

import (
	"net/http"

	"connect/internal/application/orchestrators"
	"connect/internal/application/projections"
)

// handleGetEvent handles GET /api/events/{id}
func handleGetEvent(w http.ResponseWriter, r *http.Request) {
	res, err := projections.QueryEventDetail(r.Context(), r.PathValue("id"), viewerID(r), projections.EventDetailDeps{
		EventStore: stores.EventStore,
		ClubStore:  stores.ClubStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleRSVP handles POST /api/events/{id}/rsvp
func handleRSVP(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		Status string `json:"Status"`
	}
	if err := strictDecode(w, r, &input); err != nil {
		badJSON(w)
		return
	}
	e, err := orchestrators.ExecuteRSVP(r.Context(), orchestrators.RSVPInput{
		UserID:  sess.AccountID,
		EventID: r.PathValue("id"),
		Status:  input.Status,
	}, orchestrators.RSVPDeps{
		EventStore:        stores.EventStore,
		ClubStore:         stores.ClubStore,
		ProfileStore:      stores.ProfileStore,
		NotificationStore: stores.NotificationStore,
		Publisher:         hub,
		GenerateID:        generateID,
		Now:               timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}
