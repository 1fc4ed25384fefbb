package web

import (
	"net/http"

	"connect/internal/application/listutil"
	"connect/internal/application/orchestrators"
	"connect/internal/application/projections"
)

// Notification list sizes.
const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

// handleDashboard handles GET /api/dashboard
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	res, err := projections.QueryDashboard(r.Context(), sess.AccountID, projections.DashboardDeps{
		ProfileStore:      stores.ProfileStore,
		ClubStore:         stores.ClubStore,
		EventStore:        stores.EventStore,
		NotificationStore: stores.NotificationStore,
		Now:               timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleListNotifications handles GET /api/notifications
func handleListNotifications(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	limit := listutil.ParseLimit(r.URL.Query(), defaultNotificationLimit, maxNotificationLimit)
	res, err := projections.QueryNotifications(r.Context(), sess.AccountID, limit, stores.NotificationStore)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleMarkNotificationRead handles POST /api/notifications/{id}/read
func handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	n, err := orchestrators.ExecuteMarkNotificationRead(r.Context(), sess.AccountID, r.PathValue("id"), orchestrators.MarkNotificationReadDeps{
		NotificationStore: stores.NotificationStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// copyResponse carries generated marketing text.
type copyResponse struct {
	Text string
}

// handleEventCopy handles POST /api/copy/event
func handleEventCopy(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title    string   `json:"Title"`
		Tags     []string `json:"Tags"`
		Location string   `json:"Location"`
	}
	if err := strictDecode(w, r, &input); err != nil {
		badJSON(w)
		return
	}
	text, err := orchestrators.ExecuteGenerateEventCopy(r.Context(), orchestrators.EventCopyInput{
		Title:    input.Title,
		Tags:     input.Tags,
		Location: input.Location,
	}, orchestrators.GenerateCopyDeps{Copywriter: copywriter})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, copyResponse{Text: text})
}

// handleClubCopy handles POST /api/copy/club
func handleClubCopy(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"Name"`
		Category string `json:"Category"`
	}
	if err := strictDecode(w, r, &input); err != nil {
		badJSON(w)
		return
	}
	text, err := orchestrators.ExecuteGenerateClubCopy(r.Context(), orchestrators.ClubCopyInput{
		Name:     input.Name,
		Category: input.Category,
	}, orchestrators.GenerateCopyDeps{Copywriter: copywriter})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, copyResponse{Text: text})
}
