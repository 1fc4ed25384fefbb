package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"connect/internal/adapters/http/middleware"
	"connect/internal/adapters/storage"
	"connect/internal/application/orchestrators"
	"connect/internal/domain/account"
	"connect/internal/domain/club"
	"connect/internal/domain/event"
	"connect/internal/domain/notification"
	"connect/internal/domain/post"
	"connect/internal/domain/profile"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// clubIDs hands out time-ordered club identifiers.
var clubIDs club.IDSequence

func generateClubID() string {
	return clubIDs.Next(timeNow())
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response_encode_failed", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// badJSON answers a body that failed strictDecode.
func badJSON(w http.ResponseWriter) {
	writeMessage(w, http.StatusBadRequest, "invalid JSON")
}

// validationErrors are reported to the client verbatim with 400.
var validationErrors = []error{
	account.ErrInvalidEmail, account.ErrEmptyEmail, account.ErrEmptyPassword,
	account.ErrPasswordTooShort, account.ErrTokenExpired, account.ErrTokenInvalid, account.ErrTokenUsed,
	profile.ErrEmptyName, profile.ErrNameTooLong, profile.ErrCityTooLong,
	profile.ErrInvalidInterest, profile.ErrNotEnoughInterests,
	club.ErrEmptyName, club.ErrNameTooLong, club.ErrInvalidCategory, club.ErrEmptyLocation,
	club.ErrInvalidVisibility, club.ErrEmptyOwner, club.ErrTooManyTags,
	event.ErrEmptyTitle, event.ErrTitleTooLong, event.ErrEmptyDate, event.ErrEmptyLocation,
	event.ErrEmptyClub, event.ErrNegativeCapacity, event.ErrInvalidStatus, event.ErrEmptyUser,
	post.ErrEmptyContent, post.ErrContentTooLong, post.ErrEmptyClub, post.ErrEmptyAuthor,
	notification.ErrEmptyUser, notification.ErrEmptyMessage, notification.ErrInvalidType,
}

// statusFor maps a domain or orchestrator error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, orchestrators.ErrForbidden),
		errors.Is(err, club.ErrNotOwner),
		errors.Is(err, club.ErrNotMember):
		return http.StatusForbidden
	case errors.Is(err, orchestrators.ErrEmailAlreadyExists),
		errors.Is(err, orchestrators.ErrOwnerCannotLeave),
		errors.Is(err, event.ErrEventFull):
		return http.StatusConflict
	case errors.Is(err, orchestrators.ErrAccountLocked):
		return http.StatusLocked
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// writeError answers err with its mapped status. Unmapped errors are hidden.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		internalError(w, err)
		return
	}
	msg := err.Error()
	if status == http.StatusNotFound {
		msg = "not found"
	}
	writeMessage(w, status, msg)
}

// requireSession returns the caller's session or answers 401.
func requireSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		slog.Warn("auth_denied", "path", r.URL.Path, "reason", "no session")
		writeMessage(w, http.StatusUnauthorized, "not authenticated")
		return middleware.Session{}, false
	}
	return sess, true
}

// viewerID is the caller's account ID, or "" for anonymous requests.
func viewerID(r *http.Request) string {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	return sess.AccountID
}

// handleHealth handles GET /healthz
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePerf handles GET /api/perf
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(timeNow().Add(-time.Hour), 10))
}
