package web

import (
	"net/http"

	"connect/internal/adapters/http/middleware"
	"connect/internal/adapters/ws"
)

// registerRoutes mounts every API endpoint on mux.
func registerRoutes(mux *http.ServeMux, opts Options) {
	auth := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }

	mux.HandleFunc("GET /healthz", handleHealth)
	if opts.ExposePerf {
		mux.Handle("GET /api/perf", auth(handlePerf))
	}

	// Auth and profiles
	mux.HandleFunc("POST /api/auth/signup", handleSignUp)
	mux.HandleFunc("POST /api/auth/signin", handleSignIn)
	mux.Handle("POST /api/auth/signout", auth(handleSignOut))
	mux.Handle("GET /api/auth/session", auth(handleSession))
	mux.HandleFunc("POST /api/auth/reset", handleRequestPasswordReset)
	mux.HandleFunc("POST /api/auth/reset/confirm", handleConfirmPasswordReset)
	mux.Handle("GET /api/profiles/{id}", auth(handleGetProfile))
	mux.Handle("PATCH /api/profiles/{id}", auth(handleUpdateProfile))

	// Clubs
	mux.HandleFunc("GET /api/clubs", handleListClubs)
	mux.Handle("POST /api/clubs", auth(handleCreateClub))
	mux.HandleFunc("GET /api/clubs/{id}", handleGetClub)
	mux.Handle("DELETE /api/clubs/{id}", auth(handleDeleteClub))
	mux.Handle("POST /api/clubs/{id}/join", auth(handleJoinClub))
	mux.Handle("POST /api/clubs/{id}/leave", auth(handleLeaveClub))
	mux.HandleFunc("GET /api/clubs/{id}/events", handleListClubEvents)
	mux.Handle("POST /api/clubs/{id}/events", auth(handleCreateEvent))
	mux.HandleFunc("GET /api/clubs/{id}/posts", handleListClubPosts)
	mux.Handle("POST /api/clubs/{id}/posts", auth(handleCreatePost))
	mux.HandleFunc("GET /api/clubs/{id}/invite.png", handleClubInviteQR)

	// Events
	mux.HandleFunc("GET /api/events/{id}", handleGetEvent)
	mux.Handle("POST /api/events/{id}/rsvp", auth(handleRSVP))

	// Dashboard and notifications
	mux.Handle("GET /api/dashboard", auth(handleDashboard))
	mux.Handle("GET /api/notifications", auth(handleListNotifications))
	mux.Handle("POST /api/notifications/{id}/read", auth(handleMarkNotificationRead))

	// Generated copy
	mux.Handle("POST /api/copy/event", auth(handleEventCopy))
	mux.Handle("POST /api/copy/club", auth(handleClubCopy))

	// Auth-state stream
	mux.Handle("GET /ws", ws.NewHandler(hub, sessions, opts.AllowedOrigins))
}
