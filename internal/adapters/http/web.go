package web

import (
	"net/http"
	"time"

	"connect/internal/adapters/email"
	"connect/internal/adapters/genai"
	"connect/internal/adapters/http/middleware"
	"connect/internal/adapters/http/perf"
	accountStore "connect/internal/adapters/storage/account"
	clubStore "connect/internal/adapters/storage/club"
	eventStore "connect/internal/adapters/storage/event"
	notificationStore "connect/internal/adapters/storage/notification"
	postStore "connect/internal/adapters/storage/post"
	profileStore "connect/internal/adapters/storage/profile"
	"connect/internal/adapters/ws"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore      accountStore.Store
	ProfileStore      profileStore.Store
	ClubStore         clubStore.Store
	EventStore        eventStore.Store
	PostStore         postStore.Store
	NotificationStore notificationStore.Store
}

// Options configures NewMux. Zero values fall back to safe development defaults.
type Options struct {
	Stores     *Stores
	Collector  *perf.Collector
	Sender     email.Sender
	Copywriter genai.Copywriter
	// Hub must be running (Hub.Run) for /ws to accept connections.
	Hub *ws.Hub

	JWTSecret []byte
	AccessTTL time.Duration
	CSRFKey   []byte

	PublicURL      string
	AllowedOrigins []string
	Production     bool

	// Limiter is shared with the caller so it can run Cleanup; when nil one
	// is built from RatePerSecond and RateBurst.
	Limiter       *middleware.RateLimiter
	RatePerSecond float64
	RateBurst     int
	SlowRequest   time.Duration

	// ExposePerf serves the perf snapshot at GET /api/perf.
	ExposePerf bool
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global collaborators (set by NewMux)
var (
	emailSender email.Sender
	copywriter  genai.Copywriter
	hub         *ws.Hub
	publicURL   string
)

// NewMux wires HTTP handlers for the API.
// PRE: opts.Stores is fully populated; len(opts.JWTSecret) > 0
func NewMux(opts Options) http.Handler {
	stores = opts.Stores
	perfCollector = opts.Collector
	sessions = middleware.NewSessionStore(opts.JWTSecret, withDefault(opts.AccessTTL, 24*time.Hour))
	publicURL = opts.PublicURL
	if publicURL == "" {
		publicURL = "http://localhost:8080"
	}

	emailSender = opts.Sender
	if emailSender == nil {
		emailSender = email.NewNoopSender()
	}
	copywriter = opts.Copywriter
	if copywriter == nil {
		copywriter = genai.StaticCopywriter{}
	}
	hub = opts.Hub
	if hub == nil {
		hub = ws.NewHub()
	}

	mux := http.NewServeMux()
	registerRoutes(mux, opts)

	limiter := opts.Limiter
	if limiter == nil {
		rps, burst := opts.RatePerSecond, opts.RateBurst
		if rps <= 0 {
			rps = 10
		}
		if burst <= 0 {
			burst = 30
		}
		limiter = middleware.NewRateLimiter(rps, burst)
	}

	csrfKey := opts.CSRFKey
	if len(csrfKey) != 32 {
		csrfKey = opts.JWTSecret[:min(32, len(opts.JWTSecret))]
	}

	// Apply middleware: Timing -> CORS -> SecurityHeaders -> RateLimit -> CSRF -> Auth -> Mux
	return middleware.Chain(mux,
		middleware.Auth(sessions),
		middleware.CSRF(csrfKey, opts.Production, opts.AllowedOrigins),
		middleware.RateLimit(limiter),
		middleware.SecurityHeaders,
		middleware.CORS(opts.AllowedOrigins),
		middleware.Timing(opts.Collector, opts.SlowRequest),
	)
}

func withDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
