package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const accountContextKey contextKey = "account"

// tokenIssuer is the "iss" claim on every access token.
const tokenIssuer = "connect"

// ErrInvalidToken is returned for malformed, expired, forged or revoked tokens.
var ErrInvalidToken = errors.New("invalid access token")

// Session represents an authenticated request.
type Session struct {
	AccountID string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// Claims is the payload of an access token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// SessionStore issues signed access tokens and remembers the ones revoked by sign-out.
// Tokens are stateless HS256 JWTs; only revocations are held in memory, and only
// until the token would have expired anyway.
type SessionStore struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	revoked map[string]time.Time // jti -> expiry
}

// NewSessionStore creates a session store signing with secret.
// PRE: len(secret) > 0; ttl > 0
func NewSessionStore(secret []byte, ttl time.Duration) *SessionStore {
	return &SessionStore{
		secret:  secret,
		ttl:     ttl,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}
}

// Create signs a new access token for the account.
// PRE: accountID is non-empty
// POST: returns the token and the instant it stops being accepted
func (ss *SessionStore) Create(accountID, email string) (string, time.Time, error) {
	now := ss.now()
	expires := now.Add(ss.ttl)
	claims := Claims{
		UserID: accountID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   accountID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ss.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expires, nil
}

// Get resolves a token to its session.
// POST: returns false for invalid, expired or revoked tokens
func (ss *SessionStore) Get(token string) (Session, bool) {
	claims, err := ss.parse(token)
	if err != nil {
		return Session{}, false
	}
	ss.mu.RLock()
	_, revoked := ss.revoked[claims.ID]
	ss.mu.RUnlock()
	if revoked {
		return Session{}, false
	}
	return Session{
		AccountID: claims.UserID,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, true
}

// Delete revokes the token. Unknown or already invalid tokens are ignored.
// POST: Get(token) reports false from now on
func (ss *SessionStore) Delete(token string) {
	claims, err := ss.parse(token)
	if err != nil {
		return
	}
	now := ss.now()
	ss.mu.Lock()
	defer ss.mu.Unlock()
	for id, exp := range ss.revoked {
		if now.After(exp) {
			delete(ss.revoked, id)
		}
	}
	ss.revoked[claims.ID] = claims.ExpiresAt.Time
}

// ValidateAccessToken returns the user the token was issued to.
func (ss *SessionStore) ValidateAccessToken(token string) (string, error) {
	sess, ok := ss.Get(token)
	if !ok {
		return "", ErrInvalidToken
	}
	return sess.AccountID, nil
}

func (ss *SessionStore) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return ss.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ss.now),
	)
	if err != nil || !parsed.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// Auth returns middleware that resolves the bearer token and sets the session in context.
// It does NOT block unauthenticated requests; use RequireAuth for that.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := BearerToken(r); token != "" {
				if session, ok := sessions.Get(token); ok {
					r = r.WithContext(ContextWithSession(r.Context(), session))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that blocks unauthenticated requests with a JSON 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "not authenticated"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(accountContextKey).(Session)
	return session, ok
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, accountContextKey, sess)
}
