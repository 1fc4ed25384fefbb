package web

import (
	"net/http"
	"net/url"
	"time"

	"connect/internal/adapters/http/middleware"
	"connect/internal/application/orchestrators"
	"connect/internal/domain/profile"
)

// sessionResponse is returned by sign-up, sign-in and session lookups.
type sessionResponse struct {
	Token     string
	ExpiresAt time.Time
	Profile   profile.Profile
}

func issueSession(w http.ResponseWriter, status int, p profile.Profile) {
	token, expires, err := sessions.Create(p.ID, p.Email)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, status, sessionResponse{Token: token, ExpiresAt: expires, Profile: p})
}

// handleSignUp handles POST /api/auth/signup
func handleSignUp(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"Email"`
		Password string `json:"Password"`
		Name     string `json:"Name"`
	}
	if err := strictDecode(w, r, &input); err != nil {
		badJSON(w)
		return
	}
	p, err := orchestrators.ExecuteSignUp(r.Context(), orchestrators.SignUpInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
	}, orchestrators.SignUpDeps{
		AccountStore: stores.AccountStore,
		ProfileStore: stores.ProfileStore,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	issueSession(w, http.StatusCreated, p)
}

// handleSignIn handles POST /api/auth/signin
func handleSignIn(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"Email"`
		Password string `json:"Password"`
	}
	if err := strictDecode(w, r, &input); err != nil {
		badJSON(w)
		return
	}
	p, err := orchestrators.ExecuteSignIn(r.Context(), orchestrators.SignInInput{
		Email:    input.Email,
		Password: input.Password,
	}, orchestrators.SignInDeps{
		AccountStore: stores.AccountStore,
		ProfileStore: stores.ProfileStore,
		Publisher:    hub,
		Now:          timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	issueSession(w, http.StatusOK, p)
}

// handleSignOut handles POST /api/auth/signout
func handleSignOut(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	sessions.Delete(middleware.BearerToken(r))
	if err := orchestrators.ExecuteSignOut(r.Context(), sess.AccountID, orchestrators.SignOutDeps{Publisher: hub}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSession handles GET /api/auth/session
func handleSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	p, err := stores.ProfileStore.GetByID(r.Context(), sess.AccountID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Token:     middleware.BearerToken(r),
		ExpiresAt: sess.ExpiresAt,
		Profile:   p,
	})
}

// handleRequestPasswordReset handles POST /api/auth/reset
// The response is the same whether or not the address has an account.
func handleRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"Email"`
	}
	if err := strictDecode(w, r, &input); err != nil {
		badJSON(w)
		return
	}
	err := orchestrators.ExecuteRequestPasswordReset(r.Context(), input.Email, orchestrators.RequestPasswordResetDeps{
		AccountStore: stores.AccountStore,
		ProfileStore: stores.ProfileStore,
		Sender:       emailSender,
		ResetLink:    resetLink,
		NewToken:     orchestrators.GenerateResetToken,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "If that address has an account, a reset link is on its way."})
}

func resetLink(token string) string {
	return publicURL + "/reset-password?token=" + url.QueryEscape(token)
}

// handleConfirmPasswordReset handles POST /api/auth/reset/confirm
func handleConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Token       string `json:"Token"`
		NewPassword string `json:"NewPassword"`
	}
	if err := strictDecode(w, r, &input); err != nil {
		badJSON(w)
		return
	}
	err := orchestrators.ExecuteConfirmPasswordReset(r.Context(), orchestrators.ConfirmPasswordResetInput{
		Token:       input.Token,
		NewPassword: input.NewPassword,
	}, orchestrators.ConfirmPasswordResetDeps{
		AccountStore: stores.AccountStore,
		Now:          timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetProfile handles GET /api/profiles/{id}
func handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := stores.ProfileStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if p.ID != viewerID(r) {
		p.Email = ""
	}
	writeJSON(w, http.StatusOK, p)
}

// handleUpdateProfile handles PATCH /api/profiles/{id}
func handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		Name      *string   `json:"Name"`
		Avatar    *string   `json:"Avatar"`
		City      *string   `json:"City"`
		Interests *[]string `json:"Interests"`
	}
	if err := strictDecode(w, r, &input); err != nil {
		badJSON(w)
		return
	}
	p, err := orchestrators.ExecuteUpdateProfile(r.Context(), orchestrators.UpdateProfileInput{
		ActorID:   sess.AccountID,
		ProfileID: r.PathValue("id"),
		Update: profile.Update{
			Name:      input.Name,
			Avatar:    input.Avatar,
			City:      input.City,
			Interests: input.Interests,
		},
	}, orchestrators.UpdateProfileDeps{
		ProfileStore: stores.ProfileStore,
		Publisher:    hub,
		Now:          timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
