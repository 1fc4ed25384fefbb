package web

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"

	"connect/internal/application/listutil"
	"connect/internal/application/orchestrators"
	"connect/internal/application/projections"
)

// maxPostLimit bounds the limit parameter on board listings.
const maxPostLimit = 200

// handleListClubs handles GET /api/clubs
func handleListClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := projections.QueryListClubs(r.Context(), listutil.ParseClubFilter(r.URL.Query()), projections.ListClubsDeps{
		ClubStore: stores.ClubStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clubs)
}

// handleCreateClub handles POST /api/clubs
func handleCreateClub(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		Name        string   `json:"Name"`
		Description string   `json:"Description"`
		Category    string   `json:"Category"`
		Location    string   `json:"Location"`
		Visibility  string   `json:"Visibility"`
		Tags        []string `json:"Tags"`
		Image       string   `json:"Image"`
		CoverImage  string   `json:"CoverImage"`
		FounderBio  string   `json:"FounderBio"`
	}
	if err := strictDecode(w, r, &input); err != nil {
		badJSON(w)
		return
	}
	c, err := orchestrators.ExecuteCreateClub(r.Context(), orchestrators.CreateClubInput{
		OwnerID:     sess.AccountID,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Location:    input.Location,
		Visibility:  input.Visibility,
		Tags:        input.Tags,
		Image:       input.Image,
		CoverImage:  input.CoverImage,
		FounderBio:  input.FounderBio,
	}, orchestrators.CreateClubDeps{
		ClubStore:    stores.ClubStore,
		ProfileStore: stores.ProfileStore,
		Copywriter:   copywriter,
		GenerateID:   generateClubID,
		Now:          timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// handleGetClub handles GET /api/clubs/{id}
func handleGetClub(w http.ResponseWriter, r *http.Request) {
	res, err := projections.QueryClubDetail(r.Context(), projections.ClubDetailQuery{
		ClubID:   r.PathValue("id"),
		ViewerID: viewerID(r),
	}, projections.ClubDetailDeps{
		ClubStore:  stores.ClubStore,
		EventStore: stores.EventStore,
		PostStore:  stores.PostStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleDeleteClub handles DELETE /api/clubs/{id}
func handleDeleteClub(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	err := orchestrators.ExecuteDeleteClub(r.Context(), orchestrators.MembershipInput{
		UserID: sess.AccountID,
		ClubID: r.PathValue("id"),
	}, orchestrators.DeleteClubDeps{ClubStore: stores.ClubStore})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleJoinClub handles POST /api/clubs/{id}/join
func handleJoinClub(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	c, err := orchestrators.ExecuteJoinClub(r.Context(), orchestrators.MembershipInput{
		UserID: sess.AccountID,
		ClubID: r.PathValue("id"),
	}, orchestrators.JoinClubDeps{
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
	writeJSON(w, http.StatusOK, c)
}

// handleLeaveClub handles POST /api/clubs/{id}/leave
func handleLeaveClub(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	c, err := orchestrators.ExecuteLeaveClub(r.Context(), orchestrators.MembershipInput{
		UserID: sess.AccountID,
		ClubID: r.PathValue("id"),
	}, orchestrators.LeaveClubDeps{ClubStore: stores.ClubStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleListClubEvents handles GET /api/clubs/{id}/events
func handleListClubEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	if _, err := stores.ClubStore.GetByID(ctx, id); err != nil {
		writeError(w, err)
		return
	}
	events, err := stores.EventStore.ListByClub(ctx, id)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// handleCreateEvent handles POST /api/clubs/{id}/events
func handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		Title       string    `json:"Title"`
		Description string    `json:"Description"`
		Date        time.Time `json:"Date"`
		Location    string    `json:"Location"`
		Capacity    int       `json:"Capacity"`
		Image       string    `json:"Image"`
		BannerImage string    `json:"BannerImage"`
	}
	if err := strictDecode(w, r, &input); err != nil {
		badJSON(w)
		return
	}
	e, err := orchestrators.ExecuteCreateEvent(r.Context(), orchestrators.CreateEventInput{
		ActorID:     sess.AccountID,
		ClubID:      r.PathValue("id"),
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		Location:    input.Location,
		Capacity:    input.Capacity,
		Image:       input.Image,
		BannerImage: input.BannerImage,
	}, orchestrators.CreateEventDeps{
		ClubStore:         stores.ClubStore,
		EventStore:        stores.EventStore,
		NotificationStore: stores.NotificationStore,
		Publisher:         hub,
		Copywriter:        copywriter,
		GenerateID:        generateID,
		Now:               timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// handleListClubPosts handles GET /api/clubs/{id}/posts
func handleListClubPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	if _, err := stores.ClubStore.GetByID(ctx, id); err != nil {
		writeError(w, err)
		return
	}
	limit := listutil.ParseLimit(r.URL.Query(), projections.DefaultPostLimit, maxPostLimit)
	posts, err := stores.PostStore.ListByClub(ctx, id, limit)
	if err != nil {
		internalError(w, err)
		return
	}
	views := make([]projections.PostView, len(posts))
	for i, p := range posts {
		views[i] = projections.PostView{Post: p, HTML: projections.RenderMarkdown(p.Content)}
	}
	writeJSON(w, http.StatusOK, views)
}

// handleCreatePost handles POST /api/clubs/{id}/posts
func handleCreatePost(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		Content string `json:"Content"`
	}
	if err := strictDecode(w, r, &input); err != nil {
		badJSON(w)
		return
	}
	p, err := orchestrators.ExecuteCreatePost(r.Context(), orchestrators.CreatePostInput{
		AuthorID: sess.AccountID,
		ClubID:   r.PathValue("id"),
		Content:  input.Content,
	}, orchestrators.CreatePostDeps{
		ClubStore:         stores.ClubStore,
		ProfileStore:      stores.ProfileStore,
		PostStore:         stores.PostStore,
		NotificationStore: stores.NotificationStore,
		Publisher:         hub,
		GenerateID:        generateID,
		Now:               timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, projections.PostView{Post: p, HTML: projections.RenderMarkdown(p.Content)})
}

// inviteLink is the page a scanned invite code opens.
func inviteLink(clubID string) string {
	return publicURL + "/clubs/" + clubID + "?invite=1"
}

// nopWriteCloser lets the QR writer close without closing the response.
type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// handleClubInviteQR handles GET /api/clubs/{id}/invite.png
func handleClubInviteQR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	if _, err := stores.ClubStore.GetByID(ctx, id); err != nil {
		writeError(w, err)
		return
	}

	qr, err := qrcode.New(inviteLink(id))
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	qrW := standard.NewWithWriter(nopWriteCloser{w},
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
		standard.WithQRWidth(8),
	)
	defer func() {
		_ = qrW.Close()
	}()
	if err := qr.Save(qrW); err != nil {
		slog.ErrorContext(ctx, "qrcode_save_failed", "club_id", id, "error", err)
	}
}
