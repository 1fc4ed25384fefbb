package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"connect/internal/application/listutil"
	"connect/internal/application/projections"
	"connect/internal/domain/club"
	"connect/internal/domain/event"
	"connect/internal/domain/notification"
	"connect/internal/domain/post"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match a 404.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// api is the JSON transport shared by Remote and RemoteAuth.
type api struct {
	baseURL    string
	httpClient *http.Client
	token      func() string
}

func newAPI(baseURL string, httpClient *http.Client, token func() string) api {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if token == nil {
		token = func() string { return "" }
	}
	return api{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient, token: token}
}

// do sends body as JSON and decodes a 2xx reply into out. A nil out discards it.
func (a api) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var buf io.Reader
	if body != nil {
		b := &bytes.Buffer{}
		if err := json.NewEncoder(b).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		buf = b
	}

	u := a.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	rq, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	rq.Header.Set("Accept", "application/json")
	if body != nil {
		rq.Header.Set("Content-Type", "application/json")
	}
	if token := a.token(); token != "" {
		rq.Header.Set("Authorization", "Bearer "+token)
	}

	rs, err := a.httpClient.Do(rq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer rs.Body.Close()

	if rs.StatusCode < 200 || rs.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(rs.Body, 1<<16))
		if json.Unmarshal(data, &e) != nil {
			e.Error = strings.TrimSpace(string(data))
		}
		return &APIError{Status: rs.StatusCode, Message: e.Error}
	}
	if out == nil || rs.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(rs.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Remote is a DataAccess backed by the Connect JSON API.
// Writes act as the signed-in user, so the userID arguments of JoinClub,
// LeaveClub, RSVPEvent and ListNotifications must name that user.
type Remote struct {
	api api
}

// NewRemote returns a client for the API at baseURL. token supplies the
// bearer token for each request and may return "" when signed out.
func NewRemote(baseURL string, httpClient *http.Client, token func() string) *Remote {
	return &Remote{api: newAPI(baseURL, httpClient, token)}
}

func (r *Remote) ListClubs(ctx context.Context, filter ClubFilter) ([]club.Club, error) {
	var out []club.Club
	if err := r.api.do(ctx, http.MethodGet, "/api/clubs", listutil.EncodeClubFilter(filter), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Remote) GetClub(ctx context.Context, clubID string) (club.Club, error) {
	var out projections.ClubDetailResult
	if err := r.api.do(ctx, http.MethodGet, "/api/clubs/"+url.PathEscape(clubID), nil, nil, &out); err != nil {
		return club.Club{}, err
	}
	return out.Club, nil
}

func (r *Remote) ListEvents(ctx context.Context, clubID string) ([]event.Event, error) {
	var out []event.Event
	if err := r.api.do(ctx, http.MethodGet, "/api/clubs/"+url.PathEscape(clubID)+"/events", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Remote) GetEvent(ctx context.Context, eventID string) (event.Event, error) {
	var out projections.EventDetailResult
	if err := r.api.do(ctx, http.MethodGet, "/api/events/"+url.PathEscape(eventID), nil, nil, &out); err != nil {
		return event.Event{}, err
	}
	return out.Event, nil
}

func (r *Remote) ListPosts(ctx context.Context, clubID string) ([]post.Post, error) {
	var views []projections.PostView
	if err := r.api.do(ctx, http.MethodGet, "/api/clubs/"+url.PathEscape(clubID)+"/posts", nil, nil, &views); err != nil {
		return nil, err
	}
	out := make([]post.Post, len(views))
	for i, v := range views {
		out[i] = v.Post
	}
	return out, nil
}

// ListNotifications returns the signed-in user's notifications.
func (r *Remote) ListNotifications(ctx context.Context, _ string) ([]notification.Notification, error) {
	var out projections.NotificationsResult
	if err := r.api.do(ctx, http.MethodGet, "/api/notifications", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Notifications, nil
}

func (r *Remote) JoinClub(ctx context.Context, clubID, _ string) (club.Club, error) {
	var out club.Club
	err := r.api.do(ctx, http.MethodPost, "/api/clubs/"+url.PathEscape(clubID)+"/join", nil, nil, &out)
	return out, err
}

func (r *Remote) LeaveClub(ctx context.Context, clubID, _ string) (club.Club, error) {
	var out club.Club
	err := r.api.do(ctx, http.MethodPost, "/api/clubs/"+url.PathEscape(clubID)+"/leave", nil, nil, &out)
	return out, err
}

// CreateClub creates a club owned by the signed-in user. OwnerID and
// FounderName are set by the server.
func (r *Remote) CreateClub(ctx context.Context, in ClubInput) (club.Club, error) {
	body := struct {
		Name        string
		Description string
		Category    string
		Location    string
		Visibility  string
		Tags        []string
		Image       string
		CoverImage  string
		FounderBio  string
	}{in.Name, in.Description, in.Category, in.Location, in.Visibility, in.Tags, in.Image, in.CoverImage, in.FounderBio}
	var out club.Club
	err := r.api.do(ctx, http.MethodPost, "/api/clubs", nil, body, &out)
	return out, err
}

func (r *Remote) DeleteClub(ctx context.Context, clubID string) error {
	return r.api.do(ctx, http.MethodDelete, "/api/clubs/"+url.PathEscape(clubID), nil, nil, nil)
}

func (r *Remote) CreateEvent(ctx context.Context, in EventInput) (event.Event, error) {
	body := struct {
		Title       string
		Description string
		Date        time.Time
		Location    string
		Capacity    int
		Image       string
		BannerImage string
	}{in.Title, in.Description, in.Date, in.Location, in.Capacity, in.Image, in.BannerImage}
	var out event.Event
	err := r.api.do(ctx, http.MethodPost, "/api/clubs/"+url.PathEscape(in.ClubID)+"/events", nil, body, &out)
	return out, err
}

func (r *Remote) RSVPEvent(ctx context.Context, eventID, _ string, status string) (event.Event, error) {
	var out event.Event
	err := r.api.do(ctx, http.MethodPost, "/api/events/"+url.PathEscape(eventID)+"/rsvp", nil,
		struct{ Status string }{status}, &out)
	return out, err
}

var (
	_ DataAccess = (*Mock)(nil)
	_ DataAccess = (*Remote)(nil)
)
