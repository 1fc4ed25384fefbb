// Package genai writes short marketing copy for clubs and events.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"connect/internal/adapters/http/perf"
)

// Model is the Gemini model used for copy.
const Model = "gemini-2.5-flash"

// Fallback copy.
const (
	NoKeyEventDescription  = "Join us for an amazing event! (AI generation unavailable - API Key missing)"
	NoKeyClubMission       = "A community for like-minded individuals."
	FailedEventDescription = "Join us for an unforgettable experience."
	FailedClubMission      = "Connect, Share, Grow."
)

// Copywriter produces marketing copy. Implementations never fail: they fall
// back to static text and log the cause.
type Copywriter interface {
	EventDescription(ctx context.Context, title string, tags []string, location string) string
	ClubMission(ctx context.Context, name, category string) string
}

// StaticCopywriter is used when no API key is configured.
type StaticCopywriter struct{}

// EventDescription returns the missing-key fallback.
func (StaticCopywriter) EventDescription(context.Context, string, []string, string) string {
	return NoKeyEventDescription
}

// ClubMission returns the missing-key fallback.
func (StaticCopywriter) ClubMission(context.Context, string, string) string {
	return NoKeyClubMission
}

// generator is the slice of *genai.Models the copywriter needs.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiCopywriter asks Gemini for copy, rate limited and time boxed.
type GeminiCopywriter struct {
	models  generator
	limiter *rate.Limiter
	timeout time.Duration
	perf    *perf.Collector
}

// Options tunes a GeminiCopywriter.
type Options struct {
	PerMinute int           // requests allowed per minute, default 30
	Timeout   time.Duration // per-call deadline, default 10s
	// Collector, when set, records each call under its copy kind.
	Collector *perf.Collector
}

// New returns a GeminiCopywriter for apiKey, or a StaticCopywriter when apiKey is empty.
// PRE: ctx is valid
// POST: never returns a nil Copywriter when err is nil
func New(ctx context.Context, apiKey string, opts Options) (Copywriter, error) {
	if strings.TrimSpace(apiKey) == "" {
		slog.Warn("genai_disabled", "reason", "no api key")
		return StaticCopywriter{}, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return newGemini(client.Models, opts), nil
}

func newGemini(models generator, opts Options) *GeminiCopywriter {
	if opts.PerMinute <= 0 {
		opts.PerMinute = 30
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &GeminiCopywriter{
		models:  models,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.PerMinute)), 3),
		timeout: opts.Timeout,
		perf:    opts.Collector,
	}
}

// EventDescription writes a short, high-energy event blurb.
func (g *GeminiCopywriter) EventDescription(ctx context.Context, title string, tags []string, location string) string {
	prompt := fmt.Sprintf(
		"Write a short, exciting, high-energy event description (max 50 words) for an event titled %q. Tags: %s. Location: %s. Tone: Exclusive, premium, inviting.",
		title, strings.Join(tags, ", "), location)
	return g.generate(ctx, "event_description", prompt, FailedEventDescription)
}

// ClubMission writes a one-sentence mission statement.
func (g *GeminiCopywriter) ClubMission(ctx context.Context, name, category string) string {
	prompt := fmt.Sprintf(
		"Write a one-sentence, punchy, inspiring mission statement for a club named %q in the category %q.",
		name, category)
	return g.generate(ctx, "club_mission", prompt, FailedClubMission)
}

func (g *GeminiCopywriter) generate(ctx context.Context, kind, prompt, fallback string) string {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.limiter.Wait(ctx); err != nil {
		slog.Warn("genai_rate_limited", "kind", kind, "error", err)
		return fallback
	}

	start := time.Now()
	text, err := g.call(ctx, prompt)
	g.observe(kind, start, err != nil)
	if err != nil {
		slog.Error("genai_generate_failed", "kind", kind, "error", err)
		return fallback
	}
	slog.Debug("genai_generated", "kind", kind, "duration_ms", time.Since(start).Milliseconds())
	return text
}

var errEmptyResponse = errors.New("empty response")

func (g *GeminiCopywriter) call(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, Model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}

func (g *GeminiCopywriter) observe(kind string, start time.Time, failed bool) {
	if g.perf == nil {
		return
	}
	g.perf.Record(perf.Entry{
		Kind:       perf.KindCopy,
		Path:       kind,
		Failed:     failed,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Timestamp:  start,
	})
}
