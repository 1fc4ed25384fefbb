// Package sample holds the starter clubs, events, posts and notifications
// used to seed an empty database and the in-memory data shim.
package sample

import (
	"time"

	"connect/internal/domain/club"
	"connect/internal/domain/event"
	"connect/internal/domain/notification"
	"connect/internal/domain/post"
)

// Host owns every sample club. It has no password and cannot sign in.
const (
	HostID    = "connect-team"
	HostName  = "Connect Team"
	HostEmail = "team@connect.local"
)

func img(seed string) string {
	return "https://picsum.photos/seed/" + seed + "/800/600"
}

func cover(seed string) string {
	return "https://picsum.photos/seed/" + seed + "/1600/600"
}

// Clubs returns a fresh copy of the sample clubs.
func Clubs(now time.Time) []club.Club {
	created := now.Add(-90 * 24 * time.Hour)
	c := func(id, name, category, location string, members int, tags []string, desc, founder, bio string) club.Club {
		return club.Club{
			ID:          id,
			Name:        name,
			Description: desc,
			Category:    category,
			MemberCount: members,
			Image:       img(id),
			CoverImage:  cover(id),
			Tags:        tags,
			Visibility:  club.VisibilityPublic,
			Location:    location,
			OwnerID:     HostID,
			FounderName: founder,
			FounderBio:  bio,
			CreatedAt:   created,
		}
	}
	return []club.Club{
		c("c1", "Midnight Readers", "Books", "Austin", 342, []string{"Fiction", "BookClub", "Nightowls"},
			"A late-night book club for people who finish novels at 2am.", "Maya Chen", "Librarian by day, insomniac by night."),
		c("c2", "Trail Blazers", "Running", "Denver", 1240, []string{"Running", "Trails", "Outdoors"},
			"Weekend trail runs across the Front Range, all paces welcome.", "Jordan Reyes", "Ultramarathoner and coffee snob."),
		c("c3", "Byte Club", "Tech", "San Francisco", 2180, []string{"Coding", "AI", "Hackathons"},
			"Builders who ship side projects together every month.", "Sam Patel", "Engineer who never stops tinkering."),
		c("c4", "Synth Collective", "Music", "Berlin", 615, []string{"Synth", "Electronic", "Jam"},
			"Modular synth jams and gear swaps.", "Lena Vogel", "Sound designer and tape loop collector."),
		c("c5", "Founders Breakfast", "Startups", "New York", 890, []string{"Founders", "Networking", "Pitch"},
			"Early-stage founders trading war stories over pancakes.", "Alex Kim", "Two exits, one spectacular failure."),
		c("c6", "Golden Hour", "Photography", "Austin", 430, []string{"Street", "Film", "PhotoWalk"},
			"Photo walks timed to the best light of the day.", "Priya Nair", "Shoots 35mm film and nothing else."),
		c("c7", "Check Mates", "Chess", "London", 275, []string{"Chess", "Blitz", "Strategy"},
			"Casual blitz nights and a monthly rapid tournament.", "Tom Hughes", "Club champion, terrible at bullet."),
		c("c8", "Pixel Guild", "Gaming", "Tokyo", 1530, []string{"Indie", "Retro", "CoOp"},
			"Indie and retro co-op sessions every Friday.", "Yuki Sato", "Collects consoles older than she is."),
	}
}

// Events returns the sample events, dated relative to now.
func Events(now time.Time) []event.Event {
	day := 24 * time.Hour
	base := now.Truncate(time.Hour)
	e := func(id, clubID, title, location string, in time.Duration, capacity int, desc string) event.Event {
		return event.Event{
			ID:          id,
			ClubID:      clubID,
			Title:       title,
			Description: desc,
			Date:        base.Add(in),
			Location:    location,
			Image:       img(id),
			BannerImage: cover(id),
			Capacity:    capacity,
			RSVPs:       map[string]string{},
			CreatedAt:   now,
		}
	}
	return []event.Event{
		e("e1", "c1", "Silent Reading Party", "BookPeople, Austin", 3*day, 40,
			"Bring a book, grab a tea, read together in silence for two hours."),
		e("e2", "c2", "Sunrise Trail Run", "Red Rocks Park", 5*day, 0,
			"A 10k loop with a sunrise view. Coffee afterwards."),
		e("e3", "c3", "Ship It Hack Night", "SoMa Co-working", 7*day, 60,
			"Bring a half-finished project and leave with something deployed."),
		e("e4", "c3", "AI Demo Day", "Moscone West", 21*day, 200,
			"Five-minute demos of things members built with language models."),
		e("e5", "c6", "Golden Hour Walk", "South Congress Bridge", 2*day, 25,
			"Meet at the bridge forty minutes before sunset."),
		e("e6", "c8", "Retro Co-op Night", "Akihabara Game Bar", 4*day, 30,
			"Four-player classics on original hardware."),
	}
}

// Posts returns the sample board posts.
func Posts(now time.Time) []post.Post {
	p := func(id, clubID, author, content string, likes int, ago time.Duration) post.Post {
		return post.Post{
			ID:        id,
			ClubID:    clubID,
			Author:    post.Author{ID: HostID, Name: author, Avatar: "https://picsum.photos/seed/" + author + "/200"},
			Content:   content,
			Likes:     likes,
			CreatedAt: now.Add(-ago),
		}
	}
	return []post.Post{
		p("p1", "c1", "Maya Chen", "This month we're reading **Piranesi**. Spoilers in the thread below!", 24, 2*time.Hour),
		p("p2", "c3", "Sam Patel", "Hack night recap:\n\n- 14 projects demoed\n- 3 shipped to prod\n- 1 laptop fan died", 57, 26*time.Hour),
		p("p3", "c2", "Jordan Reyes", "Trail conditions are *muddy*. Bring spare socks.", 12, 5*time.Hour),
	}
}

// Notifications returns starter notifications addressed to userID.
func Notifications(userID string, now time.Time) []notification.Notification {
	n := func(id, typ, msg, link string, ago time.Duration) notification.Notification {
		return notification.Notification{
			ID:        id,
			UserID:    userID,
			Type:      typ,
			Message:   msg,
			LinkID:    link,
			View:      notification.DefaultView(typ),
			CreatedAt: now.Add(-ago),
		}
	}
	return []notification.Notification{
		n("n1", notification.TypeEventInvite, "You're invited to Ship It Hack Night", "e3", time.Hour),
		n("n2", notification.TypeNewPost, "Maya Chen posted in Midnight Readers", "c1", 3*time.Hour),
		n("n3", notification.TypeClubJoin, "Welcome to Connect! Explore clubs near you.", "c6", 24*time.Hour),
	}
}
