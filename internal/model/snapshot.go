package model

import (
	"strings"
	"time"
)

// PlatformX is the platform name used for snapshots built from X API data.
const PlatformX = "twitter"

// SnapshotFromX converts an X user and their recent tweets into a ProfileSnapshot.
func SnapshotFromX(u User, tweets []Tweet) ProfileSnapshot {
	posts := make([]Post, 0, len(tweets))
	for _, t := range tweets {
		p := Post{ID: t.ID, Content: t.Text}
		if !t.CreatedAt.IsZero() {
			p.Timestamp = t.CreatedAt.UTC().Format(time.RFC3339)
		}
		posts = append(posts, p)
	}
	return ProfileSnapshot{
		Platform: PlatformX,
		Username: u.Username,
		Bio:      u.Description,
		Metadata: &Metadata{
			Followers:  u.FollowersCount,
			Following:  u.FollowingCount,
			PostsCount: u.TweetCount,
			Verified:   u.Verified,
		},
		Posts: posts,
	}
}

// CombinedText joins the bio and post contents with single spaces, skipping empty parts.
func (p ProfileSnapshot) CombinedText() string {
	parts := make([]string, 0, len(p.Posts)+1)
	if p.Bio != "" {
		parts = append(parts, p.Bio)
	}
	for _, post := range p.Posts {
		if post.Content != "" {
			parts = append(parts, post.Content)
		}
	}
	return strings.Join(parts, " ")
}
