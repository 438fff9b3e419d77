package views

import (
	"strings"
	"time"

	"github.com/irudium/site/content"
)

// SiteConfig holds site-wide settings populated from environment variables.
// Every handler passes this to templates so nothing is hardcoded.
type SiteConfig struct {
	Name        string // SITE_NAME  (default "Irudium")
	URL         string // SITE_URL   (default "http://localhost:3000")
	Description string // SITE_DESCRIPTION
	Author      string // SITE_AUTHOR
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Profile roles. Editors and admins may manage posts and moderate comments;
// only admins may reassign roles.
const (
	RoleUser   = "user"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// Post is the core content type stored in SQLite and rendered by templates.
// Content is the legacy free-text body; Blocks is the typed body that wins
// over it when present. ImageURLs[0] is the hero image.
type Post struct {
	ID         string
	Title      string
	Excerpt    string
	Content    string
	Blocks     []content.Block
	ImageURLs  []string
	ImageURL   string // legacy singular hero, pre image_urls rows
	Category   string
	Tags       []string
	Featured   bool
	Published  bool
	AuthorID   string
	AuthorName string
	ReadTime   string
	LikesCount int
	ViewsCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Link returns the canonical site path for the post.
func (p Post) Link() string {
	return "/blog/" + p.ID + "/"
}

// HeroImage returns the hero image URL, falling back to the legacy singular
// column and finally to the bundled placeholder.
func (p Post) HeroImage() string {
	if len(p.ImageURLs) > 0 && p.ImageURLs[0] != "" {
		return p.ImageURLs[0]
	}
	if p.ImageURL != "" {
		return p.ImageURL
	}
	return "/public/placeholder.svg"
}

// Body resolves the post's content into renderable units (hero excluded).
func (p Post) Body() []content.Unit {
	return content.Resolve(p.Blocks, p.Content, p.Excerpt, p.ImageURLs)
}

// Flash is a one-shot notification popped from the session and rendered at
// the top of the next page. Kind is "success" or "error".
type Flash struct {
	Kind    string
	Message string
}

// Engagement is the session-scoped view of a post's interactive controls.
type Engagement struct {
	Liked      bool
	Bookmarked bool
	LikesCount int
}

// Comment is a reader comment on a post. New comments start unapproved and
// stay invisible to readers until a moderator approves them.
type Comment struct {
	ID         string
	PostID     string
	AuthorID   string
	AuthorName string
	Content    string
	LikesCount int
	Approved   bool
	CreatedAt  time.Time
}

// Profile is a registered account. Email and the password hash live on the
// same row; the hash never leaves the store layer.
type Profile struct {
	UserID      string
	Email       string
	DisplayName string
	Bio         string
	AvatarURL   string
	Role        string
	CreatedAt   time.Time
}

// IsModerator reports whether the profile may manage posts and comments.
func (p Profile) IsModerator() bool {
	return p.Role == RoleEditor || p.Role == RoleAdmin
}

// IsAdmin reports whether the profile may reassign user roles.
func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Name returns the display name with an email-localpart fallback.
func (p Profile) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if at := strings.IndexByte(p.Email, '@'); at > 0 {
		return p.Email[:at]
	}
	return "Anonymous"
}

// ContactMessage is a submission from the contact form. Email dispatch is
// owned by an external service; rows are kept for the dashboard.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Subject   string
	Message   string
	CreatedAt time.Time
}

// Subscriber is a newsletter signup.
type Subscriber struct {
	Email     string
	CreatedAt time.Time
}

// Category pairs a category label with its published-post count for the
// blog sidebar.
type Category struct {
	Name  string
	Count int
}

// DashboardStats are the aggregates shown on the dashboard stats tab.
type DashboardStats struct {
	TotalPosts       int
	PublishedPosts   int
	DraftPosts       int
	FeaturedPosts    int
	TotalComments    int
	PendingComments  int
	ApprovedComments int
	TotalUsers       int
	TotalSubscribers int
	TotalViews       int
	TotalLikes       int
}

// AvgViews returns the mean view count per post, zero-safe.
func (s DashboardStats) AvgViews() int {
	if s.TotalPosts == 0 {
		return 0
	}
	return s.TotalViews / s.TotalPosts
}

// AvgLikes returns the mean like count per post, zero-safe.
func (s DashboardStats) AvgLikes() int {
	if s.TotalPosts == 0 {
		return 0
	}
	return s.TotalLikes / s.TotalPosts
}

// EngagementRate returns likes per hundred views.
func (s DashboardStats) EngagementRate() float64 {
	if s.TotalViews == 0 {
		return 0
	}
	return float64(s.TotalLikes) / float64(s.TotalViews) * 100
}

// PublicationRate returns the published share of all posts, in percent.
func (s DashboardStats) PublicationRate() float64 {
	if s.TotalPosts == 0 {
		return 0
	}
	return float64(s.PublishedPosts) / float64(s.TotalPosts) * 100
}
