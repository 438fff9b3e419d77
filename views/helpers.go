package views

import (
	"context"
	"encoding/json"
	"html"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// component wraps an HTML-building function as a templ.Component.
func component(f func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		f(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func esc(s string) string {
	return html.EscapeString(s)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}

// layout writes the shared HTML shell: head with SEO metadata, navigation,
// flash banner, footer with the newsletter form, and the engagement script.
func layout(cfg SiteConfig, meta PageMeta, flash Flash, body func(b *strings.Builder)) templ.Component {
	return component(func(b *strings.Builder) {
		title := meta.Title
		if title == "" {
			title = cfg.Name
		} else {
			title += " | " + cfg.Name
		}
		desc := meta.Description
		if desc == "" {
			desc = cfg.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		b.WriteString("<!DOCTYPE html><html lang=\"en\"><head>")
		b.WriteString("<meta charset=\"utf-8\"/>")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>")
		b.WriteString("<title>" + esc(title) + "</title>")
		if desc != "" {
			b.WriteString("<meta name=\"description\" content=\"" + esc(desc) + "\"/>")
		}
		if meta.URL != "" {
			b.WriteString("<link rel=\"canonical\" href=\"" + esc(meta.URL) + "\"/>")
			b.WriteString("<meta property=\"og:url\" content=\"" + esc(meta.URL) + "\"/>")
		}
		b.WriteString("<meta property=\"og:title\" content=\"" + esc(title) + "\"/>")
		if desc != "" {
			b.WriteString("<meta property=\"og:description\" content=\"" + esc(desc) + "\"/>")
		}
		b.WriteString("<meta property=\"og:type\" content=\"" + esc(ogType) + "\"/>")
		b.WriteString("<link rel=\"stylesheet\" href=\"/public/styles.css\"/>")
		b.WriteString("<link rel=\"alternate\" type=\"application/rss+xml\" title=\"" + esc(cfg.Name) + "\" href=\"/feed.xml\"/>")
		b.WriteString("</head><body>")

		b.WriteString("<header class=\"site-header\"><nav class=\"site-nav\">")
		b.WriteString("<a class=\"brand\" href=\"/\">" + esc(cfg.Name) + "</a>")
		b.WriteString("<a href=\"/services/\">Services</a>")
		b.WriteString("<a href=\"/about/\">About</a>")
		b.WriteString("<a href=\"/blog/\">Blog</a>")
		b.WriteString("<a href=\"/contact/\">Contact</a>")
		b.WriteString("<a href=\"/profile/\">Account</a>")
		b.WriteString("</nav></header>")

		if flash.Message != "" {
			kind := flash.Kind
			if kind != "success" {
				kind = "error"
			}
			b.WriteString("<div class=\"flash flash-" + kind + "\" role=\"status\">" + esc(flash.Message) + "</div>")
		}

		b.WriteString("<main class=\"site-main\">")
		body(b)
		b.WriteString("</main>")

		b.WriteString("<footer class=\"site-footer\">")
		b.WriteString("<form class=\"newsletter\" method=\"post\" action=\"/newsletter/\">")
		b.WriteString("<label for=\"newsletter-email\">Subscribe to our newsletter</label>")
		b.WriteString("<input id=\"newsletter-email\" type=\"email\" name=\"email\" placeholder=\"you@example.com\" required/>")
		b.WriteString("<button type=\"submit\">Subscribe</button>")
		b.WriteString("</form>")
		b.WriteString("<p>&copy; " + strconv.Itoa(time.Now().Year()) + " " + esc(cfg.Name) + "</p>")
		b.WriteString("</footer>")

		b.WriteString("<script src=\"/public/engagement.js\" defer></script>")
		b.WriteString("</body></html>")
	})
}

func csrfField(b *strings.Builder, token string) {
	b.WriteString("<input type=\"hidden\" name=\"_csrf\" value=\"" + esc(token) + "\"/>")
}

func postCard(b *strings.Builder, p Post) {
	b.WriteString("<article class=\"post-card\">")
	b.WriteString("<a href=\"" + esc(p.Link()) + "\">")
	b.WriteString("<img src=\"" + esc(p.HeroImage()) + "\" alt=\"\" loading=\"lazy\"/>")
	b.WriteString("</a>")
	if p.Category != "" {
		b.WriteString("<span class=\"post-category\">" + esc(p.Category) + "</span>")
	}
	b.WriteString("<h3><a href=\"" + esc(p.Link()) + "\">" + esc(p.Title) + "</a></h3>")
	if p.Excerpt != "" {
		b.WriteString("<p>" + esc(p.Excerpt) + "</p>")
	}
	b.WriteString("<div class=\"post-meta\">")
	b.WriteString("<span>" + esc(formatDate(p.CreatedAt)) + "</span>")
	if p.ReadTime != "" {
		b.WriteString("<span>" + esc(p.ReadTime) + "</span>")
	}
	b.WriteString("</div></article>")
}

// WebsiteJSONLD returns a JSON-LD string for a WebSite schema.
func WebsiteJSONLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         cfg.URL,
		"description": cfg.Description,
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJSONLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJSONLD(post Post, cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Excerpt,
		"datePublished": post.CreatedAt.Format(time.RFC3339),
		"dateModified":  post.UpdatedAt.Format(time.RFC3339),
		"url":           cfg.URL + post.Link(),
		"image":         post.HeroImage(),
	}
	if post.AuthorName != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  post.AuthorName,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
