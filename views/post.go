package views

import (
	"context"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/irudium/site/content"
)

// PostPageData carries everything the article page needs.
type PostPageData struct {
	Site     SiteConfig
	Post     Post
	Comments []Comment
	Related  []Post
	Eng      Engagement
	Viewer   Profile
	LoggedIn bool
	Flash    Flash
	Csrf     string
}

// PostPage renders a full article: hero, body, engagement bar, comments and
// related posts.
func PostPage(d PostPageData) templ.Component {
	p := d.Post
	meta := PageMeta{
		Title:       p.Title,
		Description: p.Excerpt,
		URL:         d.Site.URL + p.Link(),
		OGType:      "article",
	}
	return layout(d.Site, meta, d.Flash, func(b *strings.Builder) {
		b.WriteString("<script type=\"application/ld+json\">" + BlogPostingJSONLD(p, d.Site) + "</script>")

		b.WriteString("<article class=\"post\">")
		b.WriteString("<header class=\"post-header\">")
		if p.Category != "" {
			b.WriteString("<span class=\"post-category\">" + esc(p.Category) + "</span>")
		}
		b.WriteString("<h1>" + esc(p.Title) + "</h1>")
		b.WriteString("<div class=\"post-meta\">")
		if p.AuthorName != "" {
			b.WriteString("<span>" + esc(p.AuthorName) + "</span>")
		}
		b.WriteString("<span>" + esc(formatDate(p.CreatedAt)) + "</span>")
		if p.ReadTime != "" {
			b.WriteString("<span>" + esc(p.ReadTime) + "</span>")
		}
		b.WriteString("<span>" + strconv.Itoa(p.ViewsCount) + " views</span>")
		b.WriteString("</div>")
		b.WriteString("<img class=\"post-hero\" src=\"" + esc(p.HeroImage()) + "\" alt=\"\"/>")
		b.WriteString("</header>")

		b.WriteString("<div class=\"post-body\">")
		renderBody(b, p.Body())
		b.WriteString("</div>")

		engagementBar(b, d)

		if len(p.Tags) > 0 {
			b.WriteString("<ul class=\"post-tags\">")
			for _, t := range p.Tags {
				b.WriteString("<li>" + esc(t) + "</li>")
			}
			b.WriteString("</ul>")
		}
		b.WriteString("</article>")

		commentSection(b, d)

		if len(d.Related) > 0 {
			b.WriteString("<section class=\"related\"><h2>Related articles</h2><div class=\"post-grid\">")
			for _, r := range d.Related {
				postCard(b, r)
			}
			b.WriteString("</div></section>")
		}
	})
}

// renderBody writes the resolved content units inline. Delegating to the
// content package keeps the fallback and interleaving policy in one place.
func renderBody(b *strings.Builder, units []content.Unit) {
	var inner strings.Builder
	_ = content.Body(units).Render(context.Background(), &inner)
	b.WriteString(inner.String())
}

func engagementBar(b *strings.Builder, d PostPageData) {
	p := d.Post
	b.WriteString("<div class=\"engagement\">")

	likeLabel := "Like"
	if d.Eng.Liked {
		likeLabel = "Liked"
	}
	b.WriteString("<form method=\"post\" action=\"" + esc(p.Link()) + "like/\">")
	csrfField(b, d.Csrf)
	b.WriteString("<button type=\"submit\" class=\"like\">" + likeLabel + " (" + strconv.Itoa(d.Eng.LikesCount) + ")</button>")
	b.WriteString("</form>")

	bookmarkLabel := "Bookmark"
	if d.Eng.Bookmarked {
		bookmarkLabel = "Bookmarked"
	}
	b.WriteString("<form method=\"post\" action=\"" + esc(p.Link()) + "bookmark/\">")
	csrfField(b, d.Csrf)
	b.WriteString("<button type=\"submit\" class=\"bookmark\">" + bookmarkLabel + "</button>")
	b.WriteString("</form>")

	b.WriteString("<button type=\"button\" class=\"share\" data-share-url=\"" + esc(d.Site.URL+p.Link()) + "\" data-share-title=\"" + esc(p.Title) + "\">Share</button>")
	b.WriteString("</div>")
}

func commentSection(b *strings.Builder, d PostPageData) {
	b.WriteString("<section class=\"comments\"><h2>Comments (" + strconv.Itoa(len(d.Comments)) + ")</h2>")

	for _, cm := range d.Comments {
		b.WriteString("<article class=\"comment\">")
		b.WriteString("<header><strong>" + esc(cm.AuthorName) + "</strong>")
		b.WriteString("<time>" + esc(formatDate(cm.CreatedAt)) + "</time></header>")
		b.WriteString("<p>" + esc(cm.Content) + "</p>")
		b.WriteString("<form method=\"post\" action=\"/comments/" + esc(cm.ID) + "/like/\">")
		csrfField(b, d.Csrf)
		b.WriteString("<input type=\"hidden\" name=\"post_id\" value=\"" + esc(cm.PostID) + "\"/>")
		b.WriteString("<button type=\"submit\" class=\"comment-like\">Like (" + strconv.Itoa(cm.LikesCount) + ")</button>")
		b.WriteString("</form>")
		b.WriteString("</article>")
	}
	if len(d.Comments) == 0 {
		b.WriteString("<p class=\"empty\">No comments yet. Be the first to share your thoughts.</p>")
	}

	if d.LoggedIn {
		b.WriteString("<form class=\"comment-form\" method=\"post\" action=\"" + esc(d.Post.Link()) + "comments/\">")
		csrfField(b, d.Csrf)
		b.WriteString("<label>Add a comment<textarea name=\"content\" rows=\"4\" required></textarea></label>")
		b.WriteString("<p class=\"note\">Comments are reviewed before they appear.</p>")
		b.WriteString("<button type=\"submit\">Submit comment</button>")
		b.WriteString("</form>")
	} else {
		b.WriteString("<p><a href=\"/login/\">Sign in</a> to join the discussion.</p>")
	}
	b.WriteString("</section>")
}
