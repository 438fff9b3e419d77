package site

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/irudium/site/views"
)

// blogPageSize is how many posts the blog grid shows per "Load More" step.
const blogPageSize = 6

func (a *App) handleHome(c echo.Context) error {
	featured, hasFeatured, err := a.Cache.Featured()
	if err != nil {
		return err
	}
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	// Recent strip skips the featured post so the hero is not repeated.
	var recent []views.Post
	for _, p := range posts {
		if hasFeatured && p.ID == featured.ID {
			continue
		}
		recent = append(recent, p)
		if len(recent) == 3 {
			break
		}
	}
	return Render(c, views.Home(a.Config.Site, featured, hasFeatured, recent, takeFlash(c)))
}

func (a *App) handleServices(c echo.Context) error {
	return Render(c, views.Services(a.Config.Site))
}

func (a *App) handleAbout(c echo.Context) error {
	return Render(c, views.About(a.Config.Site))
}

func (a *App) handleBlog(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	category := strings.TrimSpace(c.QueryParam("category"))
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	posts, err := a.Cache.ListPosts(category)
	if err != nil {
		return err
	}
	if query != "" {
		posts = searchPosts(posts, query)
	}
	categories, err := a.Cache.ListCategories()
	if err != nil {
		return err
	}

	shown := page * blogPageSize
	hasMore := shown < len(posts)
	if shown > len(posts) {
		shown = len(posts)
	}
	return Render(c, views.Blog(a.Config.Site, posts[:shown], categories, query, category, page, hasMore, takeFlash(c)))
}

// searchPosts filters posts whose title, excerpt, category or tags contain
// the query, case-insensitively.
func searchPosts(posts []views.Post, query string) []views.Post {
	q := strings.ToLower(query)
	var out []views.Post
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Excerpt), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
			continue
		}
		for _, t := range p.Tags {
			if strings.Contains(strings.ToLower(t), q) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func (a *App) handlePost(c echo.Context) error {
	id := c.Param("id")
	post, err := a.Store.GetPublished(id)
	if err != nil {
		if err == ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return err
	}
	if err := a.Store.IncrementViews(id); err != nil {
		c.Logger().Errorf("increment views for %s: %v", id, err)
	} else {
		post.ViewsCount++
	}

	comments, err := a.Store.ListApprovedComments(id)
	if err != nil {
		return err
	}
	related, err := a.Store.ListRelated(post.Category, post.ID, 2)
	if err != nil {
		return err
	}
	eng := views.Engagement{
		Liked:      sessionFlag(c, likedKey(id)),
		Bookmarked: sessionFlag(c, bookmarkKey(id)),
		LikesCount: post.LikesCount,
	}
	profile, loggedIn := a.currentProfile(c)
	return Render(c, views.PostPage(views.PostPageData{
		Site:     a.Config.Site,
		Post:     post,
		Comments: comments,
		Related:  related,
		Eng:      eng,
		Viewer:   profile,
		LoggedIn: loggedIn,
		Flash:    takeFlash(c),
		Csrf:     CsrfToken(c),
	}))
}

// handleCommentSubmit stores a new comment in the moderation queue. Blank
// submissions are rejected before any write.
func (a *App) handleCommentSubmit(c echo.Context) error {
	id := c.Param("id")
	post, err := a.Store.GetPublished(id)
	if err != nil {
		if err == ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return err
	}
	profile, ok := a.currentProfile(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/login/")
	}
	body := strings.TrimSpace(c.FormValue("content"))
	if body == "" {
		flash(c, "error", "Comment cannot be empty.")
		return c.Redirect(http.StatusSeeOther, post.Link())
	}
	_, err = a.Store.InsertComment(views.Comment{
		PostID:     post.ID,
		AuthorID:   profile.UserID,
		AuthorName: profile.Name(),
		Content:    body,
	})
	if err != nil {
		flash(c, "error", "Failed to submit comment. Please try again.")
		return c.Redirect(http.StatusSeeOther, post.Link())
	}
	flash(c, "success", "Comment submitted and pending review.")
	return c.Redirect(http.StatusSeeOther, post.Link())
}

func (a *App) handleContactPage(c echo.Context) error {
	return Render(c, views.Contact(a.Config.Site, takeFlash(c), CsrfToken(c)))
}

func (a *App) handleContactSubmit(c echo.Context) error {
	msg := views.ContactMessage{
		Name:    strings.TrimSpace(c.FormValue("name")),
		Email:   strings.TrimSpace(c.FormValue("email")),
		Phone:   strings.TrimSpace(c.FormValue("phone")),
		Subject: strings.TrimSpace(c.FormValue("subject")),
		Message: strings.TrimSpace(c.FormValue("message")),
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		flash(c, "error", "Name, email and message are required.")
		return c.Redirect(http.StatusSeeOther, "/contact/")
	}
	saved, err := a.Store.InsertContactMessage(msg)
	if err != nil {
		flash(c, "error", "Failed to send your message. Please try again later.")
		return c.Redirect(http.StatusSeeOther, "/contact/")
	}
	// Email dispatch is external; the log line is the notifier hook.
	c.Logger().Infof("contact message %s from %s <%s>", saved.ID, saved.Name, saved.Email)
	flash(c, "success", "Thanks for reaching out! We'll get back to you soon.")
	return c.Redirect(http.StatusSeeOther, "/contact/")
}

func (a *App) handleNewsletterSubmit(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	back := c.FormValue("back")
	if back == "" {
		back = "/"
	}
	if email == "" || !strings.Contains(email, "@") {
		flash(c, "error", "Please enter a valid email address.")
		return c.Redirect(http.StatusSeeOther, back)
	}
	if err := a.Store.Subscribe(email); err != nil {
		flash(c, "error", "Subscription failed. Please try again later.")
		return c.Redirect(http.StatusSeeOther, back)
	}
	flash(c, "success", "You're subscribed to the newsletter.")
	return c.Redirect(http.StatusSeeOther, back)
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Disallow: /dashboard/\n")
	b.WriteString("Disallow: /profile/\n")
	b.WriteString("Sitemap: " + a.Config.Site.URL + "/sitemap.xml\n")
	return c.String(http.StatusOK, b.String())
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.Config.Site))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.Config.Site))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
