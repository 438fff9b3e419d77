package site

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/irudium/site/content"
	"github.com/irudium/site/views"
)

// handleDashboard renders the management dashboard. The tab query selects
// which panel loads its data; role checks already ran in requireRole.
func (a *App) handleDashboard(c echo.Context) error {
	profile := profileFromContext(c)
	tab := c.QueryParam("tab")
	switch tab {
	case "comments", "users", "stats", "messages":
	default:
		tab = "posts"
	}

	data := views.DashboardData{
		Site:   a.Config.Site,
		Viewer: profile,
		Tab:    tab,
		Flash:  takeFlash(c),
		Csrf:   CsrfToken(c),
	}

	var err error
	switch tab {
	case "posts":
		data.Posts, err = a.Store.ListAllPosts()
	case "comments":
		data.Comments, err = a.Store.ListAllComments()
	case "users":
		if !profile.IsAdmin() {
			flash(c, "error", "Access Denied: only admins can manage users.")
			return c.Redirect(http.StatusSeeOther, "/dashboard/")
		}
		data.Users, err = a.Store.ListProfiles()
	case "messages":
		data.Messages, err = a.Store.ListContactMessages()
		if err == nil {
			data.Subscribers, err = a.Store.ListSubscribers()
		}
	case "stats":
		data.Stats, err = a.computeStats()
	}
	if err != nil {
		return err
	}
	return Render(c, views.Dashboard(data))
}

func (a *App) computeStats() (views.DashboardStats, error) {
	var stats views.DashboardStats
	posts, err := a.Store.ListAllPosts()
	if err != nil {
		return stats, err
	}
	for _, p := range posts {
		stats.TotalPosts++
		if p.Published {
			stats.PublishedPosts++
		} else {
			stats.DraftPosts++
		}
		if p.Featured {
			stats.FeaturedPosts++
		}
		stats.TotalViews += p.ViewsCount
		stats.TotalLikes += p.LikesCount
	}
	comments, err := a.Store.ListAllComments()
	if err != nil {
		return stats, err
	}
	for _, cm := range comments {
		stats.TotalComments++
		if cm.Approved {
			stats.ApprovedComments++
		} else {
			stats.PendingComments++
		}
	}
	users, err := a.Store.ListProfiles()
	if err != nil {
		return stats, err
	}
	stats.TotalUsers = len(users)
	stats.TotalSubscribers, err = a.Store.CountSubscribers()
	return stats, err
}

func (a *App) handlePostNew(c echo.Context) error {
	return Render(c, views.PostForm(a.Config.Site, profileFromContext(c), views.Post{}, takeFlash(c), CsrfToken(c)))
}

func (a *App) handlePostEdit(c echo.Context) error {
	post, err := a.Store.GetPostAny(c.Param("id"))
	if err != nil {
		if err == ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return err
	}
	return Render(c, views.PostForm(a.Config.Site, profileFromContext(c), post, takeFlash(c), CsrfToken(c)))
}

// handlePostSave creates or updates a post from the block editor form. The
// form carries parallel block_type / block_content arrays, one entry per
// editor row; list blocks split their textarea into one item per line.
func (a *App) handlePostSave(c echo.Context) error {
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	profile := profileFromContext(c)
	form := c.Request().PostForm

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		flash(c, "error", "Title is required.")
		return c.Redirect(http.StatusSeeOther, "/dashboard/posts/new/")
	}

	post := views.Post{
		ID:        strings.TrimSpace(c.FormValue("id")),
		Title:     title,
		Excerpt:   strings.TrimSpace(c.FormValue("excerpt")),
		Content:   c.FormValue("content"),
		Category:  strings.TrimSpace(c.FormValue("category")),
		Featured:  c.FormValue("featured") != "",
		Published: c.FormValue("published") != "",
		ReadTime:  strings.TrimSpace(c.FormValue("read_time")),
	}

	tags := strings.Split(c.FormValue("tags"), ",")
	for i := range tags {
		tags[i] = strings.TrimSpace(tags[i])
	}
	post.Tags = FilterEmpty(tags)
	post.ImageURLs = FilterEmpty(strings.Split(c.FormValue("image_urls"), "\n"))
	post.Blocks = parseBlockForm(form["block_type"], form["block_content"])

	if post.ID == "" {
		post.AuthorID = profile.UserID
		post.AuthorName = profile.Name()
	} else {
		existing, err := a.Store.GetPostAny(post.ID)
		if err != nil {
			if err == ErrNotFound {
				return echo.NewHTTPError(http.StatusNotFound)
			}
			return err
		}
		post.AuthorID = existing.AuthorID
		post.AuthorName = existing.AuthorName
		post.CreatedAt = existing.CreatedAt
		post.ViewsCount = existing.ViewsCount
		post.LikesCount = existing.LikesCount
	}
	if post.ReadTime == "" {
		post.ReadTime = EstimateReadTime(blockText(post.Blocks) + " " + post.Content)
	}

	saved, err := a.Store.SavePost(post)
	if err != nil {
		flash(c, "error", "Failed to save the post. Please try again.")
		return c.Redirect(http.StatusSeeOther, "/dashboard/")
	}
	a.Cache.Invalidate()
	flash(c, "success", "Post saved.")
	return c.Redirect(http.StatusSeeOther, "/dashboard/posts/"+saved.ID+"/edit/")
}

// parseBlockForm pairs the editor's type and content arrays into blocks.
// Rows with empty content are dropped.
func parseBlockForm(types, contents []string) []content.Block {
	var blocks []content.Block
	for i, raw := range contents {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		kind := content.KindParagraph
		if i < len(types) {
			switch content.Kind(types[i]) {
			case content.KindHeading:
				kind = content.KindHeading
			case content.KindList:
				kind = content.KindList
			}
		}
		b := content.Block{Kind: kind}
		if kind == content.KindList {
			b.Items = FilterEmpty(strings.Split(text, "\n"))
			if len(b.Items) == 0 {
				continue
			}
		} else {
			b.Text = text
		}
		blocks = append(blocks, b)
	}
	return blocks
}

func blockText(blocks []content.Block) string {
	var b strings.Builder
	for _, bl := range blocks {
		b.WriteString(bl.Text)
		b.WriteByte(' ')
		for _, item := range bl.Items {
			b.WriteString(item)
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func (a *App) handlePostDelete(c echo.Context) error {
	if err := a.Store.DeletePost(c.Param("id")); err != nil {
		flash(c, "error", "Failed to delete the post.")
		return c.Redirect(http.StatusSeeOther, "/dashboard/")
	}
	a.Cache.Invalidate()
	flash(c, "success", "Post deleted.")
	return c.Redirect(http.StatusSeeOther, "/dashboard/")
}

func (a *App) handleCommentApprove(c echo.Context) error {
	return a.moderateComment(c, true)
}

func (a *App) handleCommentReject(c echo.Context) error {
	return a.moderateComment(c, false)
}

func (a *App) moderateComment(c echo.Context, approved bool) error {
	if err := a.Store.SetCommentApproved(c.Param("id"), approved); err != nil {
		flash(c, "error", "Failed to update the comment.")
		return c.Redirect(http.StatusSeeOther, "/dashboard/?tab=comments")
	}
	if approved {
		flash(c, "success", "Comment approved.")
	} else {
		flash(c, "success", "Comment rejected.")
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard/?tab=comments")
}

func (a *App) handleCommentDelete(c echo.Context) error {
	if err := a.Store.DeleteComment(c.Param("id")); err != nil {
		flash(c, "error", "Failed to delete the comment.")
		return c.Redirect(http.StatusSeeOther, "/dashboard/?tab=comments")
	}
	flash(c, "success", "Comment deleted.")
	return c.Redirect(http.StatusSeeOther, "/dashboard/?tab=comments")
}

// handleRoleUpdate reassigns an account's role. Routed behind the admin-only
// gate; self-demotion is refused so the last admin cannot lock everyone out.
func (a *App) handleRoleUpdate(c echo.Context) error {
	viewer := profileFromContext(c)
	userID := c.Param("id")
	role := c.FormValue("role")
	if userID == viewer.UserID {
		flash(c, "error", "You cannot change your own role.")
		return c.Redirect(http.StatusSeeOther, "/dashboard/?tab=users")
	}
	if err := a.Store.UpdateRole(userID, role); err != nil {
		if err == ErrInvalidRole {
			flash(c, "error", "Invalid role.")
		} else {
			flash(c, "error", "Failed to update the role.")
		}
		return c.Redirect(http.StatusSeeOther, "/dashboard/?tab=users")
	}
	flash(c, "success", "Role updated.")
	return c.Redirect(http.StatusSeeOther, "/dashboard/?tab=users")
}
