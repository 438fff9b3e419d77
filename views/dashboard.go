package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/irudium/site/content"
)

// DashboardData carries the active tab's rows into the dashboard template.
type DashboardData struct {
	Site   SiteConfig
	Viewer Profile
	Tab    string
	Flash  Flash
	Csrf   string

	Posts       []Post
	Comments    []Comment
	Users       []Profile
	Messages    []ContactMessage
	Subscribers []Subscriber
	Stats       DashboardStats
}

// Dashboard renders the management dashboard with its tab bar and the
// selected panel.
func Dashboard(d DashboardData) templ.Component {
	return layout(d.Site, PageMeta{Title: "Dashboard"}, d.Flash, func(b *strings.Builder) {
		b.WriteString("<section class=\"dashboard\">")
		b.WriteString("<h1>Dashboard</h1>")
		b.WriteString("<p class=\"viewer\">Signed in as " + esc(d.Viewer.Name()) + " (" + esc(d.Viewer.Role) + ")</p>")

		b.WriteString("<nav class=\"dashboard-tabs\">")
		tabs := [][2]string{{"posts", "Posts"}, {"comments", "Comments"}, {"messages", "Messages"}, {"stats", "Stats"}}
		if d.Viewer.IsAdmin() {
			tabs = append(tabs, [2]string{"users", "Users"})
		}
		for _, t := range tabs {
			cls := ""
			if t[0] == d.Tab {
				cls = " class=\"active\""
			}
			b.WriteString("<a" + cls + " href=\"/dashboard/?tab=" + t[0] + "\">" + t[1] + "</a>")
		}
		b.WriteString("</nav>")

		switch d.Tab {
		case "comments":
			commentsPanel(b, d)
		case "users":
			usersPanel(b, d)
		case "messages":
			messagesPanel(b, d)
		case "stats":
			statsPanel(b, d.Stats)
		default:
			postsPanel(b, d)
		}
		b.WriteString("</section>")
	})
}

func postsPanel(b *strings.Builder, d DashboardData) {
	b.WriteString("<div class=\"panel\">")
	b.WriteString("<a class=\"new-post\" href=\"/dashboard/posts/new/\">New post</a>")
	b.WriteString("<table><thead><tr><th>Title</th><th>Category</th><th>Status</th><th>Views</th><th>Likes</th><th></th></tr></thead><tbody>")
	for _, p := range d.Posts {
		b.WriteString("<tr><td><a href=\"/dashboard/posts/" + esc(p.ID) + "/edit/\">" + esc(p.Title) + "</a></td>")
		b.WriteString("<td>" + esc(p.Category) + "</td>")
		status := "Draft"
		if p.Published {
			status = "Published"
		}
		if p.Featured {
			status += " &middot; Featured"
		}
		b.WriteString("<td>" + status + "</td>")
		b.WriteString("<td>" + strconv.Itoa(p.ViewsCount) + "</td>")
		b.WriteString("<td>" + strconv.Itoa(p.LikesCount) + "</td>")
		b.WriteString("<td><form method=\"post\" action=\"/dashboard/posts/" + esc(p.ID) + "/delete/\" data-confirm=\"Delete this post and its comments?\">")
		csrfField(b, d.Csrf)
		b.WriteString("<button type=\"submit\" class=\"danger\">Delete</button></form></td></tr>")
	}
	b.WriteString("</tbody></table></div>")
}

func commentsPanel(b *strings.Builder, d DashboardData) {
	b.WriteString("<div class=\"panel\">")
	if len(d.Comments) == 0 {
		b.WriteString("<p class=\"empty\">No comments yet.</p>")
	}
	for _, cm := range d.Comments {
		b.WriteString("<article class=\"moderation\">")
		b.WriteString("<header><strong>" + esc(cm.AuthorName) + "</strong>")
		b.WriteString("<time>" + esc(formatDate(cm.CreatedAt)) + "</time>")
		if cm.Approved {
			b.WriteString("<span class=\"badge approved\">Approved</span>")
		} else {
			b.WriteString("<span class=\"badge pending\">Pending</span>")
		}
		b.WriteString("</header>")
		b.WriteString("<p>" + esc(cm.Content) + "</p>")
		b.WriteString("<div class=\"actions\">")
		if !cm.Approved {
			b.WriteString("<form method=\"post\" action=\"/dashboard/comments/" + esc(cm.ID) + "/approve/\">")
			csrfField(b, d.Csrf)
			b.WriteString("<button type=\"submit\">Approve</button></form>")
		} else {
			b.WriteString("<form method=\"post\" action=\"/dashboard/comments/" + esc(cm.ID) + "/reject/\">")
			csrfField(b, d.Csrf)
			b.WriteString("<button type=\"submit\">Unapprove</button></form>")
		}
		b.WriteString("<form method=\"post\" action=\"/dashboard/comments/" + esc(cm.ID) + "/delete/\" data-confirm=\"Delete this comment permanently?\">")
		csrfField(b, d.Csrf)
		b.WriteString("<button type=\"submit\" class=\"danger\">Delete</button></form>")
		b.WriteString("</div></article>")
	}
	b.WriteString("</div>")
}

func usersPanel(b *strings.Builder, d DashboardData) {
	b.WriteString("<div class=\"panel\">")
	b.WriteString("<table><thead><tr><th>Name</th><th>Email</th><th>Joined</th><th>Role</th></tr></thead><tbody>")
	for _, u := range d.Users {
		b.WriteString("<tr><td>" + esc(u.Name()) + "</td>")
		b.WriteString("<td>" + esc(u.Email) + "</td>")
		b.WriteString("<td>" + esc(formatDate(u.CreatedAt)) + "</td>")
		b.WriteString("<td>")
		if u.UserID == d.Viewer.UserID {
			b.WriteString(esc(u.Role))
		} else {
			b.WriteString("<form method=\"post\" action=\"/dashboard/users/" + esc(u.UserID) + "/role/\">")
			csrfField(b, d.Csrf)
			b.WriteString("<select name=\"role\">")
			for _, role := range []string{RoleUser, RoleEditor, RoleAdmin} {
				sel := ""
				if role == u.Role {
					sel = " selected"
				}
				b.WriteString("<option value=\"" + role + "\"" + sel + ">" + role + "</option>")
			}
			b.WriteString("</select><button type=\"submit\">Update</button></form>")
		}
		b.WriteString("</td></tr>")
	}
	b.WriteString("</tbody></table></div>")
}

func messagesPanel(b *strings.Builder, d DashboardData) {
	b.WriteString("<div class=\"panel\">")
	if len(d.Messages) == 0 {
		b.WriteString("<p class=\"empty\">No messages yet.</p>")
	}
	for _, m := range d.Messages {
		b.WriteString("<article class=\"message\">")
		b.WriteString("<header><strong>" + esc(m.Name) + "</strong> &lt;" + esc(m.Email) + "&gt;")
		b.WriteString("<time>" + esc(formatDate(m.CreatedAt)) + "</time></header>")
		if m.Subject != "" {
			b.WriteString("<h3>" + esc(m.Subject) + "</h3>")
		}
		b.WriteString("<p>" + esc(m.Message) + "</p>")
		b.WriteString("</article>")
	}
	if len(d.Subscribers) > 0 {
		b.WriteString("<h3>Newsletter subscribers</h3><ul class=\"subscribers\">")
		for _, sub := range d.Subscribers {
			b.WriteString("<li>" + esc(sub.Email) + " <time>" + esc(formatDate(sub.CreatedAt)) + "</time></li>")
		}
		b.WriteString("</ul>")
	}
	b.WriteString("</div>")
}

func statsPanel(b *strings.Builder, s DashboardStats) {
	b.WriteString("<div class=\"panel stats-grid\">")
	stat := func(label string, value string) {
		b.WriteString("<div class=\"stat\"><span class=\"value\">" + value + "</span><span class=\"label\">" + label + "</span></div>")
	}
	stat("Total posts", strconv.Itoa(s.TotalPosts))
	stat("Published", strconv.Itoa(s.PublishedPosts))
	stat("Drafts", strconv.Itoa(s.DraftPosts))
	stat("Featured", strconv.Itoa(s.FeaturedPosts))
	stat("Total views", strconv.Itoa(s.TotalViews))
	stat("Total likes", strconv.Itoa(s.TotalLikes))
	stat("Avg views/post", strconv.Itoa(s.AvgViews()))
	stat("Avg likes/post", strconv.Itoa(s.AvgLikes()))
	stat("Comments", strconv.Itoa(s.TotalComments))
	stat("Pending review", strconv.Itoa(s.PendingComments))
	stat("Users", strconv.Itoa(s.TotalUsers))
	stat("Subscribers", strconv.Itoa(s.TotalSubscribers))
	stat("Engagement rate", fmt.Sprintf("%.1f%%", s.EngagementRate()))
	stat("Publication rate", fmt.Sprintf("%.1f%%", s.PublicationRate()))
	b.WriteString("</div>")
}

// PostForm renders the block editor for creating or updating a post.
func PostForm(cfg SiteConfig, viewer Profile, p Post, flash Flash, csrf string) templ.Component {
	title := "New post"
	if p.ID != "" {
		title = "Edit post"
	}
	return layout(cfg, PageMeta{Title: title}, flash, func(b *strings.Builder) {
		b.WriteString("<section class=\"dashboard\"><h1>" + title + "</h1>")
		b.WriteString("<form class=\"post-form\" method=\"post\" action=\"/dashboard/posts/save/\">")
		csrfField(b, csrf)
		b.WriteString("<input type=\"hidden\" name=\"id\" value=\"" + esc(p.ID) + "\"/>")
		b.WriteString("<label>Title<input type=\"text\" name=\"title\" value=\"" + esc(p.Title) + "\" required/></label>")
		b.WriteString("<label>Excerpt<textarea name=\"excerpt\" rows=\"2\">" + esc(p.Excerpt) + "</textarea></label>")
		b.WriteString("<label>Category<input type=\"text\" name=\"category\" value=\"" + esc(p.Category) + "\"/></label>")
		b.WriteString("<label>Tags (comma separated)<input type=\"text\" name=\"tags\" value=\"" + esc(strings.Join(p.Tags, ", ")) + "\"/></label>")
		b.WriteString("<label>Read time<input type=\"text\" name=\"read_time\" value=\"" + esc(p.ReadTime) + "\" placeholder=\"5 min read\"/></label>")
		b.WriteString("<label>Image URLs (one per line, first is the hero)<textarea name=\"image_urls\" rows=\"3\">" + esc(strings.Join(p.ImageURLs, "\n")) + "</textarea></label>")

		b.WriteString("<fieldset class=\"blocks\"><legend>Content blocks</legend>")
		blocks := p.Blocks
		if len(blocks) == 0 {
			blocks = []content.Block{{Kind: content.KindParagraph}}
		}
		for _, bl := range blocks {
			blockRow(b, bl)
		}
		// Spare rows let a plain-form editor add content without scripting.
		for i := 0; i < 3; i++ {
			blockRow(b, content.Block{Kind: content.KindParagraph})
		}
		b.WriteString("</fieldset>")

		b.WriteString("<label>Legacy body (used when no blocks are set)<textarea name=\"content\" rows=\"6\">" + esc(p.Content) + "</textarea></label>")

		checked := func(v bool) string {
			if v {
				return " checked"
			}
			return ""
		}
		b.WriteString("<label class=\"inline\"><input type=\"checkbox\" name=\"published\" value=\"1\"" + checked(p.Published) + "/> Published</label>")
		b.WriteString("<label class=\"inline\"><input type=\"checkbox\" name=\"featured\" value=\"1\"" + checked(p.Featured) + "/> Featured</label>")

		b.WriteString("<button type=\"submit\">Save</button>")
		b.WriteString("</form>")
		b.WriteString("<p><a href=\"/dashboard/\">Back to dashboard</a></p>")
		b.WriteString("</section>")
	})
}

func blockRow(b *strings.Builder, bl content.Block) {
	b.WriteString("<div class=\"block-row\"><select name=\"block_type\">")
	for _, k := range []content.Kind{content.KindParagraph, content.KindHeading, content.KindList} {
		sel := ""
		if k == bl.Kind {
			sel = " selected"
		}
		b.WriteString("<option value=\"" + string(k) + "\"" + sel + ">" + string(k) + "</option>")
	}
	b.WriteString("</select>")
	text := bl.Text
	if bl.Kind == content.KindList {
		text = strings.Join(bl.Items, "\n")
	}
	b.WriteString("<textarea name=\"block_content\" rows=\"3\" placeholder=\"List blocks take one item per line\">" + esc(text) + "</textarea>")
	b.WriteString("</div>")
}
