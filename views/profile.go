package views

import (
	"strings"

	"github.com/a-h/templ"
)

// ProfilePage renders the account page: editable profile fields, a logout
// button, and the user's authored posts when they have any.
func ProfilePage(cfg SiteConfig, p Profile, posts []Post, flash Flash, csrf string) templ.Component {
	return layout(cfg, PageMeta{Title: "Your profile"}, flash, func(b *strings.Builder) {
		b.WriteString("<section class=\"profile\"><h1>Your profile</h1>")
		b.WriteString("<p class=\"profile-email\">" + esc(p.Email) + " &middot; " + esc(p.Role) + "</p>")

		b.WriteString("<form method=\"post\" action=\"/profile/\">")
		csrfField(b, csrf)
		b.WriteString("<label>Display name<input type=\"text\" name=\"display_name\" value=\"" + esc(p.DisplayName) + "\"/></label>")
		b.WriteString("<label>Bio<textarea name=\"bio\" rows=\"4\">" + esc(p.Bio) + "</textarea></label>")
		b.WriteString("<label>Avatar URL<input type=\"url\" name=\"avatar_url\" value=\"" + esc(p.AvatarURL) + "\"/></label>")
		b.WriteString("<button type=\"submit\">Save changes</button>")
		b.WriteString("</form>")

		if p.IsModerator() {
			b.WriteString("<p><a href=\"/dashboard/\">Open the dashboard</a></p>")
		}

		if len(posts) > 0 {
			b.WriteString("<h2>Your posts</h2><div class=\"post-grid\">")
			for _, post := range posts {
				postCard(b, post)
			}
			b.WriteString("</div>")
		}

		b.WriteString("<form class=\"logout\" method=\"post\" action=\"/logout/\">")
		csrfField(b, csrf)
		b.WriteString("<button type=\"submit\">Sign out</button>")
		b.WriteString("</form>")
		b.WriteString("</section>")
	})
}
