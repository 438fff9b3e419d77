package views

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// Home renders the landing page: hero, featured post, recent posts strip.
func Home(cfg SiteConfig, featured Post, hasFeatured bool, recent []Post, flash Flash) templ.Component {
	meta := PageMeta{URL: cfg.URL + "/"}
	return layout(cfg, meta, flash, func(b *strings.Builder) {
		b.WriteString("<script type=\"application/ld+json\">" + WebsiteJSONLD(cfg) + "</script>")

		b.WriteString("<section class=\"hero\">")
		b.WriteString("<h1>Digital products, built right</h1>")
		b.WriteString("<p>" + esc(cfg.Description) + "</p>")
		b.WriteString("<a class=\"cta\" href=\"/contact/\">Start a project</a>")
		b.WriteString("</section>")

		if hasFeatured {
			b.WriteString("<section class=\"featured\"><h2>Featured</h2>")
			postCard(b, featured)
			b.WriteString("</section>")
		}

		if len(recent) > 0 {
			b.WriteString("<section class=\"recent\"><h2>Latest from the blog</h2><div class=\"post-grid\">")
			for _, p := range recent {
				postCard(b, p)
			}
			b.WriteString("</div><a class=\"more\" href=\"/blog/\">View all posts</a></section>")
		}
	})
}

// Services renders the static services page.
func Services(cfg SiteConfig) templ.Component {
	meta := PageMeta{Title: "Services", URL: cfg.URL + "/services/"}
	return layout(cfg, meta, Flash{}, func(b *strings.Builder) {
		b.WriteString("<section class=\"services\"><h1>Services</h1><div class=\"service-grid\">")
		for _, s := range [][2]string{
			{"Web Development", "Fast, accessible websites and web applications tailored to your business."},
			{"Product Design", "Research-driven UX and UI design from first sketch to shipped product."},
			{"Branding", "Identity systems that make your company recognizable everywhere it appears."},
			{"Digital Marketing", "Content and campaigns that reach the right audience and convert."},
		} {
			b.WriteString("<article class=\"service\"><h2>" + s[0] + "</h2><p>" + s[1] + "</p></article>")
		}
		b.WriteString("</div></section>")
	})
}

// About renders the static about page.
func About(cfg SiteConfig) templ.Component {
	meta := PageMeta{Title: "About", URL: cfg.URL + "/about/"}
	return layout(cfg, meta, Flash{}, func(b *strings.Builder) {
		b.WriteString("<section class=\"about\"><h1>About " + esc(cfg.Name) + "</h1>")
		b.WriteString("<p>We are a digital agency helping companies design, build and grow their products. ")
		b.WriteString("Our team pairs engineering depth with design craft to ship work we are proud of.</p>")
		b.WriteString("</section>")
	})
}

// Blog renders the post grid with search, category filter and load-more.
func Blog(cfg SiteConfig, posts []Post, categories []Category, query, activeCategory string, page int, hasMore bool, flash Flash) templ.Component {
	meta := PageMeta{Title: "Blog", URL: cfg.URL + "/blog/"}
	return layout(cfg, meta, flash, func(b *strings.Builder) {
		b.WriteString("<section class=\"blog\"><h1>Blog</h1>")

		b.WriteString("<form class=\"blog-search\" method=\"get\" action=\"/blog/\">")
		b.WriteString("<input type=\"search\" name=\"q\" placeholder=\"Search articles\" value=\"" + esc(query) + "\"/>")
		if activeCategory != "" {
			b.WriteString("<input type=\"hidden\" name=\"category\" value=\"" + esc(activeCategory) + "\"/>")
		}
		b.WriteString("<button type=\"submit\">Search</button></form>")

		b.WriteString("<nav class=\"blog-categories\">")
		if activeCategory == "" {
			b.WriteString("<span class=\"active\">All</span>")
		} else {
			b.WriteString("<a href=\"/blog/\">All</a>")
		}
		for _, cat := range categories {
			label := esc(cat.Name) + " (" + strconv.Itoa(cat.Count) + ")"
			if cat.Name == activeCategory {
				b.WriteString("<span class=\"active\">" + label + "</span>")
			} else {
				b.WriteString("<a href=\"/blog/?category=" + url.QueryEscape(cat.Name) + "\">" + label + "</a>")
			}
		}
		b.WriteString("</nav>")

		if len(posts) == 0 {
			b.WriteString("<p class=\"empty\">No articles found.</p>")
		} else {
			b.WriteString("<div class=\"post-grid\">")
			for _, p := range posts {
				postCard(b, p)
			}
			b.WriteString("</div>")
		}

		if hasMore {
			next := "/blog/?page=" + strconv.Itoa(page+1)
			if query != "" {
				next += "&q=" + url.QueryEscape(query)
			}
			if activeCategory != "" {
				next += "&category=" + url.QueryEscape(activeCategory)
			}
			b.WriteString("<a class=\"load-more\" href=\"" + esc(next) + "\">Load More</a>")
		}
		b.WriteString("</section>")
	})
}

// Contact renders the contact form.
func Contact(cfg SiteConfig, flash Flash, csrf string) templ.Component {
	meta := PageMeta{Title: "Contact", URL: cfg.URL + "/contact/"}
	return layout(cfg, meta, flash, func(b *strings.Builder) {
		b.WriteString("<section class=\"contact\"><h1>Contact us</h1>")
		b.WriteString("<form method=\"post\" action=\"/contact/\">")
		csrfField(b, csrf)
		b.WriteString("<label>Name<input type=\"text\" name=\"name\" required/></label>")
		b.WriteString("<label>Email<input type=\"email\" name=\"email\" required/></label>")
		b.WriteString("<label>Phone<input type=\"tel\" name=\"phone\"/></label>")
		b.WriteString("<label>Subject<input type=\"text\" name=\"subject\"/></label>")
		b.WriteString("<label>Message<textarea name=\"message\" rows=\"6\" required></textarea></label>")
		b.WriteString("<button type=\"submit\">Send message</button>")
		b.WriteString("</form></section>")
	})
}

// Login renders the sign-in form.
func Login(cfg SiteConfig, flash Flash, csrf string) templ.Component {
	meta := PageMeta{Title: "Sign in"}
	return layout(cfg, meta, flash, func(b *strings.Builder) {
		b.WriteString("<section class=\"auth\"><h1>Sign in</h1>")
		b.WriteString("<form method=\"post\" action=\"/login/\">")
		csrfField(b, csrf)
		b.WriteString("<label>Email<input type=\"email\" name=\"email\" required/></label>")
		b.WriteString("<label>Password<input type=\"password\" name=\"password\" required/></label>")
		b.WriteString("<button type=\"submit\">Sign in</button>")
		b.WriteString("</form>")
		b.WriteString("<p>No account? <a href=\"/register/\">Create one</a></p>")
		b.WriteString("</section>")
	})
}

// Register renders the account creation form.
func Register(cfg SiteConfig, flash Flash, csrf string) templ.Component {
	meta := PageMeta{Title: "Create account"}
	return layout(cfg, meta, flash, func(b *strings.Builder) {
		b.WriteString("<section class=\"auth\"><h1>Create account</h1>")
		b.WriteString("<form method=\"post\" action=\"/register/\">")
		csrfField(b, csrf)
		b.WriteString("<label>Display name<input type=\"text\" name=\"display_name\"/></label>")
		b.WriteString("<label>Email<input type=\"email\" name=\"email\" required/></label>")
		b.WriteString("<label>Password<input type=\"password\" name=\"password\" minlength=\"8\" required/></label>")
		b.WriteString("<button type=\"submit\">Create account</button>")
		b.WriteString("</form>")
		b.WriteString("<p>Already registered? <a href=\"/login/\">Sign in</a></p>")
		b.WriteString("</section>")
	})
}

// NotFound renders the 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	return layout(cfg, PageMeta{Title: "Page not found"}, Flash{}, func(b *strings.Builder) {
		b.WriteString("<section class=\"error-page\"><h1>404</h1>")
		b.WriteString("<p>The page you are looking for does not exist.</p>")
		b.WriteString("<a href=\"/\">Back to home</a></section>")
	})
}

// ServerError renders the 500 page.
func ServerError(cfg SiteConfig) templ.Component {
	return layout(cfg, PageMeta{Title: "Something went wrong"}, Flash{}, func(b *strings.Builder) {
		b.WriteString("<section class=\"error-page\"><h1>Something went wrong</h1>")
		b.WriteString("<p>Please try again in a moment.</p>")
		b.WriteString("<a href=\"/\">Back to home</a></section>")
	})
}
