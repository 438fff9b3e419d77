package site

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/irudium/site/views"
)

const sessionName = "irudium_session"

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 24 * 7,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// CurrentUserID returns the logged-in user id, or "" for visitors.
func CurrentUserID(c echo.Context) string {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return ""
	}
	id, _ := sess.Values["user_id"].(string)
	return id
}

// currentProfile loads the logged-in user's profile, if any.
func (a *App) currentProfile(c echo.Context) (views.Profile, bool) {
	id := CurrentUserID(c)
	if id == "" {
		return views.Profile{}, false
	}
	profile, err := a.Store.GetProfile(id)
	if err != nil {
		return views.Profile{}, false
	}
	return profile, true
}

func setUserSession(c echo.Context, userID string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values["user_id"] = userID
	return sess.Save(c.Request(), c.Response())
}

func clearUserSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// sessionFlag reads a per-session boolean (optimistic liked/bookmarked state).
func sessionFlag(c echo.Context, key string) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	v, _ := sess.Values[key].(bool)
	return v
}

func setSessionFlag(c echo.Context, key string, v bool) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values[key] = v
	return sess.Save(c.Request(), c.Response())
}

// flash stores a one-shot notification; takeFlash pops it for rendering.
func flash(c echo.Context, kind, message string) {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return
	}
	sess.Values["flash_kind"] = kind
	sess.Values["flash_message"] = message
	_ = sess.Save(c.Request(), c.Response())
}

func takeFlash(c echo.Context) views.Flash {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return views.Flash{}
	}
	kind, _ := sess.Values["flash_kind"].(string)
	message, _ := sess.Values["flash_message"].(string)
	if message != "" {
		delete(sess.Values, "flash_kind")
		delete(sess.Values, "flash_message")
		_ = sess.Save(c.Request(), c.Response())
	}
	return views.Flash{Kind: kind, Message: message}
}

// requireUser redirects visitors to the login page. Authenticated-only
// actions (likes, comments, profile) hang off this.
func requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentUserID(c) == "" {
			return c.Redirect(http.StatusSeeOther, "/login/")
		}
		return next(c)
	}
}

// requireRole is the single authorization gate for the dashboard: no
// session → login page; wrong role → "Access Denied" and home. The allowed
// profile is stashed in the context for handlers and templates.
func (a *App) requireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := CurrentUserID(c)
			if id == "" {
				return c.Redirect(http.StatusSeeOther, "/login/")
			}
			profile, err := a.Store.GetProfile(id)
			if err != nil {
				if err == sql.ErrNoRows {
					return c.Redirect(http.StatusSeeOther, "/login/")
				}
				return err
			}
			allowed := false
			for _, r := range roles {
				if profile.Role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				flash(c, "error", "Access Denied: you don't have permission to access the dashboard.")
				return c.Redirect(http.StatusSeeOther, "/")
			}
			c.Set("profile", profile)
			return next(c)
		}
	}
}

// profileFromContext returns the profile stashed by requireRole.
func profileFromContext(c echo.Context) views.Profile {
	p, _ := c.Get("profile").(views.Profile)
	return p
}

func (a *App) handleLoginPage(c echo.Context) error {
	if CurrentUserID(c) != "" {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return Render(c, views.Login(a.Config.Site, takeFlash(c), CsrfToken(c)))
}

func (a *App) handleLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")
	if email == "" || password == "" {
		flash(c, "error", "Email and password are required.")
		return c.Redirect(http.StatusSeeOther, "/login/")
	}
	userID, hash, err := a.Store.GetCredentials(email)
	if err == nil {
		err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	}
	if err != nil {
		a.loginLimiter.Record(ip)
		flash(c, "error", "Invalid email or password.")
		return c.Redirect(http.StatusSeeOther, "/login/")
	}
	if err := setUserSession(c, userID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleRegisterPage(c echo.Context) error {
	if CurrentUserID(c) != "" {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return Render(c, views.Register(a.Config.Site, takeFlash(c), CsrfToken(c)))
}

func (a *App) handleRegister(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")
	displayName := strings.TrimSpace(c.FormValue("display_name"))
	if email == "" || !strings.Contains(email, "@") {
		flash(c, "error", "A valid email address is required.")
		return c.Redirect(http.StatusSeeOther, "/register/")
	}
	if len(password) < 8 {
		flash(c, "error", "Password must be at least 8 characters.")
		return c.Redirect(http.StatusSeeOther, "/register/")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	profile, err := a.Store.CreateUser(email, string(hash), displayName)
	if err != nil {
		flash(c, "error", "Could not create the account. The email may already be registered.")
		return c.Redirect(http.StatusSeeOther, "/register/")
	}
	if err := setUserSession(c, profile.UserID); err != nil {
		return err
	}
	flash(c, "success", "Welcome! Your account has been created.")
	return c.Redirect(http.StatusSeeOther, "/")
}

func handleLogout(c echo.Context) error {
	if err := clearUserSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleProfile(c echo.Context) error {
	profile, ok := a.currentProfile(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/login/")
	}
	posts, err := a.Store.ListByAuthor(profile.UserID)
	if err != nil {
		return err
	}
	return Render(c, views.ProfilePage(a.Config.Site, profile, posts, takeFlash(c), CsrfToken(c)))
}

func (a *App) handleProfileUpdate(c echo.Context) error {
	profile, ok := a.currentProfile(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/login/")
	}
	displayName := strings.TrimSpace(c.FormValue("display_name"))
	bio := strings.TrimSpace(c.FormValue("bio"))
	avatarURL := strings.TrimSpace(c.FormValue("avatar_url"))
	if err := a.Store.UpdateProfile(profile.UserID, displayName, bio, avatarURL); err != nil {
		flash(c, "error", "Failed to update profile. Please try again later.")
		return c.Redirect(http.StatusSeeOther, "/profile/")
	}
	flash(c, "success", "Profile updated.")
	return c.Redirect(http.StatusSeeOther, "/profile/")
}
