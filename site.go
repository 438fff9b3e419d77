// Package site is the Irudium agency website: a server-rendered marketing
// site with a blog, reader engagement, comment moderation and a role-gated
// content management dashboard.
package site

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"

	"github.com/irudium/site/views"
)

// App wires together the store, cache, session layer, handlers and routes.
type App struct {
	Config Config
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache

	sessions     *sessions.CookieStore
	loginLimiter *LoginLimiter
	likeLocks    *postLocks
	staticDir    string
}

// New creates an App with the given configuration. Call Start to run it.
func New(cfg Config) *App {
	return &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
	}
}

// Start initializes the database, cache, middleware and routes, then serves
// until the listener fails or the server is shut down.
func (a *App) Start() error {
	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("site: init store: %w", err)
	}
	a.Store = store

	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.sessions = a.newSessionStore()
	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	a.likeLocks = newPostLocks()

	if a.Config.AdminEmail != "" {
		if err := a.promoteAdmin(a.Config.AdminEmail); err != nil {
			a.Echo.Logger.Warnf("promote admin %s: %v", a.Config.AdminEmail, err)
		}
	}

	a.setupMiddleware()
	a.setupRoutes()

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// promoteAdmin grants the configured bootstrap account the admin role, so a
// fresh deployment has someone who can reach the user management tab.
func (a *App) promoteAdmin(email string) error {
	userID, _, err := a.Store.GetCredentials(email)
	if err != nil {
		if err == ErrNotFound {
			// Account not registered yet; promotion happens on next boot.
			return nil
		}
		return err
	}
	return a.Store.UpdateRole(userID, views.RoleAdmin)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded assets are served under /public/ ahead of the static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/engagement.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/placeholder.svg", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Marketing pages
	e.GET("/", a.handleHome)
	e.GET("/services/", a.handleServices)
	e.GET("/about/", a.handleAbout)
	e.GET("/contact/", a.handleContactPage)
	e.POST("/contact/", a.handleContactSubmit)
	e.POST("/newsletter/", a.handleNewsletterSubmit)

	// Blog
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/:id/", a.handlePost)
	e.POST("/blog/:id/comments/", a.handleCommentSubmit, requireUser)
	e.POST("/blog/:id/like/", a.handleLikePost, requireUser)
	e.POST("/blog/:id/bookmark/", a.handleBookmarkPost, requireUser)
	e.POST("/comments/:id/like/", a.handleCommentLike, requireUser)

	// Accounts
	e.GET("/login/", a.handleLoginPage)
	e.POST("/login/", a.handleLogin)
	e.GET("/register/", a.handleRegisterPage)
	e.POST("/register/", a.handleRegister)
	e.POST("/logout/", handleLogout)
	e.GET("/profile/", a.handleProfile, requireUser)
	e.POST("/profile/", a.handleProfileUpdate, requireUser)

	// Dashboard: editors and admins only; role tab re-checks admin inside.
	dash := e.Group("/dashboard", a.requireRole(views.RoleEditor, views.RoleAdmin))
	dash.GET("/", a.handleDashboard)
	dash.GET("/posts/new/", a.handlePostNew)
	dash.GET("/posts/:id/edit/", a.handlePostEdit)
	dash.POST("/posts/save/", a.handlePostSave)
	dash.POST("/posts/:id/delete/", a.handlePostDelete)
	dash.POST("/comments/:id/approve/", a.handleCommentApprove)
	dash.POST("/comments/:id/reject/", a.handleCommentReject)
	dash.POST("/comments/:id/delete/", a.handleCommentDelete)
	dash.POST("/images/upload/", a.handleImageUpload)

	admin := e.Group("/dashboard/users", a.requireRole(views.RoleAdmin))
	admin.POST("/:id/role/", a.handleRoleUpdate)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
