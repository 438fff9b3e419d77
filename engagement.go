package site

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
)

// postLocks serializes like recomputation per post so two toggles cannot
// read the same counter value and both write count+1.
type postLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPostLocks() *postLocks {
	return &postLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *postLocks) get(postID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[postID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[postID] = m
	}
	return m
}

func likedKey(postID string) string    { return "liked:" + postID }
func bookmarkKey(postID string) string { return "bookmarked:" + postID }

// handleLikePost toggles the session's like on a post. The counter moves by
// exactly one per toggle; the session flag flips only after the write lands,
// so a failed write leaves both counter and flag untouched.
func (a *App) handleLikePost(c echo.Context) error {
	id := c.Param("id")
	post, err := a.Store.GetPublished(id)
	if err != nil {
		if err == ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return err
	}

	lock := a.likeLocks.get(id)
	lock.Lock()
	defer lock.Unlock()

	liked := sessionFlag(c, likedKey(id))
	count := post.LikesCount
	if liked {
		count--
		if count < 0 {
			count = 0
		}
	} else {
		count++
	}
	if err := a.Store.SetPostLikes(id, count); err != nil {
		flash(c, "error", "Failed to update like. Please try again.")
		return c.Redirect(http.StatusSeeOther, post.Link())
	}
	if err := setSessionFlag(c, likedKey(id), !liked); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, post.Link())
}

// handleBookmarkPost flips the session-scoped bookmark flag. Bookmarks are
// per visitor and never touch the database.
func (a *App) handleBookmarkPost(c echo.Context) error {
	id := c.Param("id")
	post, err := a.Store.GetPublished(id)
	if err != nil {
		if err == ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return err
	}
	bookmarked := sessionFlag(c, bookmarkKey(id))
	if err := setSessionFlag(c, bookmarkKey(id), !bookmarked); err != nil {
		return err
	}
	if bookmarked {
		flash(c, "success", "Removed from bookmarks.")
	} else {
		flash(c, "success", "Post bookmarked.")
	}
	return c.Redirect(http.StatusSeeOther, post.Link())
}

// handleCommentLike bumps an approved comment's like counter. Comment likes
// only ever grow; there is no per-session toggle state for them.
func (a *App) handleCommentLike(c echo.Context) error {
	id := c.Param("id")
	postID := c.FormValue("post_id")
	if _, err := a.Store.IncrementCommentLikes(id); err != nil {
		if err == ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		flash(c, "error", "Failed to like comment. Please try again.")
	}
	if postID != "" {
		return c.Redirect(http.StatusSeeOther, "/blog/"+postID+"/")
	}
	return c.Redirect(http.StatusSeeOther, "/blog/")
}
