package site

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/irudium/site/views"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = sql.ErrNoRows

// ErrInvalidRole is returned for a role value outside {user, editor, admin}.
var ErrInvalidRole = errors.New("invalid role")

// ErrEmptyComment rejects whitespace-only comment submissions before any
// database write happens.
var ErrEmptyComment = errors.New("comment content is empty")

// PostCache is an in-memory cache of published posts and categories with TTL.
// Dashboard writes invalidate it; engagement counter writes do too, so reader
// pages never show a stale counter for longer than one request.
type PostCache struct {
	mu         sync.RWMutex
	posts      []views.Post
	categories []views.Category
	fetched    time.Time
	ttl        time.Duration
	store      *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.categories = nil
	c.mu.Unlock()
}

func (c *PostCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListPublished("")
	if err != nil {
		return err
	}
	categories, err := c.store.ListCategories()
	if err != nil {
		return err
	}
	c.posts = posts
	c.categories = categories
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached posts and categories after ensuring freshness.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded() ([]views.Post, []views.Category, error) {
	c.mu.RLock()
	if c.valid() {
		posts, categories := c.posts, c.categories
		c.mu.RUnlock()
		return posts, categories, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.posts, c.categories, nil
}

// ListPosts returns published posts, optionally filtered by category.
func (c *PostCache) ListPosts(category string) ([]views.Post, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if category == "" {
		return posts, nil
	}
	var filtered []views.Post
	for _, p := range posts {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// ListCategories returns category labels with counts for published posts.
func (c *PostCache) ListCategories() ([]views.Category, error) {
	_, categories, err := c.ensureLoaded()
	return categories, err
}

// GetPost returns a single published post by id from the cache.
func (c *PostCache) GetPost(id string) (views.Post, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return views.Post{}, err
	}
	for _, p := range posts {
		if p.ID == id {
			return p, nil
		}
	}
	return views.Post{}, ErrNotFound
}

// Featured returns the featured post, or the newest post when none is
// flagged, or false when there are no posts at all.
func (c *PostCache) Featured() (views.Post, bool, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return views.Post{}, false, err
	}
	if len(posts) == 0 {
		return views.Post{}, false, nil
	}
	for _, p := range posts {
		if p.Featured {
			return p, true, nil
		}
	}
	return posts[0], true, nil
}
