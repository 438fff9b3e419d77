package site

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/irudium/site/content"
	"github.com/irudium/site/views"
)

// Store wraps a SQLite database and provides CRUD operations for posts,
// comments, profiles, and form submissions.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write access, busy_timeout so writers wait
	// instead of failing with SQLITE_BUSY, synchronous=NORMAL is safe under
	// WAL, larger cache and mmap reduce disk I/O.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    excerpt TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    content_blocks TEXT NOT NULL DEFAULT '',
    image_urls TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '',
    featured INTEGER NOT NULL DEFAULT 0,
    published INTEGER NOT NULL DEFAULT 0,
    author_id TEXT NOT NULL DEFAULT '',
    author_name TEXT NOT NULL DEFAULT '',
    read_time TEXT NOT NULL DEFAULT '',
    likes_count INTEGER NOT NULL DEFAULT 0,
    views_count INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS comments (
    id TEXT PRIMARY KEY,
    post_id TEXT NOT NULL,
    author_id TEXT NOT NULL DEFAULT '',
    author_name TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL,
    likes_count INTEGER NOT NULL DEFAULT 0,
    approved INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id, approved, created_at);
CREATE TABLE IF NOT EXISTS profiles (
    user_id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    display_name TEXT NOT NULL DEFAULT '',
    bio TEXT NOT NULL DEFAULT '',
    avatar_url TEXT NOT NULL DEFAULT '',
    role TEXT NOT NULL DEFAULT 'user',
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS contact_messages (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    phone TEXT NOT NULL DEFAULT '',
    subject TEXT NOT NULL DEFAULT '',
    message TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS subscribers (
    email TEXT PRIMARY KEY,
    created_at TEXT NOT NULL
);
`)
	return err
}

const postColumns = `id, title, excerpt, content, content_blocks, image_urls, image_url,
	category, tags, featured, published, author_id, author_name, read_time,
	likes_count, views_count, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (views.Post, error) {
	var p views.Post
	var blocks, images, tags, createdAt, updatedAt string
	var featured, published int
	err := row.Scan(&p.ID, &p.Title, &p.Excerpt, &p.Content, &blocks, &images,
		&p.ImageURL, &p.Category, &tags, &featured, &published, &p.AuthorID,
		&p.AuthorName, &p.ReadTime, &p.LikesCount, &p.ViewsCount, &createdAt, &updatedAt)
	if err != nil {
		return views.Post{}, err
	}
	p.Blocks = content.ParseBlocks(blocks)
	p.ImageURLs = parseImages(images)
	p.Tags = ParseTags(tags)
	p.Featured = featured == 1
	p.Published = published == 1
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

func (s *Store) queryPosts(query string, args ...any) ([]views.Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []views.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListPublished returns published posts newest-first. If category is
// non-empty, results are filtered to that category.
func (s *Store) ListPublished(category string) ([]views.Post, error) {
	if category == "" {
		return s.queryPosts(`SELECT ` + postColumns + ` FROM posts WHERE published = 1 ORDER BY created_at DESC`)
	}
	return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE published = 1 AND category = ? ORDER BY created_at DESC`, category)
}

// ListAllPosts returns every post, drafts included, newest-first (dashboard).
func (s *Store) ListAllPosts() ([]views.Post, error) {
	return s.queryPosts(`SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`)
}

// ListByAuthor returns the author's own posts, drafts included, newest-first.
func (s *Store) ListByAuthor(authorID string) ([]views.Post, error) {
	return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE author_id = ? ORDER BY created_at DESC`, authorID)
}

// ListRelated returns up to limit other published posts in the same category.
func (s *Store) ListRelated(category, excludeID string, limit int) ([]views.Post, error) {
	return s.queryPosts(`SELECT `+postColumns+` FROM posts
		WHERE published = 1 AND category = ? AND id != ?
		ORDER BY created_at DESC LIMIT ?`, category, excludeID, limit)
}

// GetPublished returns a single published post by id.
func (s *Store) GetPublished(id string) (views.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = ? AND published = 1`, id)
	return scanPost(row)
}

// GetPostAny returns a post by id regardless of published status (dashboard).
func (s *Store) GetPostAny(id string) (views.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	return scanPost(row)
}

// SavePost upserts a post, minting an id for new rows. Tags are normalized
// to lowercase; the legacy image_url column mirrors the first image for old
// readers of the table.
func (s *Store) SavePost(p views.Post) (views.Post, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	normalized := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		normalized[i] = strings.ToLower(strings.TrimSpace(t))
	}
	p.Tags = normalized
	if len(p.ImageURLs) > 0 {
		p.ImageURL = p.ImageURLs[0]
	}
	p.UpdatedAt = time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO posts (`+postColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Excerpt, p.Content, content.EncodeBlocks(p.Blocks),
		encodeImages(p.ImageURLs), p.ImageURL, p.Category, encodeTags(normalized),
		boolInt(p.Featured), boolInt(p.Published), p.AuthorID, p.AuthorName,
		p.ReadTime, p.LikesCount, p.ViewsCount,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return views.Post{}, err
	}
	return p, nil
}

// DeletePost removes a post and its comments.
func (s *Store) DeletePost(id string) error {
	if _, err := s.db.Exec(`DELETE FROM comments WHERE post_id = ?`, id); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	return err
}

// SetPostLikes writes a recomputed like counter for a post.
func (s *Store) SetPostLikes(id string, likes int) error {
	res, err := s.db.Exec(`UPDATE posts SET likes_count = ? WHERE id = ?`, likes, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

// IncrementViews bumps a post's view counter.
func (s *Store) IncrementViews(id string) error {
	_, err := s.db.Exec(`UPDATE posts SET views_count = views_count + 1 WHERE id = ?`, id)
	return err
}

// ListCategories returns category labels with published-post counts,
// sorted by label.
func (s *Store) ListCategories() ([]views.Category, error) {
	rows, err := s.db.Query(`SELECT category, COUNT(*) FROM posts
		WHERE published = 1 AND category != '' GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []views.Category
	for rows.Next() {
		var c views.Category
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	return cats, nil
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "," + strings.Join(tags, ",") + ","
}

func parseImages(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return nil
	}
	return urls
}

func encodeImages(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	raw, err := json.Marshal(urls)
	if err != nil {
		return ""
	}
	return string(raw)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
