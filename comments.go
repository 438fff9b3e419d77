package site

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/irudium/site/views"
)

const commentColumns = `id, post_id, author_id, author_name, content, likes_count, approved, created_at`

func scanComment(row interface{ Scan(...any) error }) (views.Comment, error) {
	var c views.Comment
	var approved int
	var createdAt string
	err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.Content,
		&c.LikesCount, &approved, &createdAt)
	if err != nil {
		return views.Comment{}, err
	}
	c.Approved = approved == 1
	c.CreatedAt = parseTime(createdAt)
	return c, nil
}

func (s *Store) queryComments(query string, args ...any) ([]views.Comment, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []views.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// ListApprovedComments returns the reader-facing comment list for a post:
// approved only, newest first.
func (s *Store) ListApprovedComments(postID string) ([]views.Comment, error) {
	return s.queryComments(`SELECT `+commentColumns+` FROM comments
		WHERE post_id = ? AND approved = 1 ORDER BY created_at DESC`, postID)
}

// ListAllComments returns every comment, pending included, newest first
// (dashboard moderation queue).
func (s *Store) ListAllComments() ([]views.Comment, error) {
	return s.queryComments(`SELECT ` + commentColumns + ` FROM comments ORDER BY created_at DESC`)
}

// InsertComment creates a pending comment row and returns it. Comments are
// born unapproved regardless of what the caller set; whitespace-only content
// is rejected before any write.
func (s *Store) InsertComment(c views.Comment) (views.Comment, error) {
	if strings.TrimSpace(c.Content) == "" {
		return views.Comment{}, ErrEmptyComment
	}
	c.ID = uuid.NewString()
	c.Approved = false
	c.LikesCount = 0
	c.CreatedAt = time.Now().UTC()
	_, err := s.db.Exec(`INSERT INTO comments (`+commentColumns+`) VALUES (?, ?, ?, ?, ?, 0, 0, ?)`,
		c.ID, c.PostID, c.AuthorID, c.AuthorName, c.Content, formatTime(c.CreatedAt))
	if err != nil {
		return views.Comment{}, err
	}
	return c, nil
}

// SetCommentApproved flips a comment's moderation flag in either direction.
func (s *Store) SetCommentApproved(id string, approved bool) error {
	res, err := s.db.Exec(`UPDATE comments SET approved = ? WHERE id = ?`, boolInt(approved), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

// DeleteComment removes a comment. Irreversible; the handler requires an
// explicit confirmation before calling this.
func (s *Store) DeleteComment(id string) error {
	_, err := s.db.Exec(`DELETE FROM comments WHERE id = ?`, id)
	return err
}

// IncrementCommentLikes adds exactly one like to the comment and returns the
// new counter. There is no un-like path.
func (s *Store) IncrementCommentLikes(id string) (int, error) {
	res, err := s.db.Exec(`UPDATE comments SET likes_count = likes_count + 1 WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return 0, sql.ErrNoRows
	}
	var likes int
	err = s.db.QueryRow(`SELECT likes_count FROM comments WHERE id = ?`, id).Scan(&likes)
	return likes, err
}
