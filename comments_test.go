package site

import (
	"testing"
	"time"

	"github.com/irudium/site/views"
)

func seedPost(t *testing.T, s *Store, title string) views.Post {
	t.Helper()
	post, err := s.SavePost(views.Post{Title: title, Published: true})
	if err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	return post
}

func TestInsertCommentStartsPending(t *testing.T) {
	s := setupTestStore(t)
	post := seedPost(t, s, "moderated")

	// Approved and LikesCount are forced by the store, whatever the caller set.
	c, err := s.InsertComment(views.Comment{
		PostID:     post.ID,
		AuthorName: "Reader",
		Content:    "Great article!",
		Approved:   true,
		LikesCount: 99,
	})
	if err != nil {
		t.Fatalf("InsertComment failed: %v", err)
	}
	if c.Approved {
		t.Error("new comments must start unapproved")
	}
	if c.LikesCount != 0 {
		t.Errorf("LikesCount = %d, want 0", c.LikesCount)
	}

	visible, err := s.ListApprovedComments(post.ID)
	if err != nil {
		t.Fatalf("ListApprovedComments failed: %v", err)
	}
	if len(visible) != 0 {
		t.Errorf("pending comment is visible to readers: %d", len(visible))
	}
}

func TestInsertCommentRejectsWhitespace(t *testing.T) {
	s := setupTestStore(t)
	post := seedPost(t, s, "validated")

	if _, err := s.InsertComment(views.Comment{PostID: post.ID, Content: "  \n\t "}); err != ErrEmptyComment {
		t.Fatalf("error = %v, want ErrEmptyComment", err)
	}
	all, err := s.ListAllComments()
	if err != nil {
		t.Fatalf("ListAllComments failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("rejected comment was written: %d rows", len(all))
	}
}

func TestModerationLifecycle(t *testing.T) {
	s := setupTestStore(t)
	post := seedPost(t, s, "lifecycle")

	c, err := s.InsertComment(views.Comment{PostID: post.ID, Content: "pending"})
	if err != nil {
		t.Fatalf("InsertComment failed: %v", err)
	}

	if err := s.SetCommentApproved(c.ID, true); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	visible, err := s.ListApprovedComments(post.ID)
	if err != nil {
		t.Fatalf("ListApprovedComments failed: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("approved comment not visible: %d", len(visible))
	}

	if err := s.SetCommentApproved(c.ID, false); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	visible, err = s.ListApprovedComments(post.ID)
	if err != nil {
		t.Fatalf("ListApprovedComments failed: %v", err)
	}
	if len(visible) != 0 {
		t.Errorf("rejected comment still visible: %d", len(visible))
	}

	if err := s.SetCommentApproved("missing", true); err != ErrNotFound {
		t.Errorf("SetCommentApproved(missing) error = %v, want ErrNotFound", err)
	}
}

func TestApprovedCommentsNewestFirst(t *testing.T) {
	s := setupTestStore(t)
	post := seedPost(t, s, "ordering")

	var ids []string
	for _, body := range []string{"first", "second", "third"} {
		c, err := s.InsertComment(views.Comment{PostID: post.ID, Content: body})
		if err != nil {
			t.Fatalf("InsertComment failed: %v", err)
		}
		ids = append(ids, c.ID)
		// InsertComment stamps time.Now; a pause keeps timestamps distinct.
		time.Sleep(2 * time.Millisecond)
	}
	for _, id := range ids {
		if err := s.SetCommentApproved(id, true); err != nil {
			t.Fatalf("approve failed: %v", err)
		}
	}

	visible, err := s.ListApprovedComments(post.ID)
	if err != nil {
		t.Fatalf("ListApprovedComments failed: %v", err)
	}
	if len(visible) != 3 {
		t.Fatalf("len = %d, want 3", len(visible))
	}
	if visible[0].Content != "third" || visible[2].Content != "first" {
		t.Errorf("order = [%s %s %s], want newest first",
			visible[0].Content, visible[1].Content, visible[2].Content)
	}
}

func TestIncrementCommentLikesIsolated(t *testing.T) {
	s := setupTestStore(t)
	post := seedPost(t, s, "likes")

	a, err := s.InsertComment(views.Comment{PostID: post.ID, Content: "a"})
	if err != nil {
		t.Fatalf("InsertComment failed: %v", err)
	}
	b, err := s.InsertComment(views.Comment{PostID: post.ID, Content: "b"})
	if err != nil {
		t.Fatalf("InsertComment failed: %v", err)
	}

	for i := 1; i <= 3; i++ {
		likes, err := s.IncrementCommentLikes(a.ID)
		if err != nil {
			t.Fatalf("IncrementCommentLikes failed: %v", err)
		}
		if likes != i {
			t.Errorf("likes = %d, want %d", likes, i)
		}
	}

	all, err := s.ListAllComments()
	if err != nil {
		t.Fatalf("ListAllComments failed: %v", err)
	}
	for _, c := range all {
		switch c.ID {
		case a.ID:
			if c.LikesCount != 3 {
				t.Errorf("a.LikesCount = %d, want 3", c.LikesCount)
			}
		case b.ID:
			if c.LikesCount != 0 {
				t.Errorf("b.LikesCount = %d, want 0", c.LikesCount)
			}
		}
	}

	if _, err := s.IncrementCommentLikes("missing"); err != ErrNotFound {
		t.Errorf("IncrementCommentLikes(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDeleteComment(t *testing.T) {
	s := setupTestStore(t)
	post := seedPost(t, s, "deletion")

	c, err := s.InsertComment(views.Comment{PostID: post.ID, Content: "gone soon"})
	if err != nil {
		t.Fatalf("InsertComment failed: %v", err)
	}
	if err := s.DeleteComment(c.ID); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	all, err := s.ListAllComments()
	if err != nil {
		t.Fatalf("ListAllComments failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("comment survived deletion: %d", len(all))
	}
}
