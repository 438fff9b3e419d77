package site

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/irudium/site/content"
	"github.com/irudium/site/views"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test_site.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestSaveAndGetPost(t *testing.T) {
	s := setupTestStore(t)

	post := views.Post{
		Title:   "Designing for Trust",
		Excerpt: "Why credibility is a design problem.",
		Blocks: []content.Block{
			{Kind: content.KindHeading, Text: "The problem"},
			{Kind: content.KindParagraph, Text: "Users decide in seconds."},
			{Kind: content.KindList, Items: []string{"Clarity", "Consistency"}},
		},
		ImageURLs: []string{"/public/uploads/hero.jpg", "/public/uploads/inline.jpg"},
		Category:  "Design",
		Tags:      []string{"UX", "Trust"},
		Published: true,
	}

	saved, err := s.SavePost(post)
	if err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("SavePost should mint an id for new posts")
	}

	got, err := s.GetPublished(saved.ID)
	if err != nil {
		t.Fatalf("GetPublished failed: %v", err)
	}
	if got.Title != post.Title {
		t.Errorf("Title = %q, want %q", got.Title, post.Title)
	}
	if got.Excerpt != post.Excerpt {
		t.Errorf("Excerpt = %q, want %q", got.Excerpt, post.Excerpt)
	}
	if len(got.Blocks) != 3 {
		t.Fatalf("Blocks = %d, want 3", len(got.Blocks))
	}
	if got.Blocks[0].Kind != content.KindHeading || got.Blocks[0].Text != "The problem" {
		t.Errorf("Blocks[0] = %+v", got.Blocks[0])
	}
	if len(got.Blocks[2].Items) != 2 {
		t.Errorf("list items = %v, want 2 entries", got.Blocks[2].Items)
	}
	if len(got.ImageURLs) != 2 || got.ImageURLs[0] != "/public/uploads/hero.jpg" {
		t.Errorf("ImageURLs = %v", got.ImageURLs)
	}
	// Legacy column mirrors the hero image.
	if got.ImageURL != "/public/uploads/hero.jpg" {
		t.Errorf("ImageURL = %q, want hero mirror", got.ImageURL)
	}
	// Tags come back lowercased.
	if len(got.Tags) != 2 || got.Tags[0] != "ux" || got.Tags[1] != "trust" {
		t.Errorf("Tags = %v, want [ux trust]", got.Tags)
	}
	if got.Link() != "/blog/"+saved.ID+"/" {
		t.Errorf("Link = %q", got.Link())
	}
}

func TestGetPublishedExcludesDrafts(t *testing.T) {
	s := setupTestStore(t)

	draft, err := s.SavePost(views.Post{Title: "Draft", Published: false})
	if err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	if _, err := s.GetPublished(draft.ID); err != ErrNotFound {
		t.Fatalf("GetPublished(draft) error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetPostAny(draft.ID); err != nil {
		t.Fatalf("GetPostAny(draft) failed: %v", err)
	}
}

func TestListPublishedOrdersNewestFirst(t *testing.T) {
	s := setupTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"oldest", "middle", "newest"} {
		_, err := s.SavePost(views.Post{
			Title:     title,
			Published: true,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("SavePost failed: %v", err)
		}
	}
	_, err := s.SavePost(views.Post{Title: "hidden draft", CreatedAt: base.Add(5 * time.Hour)})
	if err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	posts, err := s.ListPublished("")
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("len = %d, want 3", len(posts))
	}
	if posts[0].Title != "newest" || posts[2].Title != "oldest" {
		t.Errorf("order = [%s %s %s], want newest first", posts[0].Title, posts[1].Title, posts[2].Title)
	}
}

func TestListPublishedByCategory(t *testing.T) {
	s := setupTestStore(t)

	for _, p := range []views.Post{
		{Title: "a", Category: "Design", Published: true},
		{Title: "b", Category: "Engineering", Published: true},
		{Title: "c", Category: "Design", Published: true},
	} {
		if _, err := s.SavePost(p); err != nil {
			t.Fatalf("SavePost failed: %v", err)
		}
	}

	posts, err := s.ListPublished("Design")
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len = %d, want 2", len(posts))
	}
	for _, p := range posts {
		if p.Category != "Design" {
			t.Errorf("unexpected category %q", p.Category)
		}
	}

	cats, err := s.ListCategories()
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(cats) != 2 || cats[0].Name != "Design" || cats[0].Count != 2 {
		t.Errorf("categories = %+v", cats)
	}
}

func TestListRelated(t *testing.T) {
	s := setupTestStore(t)

	var current views.Post
	for i, p := range []views.Post{
		{Title: "current", Category: "Design", Published: true},
		{Title: "same-1", Category: "Design", Published: true},
		{Title: "same-2", Category: "Design", Published: true},
		{Title: "same-3", Category: "Design", Published: true},
		{Title: "other", Category: "Engineering", Published: true},
	} {
		saved, err := s.SavePost(p)
		if err != nil {
			t.Fatalf("SavePost failed: %v", err)
		}
		if i == 0 {
			current = saved
		}
	}

	related, err := s.ListRelated("Design", current.ID, 2)
	if err != nil {
		t.Fatalf("ListRelated failed: %v", err)
	}
	if len(related) != 2 {
		t.Fatalf("len = %d, want 2", len(related))
	}
	for _, r := range related {
		if r.ID == current.ID {
			t.Error("related posts must exclude the current post")
		}
		if r.Category != "Design" {
			t.Errorf("related category = %q", r.Category)
		}
	}
}

func TestDeletePostCascadesComments(t *testing.T) {
	s := setupTestStore(t)

	post, err := s.SavePost(views.Post{Title: "doomed", Published: true})
	if err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	if _, err := s.InsertComment(views.Comment{PostID: post.ID, Content: "hello"}); err != nil {
		t.Fatalf("InsertComment failed: %v", err)
	}

	if err := s.DeletePost(post.ID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetPostAny(post.ID); err != ErrNotFound {
		t.Fatalf("post still present after delete: %v", err)
	}
	comments, err := s.ListAllComments()
	if err != nil {
		t.Fatalf("ListAllComments failed: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("comments survived post deletion: %d", len(comments))
	}
}

func TestSetPostLikes(t *testing.T) {
	s := setupTestStore(t)

	post, err := s.SavePost(views.Post{Title: "liked", Published: true})
	if err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	if err := s.SetPostLikes(post.ID, 7); err != nil {
		t.Fatalf("SetPostLikes failed: %v", err)
	}
	got, err := s.GetPublished(post.ID)
	if err != nil {
		t.Fatalf("GetPublished failed: %v", err)
	}
	if got.LikesCount != 7 {
		t.Errorf("LikesCount = %d, want 7", got.LikesCount)
	}

	if err := s.SetPostLikes("missing", 1); err != ErrNotFound {
		t.Errorf("SetPostLikes(missing) error = %v, want ErrNotFound", err)
	}
}

func TestIncrementViews(t *testing.T) {
	s := setupTestStore(t)

	post, err := s.SavePost(views.Post{Title: "viewed", Published: true})
	if err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.IncrementViews(post.ID); err != nil {
			t.Fatalf("IncrementViews failed: %v", err)
		}
	}
	got, err := s.GetPublished(post.ID)
	if err != nil {
		t.Fatalf("GetPublished failed: %v", err)
	}
	if got.ViewsCount != 3 {
		t.Errorf("ViewsCount = %d, want 3", got.ViewsCount)
	}
}

func TestParseTagsRoundTrip(t *testing.T) {
	tags := []string{"go", "web", "design"}
	encoded := encodeTags(tags)
	if encoded != ",go,web,design," {
		t.Errorf("encodeTags = %q", encoded)
	}
	got := ParseTags(encoded)
	if len(got) != 3 || got[0] != "go" || got[2] != "design" {
		t.Errorf("ParseTags = %v", got)
	}
	if ParseTags("") != nil {
		t.Error("ParseTags(\"\") should be nil")
	}
}
