package content

import (
	"database/sql"
	"strings"
	"testing"

	"marquee/internal/database"
)

func testRepo(t *testing.T) (*Repo, *sql.DB) {
	t.Helper()
	db, err := database.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func seedPosts(t *testing.T, db *sql.DB) {
	t.Helper()
	stmts := []string{
		`INSERT INTO blog_posts (slug, title, excerpt, body, status, created_at)
		 VALUES ('first', 'First Post', 'intro', '# Hello', 'published', '2024-03-01 10:00:00+00:00')`,
		`INSERT INTO blog_posts (slug, title, excerpt, body, status, created_at)
		 VALUES ('second', 'Second Post', 'more', 'Body', 'published', '2024-04-01 10:00:00+00:00')`,
		`INSERT INTO blog_posts (slug, title, excerpt, body, status, created_at)
		 VALUES ('draft', 'Draft Post', '', '', 'draft', '2024-05-01 10:00:00+00:00')`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestPublishedPostsOrderAndLimit(t *testing.T) {
	r, db := testRepo(t)
	seedPosts(t, db)

	posts := r.PublishedPosts(0)
	if len(posts) != 2 {
		t.Fatalf("PublishedPosts = %d, want 2 (draft excluded)", len(posts))
	}
	if posts[0].Slug != "second" {
		t.Errorf("newest first: got %q", posts[0].Slug)
	}

	if got := r.PublishedPosts(1); len(got) != 1 {
		t.Errorf("limit 1: got %d", len(got))
	}
}

func TestPostBySlug(t *testing.T) {
	r, db := testRepo(t)
	seedPosts(t, db)

	if _, ok := r.PostBySlug("draft"); ok {
		t.Error("draft post should read as not found")
	}
	if _, ok := r.PostBySlug("nope"); ok {
		t.Error("unknown slug should read as not found")
	}
	p, ok := r.PostBySlug("first")
	if !ok || p.Title != "First Post" {
		t.Errorf("PostBySlug = %+v, %v", p, ok)
	}
}

func TestFallbackOnEmptyAndOnFailure(t *testing.T) {
	r, db := testRepo(t)

	// Empty tables → defaults
	if got := r.Services(); len(got) != len(DefaultServices) {
		t.Errorf("empty services: got %d, want defaults", len(got))
	}
	if got := r.FAQs(); len(got) != len(DefaultFAQs) {
		t.Errorf("empty faq: got %d, want defaults", len(got))
	}

	// A row beats the defaults
	db.Exec("INSERT INTO services (title, description, display_order) VALUES ('Only One', 'd', 1)")
	got := r.Services()
	if len(got) != 1 || got[0].Title != "Only One" {
		t.Errorf("seeded services: %+v", got)
	}

	// Closed handle → defaults again
	db.Close()
	if got := r.Services(); len(got) != len(DefaultServices) {
		t.Errorf("services on closed db: got %d, want defaults", len(got))
	}
	if got := r.PublishedPosts(0); len(got) != len(DefaultPosts) {
		t.Errorf("posts on closed db: got %d, want defaults", len(got))
	}
}

func TestProjectsOrderedByDisplayOrder(t *testing.T) {
	r, db := testRepo(t)

	db.Exec(`INSERT INTO projects (slug, title, summary, is_active, display_order, created_at)
	         VALUES ('beta', 'Beta', '', 1, 2, '2024-01-01 00:00:00+00:00')`)
	db.Exec(`INSERT INTO projects (slug, title, summary, is_active, display_order, created_at)
	         VALUES ('alpha', 'Alpha', '', 1, 1, '2024-01-02 00:00:00+00:00')`)
	db.Exec(`INSERT INTO projects (slug, title, summary, is_active, display_order, created_at)
	         VALUES ('hidden', 'Hidden', '', 0, 0, '2024-01-03 00:00:00+00:00')`)

	projects := r.ActiveProjects(0)
	if len(projects) != 2 {
		t.Fatalf("ActiveProjects = %d, want 2", len(projects))
	}
	if projects[0].Slug != "alpha" {
		t.Errorf("order: got %q first", projects[0].Slug)
	}

	if _, ok := r.ProjectBySlug("hidden"); ok {
		t.Error("inactive project should read as not found")
	}
}

func TestIncrementViews(t *testing.T) {
	r, db := testRepo(t)
	seedPosts(t, db)

	r.IncrementPostViews("first")
	r.IncrementPostViews("first")

	var n int
	db.QueryRow("SELECT view_count FROM blog_posts WHERE slug = 'first'").Scan(&n)
	if n != 2 {
		t.Errorf("view_count = %d, want 2", n)
	}
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	out := string(RenderMarkdown("# Title\n\n<script>alert(1)</script>\n\n*em*"))
	if !strings.Contains(out, "<h1>") {
		t.Errorf("heading not rendered: %s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("script not stripped: %s", out)
	}
	if !strings.Contains(out, "<em>em</em>") {
		t.Errorf("emphasis not rendered: %s", out)
	}
}
