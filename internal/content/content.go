// Package content reads the site's display entities. Every list read
// goes through fetchWithFallback: on query failure or an empty table the
// section renders a fixed in-code default instead of failing.
package content

import (
	"database/sql"
	"log"
	"time"
)

// Service is one offering shown in the services section.
type Service struct {
	ID          int64
	Title       string
	Description string
	Icon        sql.NullString
}

// Testimonial is one client quote.
type Testimonial struct {
	ID      int64
	Author  string
	Company sql.NullString
	Quote   string
	Rating  int
}

// FAQ is one question/answer pair.
type FAQ struct {
	ID       int64
	Question string
	Answer   string
}

// Popup is an announcement overlay shown until the visitor dismisses it.
type Popup struct {
	ID      int64
	Title   string
	Content string
}

// BlogPost is one article. Body holds markdown source.
type BlogPost struct {
	ID        int64
	Slug      string
	Title     string
	Excerpt   string
	Body      string
	ImageURL  sql.NullString
	Author    sql.NullString
	Tags      sql.NullString
	Status    string
	ViewCount int
	CreatedAt time.Time
}

// Project is one portfolio entry. Body holds markdown source.
type Project struct {
	ID        int64
	Slug      string
	Title     string
	Summary   string
	Body      string
	ImageURL  sql.NullString
	Client    sql.NullString
	ViewCount int
	CreatedAt time.Time
}

// Repo reads content tables.
type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// fetchWithFallback runs fetch and substitutes fallback on error or an
// empty result, logging the failure. Sections always render something.
func fetchWithFallback[T any](label string, fetch func() ([]T, error), fallback []T) []T {
	items, err := fetch()
	if err != nil {
		log.Printf("content: %s: %v", label, err)
		return fallback
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}

// Services returns active services in display order.
func (r *Repo) Services() []Service {
	return fetchWithFallback("services", func() ([]Service, error) {
		rows, err := r.db.Query(`
			SELECT id, title, description, icon FROM services
			WHERE is_active = 1 ORDER BY display_order, id
		`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var out []Service
		for rows.Next() {
			var s Service
			if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Icon); err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, rows.Err()
	}, DefaultServices)
}

// Testimonials returns active testimonials in display order.
func (r *Repo) Testimonials() []Testimonial {
	return fetchWithFallback("testimonials", func() ([]Testimonial, error) {
		rows, err := r.db.Query(`
			SELECT id, author, company, quote, rating FROM testimonials
			WHERE is_active = 1 ORDER BY display_order, id
		`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var out []Testimonial
		for rows.Next() {
			var ts Testimonial
			if err := rows.Scan(&ts.ID, &ts.Author, &ts.Company, &ts.Quote, &ts.Rating); err != nil {
				return nil, err
			}
			out = append(out, ts)
		}
		return out, rows.Err()
	}, DefaultTestimonials)
}

// FAQs returns active questions in display order.
func (r *Repo) FAQs() []FAQ {
	return fetchWithFallback("faq", func() ([]FAQ, error) {
		rows, err := r.db.Query(`
			SELECT id, question, answer FROM faq
			WHERE is_active = 1 ORDER BY display_order, id
		`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var out []FAQ
		for rows.Next() {
			var f FAQ
			if err := rows.Scan(&f.ID, &f.Question, &f.Answer); err != nil {
				return nil, err
			}
			out = append(out, f)
		}
		return out, rows.Err()
	}, DefaultFAQs)
}

// ActivePopup returns the highest-priority active popup, if any. Unlike
// the section lists there is no default payload: no row means no popup.
func (r *Repo) ActivePopup() (Popup, bool) {
	var p Popup
	err := r.db.QueryRow(`
		SELECT id, title, content FROM popups
		WHERE is_active = 1 ORDER BY display_order, id LIMIT 1
	`).Scan(&p.ID, &p.Title, &p.Content)
	if err == sql.ErrNoRows {
		return Popup{}, false
	}
	if err != nil {
		log.Printf("content: popup: %v", err)
		return Popup{}, false
	}
	return p, true
}

// PublishedPosts returns published posts, newest first. limit <= 0 means
// all; the homepage preview passes 3.
func (r *Repo) PublishedPosts(limit int) []BlogPost {
	return fetchWithFallback("blog posts", func() ([]BlogPost, error) {
		query := `
			SELECT id, slug, title, excerpt, body, image_url, author, tags, status, view_count, created_at
			FROM blog_posts WHERE status = 'published' ORDER BY created_at DESC, id DESC
		`
		var rows *sql.Rows
		var err error
		if limit > 0 {
			rows, err = r.db.Query(query+" LIMIT ?", limit)
		} else {
			rows, err = r.db.Query(query)
		}
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return scanPosts(rows)
	}, DefaultPosts)
}

// PostBySlug fetches one published post. Drafts read as not found.
func (r *Repo) PostBySlug(slug string) (BlogPost, bool) {
	rows, err := r.db.Query(`
		SELECT id, slug, title, excerpt, body, image_url, author, tags, status, view_count, created_at
		FROM blog_posts WHERE slug = ? AND status = 'published'
	`, slug)
	if err != nil {
		log.Printf("content: post %q: %v", slug, err)
		return BlogPost{}, false
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil || len(posts) == 0 {
		return BlogPost{}, false
	}
	return posts[0], true
}

// ActiveProjects returns active projects in display order. limit <= 0
// means all.
func (r *Repo) ActiveProjects(limit int) []Project {
	return fetchWithFallback("projects", func() ([]Project, error) {
		query := `
			SELECT id, slug, title, summary, body, image_url, client, view_count, created_at
			FROM projects WHERE is_active = 1 ORDER BY display_order, id
		`
		var rows *sql.Rows
		var err error
		if limit > 0 {
			rows, err = r.db.Query(query+" LIMIT ?", limit)
		} else {
			rows, err = r.db.Query(query)
		}
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return scanProjects(rows)
	}, DefaultProjects)
}

// AllProjects returns every project, hidden ones included. The sitemap
// lists all of them; only the browsable pages filter on is_active.
func (r *Repo) AllProjects() []Project {
	return fetchWithFallback("all projects", func() ([]Project, error) {
		rows, err := r.db.Query(`
			SELECT id, slug, title, summary, body, image_url, client, view_count, created_at
			FROM projects ORDER BY display_order, id
		`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return scanProjects(rows)
	}, nil)
}

// ProjectBySlug fetches one active project.
func (r *Repo) ProjectBySlug(slug string) (Project, bool) {
	rows, err := r.db.Query(`
		SELECT id, slug, title, summary, body, image_url, client, view_count, created_at
		FROM projects WHERE slug = ? AND is_active = 1
	`, slug)
	if err != nil {
		log.Printf("content: project %q: %v", slug, err)
		return Project{}, false
	}
	defer rows.Close()

	projects, err := scanProjects(rows)
	if err != nil || len(projects) == 0 {
		return Project{}, false
	}
	return projects[0], true
}

// IncrementPostViews bumps a post's view counter atomically in SQLite.
func (r *Repo) IncrementPostViews(slug string) {
	if _, err := r.db.Exec(
		"UPDATE blog_posts SET view_count = view_count + 1 WHERE slug = ?", slug,
	); err != nil {
		log.Printf("content: bump post views %q: %v", slug, err)
	}
}

// IncrementProjectViews bumps a project's view counter.
func (r *Repo) IncrementProjectViews(slug string) {
	if _, err := r.db.Exec(
		"UPDATE projects SET view_count = view_count + 1 WHERE slug = ?", slug,
	); err != nil {
		log.Printf("content: bump project views %q: %v", slug, err)
	}
}

func scanPosts(rows *sql.Rows) ([]BlogPost, error) {
	var out []BlogPost
	for rows.Next() {
		var p BlogPost
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Body,
			&p.ImageURL, &p.Author, &p.Tags, &p.Status, &p.ViewCount, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProjects(rows *sql.Rows) ([]Project, error) {
	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.Summary, &p.Body,
			&p.ImageURL, &p.Client, &p.ViewCount, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
