// Package seo renders per-page head metadata from the seo_meta table,
// falling back to caller-supplied defaults when no row exists.
package seo

import (
	"database/sql"
	"fmt"
	"html"
	"log"
	"strings"
)

const defaultRobots = "index, follow"

// Meta is one seo_meta row. Optional columns are nullable.
type Meta struct {
	PageSlug     string
	Title        sql.NullString
	Description  sql.NullString
	Keywords     sql.NullString
	CanonicalURL sql.NullString
	Robots       sql.NullString
	OGImage      sql.NullString
}

type Renderer struct {
	db *sql.DB
}

func New(db *sql.DB) *Renderer {
	return &Renderer{db: db}
}

// Lookup fetches the stored metadata for a slug. A missing row or a
// storage failure both report ok=false; the caller's fallbacks apply.
func (r *Renderer) Lookup(slug string) (Meta, bool) {
	var m Meta
	err := r.db.QueryRow(`
		SELECT page_slug, title, description, keywords, canonical_url, robots, og_image
		FROM seo_meta WHERE page_slug = ?
	`, slug).Scan(&m.PageSlug, &m.Title, &m.Description, &m.Keywords, &m.CanonicalURL, &m.Robots, &m.OGImage)
	if err == sql.ErrNoRows {
		return Meta{}, false
	}
	if err != nil {
		log.Printf("seo: lookup %q: %v", slug, err)
		return Meta{}, false
	}
	return m, true
}

// Render emits the head tags for a page. Stored values win per field;
// title, description and image fall back to the supplied defaults, while
// keywords and canonical are omitted entirely when no row provides them.
// Every interpolated value is attribute-escaped.
func (r *Renderer) Render(slug, fallbackTitle, fallbackDescription, fallbackImage string) string {
	m, _ := r.Lookup(slug)

	title := pick(m.Title, fallbackTitle)
	desc := pick(m.Description, fallbackDescription)
	image := pick(m.OGImage, fallbackImage)
	robots := pick(m.Robots, defaultRobots)

	var b strings.Builder
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	fmt.Fprintf(&b, "<meta name=\"description\" content=\"%s\">\n", html.EscapeString(desc))
	if m.Keywords.Valid && m.Keywords.String != "" {
		fmt.Fprintf(&b, "<meta name=\"keywords\" content=\"%s\">\n", html.EscapeString(m.Keywords.String))
	}
	fmt.Fprintf(&b, "<meta name=\"robots\" content=\"%s\">\n", html.EscapeString(robots))
	if m.CanonicalURL.Valid && m.CanonicalURL.String != "" {
		fmt.Fprintf(&b, "<link rel=\"canonical\" href=\"%s\">\n", html.EscapeString(m.CanonicalURL.String))
	}

	fmt.Fprintf(&b, "<meta property=\"og:title\" content=\"%s\">\n", html.EscapeString(title))
	fmt.Fprintf(&b, "<meta property=\"og:description\" content=\"%s\">\n", html.EscapeString(desc))
	if image != "" {
		fmt.Fprintf(&b, "<meta property=\"og:image\" content=\"%s\">\n", html.EscapeString(image))
	}
	fmt.Fprintf(&b, "<meta name=\"twitter:card\" content=\"summary_large_image\">\n")
	fmt.Fprintf(&b, "<meta name=\"twitter:title\" content=\"%s\">\n", html.EscapeString(title))
	fmt.Fprintf(&b, "<meta name=\"twitter:description\" content=\"%s\">\n", html.EscapeString(desc))
	if image != "" {
		fmt.Fprintf(&b, "<meta name=\"twitter:image\" content=\"%s\">\n", html.EscapeString(image))
	}

	return b.String()
}

func pick(stored sql.NullString, fallback string) string {
	if stored.Valid && stored.String != "" {
		return stored.String
	}
	return fallback
}
