package server

import (
	"encoding/xml"
	"log"
	"net/http"
	"strings"
)

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type sitemapIndex struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// handleSitemap serves sitemap.xml covering static pages, every
// published post and every project. Draft posts never appear.
func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	base := strings.TrimRight(s.cfg.BaseURL, "/")

	idx := sitemapIndex{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: base + "/", ChangeFreq: "weekly", Priority: "1.0"},
			{Loc: base + "/blog", ChangeFreq: "weekly", Priority: "0.8"},
			{Loc: base + "/projects", ChangeFreq: "monthly", Priority: "0.8"},
			{Loc: base + "/privacy-policy", ChangeFreq: "yearly", Priority: "0.3"},
			{Loc: base + "/terms-of-service", ChangeFreq: "yearly", Priority: "0.3"},
		},
	}

	for _, p := range s.content.PublishedPosts(0) {
		idx.URLs = append(idx.URLs, sitemapURL{
			Loc:        base + "/blog-post?slug=" + p.Slug,
			LastMod:    p.CreatedAt.Format("2006-01-02"),
			ChangeFreq: "monthly",
			Priority:   "0.6",
		})
	}
	for _, p := range s.content.AllProjects() {
		idx.URLs = append(idx.URLs, sitemapURL{
			Loc:        base + "/project-view?slug=" + p.Slug,
			LastMod:    p.CreatedAt.Format("2006-01-02"),
			ChangeFreq: "monthly",
			Priority:   "0.6",
		})
	}

	out, err := xml.MarshalIndent(idx, "", "  ")
	if err != nil {
		log.Printf("sitemap: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write([]byte(xml.Header))
	w.Write(out)
}
