package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(requestLogger)
	r.Use(securityHeaders)

	// Pages
	r.Get("/", s.handleHome)
	r.Get("/blog", s.handleBlogIndex)
	r.Get("/blog-post", s.handleBlogPost)
	r.Get("/projects", s.handleProjects)
	r.Get("/project-view", s.handleProjectView)
	r.Get("/privacy-policy", s.handlePrivacyPolicy)
	r.Get("/terms-of-service", s.handleTermsOfService)
	r.With(cacheControl("public, max-age=3600")).Get("/sitemap.xml", s.handleSitemap)

	// Forms
	r.With(bodyLimiter(16<<10)).Post("/submit-inquiry", s.handleSubmitInquiry)
	r.With(bodyLimiter(4<<10)).Post("/newsletter-subscribe", s.handleNewsletterSubscribe)
	r.Get("/newsletter-unsubscribe", s.handleNewsletterUnsubscribe)

	// Experiment event beacon
	r.With(bodyLimiter(1<<10)).Post("/api/ab-event", s.handleABEvent)

	r.Get("/healthz", s.handleHealth)

	r.NotFound(s.renderNotFound)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, map[string]any{
		"status": "ok",
		"uptime": timeSince(s.startedAt),
	})
}
