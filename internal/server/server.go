package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	marquee "marquee"
	"marquee/internal/abtest"
	"marquee/internal/analytics"
	"marquee/internal/config"
	"marquee/internal/content"
	"marquee/internal/forms"
	"marquee/internal/geo"
	"marquee/internal/mail"
	"marquee/internal/seo"
	"marquee/internal/settings"
)

// Server is the main HTTP server.
type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	db         *sql.DB

	settings   *settings.Store
	seo        *seo.Renderer
	tracker    *analytics.Tracker
	ab         *abtest.Engine
	content    *content.Repo
	inquiries  *forms.InquiryStore
	newsletter *forms.NewsletterStore
	captcha    *forms.CaptchaVerifier
	mailer     mail.Mailer

	inquiryLimiter    *forms.RateLimiter
	newsletterLimiter *forms.RateLimiter

	tmpl      *template.Template
	startedAt time.Time
}

// Options holds server dependencies. Mailer may be nil, in which case
// one is built from the config.
type Options struct {
	Config *config.Config
	DB     *sql.DB
	Mailer mail.Mailer
}

// New creates a Server with all dependencies wired.
func New(opts Options) (*Server, error) {
	cfg := opts.Config

	mailer := opts.Mailer
	if mailer == nil {
		mailer = mail.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		cfg:               cfg,
		db:                opts.DB,
		settings:          settings.New(opts.DB),
		seo:               seo.New(opts.DB),
		tracker:           analytics.NewTracker(opts.DB, geo.New(cfg.GeoProviders, cfg.GeoTimeout)),
		ab:                abtest.NewEngine(opts.DB),
		content:           content.New(opts.DB),
		inquiries:         forms.NewInquiryStore(opts.DB),
		newsletter:        forms.NewNewsletterStore(opts.DB),
		captcha:           forms.NewCaptchaVerifier(cfg.RecaptchaSecret, cfg.RecaptchaVerifyURL),
		mailer:            mailer,
		inquiryLimiter:    forms.NewRateLimiter(cfg.InquiryLimit, cfg.RateLimitWindow),
		newsletterLimiter: forms.NewRateLimiter(cfg.NewsletterLimit, cfg.RateLimitWindow),
		tmpl:              tmpl,
		startedAt:         time.Now().UTC(),
	}

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	log.Printf("listening on %s", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down all components.
func (s *Server) Shutdown(ctx context.Context) {
	log.Println("shutting down HTTP server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	log.Println("flushing experiment events...")
	s.ab.Close()

	s.inquiryLimiter.Close()
	s.newsletterLimiter.Close()
}

// Handler exposes the route tree for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func parseTemplates() (*template.Template, error) {
	sub, err := fs.Sub(marquee.TemplateFS, "web/templates")
	if err != nil {
		return nil, err
	}
	return template.New("").Funcs(template.FuncMap{
		"formatDate": func(t time.Time) string { return t.Format("January 2, 2006") },
		"markdown":   content.RenderMarkdown,
	}).ParseFS(sub, "*.html")
}

// Helper functions

func jsonError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": message})
}

func jsonOK(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
	}
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := s.tmpl.ExecuteTemplate(w, "404.html", s.basePage(w, r, "not-found", "Page not found")); err != nil {
		log.Printf("render 404: %v", err)
	}
}
