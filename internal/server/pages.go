package server

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"marquee/internal/content"
)

// siteInfo is the white-label branding block every page receives.
// Values come from the settings store with built-in defaults.
type siteInfo struct {
	Name         string
	Tagline      string
	PrimaryColor string
	ContactEmail string
	ContactPhone string
	Address      string
	TwitterURL   string
	LinkedInURL  string
}

func (s *Server) siteInfo() siteInfo {
	return siteInfo{
		Name:         s.settings.Get("site_name", "Marquee"),
		Tagline:      s.settings.Get("tagline", "A digital studio for ambitious companies"),
		PrimaryColor: s.settings.Get("primary_color", "#1a73e8"),
		ContactEmail: s.settings.Get("contact_email", "hello@example.com"),
		ContactPhone: s.settings.Get("contact_phone", ""),
		Address:      s.settings.Get("address", ""),
		TwitterURL:   s.settings.Get("twitter_url", ""),
		LinkedInURL:  s.settings.Get("linkedin_url", ""),
	}
}

// pageBase is embedded by every page's template data.
type pageBase struct {
	Site    siteInfo
	SEOTags template.HTML
	Year    int
}

func (s *Server) basePage(w http.ResponseWriter, r *http.Request, slug, fallbackTitle string) pageBase {
	site := s.siteInfo()
	title := fallbackTitle
	if title == "" {
		title = site.Name
	} else {
		title = title + " | " + site.Name
	}
	return pageBase{
		Site:    site,
		SEOTags: template.HTML(s.seo.Render(slug, title, site.Tagline, s.settings.Get("seo_default_image", ""))),
		Year:    time.Now().Year(),
	}
}

// hero is the A/B-tested headline block. Tracked is false when the
// render fell back to default content, in which case no variant events
// are attributed.
type hero struct {
	Headline  string
	VariantID int64
	Tracked   bool
}

type homeData struct {
	pageBase
	Hero          hero
	Popup         content.Popup
	ShowPopup     bool
	Services      []content.Service
	Projects      []content.Project
	Posts         []content.BlogPost
	Testimonials  []content.Testimonial
	FAQs          []content.FAQ
	ContactStatus string
}

// popupFor returns the active popup unless the visitor's popup_seen
// cookie says they already dismissed it. The cookie is set client-side
// on dismissal with a one-day expiry.
func (s *Server) popupFor(r *http.Request) (content.Popup, bool) {
	p, ok := s.content.ActivePopup()
	if !ok {
		return content.Popup{}, false
	}
	if _, err := r.Cookie(fmt.Sprintf("popup_seen_%d", p.ID)); err == nil {
		return content.Popup{}, false
	}
	return p, true
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.track(w, r, "home")

	h := hero{Headline: s.settings.Get("hero_headline", "We build digital products that grow companies.")}
	if v, ok := s.ab.Resolve("hero_headline", cookieAssignments{w: w, r: r}); ok {
		h = hero{Headline: v.Content, VariantID: v.ID, Tracked: true}
		s.ab.RecordView(v.ID)
	}

	popup, showPopup := s.popupFor(r)

	s.render(w, "home.html", homeData{
		pageBase:      s.basePage(w, r, "home", ""),
		Hero:          h,
		Popup:         popup,
		ShowPopup:     showPopup,
		Services:      s.content.Services(),
		Projects:      s.content.ActiveProjects(3),
		Posts:         s.content.PublishedPosts(3),
		Testimonials:  s.content.Testimonials(),
		FAQs:          s.content.FAQs(),
		ContactStatus: r.URL.Query().Get("contact"),
	})
}

type blogIndexData struct {
	pageBase
	Posts []content.BlogPost
}

func (s *Server) handleBlogIndex(w http.ResponseWriter, r *http.Request) {
	s.track(w, r, "blog")

	s.render(w, "blog.html", blogIndexData{
		pageBase: s.basePage(w, r, "blog", "Blog"),
		Posts:    s.content.PublishedPosts(0),
	})
}

type blogPostData struct {
	pageBase
	Post content.BlogPost
	Body template.HTML
}

func (s *Server) handleBlogPost(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	post, ok := s.content.PostBySlug(slug)
	if !ok {
		s.renderNotFound(w, r)
		return
	}

	sessionID := s.track(w, r, "blog:"+slug)
	if s.tracker.MarkContentViewed(sessionID, "blog", slug) {
		s.content.IncrementPostViews(slug)
	}

	s.render(w, "blog_post.html", blogPostData{
		pageBase: s.basePage(w, r, "blog-"+slug, post.Title),
		Post:     post,
		Body:     content.RenderMarkdown(post.Body),
	})
}

type projectsData struct {
	pageBase
	Projects []content.Project
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	s.track(w, r, "projects")

	s.render(w, "projects.html", projectsData{
		pageBase: s.basePage(w, r, "projects", "Our Work"),
		Projects: s.content.ActiveProjects(0),
	})
}

type projectData struct {
	pageBase
	Project content.Project
	Body    template.HTML
}

func (s *Server) handleProjectView(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	project, ok := s.content.ProjectBySlug(slug)
	if !ok {
		s.renderNotFound(w, r)
		return
	}

	sessionID := s.track(w, r, "project:"+slug)
	if s.tracker.MarkContentViewed(sessionID, "project", slug) {
		s.content.IncrementProjectViews(slug)
	}

	s.render(w, "project.html", projectData{
		pageBase: s.basePage(w, r, "project-"+slug, project.Title),
		Project:  project,
		Body:     content.RenderMarkdown(project.Body),
	})
}

type legalData struct {
	pageBase
	Title string
	Body  template.HTML
}

func (s *Server) handlePrivacyPolicy(w http.ResponseWriter, r *http.Request) {
	s.track(w, r, "privacy-policy")

	src := s.settings.Get("privacy_policy_md", "## Privacy Policy\n\nWe collect only what the site needs to function.")
	s.render(w, "legal.html", legalData{
		pageBase: s.basePage(w, r, "privacy-policy", "Privacy Policy"),
		Title:    "Privacy Policy",
		Body:     content.RenderMarkdown(src),
	})
}

func (s *Server) handleTermsOfService(w http.ResponseWriter, r *http.Request) {
	s.track(w, r, "terms-of-service")

	src := s.settings.Get("terms_of_service_md", "## Terms of Service\n\nStandard engagement terms apply.")
	s.render(w, "legal.html", legalData{
		pageBase: s.basePage(w, r, "terms-of-service", "Terms of Service"),
		Title:    "Terms of Service",
		Body:     content.RenderMarkdown(src),
	})
}

type messageData struct {
	pageBase
	Title   string
	Message string
}

func timeSince(t time.Time) string {
	return time.Since(t).Round(time.Second).String()
}
