package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"marquee/internal/forms"
)

// handleSubmitInquiry processes the contact form. The endpoint serves a
// page-reload UX: validation problems bounce back to the homepage with a
// query status, while rate limiting and bot failures get real error
// codes since no human workflow continues past them.
func (s *Server) handleSubmitInquiry(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	if !s.inquiryLimiter.Allow(ip) {
		http.Error(w, "too many submissions, try again later", http.StatusTooManyRequests)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if !s.captcha.Verify(r.PostFormValue("captcha_token"), ip) {
		http.Error(w, "verification failed", http.StatusBadRequest)
		return
	}

	_, err := s.inquiries.Create(
		r.PostFormValue("name"),
		r.PostFormValue("email"),
		r.PostFormValue("phone"),
		r.PostFormValue("message"),
	)
	var fieldErr *forms.FieldError
	if errors.As(err, &fieldErr) {
		redirectHome(w, r, "invalid-"+fieldErr.Field)
		return
	}
	if err != nil {
		log.Printf("inquiry: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.notifyInquiry(r)

	redirectHome(w, r, "success")
}

// notifyInquiry emails the configured admin about a new submission.
// Failure is logged, never surfaced: the inquiry is already persisted.
func (s *Server) notifyInquiry(r *http.Request) {
	to := s.cfg.AdminEmail
	if to == "" {
		return
	}
	body := fmt.Sprintf("New inquiry from %s <%s>\n\n%s",
		forms.Sanitize(r.PostFormValue("name")),
		forms.Sanitize(r.PostFormValue("email")),
		strings.TrimSpace(r.PostFormValue("message")))
	if err := s.mailer.Send(to, "New website inquiry", body); err != nil {
		log.Printf("inquiry mail: %v", err)
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request, status string) {
	http.Redirect(w, r, "/?contact="+status+"#contact", http.StatusSeeOther)
}

// handleNewsletterSubscribe accepts a JSON or form-encoded body and
// always answers JSON; the signup widget submits via fetch.
func (s *Server) handleNewsletterSubscribe(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	if !s.newsletterLimiter.Allow(ip) {
		jsonError(w, "too many attempts, try again later", http.StatusTooManyRequests)
		return
	}

	email, captchaToken, err := subscribePayload(r)
	if err != nil {
		jsonError(w, "bad request", http.StatusBadRequest)
		return
	}

	if !s.captcha.Verify(captchaToken, ip) {
		jsonError(w, "verification failed", http.StatusBadRequest)
		return
	}

	sub, _, err := s.newsletter.Subscribe(email)
	if errors.Is(err, forms.ErrAlreadySubscribed) {
		jsonOK(w, map[string]any{"success": false, "message": "already subscribed"})
		return
	}
	var fieldErr *forms.FieldError
	if errors.As(err, &fieldErr) {
		jsonError(w, fieldErr.Message, http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("newsletter subscribe: %v", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.sendWelcome(sub.Email, sub.UnsubscribeToken)

	jsonOK(w, map[string]any{"success": true, "message": "subscribed"})
}

// subscribePayload reads the email and captcha token from either a JSON
// or form-encoded body.
func subscribePayload(r *http.Request) (email, captchaToken string, err error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Email        string `json:"email"`
			CaptchaToken string `json:"captcha_token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", "", err
		}
		return req.Email, req.CaptchaToken, nil
	}
	if err := r.ParseForm(); err != nil {
		return "", "", err
	}
	return r.PostFormValue("email"), r.PostFormValue("captcha_token"), nil
}

// sendWelcome mails the new subscriber a welcome note with their
// one-click unsubscribe link. Best-effort.
func (s *Server) sendWelcome(email, token string) {
	body := fmt.Sprintf("Thanks for subscribing!\n\nUnsubscribe any time: %s/newsletter-unsubscribe?token=%s",
		s.cfg.BaseURL, token)
	if err := s.mailer.Send(email, "Welcome to the newsletter", body); err != nil {
		log.Printf("welcome mail: %v", err)
	}
}

func (s *Server) handleNewsletterUnsubscribe(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		s.renderNotFound(w, r)
		return
	}

	ok, err := s.newsletter.Unsubscribe(token)
	if err != nil {
		log.Printf("newsletter unsubscribe: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !ok {
		s.renderNotFound(w, r)
		return
	}

	s.render(w, "message.html", messageData{
		pageBase: s.basePage(w, r, "newsletter-unsubscribe", "Unsubscribed"),
		Title:    "You're unsubscribed",
		Message:  "You won't receive any more newsletters from us.",
	})
}

// handleABEvent is the fire-and-forget beacon endpoint for experiment
// view/click events. Recording is buffered; the response never waits on
// storage.
func (s *Server) handleABEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VariantID int64  `json:"variant_id"`
		Event     string `json:"event"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.VariantID <= 0 || (req.Event != "view" && req.Event != "click") {
		jsonError(w, "bad request", http.StatusBadRequest)
		return
	}

	switch req.Event {
	case "view":
		s.ab.RecordView(req.VariantID)
	case "click":
		s.ab.RecordClick(req.VariantID)
	}

	w.WriteHeader(http.StatusNoContent)
}
