package server

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"marquee/internal/abtest"
	"marquee/internal/analytics"
)

const sessionCookie = "mq_session"

// visitFrom builds the request-scoped tracking context. Handlers never
// read tracking cookies or headers anywhere else.
func visitFrom(r *http.Request) analytics.Visit {
	v := analytics.Visit{
		IP:        clientIP(r),
		UserAgent: strings.TrimSpace(r.UserAgent()),
		Referrer:  strings.TrimSpace(r.Referer()),
		DNT:       r.Header.Get("DNT") == "1",
	}
	if ck, err := r.Cookie(sessionCookie); err == nil {
		v.SessionID = ck.Value
	}
	if ck, err := r.Cookie("analytics_consent"); err == nil {
		v.Consent = ck.Value
	}
	return v
}

// clientIP returns the validated client address: the first
// X-Forwarded-For entry when present, else the peer address, else
// "0.0.0.0" when neither parses as an IP.
func clientIP(r *http.Request) string {
	candidate := ""
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		candidate = strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
	} else {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		candidate = host
	}
	if net.ParseIP(candidate) == nil {
		return "0.0.0.0"
	}
	return candidate
}

// track records a page view and refreshes the session cookie when a new
// session was created. Returns the session id for the request.
func (s *Server) track(w http.ResponseWriter, r *http.Request, pageName string) string {
	v := visitFrom(r)
	id, _ := s.tracker.TrackPageView(v, pageName, r.URL.RequestURI())
	if id != "" && id != v.SessionID {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return id
}

// cookieAssignments is the cookie-backed abtest.AssignmentStore. The
// engine never touches HTTP; swapping this for server-side storage
// means implementing the same two methods elsewhere.
type cookieAssignments struct {
	w http.ResponseWriter
	r *http.Request
}

func (c cookieAssignments) Get(testID int64) (string, bool) {
	ck, err := c.r.Cookie(abCookieName(testID))
	if err != nil {
		return "", false
	}
	for _, name := range abtest.VariantNames {
		if ck.Value == name {
			return ck.Value, true
		}
	}
	return "", false
}

func (c cookieAssignments) Set(testID int64, variant string, ttl time.Duration) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     abCookieName(testID),
		Value:    variant,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

func abCookieName(testID int64) string {
	return fmt.Sprintf("ab_test_%d", testID)
}
