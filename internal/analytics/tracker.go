// Package analytics records visitor sessions and page views. Every write
// path degrades silently: a failed insert or update is logged and the
// page renders without tracking, never with an error.
package analytics

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"marquee/internal/geo"
)

// DebounceWindow suppresses repeat views of the same page from the same
// session. ActiveWindow defines what counts as a live session.
const (
	DebounceWindow = 30 * time.Second
	ActiveWindow   = 5 * time.Minute
)

// Visit carries the request-scoped client state a handler needs for
// tracking: no handler reads cookies or headers directly.
type Visit struct {
	SessionID string // session cookie value, empty on first contact
	IP        string // validated client IP, "0.0.0.0" when unparseable
	UserAgent string
	Referrer  string
	DNT       bool   // DNT: 1 header present
	Consent   string // analytics_consent cookie value, empty when absent
}

// ConsentGranted reports whether personal-data-bearing tracking
// (geolocation) may proceed. Absence of the consent cookie is treated as
// consent; only an explicit non-accepted value or DNT denies it.
func (v Visit) ConsentGranted() bool {
	if v.DNT {
		return false
	}
	return v.Consent == "" || v.Consent == "accepted"
}

// Tracker creates and updates visitor sessions and page view records.
type Tracker struct {
	db  *sql.DB
	geo *geo.Resolver
}

func NewTracker(db *sql.DB, resolver *geo.Resolver) *Tracker {
	return &Tracker{db: db, geo: resolver}
}

// EnsureSession resumes the visit's session or creates a new one.
// It returns the session id the caller should persist client-side and
// whether the session is new. A resume whose row has gone missing falls
// through to creation.
func (t *Tracker) EnsureSession(v Visit) (string, bool) {
	if v.SessionID != "" {
		res, err := t.db.Exec(
			"UPDATE analytics_sessions SET last_activity = ?, page_count = page_count + 1 WHERE session_id = ?",
			time.Now().UTC(), v.SessionID,
		)
		if err == nil {
			if n, _ := res.RowsAffected(); n > 0 {
				return v.SessionID, false
			}
		} else {
			log.Printf("analytics: touch session: %v", err)
		}
	}
	return t.createSession(v), true
}

func (t *Tracker) createSession(v Visit) string {
	id, err := newSessionID()
	if err != nil {
		log.Printf("analytics: session id: %v", err)
		return ""
	}

	loc := geo.Unknown
	if v.ConsentGranted() && t.geo != nil {
		loc = t.geo.Resolve(v.IP)
	}

	now := time.Now().UTC()
	_, err = t.db.Exec(`
		INSERT INTO analytics_sessions (
			session_id, ip_address, user_agent, referrer, device_type, browser,
			country, country_code, city, region, latitude, longitude,
			started_at, last_activity, page_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
	`, id, v.IP, v.UserAgent, v.Referrer,
		ClassifyDevice(v.UserAgent), ClassifyBrowser(v.UserAgent),
		loc.Country, loc.CountryCode, loc.City, loc.Region, loc.Latitude, loc.Longitude,
		now, now)
	if err != nil {
		log.Printf("analytics: create session: %v", err)
	}
	return id
}

// TrackPageView resolves the session and records a page view unless the
// same session viewed the same page inside the debounce window. It
// returns the session id to persist and whether an event was recorded.
func (t *Tracker) TrackPageView(v Visit, pageName, pageURL string) (string, bool) {
	sessionID, _ := t.EnsureSession(v)
	if sessionID == "" {
		return "", false
	}

	var last time.Time
	err := t.db.QueryRow(`
		SELECT viewed_at FROM analytics_pageviews
		WHERE session_id = ? AND page_name = ?
		ORDER BY viewed_at DESC LIMIT 1
	`, sessionID, pageName).Scan(&last)
	if err == nil && time.Since(last.UTC()) < DebounceWindow {
		return sessionID, false
	}
	if err != nil && err != sql.ErrNoRows {
		log.Printf("analytics: debounce check: %v", err)
		return sessionID, false
	}

	if err := t.recordView(sessionID, pageName, pageURL); err != nil {
		log.Printf("analytics: record view: %v", err)
		return sessionID, false
	}
	return sessionID, true
}

// recordView appends the event and bumps the per-page summary in one
// transaction so the counter never drifts from the event log.
func (t *Tracker) recordView(sessionID, pageName, pageURL string) error {
	tx, err := t.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	if _, err := tx.Exec(
		"INSERT INTO analytics_pageviews (session_id, page_name, page_url, viewed_at) VALUES (?, ?, ?, ?)",
		sessionID, pageName, pageURL, now,
	); err != nil {
		return fmt.Errorf("insert pageview: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO page_views (page_name, view_count, last_viewed) VALUES (?, 1, ?)
		ON CONFLICT(page_name) DO UPDATE SET
			view_count = view_count + 1,
			last_viewed = excluded.last_viewed
	`, pageName, now); err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}

	return tx.Commit()
}

// MarkContentViewed records that a session has seen a piece of content
// and reports whether this is the first time. Detail pages use it to
// bump an entity's view counter at most once per session.
func (t *Tracker) MarkContentViewed(sessionID, kind, slug string) bool {
	if sessionID == "" {
		return false
	}
	res, err := t.db.Exec(
		"INSERT OR IGNORE INTO content_view_marks (session_id, content_kind, slug, viewed_at) VALUES (?, ?, ?, ?)",
		sessionID, kind, slug, time.Now().UTC(),
	)
	if err != nil {
		log.Printf("analytics: view mark: %v", err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
