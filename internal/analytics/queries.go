package analytics

import (
	"database/sql"
	"log"
	"time"
)

// CountStat is a labeled count used by the traffic breakdowns.
type CountStat struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// SessionInfo summarizes one visitor session.
type SessionInfo struct {
	SessionID    string    `json:"session_id"`
	DeviceType   string    `json:"device_type"`
	Browser      string    `json:"browser"`
	Country      string    `json:"country"`
	Referrer     string    `json:"referrer"`
	StartedAt    time.Time `json:"started_at"`
	LastActivity time.Time `json:"last_activity"`
	PageCount    int       `json:"page_count"`
}

// Aggregate accessors return zero values on query failure; a broken
// analytics store must not break whatever calls it.

// TotalSessions counts sessions started in the last N days.
func (t *Tracker) TotalSessions(days int) int {
	var n int
	err := t.db.QueryRow(
		"SELECT COUNT(*) FROM analytics_sessions WHERE started_at >= ?", daysAgo(days),
	).Scan(&n)
	if err != nil {
		log.Printf("analytics: total sessions: %v", err)
		return 0
	}
	return n
}

// AvgSessionDuration returns the mean session length in seconds over the
// last N days.
func (t *Tracker) AvgSessionDuration(days int) float64 {
	rows, err := t.db.Query(
		"SELECT started_at, last_activity FROM analytics_sessions WHERE started_at >= ?", daysAgo(days),
	)
	if err != nil {
		log.Printf("analytics: avg duration: %v", err)
		return 0
	}
	defer rows.Close()

	var total float64
	var count int
	for rows.Next() {
		var started, last time.Time
		if err := rows.Scan(&started, &last); err != nil {
			continue
		}
		if d := last.Sub(started).Seconds(); d >= 0 {
			total += d
			count++
		}
	}
	if err := rows.Err(); err != nil {
		log.Printf("analytics: avg duration rows: %v", err)
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// TrafficByCountry breaks sessions down by country over the last N days.
func (t *Tracker) TrafficByCountry(days int) []CountStat {
	return t.breakdown("country", days)
}

// TrafficByDevice breaks sessions down by device type over the last N days.
func (t *Tracker) TrafficByDevice(days int) []CountStat {
	return t.breakdown("device_type", days)
}

// TrafficByBrowser breaks sessions down by browser over the last N days.
func (t *Tracker) TrafficByBrowser(days int) []CountStat {
	return t.breakdown("browser", days)
}

func (t *Tracker) breakdown(column string, days int) []CountStat {
	// column is one of three fixed identifiers above, never user input.
	rows, err := t.db.Query(
		"SELECT "+column+", COUNT(*) FROM analytics_sessions WHERE started_at >= ? GROUP BY "+column+" ORDER BY COUNT(*) DESC",
		daysAgo(days),
	)
	if err != nil {
		log.Printf("analytics: breakdown %s: %v", column, err)
		return nil
	}
	defer rows.Close()
	return scanCounts(rows)
}

// TopReferrers lists the most common non-empty referrers in the last N days.
func (t *Tracker) TopReferrers(days, limit int) []CountStat {
	if limit <= 0 {
		limit = 10
	}
	rows, err := t.db.Query(`
		SELECT referrer, COUNT(*) FROM analytics_sessions
		WHERE started_at >= ? AND referrer != ''
		GROUP BY referrer ORDER BY COUNT(*) DESC LIMIT ?
	`, daysAgo(days), limit)
	if err != nil {
		log.Printf("analytics: top referrers: %v", err)
		return nil
	}
	defer rows.Close()
	return scanCounts(rows)
}

// ActiveSessions counts sessions with activity inside the active window.
func (t *Tracker) ActiveSessions() int {
	var n int
	err := t.db.QueryRow(
		"SELECT COUNT(*) FROM analytics_sessions WHERE last_activity >= ?",
		time.Now().UTC().Add(-ActiveWindow),
	).Scan(&n)
	if err != nil {
		log.Printf("analytics: active sessions: %v", err)
		return 0
	}
	return n
}

// RecentSessions returns the newest sessions, most recent first.
func (t *Tracker) RecentSessions(limit int) []SessionInfo {
	if limit <= 0 {
		limit = 20
	}
	rows, err := t.db.Query(`
		SELECT session_id, device_type, browser, country, referrer, started_at, last_activity, page_count
		FROM analytics_sessions ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		log.Printf("analytics: recent sessions: %v", err)
		return nil
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var s SessionInfo
		if err := rows.Scan(&s.SessionID, &s.DeviceType, &s.Browser, &s.Country,
			&s.Referrer, &s.StartedAt, &s.LastActivity, &s.PageCount); err != nil {
			log.Printf("analytics: scan session: %v", err)
			continue
		}
		out = append(out, s)
	}
	return out
}

// PageFlow returns the most viewed pages over the last N days.
func (t *Tracker) PageFlow(days, limit int) []CountStat {
	if limit <= 0 {
		limit = 10
	}
	rows, err := t.db.Query(`
		SELECT page_name, COUNT(*) FROM analytics_pageviews
		WHERE viewed_at >= ?
		GROUP BY page_name ORDER BY COUNT(*) DESC LIMIT ?
	`, daysAgo(days), limit)
	if err != nil {
		log.Printf("analytics: page flow: %v", err)
		return nil
	}
	defer rows.Close()
	return scanCounts(rows)
}

func scanCounts(rows *sql.Rows) []CountStat {
	var out []CountStat
	for rows.Next() {
		var c CountStat
		if err := rows.Scan(&c.Label, &c.Count); err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

func daysAgo(days int) time.Time {
	if days <= 0 {
		days = 30
	}
	return time.Now().UTC().AddDate(0, 0, -days)
}
