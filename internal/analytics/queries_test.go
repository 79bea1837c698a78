package analytics

import (
	"testing"
	"time"
)

func seedSessions(t *testing.T, tr *Tracker) {
	t.Helper()
	agents := []string{
		"Mozilla/5.0 (iPhone) Safari/604.1",
		"Mozilla/5.0 (Windows NT 10.0) Chrome/120.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0) Chrome/120.0 Safari/537.36",
	}
	for i, ua := range agents {
		v := Visit{IP: "203.0.113.7", UserAgent: ua}
		if i == 0 {
			v.Referrer = "https://news.ycombinator.com/"
		}
		if id, _ := tr.EnsureSession(v); id == "" {
			t.Fatal("seed session failed")
		}
	}
}

func TestAggregates(t *testing.T) {
	tr, db := testTracker(t)
	seedSessions(t, tr)

	if n := tr.TotalSessions(7); n != 3 {
		t.Errorf("TotalSessions = %d, want 3", n)
	}
	if n := tr.ActiveSessions(); n != 3 {
		t.Errorf("ActiveSessions = %d, want 3", n)
	}

	byDevice := tr.TrafficByDevice(7)
	if len(byDevice) != 2 {
		t.Fatalf("TrafficByDevice = %v", byDevice)
	}
	if byDevice[0].Label != DeviceDesktop || byDevice[0].Count != 2 {
		t.Errorf("top device = %+v, want Desktop x2", byDevice[0])
	}

	byBrowser := tr.TrafficByBrowser(7)
	if len(byBrowser) == 0 || byBrowser[0].Label != "Chrome" {
		t.Errorf("TrafficByBrowser = %v", byBrowser)
	}

	refs := tr.TopReferrers(7, 5)
	if len(refs) != 1 || refs[0].Label != "https://news.ycombinator.com/" {
		t.Errorf("TopReferrers = %v", refs)
	}

	recent := tr.RecentSessions(10)
	if len(recent) != 3 {
		t.Errorf("RecentSessions = %d entries, want 3", len(recent))
	}

	// Page flow reflects tracked views
	v := Visit{SessionID: recent[0].SessionID, IP: "203.0.113.7"}
	tr.TrackPageView(v, "home", "/")
	flow := tr.PageFlow(7, 5)
	if len(flow) != 1 || flow[0].Label != "home" {
		t.Errorf("PageFlow = %v", flow)
	}

	// Aged-out sessions drop from windowed counts
	_, err := db.Exec("UPDATE analytics_sessions SET started_at = ?, last_activity = ?",
		time.Now().UTC().AddDate(0, 0, -40), time.Now().UTC().AddDate(0, 0, -40))
	if err != nil {
		t.Fatalf("age sessions: %v", err)
	}
	if n := tr.TotalSessions(7); n != 0 {
		t.Errorf("TotalSessions after aging = %d, want 0", n)
	}
	if n := tr.ActiveSessions(); n != 0 {
		t.Errorf("ActiveSessions after aging = %d, want 0", n)
	}
}

func TestAvgSessionDuration(t *testing.T) {
	tr, db := testTracker(t)

	id, _ := tr.EnsureSession(Visit{IP: "203.0.113.7"})
	_, err := db.Exec(
		"UPDATE analytics_sessions SET last_activity = ? WHERE session_id = ?",
		time.Now().UTC().Add(90*time.Second), id,
	)
	if err != nil {
		t.Fatalf("update session: %v", err)
	}

	avg := tr.AvgSessionDuration(7)
	if avg < 85 || avg > 95 {
		t.Errorf("AvgSessionDuration = %f, want ~90", avg)
	}
}

func TestAggregatesZeroOnFailure(t *testing.T) {
	tr, db := testTracker(t)
	db.Close()

	if n := tr.TotalSessions(7); n != 0 {
		t.Errorf("TotalSessions on closed db = %d", n)
	}
	if avg := tr.AvgSessionDuration(7); avg != 0 {
		t.Errorf("AvgSessionDuration on closed db = %f", avg)
	}
	if stats := tr.TrafficByCountry(7); stats != nil {
		t.Errorf("TrafficByCountry on closed db = %v", stats)
	}
	if recent := tr.RecentSessions(5); recent != nil {
		t.Errorf("RecentSessions on closed db = %v", recent)
	}
}
