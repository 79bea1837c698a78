package settings

import (
	"testing"

	"marquee/internal/database"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func TestGetReturnsDefaultWhenUnset(t *testing.T) {
	s := testStore(t)

	if got := s.Get("site_name", "Marquee"); got != "Marquee" {
		t.Errorf("Get = %q, want default", got)
	}
}

func TestGetReturnsStoredValue(t *testing.T) {
	s := testStore(t)

	if err := s.Set("site_name", "Northlight Digital"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := s.Get("site_name", "Marquee"); got != "Northlight Digital" {
		t.Errorf("Get = %q, want stored value", got)
	}

	// Overwrite takes effect
	if err := s.Set("site_name", "Marquee Labs"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := s.Get("site_name", "Marquee"); got != "Marquee Labs" {
		t.Errorf("Get after overwrite = %q", got)
	}
}

func TestGetSwallowsStorageFailure(t *testing.T) {
	db, err := database.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	s := New(db)
	if err := s.Set("site_name", "Northlight Digital"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	db.Close()

	// Closed handle: Get must fall back to the default, not panic or error.
	if got := s.Get("site_name", "Marquee"); got != "Marquee" {
		t.Errorf("Get on closed db = %q, want default", got)
	}
	if all := s.All(); len(all) != 0 {
		t.Errorf("All on closed db = %v, want empty", all)
	}
}

func TestAll(t *testing.T) {
	s := testStore(t)

	s.Set("site_name", "Marquee")
	s.Set("primary_color", "#1a73e8")

	all := s.All()
	if len(all) != 2 {
		t.Fatalf("All = %d entries, want 2", len(all))
	}
	if all["primary_color"] != "#1a73e8" {
		t.Errorf("primary_color = %q", all["primary_color"])
	}
}
