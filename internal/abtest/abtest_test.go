package abtest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"marquee/internal/database"
)

// mapStore is an in-memory AssignmentStore for tests.
type mapStore map[int64]string

func (m mapStore) Get(testID int64) (string, bool) {
	v, ok := m[testID]
	return v, ok
}

func (m mapStore) Set(testID int64, variant string, ttl time.Duration) {
	m[testID] = variant
}

func testEngine(t *testing.T) (*Engine, *sql.DB) {
	t.Helper()
	db, err := database.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("INSERT INTO ab_tests (id, test_key, is_active) VALUES (1, 'hero_headline', 1)"); err != nil {
		t.Fatalf("insert test: %v", err)
	}
	for _, v := range []struct {
		name, content string
	}{{"A", "Grow faster."}, {"B", "Ship smarter."}} {
		if _, err := db.Exec(
			"INSERT INTO ab_variants (test_id, variant_name, content) VALUES (1, ?, ?)", v.name, v.content,
		); err != nil {
			t.Fatalf("insert variant: %v", err)
		}
	}

	e := NewEngine(db)
	t.Cleanup(e.Close)
	return e, db
}

func TestResolveAssignsAndSticks(t *testing.T) {
	e, _ := testEngine(t)
	store := mapStore{}

	v, ok := e.Resolve("hero_headline", store)
	if !ok {
		t.Fatal("Resolve should succeed for an active test")
	}
	if v.Name != "A" && v.Name != "B" {
		t.Fatalf("variant name = %q", v.Name)
	}
	if assigned, ok := store.Get(1); !ok || assigned != v.Name {
		t.Errorf("assignment not persisted: %q %v", assigned, ok)
	}

	// Subsequent renders honor the stored assignment
	for i := 0; i < 10; i++ {
		again, ok := e.Resolve("hero_headline", store)
		if !ok || again.Name != v.Name {
			t.Fatalf("render %d: variant = %q, want %q", i, again.Name, v.Name)
		}
	}
}

func TestResolveRoughlyUniform(t *testing.T) {
	e, _ := testEngine(t)

	counts := map[string]int{}
	for i := 0; i < 400; i++ {
		v, ok := e.Resolve("hero_headline", mapStore{})
		if !ok {
			t.Fatal("Resolve failed")
		}
		counts[v.Name]++
	}
	// Generous bounds: binomial(400, 0.5) virtually never leaves [120, 280]
	for _, name := range VariantNames {
		if counts[name] < 120 || counts[name] > 280 {
			t.Errorf("assignment skew: %v", counts)
		}
	}
}

func TestResolveInactiveOrMissingTest(t *testing.T) {
	e, db := testEngine(t)

	if _, ok := e.Resolve("cta_copy", mapStore{}); ok {
		t.Error("unknown test key should not resolve")
	}

	db.Exec("UPDATE ab_tests SET is_active = 0 WHERE id = 1")
	if _, ok := e.Resolve("hero_headline", mapStore{}); ok {
		t.Error("inactive test should not resolve")
	}
}

func TestResolveMissingVariantRow(t *testing.T) {
	e, db := testEngine(t)
	db.Exec("DELETE FROM ab_variants WHERE variant_name = 'B'")

	// Force the assignment to the missing variant
	store := mapStore{1: "B"}
	if _, ok := e.Resolve("hero_headline", store); ok {
		t.Error("missing variant row should fall back (ok=false)")
	}
}

func TestCollectorCountsViewsAndClicks(t *testing.T) {
	e, db := testEngine(t)

	var variantID int64
	if err := db.QueryRow("SELECT id FROM ab_variants WHERE variant_name = 'A'").Scan(&variantID); err != nil {
		t.Fatalf("variant id: %v", err)
	}

	for i := 0; i < 3; i++ {
		e.RecordView(variantID)
	}
	e.RecordClick(variantID)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Collector().FlushNow(ctx); err != nil {
		t.Fatalf("FlushNow: %v", err)
	}

	var views, clicks int
	db.QueryRow("SELECT view_count, click_count FROM ab_variants WHERE id = ?", variantID).Scan(&views, &clicks)
	if views != 3 || clicks != 1 {
		t.Errorf("counts = %d views %d clicks, want 3/1", views, clicks)
	}
}

func TestCollectorDropsWhenFull(t *testing.T) {
	db, err := database.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	// No flush goroutine: the channel stays full
	c := &Collector{
		db:      db,
		events:  make(chan Event, 1),
		flushCh: make(chan chan struct{}),
		done:    make(chan struct{}),
	}
	c.events <- Event{VariantID: 1, Kind: EventView}

	start := time.Now()
	c.Record(Event{VariantID: 1, Kind: EventView})
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Record should not block, took %v", elapsed)
	}
	if c.DroppedCount() != 1 {
		t.Errorf("dropped = %d, want 1", c.DroppedCount())
	}
}

func TestCollectorIgnoresUnknownKind(t *testing.T) {
	e, db := testEngine(t)

	e.Collector().Record(Event{VariantID: 1, Kind: "hover"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	e.Collector().FlushNow(ctx)

	var views int
	db.QueryRow("SELECT view_count FROM ab_variants WHERE id = 1").Scan(&views)
	if views != 0 {
		t.Errorf("unknown kind must not count, views = %d", views)
	}
}
