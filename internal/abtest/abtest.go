// Package abtest assigns visitors to experiment variants and records
// view/click events against them.
package abtest

import (
	"database/sql"
	"log"
	"math/rand"
	"time"
)

// AssignmentTTL is how long a variant assignment persists client-side.
const AssignmentTTL = 30 * 24 * time.Hour

// Variant names are always exactly A and B.
var VariantNames = []string{"A", "B"}

// Test is one active experiment.
type Test struct {
	ID  int64
	Key string
}

// Variant is one alternative content payload within a test.
type Variant struct {
	ID      int64
	TestID  int64
	Name    string
	Content string
}

// AssignmentStore persists which variant a visitor was assigned,
// decoupled from the cookie mechanism so it can be swapped for
// server-side storage.
type AssignmentStore interface {
	Get(testID int64) (string, bool)
	Set(testID int64, variant string, ttl time.Duration)
}

// Engine looks up experiments and resolves variant assignments.
type Engine struct {
	db        *sql.DB
	collector *Collector
}

func NewEngine(db *sql.DB) *Engine {
	return &Engine{db: db, collector: NewCollector(db)}
}

// Close drains the event collector.
func (e *Engine) Close() {
	e.collector.Close()
}

// Collector exposes the event collector for the beacon endpoint.
func (e *Engine) Collector() *Collector {
	return e.collector
}

// Active reports whether an active experiment exists for the key.
// Storage failures read as "no experiment".
func (e *Engine) Active(testKey string) (Test, bool) {
	var t Test
	err := e.db.QueryRow(
		"SELECT id, test_key FROM ab_tests WHERE test_key = ? AND is_active = 1", testKey,
	).Scan(&t.ID, &t.Key)
	if err == sql.ErrNoRows {
		return Test{}, false
	}
	if err != nil {
		log.Printf("abtest: lookup %q: %v", testKey, err)
		return Test{}, false
	}
	return t, true
}

// Resolve returns the variant a visitor should see for testKey. An
// existing assignment is honored as-is; otherwise one of A/B is chosen
// uniformly at random and persisted. ok=false means the caller should
// fall back to its hard-coded content and record no events: either no
// active test exists or the assigned variant row is missing.
func (e *Engine) Resolve(testKey string, store AssignmentStore) (Variant, bool) {
	test, ok := e.Active(testKey)
	if !ok {
		return Variant{}, false
	}

	name, ok := store.Get(test.ID)
	if !ok {
		name = VariantNames[rand.Intn(len(VariantNames))]
		store.Set(test.ID, name, AssignmentTTL)
	}

	return e.Variant(test.ID, name)
}

// Variant fetches the payload for a (test, name) pair.
func (e *Engine) Variant(testID int64, name string) (Variant, bool) {
	var v Variant
	err := e.db.QueryRow(
		"SELECT id, test_id, variant_name, content FROM ab_variants WHERE test_id = ? AND variant_name = ?",
		testID, name,
	).Scan(&v.ID, &v.TestID, &v.Name, &v.Content)
	if err == sql.ErrNoRows {
		return Variant{}, false
	}
	if err != nil {
		log.Printf("abtest: variant %d/%s: %v", testID, name, err)
		return Variant{}, false
	}
	return v, true
}

// RecordView submits a fire-and-forget view event for a variant.
func (e *Engine) RecordView(variantID int64) {
	e.collector.Record(Event{VariantID: variantID, Kind: EventView})
}

// RecordClick submits a fire-and-forget click event for a variant.
func (e *Engine) RecordClick(variantID int64) {
	e.collector.Record(Event{VariantID: variantID, Kind: EventClick})
}
