package abtest

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

const (
	ChannelBuffer = 1000
	FlushSize     = 50
	FlushInterval = 5 * time.Second
	DrainTimeout  = 10 * time.Second
)

// Event kinds the collector accepts.
const (
	EventView  = "view"
	EventClick = "click"
)

// Event is one variant exposure or interaction.
type Event struct {
	VariantID int64  `json:"variant_id"`
	Kind      string `json:"event"`
}

// Collector batches variant counter updates off the request path.
// Recording never blocks: when the channel is full the event is dropped
// and counted, which is acceptable loss for experiment counters.
type Collector struct {
	db      *sql.DB
	events  chan Event
	flushCh chan chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	dropped atomic.Int64
}

// NewCollector creates a collector with a buffered channel and flush goroutine.
func NewCollector(db *sql.DB) *Collector {
	c := &Collector{
		db:      db,
		events:  make(chan Event, ChannelBuffer),
		flushCh: make(chan chan struct{}),
		done:    make(chan struct{}),
	}
	c.wg.Add(1)
	go c.flushLoop()
	return c
}

// Record submits an event. Unknown kinds are ignored.
func (c *Collector) Record(e Event) {
	if e.Kind != EventView && e.Kind != EventClick {
		return
	}
	select {
	case c.events <- e:
	default:
		c.dropped.Add(1)
	}
}

// DroppedCount returns the number of events dropped due to backpressure.
func (c *Collector) DroppedCount() int64 {
	return c.dropped.Load()
}

// FlushNow forces a flush of buffered events and waits for it, bounded
// by ctx.
func (c *Collector) FlushNow(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case c.flushCh <- done:
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the collector and drains remaining events.
func (c *Collector) Close() {
	c.once.Do(func() {
		close(c.done)
		c.wg.Wait()

		if d := c.dropped.Load(); d > 0 {
			log.Printf("abtest: %d events dropped due to backpressure", d)
		}
	})
}

func (c *Collector) flushLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(FlushInterval)
	defer ticker.Stop()

	var batch []Event

	for {
		select {
		case e := <-c.events:
			batch = append(batch, e)
			if len(batch) >= FlushSize {
				c.flush(batch)
				batch = batch[:0]
			}

		case <-ticker.C:
			if len(batch) > 0 {
				c.flush(batch)
				batch = batch[:0]
			}

		case done := <-c.flushCh:
			batch = c.drainPending(batch)
			if len(batch) > 0 {
				c.flush(batch)
				batch = batch[:0]
			}
			close(done)

		case <-c.done:
			// Drain remaining events with timeout
			drainDone := make(chan struct{})
			go func() {
				defer close(drainDone)
				batch = c.drainPending(batch)
				if len(batch) > 0 {
					c.flush(batch)
				}
			}()

			select {
			case <-drainDone:
			case <-time.After(DrainTimeout):
				log.Printf("abtest: drain timeout, %d events may be lost", len(batch))
			}
			return
		}
	}
}

func (c *Collector) drainPending(batch []Event) []Event {
	for {
		select {
		case e := <-c.events:
			batch = append(batch, e)
		default:
			return batch
		}
	}
}

// flush aggregates the batch per variant and applies the counter deltas
// in one transaction. The UPDATEs rely on SQLite's atomic increment; no
// read-modify-write happens in the application.
func (c *Collector) flush(batch []Event) {
	type delta struct {
		views  int
		clicks int
	}
	deltas := make(map[int64]*delta)
	for _, e := range batch {
		d := deltas[e.VariantID]
		if d == nil {
			d = &delta{}
			deltas[e.VariantID] = d
		}
		switch e.Kind {
		case EventView:
			d.views++
		case EventClick:
			d.clicks++
		}
	}

	tx, err := c.db.Begin()
	if err != nil {
		log.Printf("abtest: begin tx: %v", err)
		return
	}

	for id, d := range deltas {
		if _, err := tx.Exec(
			"UPDATE ab_variants SET view_count = view_count + ?, click_count = click_count + ? WHERE id = ?",
			d.views, d.clicks, id,
		); err != nil {
			log.Printf("abtest: update variant %d: %v", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("abtest: commit: %v", err)
	}
}
