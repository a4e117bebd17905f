package sentinel

import (
	"sync"
	"time"
)

// idleRecord holds the last observed upload progress for one torrent.
type idleRecord struct {
	uploaded     int64
	lastProgress time.Time
}

// IdleTracker derives "minutes since last upload activity" from upload
// counters observed across polling cycles. Idleness cannot be read off a
// single snapshot; the client only exposes cumulative bytes, so progress
// has to be tracked between polls. State lives in memory for the process
// lifetime only: after a restart every torrent starts over as never idle.
type IdleTracker struct {
	mu      sync.Mutex
	records map[string]*idleRecord
}

// NewIdleTracker creates an empty tracker.
func NewIdleTracker() *IdleTracker {
	return &IdleTracker{
		records: make(map[string]*idleRecord),
	}
}

// Observe records the current upload counters for a torrent and returns
// how many whole minutes it has been idle.
//
// A first sighting is never idle. Any progress signal, either a grown
// uploaded counter or a positive instantaneous rate, resets the idle
// clock to zero.
func (it *IdleTracker) Observe(hash string, uploaded, upspeed int64, now time.Time) int {
	it.mu.Lock()
	defer it.mu.Unlock()

	rec, ok := it.records[hash]
	if !ok {
		it.records[hash] = &idleRecord{uploaded: uploaded, lastProgress: now}
		return 0
	}

	if uploaded > rec.uploaded || upspeed > 0 {
		rec.uploaded = uploaded
		rec.lastProgress = now
		return 0
	}

	return int(now.Sub(rec.lastProgress) / time.Minute)
}

// Evict drops records for torrents no longer reported by the client so
// memory does not grow as torrents come and go.
func (it *IdleTracker) Evict(active map[string]struct{}) {
	it.mu.Lock()
	defer it.mu.Unlock()

	for hash := range it.records {
		if _, ok := active[hash]; !ok {
			delete(it.records, hash)
		}
	}
}

// Len returns the number of tracked torrents.
func (it *IdleTracker) Len() int {
	it.mu.Lock()
	defer it.mu.Unlock()
	return len(it.records)
}
