package history

import (
	"strings"
	"sync"

	"github.com/vayustack/vayu-intel/internal/models"
)

// DefaultCapacity bounds the rolling window when no capacity is configured.
const DefaultCapacity = 50

// Buffer is the bounded, insertion-ordered collection of canonical entities,
// newest first. It is owned exclusively by the aggregation core; consumers
// only ever receive copies. Each Ingest is atomic with respect to readers.
type Buffer struct {
	mu       sync.RWMutex
	entries  []models.Threat
	capacity int

	threatCount int
	abuseCount  int
}

// NewBuffer creates a buffer holding up to capacity entries.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		entries:  make([]models.Threat, 0, capacity),
		capacity: capacity,
	}
}

// Ingest prepends the entity and evicts the oldest entry past capacity.
// Side effects: the total counter always increments; the abuse counter
// increments when the source carries one of the live abuse.ch feed tags.
func (b *Buffer) Ingest(t models.Threat) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append([]models.Threat{t}, b.entries...)
	if len(b.entries) > b.capacity {
		b.entries = b.entries[:b.capacity]
	}

	b.threatCount++
	if isAbuseSource(t.Source) {
		b.abuseCount++
	}
}

// Snapshot returns a read-only copy of the current window, newest first.
func (b *Buffer) Snapshot() []models.Threat {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]models.Threat, len(b.entries))
	copy(out, b.entries)
	return out
}

// Head returns the most recent entity, or false before the first ingestion.
func (b *Buffer) Head() (models.Threat, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.entries) == 0 {
		return models.Threat{}, false
	}
	return b.entries[0], true
}

// Lookup finds an entity in the current window by identity.
func (b *Buffer) Lookup(id string) (models.Threat, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, t := range b.entries {
		if t.ID == id {
			return t, true
		}
	}
	return models.Threat{}, false
}

// Len returns the number of buffered entries.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Counters returns the running totals: all ingestions, and those from the
// high-confidence live feeds.
func (b *Buffer) Counters() (threatCount, abuseCount int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.threatCount, b.abuseCount
}

// isAbuseSource matches the two live feed tags, case-sensitively.
func isAbuseSource(source string) bool {
	return strings.Contains(source, models.SourceThreatFox) || strings.Contains(source, models.SourceURLhaus)
}
