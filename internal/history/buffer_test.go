package history

import (
	"fmt"
	"testing"

	"github.com/vayustack/vayu-intel/internal/models"
)

func TestBufferNewestFirstEviction(t *testing.T) {
	b := NewBuffer(50)
	for i := 0; i < 55; i++ {
		b.Ingest(models.Threat{ID: fmt.Sprintf("t-%d", i)})
	}

	if b.Len() != 50 {
		t.Fatalf("expected window of 50, got %d", b.Len())
	}

	snapshot := b.Snapshot()
	if snapshot[0].ID != "t-54" {
		t.Fatalf("expected newest entry first, got %s", snapshot[0].ID)
	}
	if snapshot[49].ID != "t-5" {
		t.Fatalf("expected oldest surviving entry t-5, got %s", snapshot[49].ID)
	}

	head, ok := b.Head()
	if !ok || head.ID != "t-54" {
		t.Fatalf("head should be the newest entry, got %+v", head)
	}
}

func TestBufferDefaultCapacity(t *testing.T) {
	b := NewBuffer(0)
	for i := 0; i < DefaultCapacity+10; i++ {
		b.Ingest(models.Threat{ID: fmt.Sprintf("t-%d", i)})
	}
	if b.Len() != DefaultCapacity {
		t.Fatalf("expected default capacity %d, got %d", DefaultCapacity, b.Len())
	}
}

func TestBufferCountersSurviveEviction(t *testing.T) {
	b := NewBuffer(2)
	b.Ingest(models.Threat{ID: "a", Source: models.SourceThreatFox})
	b.Ingest(models.Threat{ID: "b", Source: models.SourceURLhaus})
	b.Ingest(models.Threat{ID: "c", Source: models.SourceHeuristics})
	b.Ingest(models.Threat{ID: "d", Source: models.SourceAbuseCh})

	threatCount, abuseCount := b.Counters()
	if threatCount != 4 {
		t.Fatalf("expected running total 4, got %d", threatCount)
	}
	// Only the two live feed tags count, and eviction must not reduce them.
	if abuseCount != 2 {
		t.Fatalf("expected abuse count 2, got %d", abuseCount)
	}
	if b.Len() != 2 {
		t.Fatalf("window should hold 2 entries, got %d", b.Len())
	}
}

func TestBufferLookup(t *testing.T) {
	b := NewBuffer(10)
	b.Ingest(models.Threat{ID: "present", SrcIP: "1.2.3.4"})

	got, ok := b.Lookup("present")
	if !ok || got.SrcIP != "1.2.3.4" {
		t.Fatalf("expected to find entry, got %+v ok=%v", got, ok)
	}
	if _, ok := b.Lookup("absent"); ok {
		t.Fatal("lookup of an unknown id must miss")
	}
}

func TestBufferSnapshotIsACopy(t *testing.T) {
	b := NewBuffer(10)
	b.Ingest(models.Threat{ID: "a"})

	snapshot := b.Snapshot()
	snapshot[0].ID = "mutated"

	head, _ := b.Head()
	if head.ID != "a" {
		t.Fatal("mutating a snapshot must not affect the buffer")
	}
}
