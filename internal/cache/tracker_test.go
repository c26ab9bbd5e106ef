package cache

import "testing"

func TestTrackerHasAndAdd(t *testing.T) {
	tracker := NewTracker()
	if tracker.Has("10") {
		t.Fatalf("empty tracker should not contain 10")
	}

	tracker.Add("10")
	tracker.Add("10")
	if !tracker.Has("10") {
		t.Fatalf("expected 10 to be tracked")
	}
	if tracker.Len() != 1 {
		t.Fatalf("duplicate add should not grow the set, len=%d", tracker.Len())
	}
}

func TestTrackerAddAllCountsNewOnly(t *testing.T) {
	tracker := NewTracker()
	tracker.Add("123")

	added := tracker.AddAll([]string{"123", "456", "456", "789"})
	if added != 2 {
		t.Fatalf("expected 2 newly added, got %d", added)
	}
	if tracker.Len() != 3 {
		t.Fatalf("expected 3 tracked ids, got %d", tracker.Len())
	}
}
