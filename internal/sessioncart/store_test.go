package sessioncart

import (
	"path/filepath"
	"testing"
	"time"
)

func TestToggleAddsThenRemoves(t *testing.T) {
	s := New("", nil)
	sess := s.NewSession()

	got := s.Toggle(sess, Item{ID: 7, Title: "Backpack", Price: 109.95})
	if len(got) != 1 || got[0].Quantity != 1 {
		t.Fatalf("expected one item with quantity 1, got %+v", got)
	}

	// Second toggle with the same product removes it entirely, it does not
	// increase quantity the way the server cart does.
	got = s.Toggle(sess, Item{ID: 7, Title: "Backpack", Price: 109.95})
	if len(got) != 0 {
		t.Fatalf("expected empty cart after re-toggle, got %+v", got)
	}
}

func TestQuantityAdjust(t *testing.T) {
	s := New("", nil)
	sess := s.NewSession()
	s.Toggle(sess, Item{ID: 1, Price: 10})

	got := s.IncreaseQty(sess, 1)
	if got[0].Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", got[0].Quantity)
	}

	s.DecreaseQty(sess, 1)
	got = s.DecreaseQty(sess, 1)
	if len(got) != 0 {
		t.Fatalf("decreasing quantity 1 must remove the item, got %+v", got)
	}
}

func TestDecreaseUnknownIDIsNoop(t *testing.T) {
	s := New("", nil)
	sess := s.NewSession()
	s.Toggle(sess, Item{ID: 1, Price: 10})

	got := s.DecreaseQty(sess, 99)
	if len(got) != 1 || got[0].Quantity != 1 {
		t.Fatalf("unexpected cart: %+v", got)
	}
}

func TestRemove(t *testing.T) {
	s := New("", nil)
	sess := s.NewSession()
	s.Toggle(sess, Item{ID: 1, Price: 10})
	s.Toggle(sess, Item{ID: 2, Price: 20})

	got := s.Remove(sess, 1)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("unexpected cart after remove: %+v", got)
	}

	// Removing an absent id is fine.
	got = s.Remove(sess, 1)
	if len(got) != 1 {
		t.Fatalf("unexpected cart: %+v", got)
	}
}

func TestTotalsFlatDiscount(t *testing.T) {
	s := New("", nil)
	sess := s.NewSession()
	s.Toggle(sess, Item{ID: 1, Price: 40})
	s.IncreaseQty(sess, 1) // qty 2 -> 80
	s.Toggle(sess, Item{ID: 2, Price: 20})

	got := s.Totals(sess)
	if got.Subtotal != 100 {
		t.Fatalf("subtotal = %v, want 100", got.Subtotal)
	}
	if got.Discount != 10 {
		t.Fatalf("discount = %v, want 10", got.Discount)
	}
	if got.Total != 90 {
		t.Fatalf("total = %v, want 90", got.Total)
	}
}

func TestTotalsEmptySession(t *testing.T) {
	s := New("", nil)
	got := s.Totals("nope")
	if got.Subtotal != 0 || got.Discount != 0 || got.Total != 0 {
		t.Fatalf("expected zeros, got %+v", got)
	}
}

func TestIdleSessionsEvicted(t *testing.T) {
	s := New("", nil)
	current := time.Now()
	s.now = func() time.Time { return current }

	idle := s.NewSession()
	s.Toggle(idle, Item{ID: 1, Price: 10})

	current = current.Add(sessionTTL + time.Minute)
	fresh := s.NewSession()

	if got := s.Get(idle); len(got) != 0 {
		t.Fatalf("idle session should be gone, got %+v", got)
	}
	if len(s.carts) != 1 {
		t.Fatalf("expected only the fresh session, have %d carts", len(s.carts))
	}
	if got := s.Get(fresh); len(got) != 0 {
		t.Fatalf("fresh session should start empty, got %+v", got)
	}
}

func TestActiveSessionSurvivesSweep(t *testing.T) {
	s := New("", nil)
	current := time.Now()
	s.now = func() time.Time { return current }

	sess := s.NewSession()
	s.Toggle(sess, Item{ID: 1, Price: 10})

	// Activity inside the TTL window refreshes the timestamp.
	current = current.Add(sessionTTL - time.Hour)
	s.IncreaseQty(sess, 1)

	current = current.Add(2 * time.Hour)
	s.NewSession()

	if got := s.Get(sess); len(got) != 1 || got[0].Quantity != 2 {
		t.Fatalf("recently used session was evicted: %+v", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "carts.json")

	s := New(file, nil)
	sess := s.NewSession()
	s.Toggle(sess, Item{ID: 3, Title: "Shirt", Price: 15.5})
	s.IncreaseQty(sess, 3)

	reloaded := New(file, nil)
	got := reloaded.Get(sess)
	if len(got) != 1 || got[0].Quantity != 2 || got[0].Title != "Shirt" {
		t.Fatalf("unexpected reloaded cart: %+v", got)
	}
}
