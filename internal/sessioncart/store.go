// Package sessioncart holds the pre-auth, session-local cart. It is a
// distinct aggregate from the server cart: adding a product that is already
// present removes it (toggle), and totals carry a flat 10% discount with no
// code mechanism.
package sessioncart

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item mirrors a catalog product inside a session cart. Identity is the
// upstream product id, the only identifier a pre-auth client has.
type Item struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
	Quantity int     `json:"quantity"`
}

// Totals is the session-cart breakdown: subtotal, flat discount, total.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// discountPercent is fixed for session carts; discount codes only exist on
// the authenticated surface.
const discountPercent = 10

// sessionTTL bounds how long an untouched session cart is kept. Anonymous
// visitors mint a session on first contact, so without eviction the map
// grows forever.
const sessionTTL = 24 * time.Hour

// Store keeps session carts in memory, keyed by session id, with an
// optional JSON snapshot for continuity across restarts.
type Store struct {
	mu      sync.Mutex
	carts   map[string][]Item
	touched map[string]time.Time
	file    string
	logger  *log.Logger
	now     func() time.Time
}

// New creates a Store. If file is non-empty an existing snapshot is loaded
// and every mutation is written back to it.
func New(file string, logger *log.Logger) *Store {
	s := &Store{
		carts:   make(map[string][]Item),
		touched: make(map[string]time.Time),
		file:    file,
		logger:  logger,
		now:     time.Now,
	}
	if file != "" {
		s.load()
	}
	return s
}

// NewSession allocates a fresh session id with an empty cart. Sessions idle
// past their TTL are evicted here, keeping the sweep off the hot paths.
func (s *Store) NewSession() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.evictIdleLocked()
	s.carts[id] = nil
	s.touched[id] = s.now()
	s.mu.Unlock()
	return id
}

// Get returns the items for a session; unknown sessions yield an empty list.
func (s *Store) Get(session string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.carts[session])
}

// Toggle removes the product entirely when present, otherwise appends it
// with quantity 1.
func (s *Store) Toggle(session string, item Item) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touched[session] = s.now()
	items := s.carts[session]
	for i, it := range items {
		if it.ID == item.ID {
			s.carts[session] = append(items[:i:i], items[i+1:]...)
			s.snapshotLocked()
			return copyItems(s.carts[session])
		}
	}
	item.Quantity = 1
	s.carts[session] = append(items, item)
	s.snapshotLocked()
	return copyItems(s.carts[session])
}

// IncreaseQty bumps the quantity of the identified item by one.
func (s *Store) IncreaseQty(session string, id int64) []Item {
	return s.adjust(session, id, 1)
}

// DecreaseQty lowers the quantity by one; reaching zero removes the item.
func (s *Store) DecreaseQty(session string, id int64) []Item {
	return s.adjust(session, id, -1)
}

func (s *Store) adjust(session string, id int64, delta int) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[session]
	for i, it := range items {
		if it.ID != id {
			continue
		}
		q := it.Quantity + delta
		if q <= 0 {
			s.carts[session] = append(items[:i:i], items[i+1:]...)
		} else {
			items[i].Quantity = q
		}
		s.touched[session] = s.now()
		s.snapshotLocked()
		break
	}
	return copyItems(s.carts[session])
}

// Remove deletes the item unconditionally; absent ids are a no-op.
func (s *Store) Remove(session string, id int64) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[session]
	for i, it := range items {
		if it.ID == id {
			s.carts[session] = append(items[:i:i], items[i+1:]...)
			s.touched[session] = s.now()
			s.snapshotLocked()
			break
		}
	}
	return copyItems(s.carts[session])
}

// Clear empties the session cart.
func (s *Store) Clear(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, session)
	delete(s.touched, session)
	s.snapshotLocked()
}

// Totals recomputes the breakdown from the current items.
func (s *Store) Totals(session string) Totals {
	s.mu.Lock()
	items := copyItems(s.carts[session])
	s.mu.Unlock()

	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	discount := subtotal.Mul(decimal.NewFromInt(discountPercent)).Div(decimal.NewFromInt(100))
	total := subtotal.Sub(discount)

	return Totals{
		Subtotal: round2(subtotal),
		Discount: round2(discount),
		Total:    round2(total),
	}
}

func (s *Store) load() {
	data, err := os.ReadFile(s.file)
	if err != nil {
		if !os.IsNotExist(err) && s.logger != nil {
			s.logger.Printf("session cart snapshot read failed: %v", err)
		}
		return
	}
	var carts map[string][]Item
	if err := json.Unmarshal(data, &carts); err != nil {
		if s.logger != nil {
			s.logger.Printf("session cart snapshot corrupt, starting empty: %v", err)
		}
		return
	}
	s.carts = carts
	// The snapshot carries no timestamps; restored sessions get a fresh TTL.
	for id := range carts {
		s.touched[id] = s.now()
	}
}

func (s *Store) evictIdleLocked() {
	cutoff := s.now().Add(-sessionTTL)
	for id, ts := range s.touched {
		if ts.Before(cutoff) {
			delete(s.carts, id)
			delete(s.touched, id)
		}
	}
}

// snapshotLocked writes the snapshot file. Callers hold s.mu. Failures are
// logged and otherwise ignored; the in-memory state stays authoritative.
func (s *Store) snapshotLocked() {
	if s.file == "" {
		return
	}
	data, err := json.Marshal(s.carts)
	if err == nil {
		err = os.WriteFile(s.file, data, 0o600)
	}
	if err != nil && s.logger != nil {
		s.logger.Printf("session cart snapshot write failed: %v", err)
	}
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func copyItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
