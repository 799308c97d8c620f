package session

import (
	"context"
	"strings"
)

// Entry is one cart line. Quantity is always >= 1; zero-quantity lines are
// removed, never stored.
type Entry struct {
	ItemID   string   `json:"item_id"`
	Name     string   `json:"name"`
	Price    int      `json:"price"`
	Unit     string   `json:"unit"`
	Category string   `json:"category"`
	Tags     []string `json:"tags,omitempty"`
	Quantity int      `json:"quantity"`
}

// Session owns one cart and at most one applied coupon. Sessions are never
// shared: the dialogue layer issues one request per session at a time.
type Session struct {
	ID         string  `json:"id"`
	Entries    []Entry `json:"entries"`
	CouponCode string  `json:"coupon_code,omitempty"`
}

// EntryIndexByItem returns the position of the entry with the given item id,
// or -1.
func (s *Session) EntryIndexByItem(itemID string) int {
	for i, entry := range s.Entries {
		if entry.ItemID == itemID {
			return i
		}
	}
	return -1
}

// EntryIndexByName matches an entry by exact, case-insensitive name, or -1.
func (s *Session) EntryIndexByName(name string) int {
	needle := strings.ToLower(strings.TrimSpace(name))
	for i, entry := range s.Entries {
		if strings.ToLower(entry.Name) == needle {
			return i
		}
	}
	return -1
}

// RemoveEntry deletes the entry at index, preserving the order of the rest.
func (s *Session) RemoveEntry(index int) {
	s.Entries = append(s.Entries[:index], s.Entries[index+1:]...)
}

// Subtotal is the cart value before discounts and fees.
func (s *Session) Subtotal() int {
	total := 0
	for _, entry := range s.Entries {
		total += entry.Price * entry.Quantity
	}
	return total
}

// ClearCheckout resets cart and coupon together after a placed order.
func (s *Session) ClearCheckout() {
	s.Entries = nil
	s.CouponCode = ""
}

// SnapshotEntries deep-copies the cart lines for an immutable order record.
func (s *Session) SnapshotEntries() []Entry {
	if len(s.Entries) == 0 {
		return nil
	}
	snapshot := make([]Entry, len(s.Entries))
	copy(snapshot, s.Entries)
	for i := range snapshot {
		if len(s.Entries[i].Tags) > 0 {
			snapshot[i].Tags = append([]string(nil), s.Entries[i].Tags...)
		}
	}
	return snapshot
}

// Store loads and persists session state. Get returns a fresh session when
// the id is unknown.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
}
