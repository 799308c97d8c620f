package session

import (
	"context"
	"testing"
)

func TestMemoryStoreGetUnknownIDReturnsFreshSession(t *testing.T) {
	store := NewMemoryStore()

	sess, err := store.Get(context.Background(), "abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess.ID != "abc" {
		t.Fatalf("expected id abc, got %s", sess.ID)
	}
	if len(sess.Entries) != 0 || sess.CouponCode != "" {
		t.Fatalf("expected empty session, got %+v", sess)
	}
}

func TestMemoryStoreGetRequiresID(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestMemoryStoreSaveRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	sess := &Session{
		ID:         "s1",
		CouponCode: "FIRST50",
		Entries: []Entry{
			{ItemID: "maggi2", Name: "Maggi Noodles", Price: 14, Quantity: 3, Category: "snacks", Tags: []string{"maggi"}},
		},
	}
	if err := store.Save(context.Background(), sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.CouponCode != "FIRST50" {
		t.Fatalf("expected coupon FIRST50, got %s", loaded.CouponCode)
	}
	if len(loaded.Entries) != 1 || loaded.Entries[0].Quantity != 3 {
		t.Fatalf("unexpected entries: %+v", loaded.Entries)
	}

	// Loaded state is a copy; mutating it never leaks back into the store.
	loaded.Entries[0].Quantity = 99
	reloaded, err := store.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if reloaded.Entries[0].Quantity != 3 {
		t.Fatalf("store state mutated through loaded copy: %+v", reloaded.Entries)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	sess := &Session{ID: "s1", Entries: []Entry{{ItemID: "lays1", Name: "Lays", Price: 20, Quantity: 1}}}
	if err := store.Save(context.Background(), sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	loaded, err := store.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(loaded.Entries) != 0 {
		t.Fatalf("expected fresh session after delete, got %+v", loaded.Entries)
	}
}

func TestSessionClearCheckout(t *testing.T) {
	sess := &Session{
		ID:         "s1",
		CouponCode: "MAGGI20",
		Entries:    []Entry{{ItemID: "maggi2", Name: "Maggi Noodles", Price: 14, Quantity: 2}},
	}
	sess.ClearCheckout()
	if len(sess.Entries) != 0 || sess.CouponCode != "" {
		t.Fatalf("expected cleared session, got %+v", sess)
	}
}

func TestSessionEntryIndexByNameCaseInsensitive(t *testing.T) {
	sess := &Session{Entries: []Entry{
		{ItemID: "maggi2", Name: "Maggi Noodles"},
		{ItemID: "lays1", Name: "Lays Classic Salted"},
	}}
	if idx := sess.EntryIndexByName("  maggi noodles "); idx != 0 {
		t.Fatalf("expected index 0, got %d", idx)
	}
	if idx := sess.EntryIndexByName("pizza"); idx != -1 {
		t.Fatalf("expected -1 for missing entry, got %d", idx)
	}
}

func TestSnapshotEntriesIsDeep(t *testing.T) {
	sess := &Session{Entries: []Entry{
		{ItemID: "maggi2", Name: "Maggi Noodles", Quantity: 2, Tags: []string{"maggi"}},
	}}
	snapshot := sess.SnapshotEntries()
	snapshot[0].Quantity = 10
	snapshot[0].Tags[0] = "changed"

	if sess.Entries[0].Quantity != 2 {
		t.Fatalf("snapshot shared quantity: %+v", sess.Entries)
	}
	if sess.Entries[0].Tags[0] != "maggi" {
		t.Fatalf("snapshot shared tags: %+v", sess.Entries)
	}
}
