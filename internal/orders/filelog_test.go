package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/swigepto/swigepto-backend/internal/session"
	pkgerrors "github.com/swigepto/swigepto-backend/pkg/errors"
)

func tempLogPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "orders.json")
}

func sampleOrder(id string) *Order {
	return &Order{
		OrderID:   id,
		CreatedAt: time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC),
		Items: []session.Entry{
			{ItemID: "maggi2", Name: "Maggi Noodles", Price: 14, Quantity: 3},
		},
		Subtotal:        42,
		Discount:        8,
		DeliveryFee:     20,
		Total:           54,
		DeliveryAddress: "12 MG Road",
		DeliveryPartner: "Raju",
		Store:           "Madhapur",
		Status:          StatusConfirmed,
	}
}

func TestFileLogCreatesDocumentOnOpen(t *testing.T) {
	path := tempLogPath(t)
	if _, err := NewFileLog(path); err != nil {
		t.Fatalf("new file log: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode log: %v", err)
	}
	if _, ok := doc["orders"]; !ok {
		t.Fatalf("expected orders key in fresh document, got %v", doc)
	}
}

func TestFileLogAppendAndGet(t *testing.T) {
	log, err := NewFileLog(tempLogPath(t))
	if err != nil {
		t.Fatalf("new file log: %v", err)
	}

	order := sampleOrder("SWP1-AAAA1111")
	if err := log.Append(context.Background(), order); err != nil {
		t.Fatalf("append: %v", err)
	}

	loaded, err := log.GetByID(context.Background(), order.OrderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Total != 54 || loaded.Status != StatusConfirmed {
		t.Fatalf("unexpected order: %+v", loaded)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].ItemID != "maggi2" {
		t.Fatalf("unexpected items: %+v", loaded.Items)
	}
}

func TestFileLogGetByIDNotFound(t *testing.T) {
	log, err := NewFileLog(tempLogPath(t))
	if err != nil {
		t.Fatalf("new file log: %v", err)
	}

	_, getErr := log.GetByID(context.Background(), "SWP0-MISSING0")
	if typed := pkgerrors.As(getErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", getErr)
	}
}

func TestFileLogGetLastWindow(t *testing.T) {
	log, err := NewFileLog(tempLogPath(t))
	if err != nil {
		t.Fatalf("new file log: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := log.Append(context.Background(), sampleOrder(fmt.Sprintf("SWP%d", i))); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	recent, err := log.GetLast(context.Background(), 3)
	if err != nil {
		t.Fatalf("get last: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(recent))
	}
	// Oldest of the window first.
	if recent[0].OrderID != "SWP2" || recent[2].OrderID != "SWP4" {
		t.Fatalf("unexpected window: %s .. %s", recent[0].OrderID, recent[2].OrderID)
	}
}

func TestFileLogPreservesUnknownTopLevelFields(t *testing.T) {
	path := tempLogPath(t)
	seed := `{"schema_version": 2, "orders": []}`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatalf("seed log: %v", err)
	}

	log, err := NewFileLog(path)
	if err != nil {
		t.Fatalf("new file log: %v", err)
	}
	if err := log.Append(context.Background(), sampleOrder("SWP1")); err != nil {
		t.Fatalf("append: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode log: %v", err)
	}
	if string(doc["schema_version"]) != "2" {
		t.Fatalf("expected schema_version preserved, got %s", doc["schema_version"])
	}
}

func TestFileLogConcurrentAppends(t *testing.T) {
	log, err := NewFileLog(tempLogPath(t))
	if err != nil {
		t.Fatalf("new file log: %v", err)
	}

	const writers = 10
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			_ = log.Append(context.Background(), sampleOrder(fmt.Sprintf("SWP%d", i)))
		}(i)
	}
	wg.Wait()

	recent, err := log.GetLast(context.Background(), writers)
	if err != nil {
		t.Fatalf("get last: %v", err)
	}
	if len(recent) != writers {
		t.Fatalf("lost appends: expected %d orders, got %d", writers, len(recent))
	}
}
