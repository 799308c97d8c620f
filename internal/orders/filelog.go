package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	pkgerrors "github.com/swigepto/swigepto-backend/pkg/errors"
)

// FileLog persists the order log as a single JSON document, the classic
// demo-store format: {"orders": [...]}. Every append re-reads the document,
// appends one entry, and rewrites it via a temp-file rename. A mutex
// serializes the read-append-write cycle; without it concurrent placements
// would lose updates.
type FileLog struct {
	mu   sync.Mutex
	path string
}

// NewFileLog opens (or creates) the log at path.
func NewFileLog(path string) (*FileLog, error) {
	if path == "" {
		return nil, fmt.Errorf("order log path required")
	}
	log := &FileLog{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := log.write(map[string]json.RawMessage{}, nil); err != nil {
			return nil, err
		}
	}
	return log, nil
}

func (f *FileLog) Append(ctx context.Context, order *Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	extra, existing, err := f.read()
	if err != nil {
		return err
	}
	existing = append(existing, *order)
	return f.write(extra, existing)
}

func (f *FileLog) GetByID(ctx context.Context, orderID string) (*Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, existing, err := f.read()
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].OrderID == orderID {
			order := existing[i]
			return &order, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %s not found", orderID))
}

func (f *FileLog) GetLast(ctx context.Context, n int) ([]Order, error) {
	if n <= 0 {
		return nil, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	_, existing, err := f.read()
	if err != nil {
		return nil, err
	}
	if len(existing) > n {
		existing = existing[len(existing)-n:]
	}
	return existing, nil
}

// read returns the non-order fields of the document (preserved verbatim for
// forward compatibility) and the decoded order list.
func (f *FileLog) read() (map[string]json.RawMessage, []Order, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read order log")
	}

	doc := map[string]json.RawMessage{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order log")
		}
	}

	var orders []Order
	if rawOrders, ok := doc["orders"]; ok {
		if err := json.Unmarshal(rawOrders, &orders); err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order entries")
		}
	}
	delete(doc, "orders")
	return doc, orders, nil
}

func (f *FileLog) write(extra map[string]json.RawMessage, orders []Order) error {
	doc := map[string]json.RawMessage{}
	for key, value := range extra {
		doc[key] = value
	}
	if orders == nil {
		orders = []Order{}
	}
	rawOrders, err := json.Marshal(orders)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order entries")
	}
	doc["orders"] = rawOrders

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order log")
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".orders-*")
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create temp order log")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write order log")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "flush order log")
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace order log")
	}
	return nil
}
