package orders

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/swigepto/swigepto-backend/internal/delivery"
	"github.com/swigepto/swigepto-backend/internal/offers"
	"github.com/swigepto/swigepto-backend/internal/session"
	pkgerrors "github.com/swigepto/swigepto-backend/pkg/errors"
)

type stubRepo struct {
	appended  []Order
	appendErr error
	byID      map[string]*Order
}

func (s *stubRepo) Append(ctx context.Context, order *Order) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, *order)
	return nil
}

func (s *stubRepo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	if order, ok := s.byID[orderID]; ok {
		return order, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *stubRepo) GetLast(ctx context.Context, n int) ([]Order, error) {
	if len(s.appended) > n {
		return s.appended[len(s.appended)-n:], nil
	}
	return s.appended, nil
}

func newTestOrderService(t *testing.T, repo Repository, sessions session.Store) Service {
	t.Helper()

	registry, err := offers.NewRegistry(offers.DefaultCoupons())
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	offersSvc, err := offers.NewService(registry, sessions, offers.Pricing{DeliveryFee: 20, FreeDeliveryThreshold: 199})
	if err != nil {
		t.Fatalf("new offers service: %v", err)
	}

	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Sessions: sessions,
		Offers:   offersSvc,
		Pick:     delivery.FixedPicker("Raju", "Madhapur"),
		IDPrefix: "SWP",
		Now:      func() time.Time { return time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("new order service: %v", err)
	}
	return svc
}

func maggiSession(id string) *session.Session {
	return &session.Session{
		ID:         id,
		CouponCode: "MAGGI20",
		Entries: []session.Entry{
			{ItemID: "maggi2", Name: "Maggi Noodles", Price: 14, Quantity: 3, Category: "snacks", Tags: []string{"maggi"}},
		},
	}
}

func TestPlaceOrderSuccess(t *testing.T) {
	repo := &stubRepo{}
	sessions := session.NewMemoryStore()
	svc := newTestOrderService(t, repo, sessions)

	sess := maggiSession("s1")
	order, err := svc.PlaceOrder(context.Background(), sess, "12 MG Road")
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if !strings.HasPrefix(order.OrderID, "SWP20250314103000-") {
		t.Fatalf("unexpected order id %s", order.OrderID)
	}
	if order.Subtotal != 42 || order.Discount != 8 || order.DeliveryFee != 20 || order.Total != 54 {
		t.Fatalf("unexpected totals: %+v", order)
	}
	if order.CouponCode == nil || *order.CouponCode != "MAGGI20" {
		t.Fatalf("expected coupon MAGGI20, got %v", order.CouponCode)
	}
	if order.DeliveryPartner != "Raju" || order.Store != "Madhapur" {
		t.Fatalf("unexpected delivery assignment: %+v", order)
	}
	if order.Status != StatusConfirmed {
		t.Fatalf("expected confirmed status, got %s", order.Status)
	}
	if len(repo.appended) != 1 {
		t.Fatalf("expected one appended order, got %d", len(repo.appended))
	}

	// The session clears only on success, and the cleared state persists.
	if len(sess.Entries) != 0 || sess.CouponCode != "" {
		t.Fatalf("session not cleared: %+v", sess)
	}
	persisted, err := sessions.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if len(persisted.Entries) != 0 || persisted.CouponCode != "" {
		t.Fatalf("cleared session not persisted: %+v", persisted)
	}
}

func TestPlaceOrderSnapshotDoesNotAliasCart(t *testing.T) {
	repo := &stubRepo{}
	sessions := session.NewMemoryStore()
	svc := newTestOrderService(t, repo, sessions)

	order, err := svc.PlaceOrder(context.Background(), maggiSession("s1"), "12 MG Road")
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 3 {
		t.Fatalf("expected snapshot of cart at placement, got %+v", order.Items)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestOrderService(t, repo, session.NewMemoryStore())

	_, err := svc.PlaceOrder(context.Background(), &session.Session{ID: "s1"}, "12 MG Road")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeEmptyCart {
		t.Fatalf("expected empty cart error, got %v", err)
	}
	if len(repo.appended) != 0 {
		t.Fatal("empty cart must never reach the order log")
	}
}

func TestPlaceOrderRequiresAddress(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestOrderService(t, repo, session.NewMemoryStore())

	_, err := svc.PlaceOrder(context.Background(), maggiSession("s1"), "   ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPlaceOrderPersistenceFailureKeepsCart(t *testing.T) {
	repo := &stubRepo{appendErr: errors.New("disk full")}
	sessions := session.NewMemoryStore()
	svc := newTestOrderService(t, repo, sessions)

	sess := maggiSession("s1")
	if err := sessions.Save(context.Background(), sess); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	_, err := svc.PlaceOrder(context.Background(), sess, "12 MG Road")
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if len(sess.Entries) != 1 || sess.CouponCode != "MAGGI20" {
		t.Fatalf("cart must survive a failed append: %+v", sess)
	}
	persisted, err := sessions.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if len(persisted.Entries) != 1 {
		t.Fatalf("persisted session must survive a failed append: %+v", persisted)
	}
}

func TestPlaceOrderIDsAreUnique(t *testing.T) {
	repo := &stubRepo{}
	sessions := session.NewMemoryStore()
	svc := newTestOrderService(t, repo, sessions)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		order, err := svc.PlaceOrder(context.Background(), maggiSession("s1"), "12 MG Road")
		if err != nil {
			t.Fatalf("place order %d: %v", i, err)
		}
		if seen[order.OrderID] {
			t.Fatalf("duplicate order id %s", order.OrderID)
		}
		seen[order.OrderID] = true
	}
}

func TestTrackOrder(t *testing.T) {
	known := &Order{OrderID: "SWP123-ABCD1234", Total: 54, Status: StatusConfirmed}
	repo := &stubRepo{byID: map[string]*Order{known.OrderID: known}}
	svc := newTestOrderService(t, repo, session.NewMemoryStore())

	order, err := svc.TrackOrder(context.Background(), known.OrderID)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if order.Total != 54 || order.Status != StatusConfirmed {
		t.Fatalf("unexpected order: %+v", order)
	}

	_, err = svc.TrackOrder(context.Background(), "SWP999-MISSING0")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	_, err = svc.TrackOrder(context.Background(), " ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHistoryDefaultsLimit(t *testing.T) {
	repo := &stubRepo{}
	sessions := session.NewMemoryStore()
	svc := newTestOrderService(t, repo, sessions)

	for i := 0; i < 5; i++ {
		if _, err := svc.PlaceOrder(context.Background(), maggiSession("s1"), "12 MG Road"); err != nil {
			t.Fatalf("place order %d: %v", i, err)
		}
	}

	recent, err := svc.History(context.Background(), 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected default window of 3, got %d", len(recent))
	}
}

func TestDeliveryInfoUsesPicker(t *testing.T) {
	svc := newTestOrderService(t, &stubRepo{}, session.NewMemoryStore())
	partner, store := svc.DeliveryInfo()
	if partner != "Raju" || store != "Madhapur" {
		t.Fatalf("unexpected assignment: %s / %s", partner, store)
	}
}
