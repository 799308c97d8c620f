package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swigepto/swigepto-backend/internal/delivery"
	"github.com/swigepto/swigepto-backend/internal/offers"
	"github.com/swigepto/swigepto-backend/internal/session"
	pkgerrors "github.com/swigepto/swigepto-backend/pkg/errors"
	"github.com/swigepto/swigepto-backend/pkg/metrics"
)

// Service places and reads orders. PlaceOrder is atomic from the session's
// point of view: it either persists the order and clears the cart and coupon
// together, or leaves everything untouched.
type Service interface {
	PlaceOrder(ctx context.Context, sess *session.Session, address string) (*Order, error)
	TrackOrder(ctx context.Context, orderID string) (*Order, error)
	History(ctx context.Context, limit int) ([]Order, error)
	DeliveryInfo() (partner, store string)
}

type checkoutEngine interface {
	Checkout(sess *session.Session) offers.Totals
}

type service struct {
	repo     Repository
	sessions session.Store
	offers   checkoutEngine
	pick     delivery.Picker
	metrics  *metrics.EngineMetrics
	idPrefix string
	now      func() time.Time
}

// ServiceParams collects the order service dependencies.
type ServiceParams struct {
	Repo     Repository
	Sessions session.Store
	Offers   checkoutEngine
	Pick     delivery.Picker
	Metrics  *metrics.EngineMetrics
	IDPrefix string
	Now      func() time.Time
}

// NewService builds the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Offers == nil {
		return nil, fmt.Errorf("offer engine required")
	}
	if params.Pick == nil {
		params.Pick = delivery.RandomPicker(nil)
	}
	if params.IDPrefix == "" {
		params.IDPrefix = "SWP"
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:     params.Repo,
		sessions: params.Sessions,
		offers:   params.Offers,
		pick:     params.Pick,
		metrics:  params.Metrics,
		idPrefix: params.IDPrefix,
		now:      params.Now,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, sess *session.Session, address string) (*Order, error) {
	if strings.TrimSpace(address) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	if len(sess.Entries) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty, add some items first")
	}

	totals := s.offers.Checkout(sess)
	partner, store := s.pick()

	var couponCode *string
	if sess.CouponCode != "" {
		code := sess.CouponCode
		couponCode = &code
	}

	order := &Order{
		OrderID:         s.newOrderID(),
		CreatedAt:       s.now().UTC(),
		Items:           sess.SnapshotEntries(),
		Subtotal:        totals.Subtotal,
		Discount:        totals.Discount,
		DeliveryFee:     totals.DeliveryFee,
		Total:           totals.Total,
		CouponCode:      couponCode,
		DeliveryAddress: address,
		DeliveryPartner: partner,
		Store:           store,
		Status:          StatusConfirmed,
	}

	// Persistence first: a failed append must leave cart and coupon in
	// place so the caller can retry.
	if err := s.repo.Append(ctx, order); err != nil {
		return nil, err
	}

	sess.ClearCheckout()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	s.metrics.ObserveOrder(order.Total)
	return order, nil
}

func (s *service) TrackOrder(ctx context.Context, orderID string) (*Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return s.repo.GetByID(ctx, orderID)
}

func (s *service) History(ctx context.Context, limit int) ([]Order, error) {
	if limit <= 0 {
		limit = 3
	}
	return s.repo.GetLast(ctx, limit)
}

func (s *service) DeliveryInfo() (string, string) {
	return s.pick()
}

// newOrderID combines a second-resolution timestamp with a random suffix;
// the timestamp alone collides under concurrent placement.
func (s *service) newOrderID() string {
	stamp := s.now().UTC().Format("20060102150405")
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("%s%s-%s", s.idPrefix, stamp, suffix)
}
