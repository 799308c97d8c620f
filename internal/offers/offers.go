package offers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/swigepto/swigepto-backend/internal/session"
	pkgerrors "github.com/swigepto/swigepto-backend/pkg/errors"
)

// CouponKind selects the discount rule.
type CouponKind string

const (
	KindPercent      CouponKind = "percent"
	KindFreeDelivery CouponKind = "free_delivery"
)

// Coupon is one named discount rule.
type Coupon struct {
	Code        string
	Kind        CouponKind
	Value       int // percent, for KindPercent
	MaxDiscount int // rupees cap, KindPercent only
	MinOrder    int // rupees floor, KindFreeDelivery only
	Category    string
	Description string
}

// Offer is the public listing form of a coupon.
type Offer struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Registry holds the static coupon table. Read-only after construction.
type Registry struct {
	coupons map[string]Coupon
}

// DefaultCoupons reproduces the launch offer table. FREE99's minimum order
// equals the unconditional free-delivery threshold, which makes it a no-op at
// default pricing; that quirk is intentional and must survive config reviews.
func DefaultCoupons() []Coupon {
	return []Coupon{
		{Code: "FIRST50", Kind: KindPercent, Value: 50, MaxDiscount: 100, Description: "50% off up to ₹100 on first order"},
		{Code: "MAGGI20", Kind: KindPercent, Value: 20, MaxDiscount: 50, Category: "maggi", Description: "20% off on Maggi products"},
		{Code: "SNACK15", Kind: KindPercent, Value: 15, MaxDiscount: 30, Description: "15% off on snacks"},
		{Code: "FREE99", Kind: KindFreeDelivery, MinOrder: 199, Description: "Free delivery on orders above ₹199"},
	}
}

// NewRegistry indexes the coupon table by upper-cased code.
func NewRegistry(coupons []Coupon) (*Registry, error) {
	table := make(map[string]Coupon, len(coupons))
	for _, coupon := range coupons {
		code := strings.ToUpper(strings.TrimSpace(coupon.Code))
		if code == "" {
			return nil, fmt.Errorf("coupon without a code")
		}
		if _, dup := table[code]; dup {
			return nil, fmt.Errorf("duplicate coupon code %q", code)
		}
		coupon.Code = code
		table[code] = coupon
	}
	return &Registry{coupons: table}, nil
}

// List returns all offers, sorted by code for stable output.
func (r *Registry) List() []Offer {
	offers := make([]Offer, 0, len(r.coupons))
	for _, coupon := range r.coupons {
		offers = append(offers, Offer{Code: coupon.Code, Description: coupon.Description})
	}
	sort.Slice(offers, func(i, j int) bool { return offers[i].Code < offers[j].Code })
	return offers
}

// Codes returns the valid coupon codes, sorted.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.coupons))
	for code := range r.coupons {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup finds a coupon case-insensitively.
func (r *Registry) Lookup(code string) (Coupon, bool) {
	coupon, ok := r.coupons[strings.ToUpper(strings.TrimSpace(code))]
	return coupon, ok
}

// Service applies coupons to a session.
type Service interface {
	ListOffers() []Offer
	ApplyCoupon(ctx context.Context, sess *session.Session, code string) (*Coupon, error)
	Checkout(sess *session.Session) Totals
}

type service struct {
	registry *Registry
	sessions session.Store
	pricing  Pricing
}

// NewService builds the offer engine over the static registry.
func NewService(registry *Registry, sessions session.Store, pricing Pricing) (Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("coupon registry required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	return &service{registry: registry, sessions: sessions, pricing: pricing}, nil
}

func (s *service) ListOffers() []Offer {
	return s.registry.List()
}

// ApplyCoupon records the coupon on the session, replacing any previous one.
func (s *service) ApplyCoupon(ctx context.Context, sess *session.Session, code string) (*Coupon, error) {
	coupon, ok := s.registry.Lookup(code)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCoupon, fmt.Sprintf("%q is not a valid coupon", code)).
			WithDetails(map[string]any{"valid_codes": s.registry.Codes()})
	}

	sess.CouponCode = coupon.Code
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &coupon, nil
}

// Checkout computes the totals for the session's cart and applied coupon.
func (s *service) Checkout(sess *session.Session) Totals {
	var coupon *Coupon
	if sess.CouponCode != "" {
		if found, ok := s.registry.Lookup(sess.CouponCode); ok {
			coupon = &found
		}
	}
	return ComputeCheckout(sess.Entries, coupon, s.pricing)
}
