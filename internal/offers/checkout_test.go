package offers

import (
	"testing"

	"github.com/swigepto/swigepto-backend/internal/session"
)

var standardPricing = Pricing{DeliveryFee: 20, FreeDeliveryThreshold: 199}

func maggiCart(qty int) []session.Entry {
	return []session.Entry{
		{ItemID: "maggi2", Name: "Maggi Noodles", Price: 14, Quantity: qty, Category: "snacks", Tags: []string{"maggi", "noodles"}},
	}
}

func TestComputeCheckoutNoCoupon(t *testing.T) {
	totals := ComputeCheckout(maggiCart(3), nil, standardPricing)
	if totals.Subtotal != 42 {
		t.Fatalf("expected subtotal 42, got %d", totals.Subtotal)
	}
	if totals.Discount != 0 {
		t.Fatalf("expected no discount, got %d", totals.Discount)
	}
	if totals.DeliveryFee != 20 {
		t.Fatalf("expected delivery fee 20, got %d", totals.DeliveryFee)
	}
	if totals.Total != 62 {
		t.Fatalf("expected total 62, got %d", totals.Total)
	}
}

func TestComputeCheckoutBrandCouponViaTags(t *testing.T) {
	coupon := &Coupon{Code: "MAGGI20", Kind: KindPercent, Value: 20, MaxDiscount: 50, Category: "maggi"}

	totals := ComputeCheckout(maggiCart(3), coupon, standardPricing)
	// 20% of 42 truncates to 8.
	if totals.Discount != 8 {
		t.Fatalf("expected discount 8, got %d", totals.Discount)
	}
	if totals.Total != 54 {
		t.Fatalf("expected total 54, got %d", totals.Total)
	}
}

func TestComputeCheckoutCategoryFilterExcludesOtherItems(t *testing.T) {
	entries := append(maggiCart(3),
		session.Entry{ItemID: "milk1", Name: "Amul Taaza Milk", Price: 27, Quantity: 2, Category: "groceries", Tags: []string{"dairy"}},
	)
	coupon := &Coupon{Code: "MAGGI20", Kind: KindPercent, Value: 20, MaxDiscount: 50, Category: "maggi"}

	totals := ComputeCheckout(entries, coupon, standardPricing)
	if totals.Subtotal != 96 {
		t.Fatalf("expected subtotal 96, got %d", totals.Subtotal)
	}
	// Only the maggi lines are discountable: 20% of 42.
	if totals.Discount != 8 {
		t.Fatalf("expected discount 8, got %d", totals.Discount)
	}
}

func TestComputeCheckoutMaxDiscountCap(t *testing.T) {
	entries := []session.Entry{
		{ItemID: "biryani1", Name: "Chicken Biryani", Price: 220, Quantity: 2, Category: "prepared_food"},
	}
	coupon := &Coupon{Code: "FIRST50", Kind: KindPercent, Value: 50, MaxDiscount: 100}

	totals := ComputeCheckout(entries, coupon, standardPricing)
	// 50% of 440 is 220, capped at 100.
	if totals.Discount != 100 {
		t.Fatalf("expected capped discount 100, got %d", totals.Discount)
	}
	if totals.DeliveryFee != 0 {
		t.Fatalf("expected free delivery above threshold, got %d", totals.DeliveryFee)
	}
	if totals.Total != 340 {
		t.Fatalf("expected total 340, got %d", totals.Total)
	}
}

func TestComputeCheckoutFreeDeliveryThreshold(t *testing.T) {
	atThreshold := []session.Entry{
		{ItemID: "pizza1", Name: "Margherita Pizza", Price: 199, Quantity: 1, Category: "prepared_food"},
	}
	totals := ComputeCheckout(atThreshold, nil, standardPricing)
	if totals.DeliveryFee != 0 {
		t.Fatalf("expected no fee at threshold, got %d", totals.DeliveryFee)
	}

	below := []session.Entry{
		{ItemID: "thali1", Name: "North Indian Thali", Price: 180, Quantity: 1, Category: "prepared_food"},
	}
	totals = ComputeCheckout(below, nil, standardPricing)
	if totals.DeliveryFee != 20 {
		t.Fatalf("expected fee below threshold, got %d", totals.DeliveryFee)
	}
}

// FREE99's minimum order equals the unconditional free-delivery threshold, so
// at standard pricing the coupon never changes the outcome. That is the shipped
// behavior.
func TestComputeCheckoutFree99IsNoOpAtStandardPricing(t *testing.T) {
	coupon := &Coupon{Code: "FREE99", Kind: KindFreeDelivery, MinOrder: 199}

	below := []session.Entry{
		{ItemID: "thali1", Name: "North Indian Thali", Price: 180, Quantity: 1, Category: "prepared_food"},
	}
	with := ComputeCheckout(below, coupon, standardPricing)
	without := ComputeCheckout(below, nil, standardPricing)
	if with != without {
		t.Fatalf("expected identical totals below threshold: %+v vs %+v", with, without)
	}

	above := []session.Entry{
		{ItemID: "biryani1", Name: "Chicken Biryani", Price: 220, Quantity: 1, Category: "prepared_food"},
	}
	with = ComputeCheckout(above, coupon, standardPricing)
	without = ComputeCheckout(above, nil, standardPricing)
	if with != without {
		t.Fatalf("expected identical totals above threshold: %+v vs %+v", with, without)
	}
}

func TestComputeCheckoutFreeDeliveryCouponWithLowerMinimum(t *testing.T) {
	coupon := &Coupon{Code: "FREE99", Kind: KindFreeDelivery, MinOrder: 99}
	entries := []session.Entry{
		{ItemID: "rolls1", Name: "Paneer Kathi Roll", Price: 120, Quantity: 1, Category: "prepared_food"},
	}

	totals := ComputeCheckout(entries, coupon, standardPricing)
	if totals.DeliveryFee != 0 {
		t.Fatalf("expected coupon to waive fee, got %d", totals.DeliveryFee)
	}
	if totals.Total != 120 {
		t.Fatalf("expected total 120, got %d", totals.Total)
	}
}

func TestComputeCheckoutEmptyCart(t *testing.T) {
	totals := ComputeCheckout(nil, nil, standardPricing)
	if totals.Subtotal != 0 || totals.Discount != 0 {
		t.Fatalf("unexpected totals for empty cart: %+v", totals)
	}
	// The fee rule still applies; order placement guards against empty carts
	// upstream.
	if totals.DeliveryFee != 20 {
		t.Fatalf("expected fee 20 for empty cart, got %d", totals.DeliveryFee)
	}
}

func TestComputeCheckoutIsPure(t *testing.T) {
	entries := maggiCart(3)
	coupon := &Coupon{Code: "MAGGI20", Kind: KindPercent, Value: 20, MaxDiscount: 50, Category: "maggi"}

	first := ComputeCheckout(entries, coupon, standardPricing)
	second := ComputeCheckout(entries, coupon, standardPricing)
	if first != second {
		t.Fatalf("expected identical totals, got %+v vs %+v", first, second)
	}
	if entries[0].Quantity != 3 {
		t.Fatalf("checkout mutated entries: %+v", entries)
	}
}
