package offers

import (
	"strings"

	"github.com/swigepto/swigepto-backend/internal/session"
)

// Pricing carries the standard delivery fee rule.
type Pricing struct {
	DeliveryFee           int
	FreeDeliveryThreshold int
}

// Totals is the checkout breakdown. total = subtotal - discount + deliveryFee.
type Totals struct {
	Subtotal    int `json:"subtotal"`
	Discount    int `json:"discount"`
	DeliveryFee int `json:"delivery_fee"`
	Total       int `json:"total"`
}

// ComputeCheckout is pure: identical inputs always produce identical totals.
// The standard fee applies regardless of coupon; a free_delivery coupon only
// forces the fee to zero at or above its own minimum order.
func ComputeCheckout(entries []session.Entry, coupon *Coupon, pricing Pricing) Totals {
	subtotal := 0
	for _, entry := range entries {
		subtotal += entry.Price * entry.Quantity
	}

	fee := 0
	if subtotal < pricing.FreeDeliveryThreshold {
		fee = pricing.DeliveryFee
	}

	discount := 0
	if coupon != nil {
		switch coupon.Kind {
		case KindPercent:
			base := discountableSubtotal(entries, coupon.Category)
			discount = base * coupon.Value / 100
			if discount > coupon.MaxDiscount {
				discount = coupon.MaxDiscount
			}
		case KindFreeDelivery:
			if subtotal >= coupon.MinOrder {
				fee = 0
			}
		}
	}

	return Totals{
		Subtotal:    subtotal,
		Discount:    discount,
		DeliveryFee: fee,
		Total:       subtotal - discount + fee,
	}
}

// discountableSubtotal restricts the base to entries matching the coupon's
// category filter. The filter matches the entry's category or any of its
// tags, so brand-scoped coupons like MAGGI20 reach items filed under broader
// categories.
func discountableSubtotal(entries []session.Entry, category string) int {
	filter := strings.ToLower(strings.TrimSpace(category))
	if filter == "" {
		total := 0
		for _, entry := range entries {
			total += entry.Price * entry.Quantity
		}
		return total
	}

	total := 0
	for _, entry := range entries {
		if entryMatchesCategory(entry, filter) {
			total += entry.Price * entry.Quantity
		}
	}
	return total
}

func entryMatchesCategory(entry session.Entry, filter string) bool {
	if strings.ToLower(entry.Category) == filter {
		return true
	}
	for _, tag := range entry.Tags {
		if strings.ToLower(tag) == filter {
			return true
		}
	}
	return false
}
