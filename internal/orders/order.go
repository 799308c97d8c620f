package orders

import (
	"context"
	"time"

	"github.com/swigepto/swigepto-backend/internal/session"
)

// StatusConfirmed is the only status this engine assigns; status transitions
// happen downstream of the ordering flow.
const StatusConfirmed = "confirmed"

// Order is one placed, immutable order. Items are a deep copy of the cart at
// placement time.
type Order struct {
	OrderID         string          `json:"order_id"`
	CreatedAt       time.Time       `json:"timestamp"`
	Items           []session.Entry `json:"items"`
	Subtotal        int             `json:"subtotal"`
	Discount        int             `json:"discount"`
	DeliveryFee     int             `json:"delivery_fee"`
	Total           int             `json:"total"`
	CouponCode      *string         `json:"coupon"`
	DeliveryAddress string          `json:"delivery_address"`
	DeliveryPartner string          `json:"delivery_partner"`
	Store           string          `json:"store"`
	Status          string          `json:"status"`
}

// Repository is the append-only order log. Implementations must serialize
// writes; multiple sessions place orders concurrently.
type Repository interface {
	Append(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	// GetLast returns up to n most recent orders in their original append
	// order (oldest of the window first).
	GetLast(ctx context.Context, n int) ([]Order, error)
}
