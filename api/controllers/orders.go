package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/swigepto/swigepto-backend/api/responses"
	"github.com/swigepto/swigepto-backend/api/validators"
	"github.com/swigepto/swigepto-backend/internal/delivery"
	"github.com/swigepto/swigepto-backend/internal/orders"
	"github.com/swigepto/swigepto-backend/internal/session"
	"github.com/swigepto/swigepto-backend/pkg/logger"
)

type placeOrderRequest struct {
	Address string `json:"address" validate:"required"`
}

type orderDTO struct {
	OrderID         string         `json:"order_id"`
	CreatedAt       time.Time      `json:"created_at"`
	Items           []cartEntryDTO `json:"items"`
	Subtotal        int            `json:"subtotal"`
	Discount        int            `json:"discount"`
	DeliveryFee     int            `json:"delivery_fee"`
	Total           int            `json:"total"`
	Coupon          *string        `json:"coupon,omitempty"`
	DeliveryAddress string         `json:"delivery_address"`
	DeliveryPartner string         `json:"delivery_partner"`
	Store           string         `json:"store"`
	Status          string         `json:"status"`
}

type placeOrderResponse struct {
	Order   orderDTO `json:"order"`
	ETA     string   `json:"eta"`
	Message string   `json:"message"`
}

// OrderPlace confirms the session's cart as an order. The cart and coupon are
// cleared only after the order is persisted.
func OrderPlace(svc orders.Service, sessions session.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := sessionFromRequest(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), sess, payload.Address)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithOrderID(r.Context(), order.OrderID)
			ctx = logg.WithField(ctx, "total", order.Total)
			logg.Info(ctx, "order placed")
		}

		responses.WriteSuccess(w, placeOrderResponse{
			Order: toOrderDTO(order),
			ETA:   delivery.ETA,
			Message: fmt.Sprintf("Order confirmed! %s from our %s store will deliver to you in %s. Order ID %s, total ₹%d.",
				order.DeliveryPartner, order.Store, delivery.ETA, order.OrderID, order.Total),
		})
	}
}

type trackOrderResponse struct {
	Order   orderDTO `json:"order"`
	Message string   `json:"message"`
}

// OrderTrack looks up one order by its id.
func OrderTrack(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "orderId")

		order, err := svc.TrackOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, trackOrderResponse{
			Order: toOrderDTO(order),
			Message: fmt.Sprintf("Order %s is %s. %s is on the way from %s, total ₹%d.",
				order.OrderID, order.Status, order.DeliveryPartner, order.Store, order.Total),
		})
	}
}

type historyResponse struct {
	Orders  []orderDTO `json:"orders"`
	Message string     `json:"message"`
}

// OrderHistory returns the most recent orders, oldest of the window first.
// defaultLimit applies when the caller does not pass ?limit.
func OrderHistory(svc orders.Service, defaultLimit int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err == nil {
				limit = parsed
			}
		}

		recent, err := svc.History(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if len(recent) == 0 {
			responses.WriteSuccess(w, historyResponse{
				Orders:  []orderDTO{},
				Message: "No orders yet. Ready to place your first one?",
			})
			return
		}

		dtos := make([]orderDTO, 0, len(recent))
		lines := make([]string, 0, len(recent))
		for i := range recent {
			dtos = append(dtos, toOrderDTO(&recent[i]))
			lines = append(lines, fmt.Sprintf("%s for ₹%d (%s)", recent[i].OrderID, recent[i].Total, recent[i].Status))
		}

		responses.WriteSuccess(w, historyResponse{
			Orders:  dtos,
			Message: fmt.Sprintf("Your recent orders: %s.", strings.Join(lines, ", ")),
		})
	}
}

type deliveryInfoResponse struct {
	Partner string `json:"partner"`
	Store   string `json:"store"`
	ETA     string `json:"eta"`
	Message string `json:"message"`
}

// DeliveryInfo quotes the fixed delivery promise with a partner and store.
func DeliveryInfo(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		partner, store := svc.DeliveryInfo()
		responses.WriteSuccess(w, deliveryInfoResponse{
			Partner: partner,
			Store:   store,
			ETA:     delivery.ETA,
			Message: fmt.Sprintf("We deliver in %s! %s from our %s dark store handles your area.", delivery.ETA, partner, store),
		})
	}
}

func toOrderDTO(order *orders.Order) orderDTO {
	items := make([]cartEntryDTO, 0, len(order.Items))
	for _, entry := range order.Items {
		items = append(items, toEntryDTO(entry))
	}
	return orderDTO{
		OrderID:         order.OrderID,
		CreatedAt:       order.CreatedAt,
		Items:           items,
		Subtotal:        order.Subtotal,
		Discount:        order.Discount,
		DeliveryFee:     order.DeliveryFee,
		Total:           order.Total,
		Coupon:          order.CouponCode,
		DeliveryAddress: order.DeliveryAddress,
		DeliveryPartner: order.DeliveryPartner,
		Store:           order.Store,
		Status:          order.Status,
	}
}
