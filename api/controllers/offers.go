package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/swigepto/swigepto-backend/api/responses"
	"github.com/swigepto/swigepto-backend/api/validators"
	"github.com/swigepto/swigepto-backend/internal/offers"
	"github.com/swigepto/swigepto-backend/internal/session"
	"github.com/swigepto/swigepto-backend/pkg/logger"
)

type offersResponse struct {
	Offers  []offers.Offer `json:"offers"`
	Message string         `json:"message"`
}

// OffersList returns the static coupon table.
func OffersList(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listing := svc.ListOffers()

		lines := make([]string, 0, len(listing))
		for _, offer := range listing {
			lines = append(lines, fmt.Sprintf("%s - %s", offer.Code, offer.Description))
		}

		responses.WriteSuccess(w, offersResponse{
			Offers:  listing,
			Message: fmt.Sprintf("Current offers: %s. Say the code to apply one!", strings.Join(lines, ". ")),
		})
	}
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

type checkoutDTO struct {
	Subtotal    int `json:"subtotal"`
	Discount    int `json:"discount"`
	DeliveryFee int `json:"delivery_fee"`
	Total       int `json:"total"`
}

type applyCouponResponse struct {
	Coupon   string      `json:"coupon"`
	Checkout checkoutDTO `json:"checkout"`
	Message  string      `json:"message"`
}

// OffersApply records a coupon on the session and previews the new totals.
// A later coupon replaces the earlier one; only one is active at a time.
func OffersApply(svc offers.Service, sessions session.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := sessionFromRequest(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := svc.ApplyCoupon(r.Context(), sess, payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		totals := svc.Checkout(sess)
		message := fmt.Sprintf("Applied %s! You save ₹%d. New total: ₹%d.", coupon.Code, totals.Discount, totals.Total)
		if coupon.Kind == offers.KindFreeDelivery {
			message = fmt.Sprintf("Applied %s! New total: ₹%d.", coupon.Code, totals.Total)
		}

		responses.WriteSuccess(w, applyCouponResponse{
			Coupon:   coupon.Code,
			Checkout: toCheckoutDTO(totals),
			Message:  message,
		})
	}
}

func toCheckoutDTO(totals offers.Totals) checkoutDTO {
	return checkoutDTO{
		Subtotal:    totals.Subtotal,
		Discount:    totals.Discount,
		DeliveryFee: totals.DeliveryFee,
		Total:       totals.Total,
	}
}
