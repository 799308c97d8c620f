package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/swigepto/swigepto-backend/api/responses"
	"github.com/swigepto/swigepto-backend/api/validators"
	cartsvc "github.com/swigepto/swigepto-backend/internal/cart"
	"github.com/swigepto/swigepto-backend/internal/session"
	"github.com/swigepto/swigepto-backend/pkg/logger"
)

type addItemRequest struct {
	Item     string `json:"item" validate:"required"`
	Quantity int    `json:"qty" validate:"omitempty,min=1"`
}

type cartEntryDTO struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Unit      string `json:"unit"`
	Quantity  int    `json:"quantity"`
	LineTotal int    `json:"line_total"`
}

type addItemResponse struct {
	Added       cartEntryDTO `json:"added"`
	CartTotal   int          `json:"cart_total"`
	Suggestions []string     `json:"suggestions,omitempty"`
	Message     string       `json:"message"`
}

// CartAddItem resolves a free-text item name and applies the
// accumulate-or-create rule.
func CartAddItem(svc cartsvc.Service, sessions session.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := sessionFromRequest(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AddItem(r.Context(), sess, payload.Item, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		suggestions := ""
		if len(result.Suggestions) > 0 {
			suggestions = fmt.Sprintf(" We also have %s.", strings.Join(result.Suggestions, ", "))
		}

		responses.WriteSuccess(w, addItemResponse{
			Added: cartEntryDTO{
				ItemID:    result.Item.ID,
				Name:      result.Item.Name,
				Price:     result.Item.Price,
				Unit:      result.Item.Unit,
				Quantity:  result.LineQuantity,
				LineTotal: result.Item.Price * result.LineQuantity,
			},
			CartTotal:   result.CartTotal,
			Suggestions: result.Suggestions,
			Message:     fmt.Sprintf("Added %s. Cart total is now ₹%d.%s", result.Item.Name, result.CartTotal, suggestions),
		})
	}
}

type removeItemResponse struct {
	Removed cartEntryDTO `json:"removed"`
	Message string       `json:"message"`
}

// CartRemoveItem deletes a cart line by exact, case-insensitive name.
func CartRemoveItem(svc cartsvc.Service, sessions session.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		sess, err := sessionFromRequest(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		removed, err := svc.RemoveItem(r.Context(), sess, name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, removeItemResponse{
			Removed: toEntryDTO(*removed),
			Message: fmt.Sprintf("Removed %s from cart.", removed.Name),
		})
	}
}

type updateQuantityRequest struct {
	Quantity *int `json:"qty" validate:"required,min=0"`
}

type updateQuantityResponse struct {
	Entry   *cartEntryDTO `json:"entry,omitempty"`
	Removed bool          `json:"removed"`
	Message string        `json:"message"`
}

// CartUpdateQuantity overwrites a line's quantity; zero removes the line.
func CartUpdateQuantity(svc cartsvc.Service, sessions session.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := sessionFromRequest(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SetQuantity(r.Context(), sess, name, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if result.Removed {
			responses.WriteSuccess(w, updateQuantityResponse{
				Removed: true,
				Message: fmt.Sprintf("Removed %s from cart.", result.Entry.Name),
			})
			return
		}

		entry := toEntryDTO(result.Entry)
		responses.WriteSuccess(w, updateQuantityResponse{
			Entry:   &entry,
			Message: fmt.Sprintf("Updated %s to %d units.", result.Entry.Name, result.Entry.Quantity),
		})
	}
}

type viewCartResponse struct {
	Entries    []cartEntryDTO `json:"entries"`
	Total      int            `json:"total"`
	CouponCode string         `json:"coupon_code,omitempty"`
	Message    string         `json:"message"`
}

// CartView lists the cart in insertion order; an empty cart is a valid state.
func CartView(svc cartsvc.Service, sessions session.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := svc.ViewCart(sess)
		if len(view.Entries) == 0 {
			responses.WriteSuccess(w, viewCartResponse{
				Entries: []cartEntryDTO{},
				Message: "Your cart is empty. What are you craving?",
			})
			return
		}

		lines := make([]string, 0, len(view.Entries))
		entries := make([]cartEntryDTO, 0, len(view.Entries))
		for _, entry := range view.Entries {
			entries = append(entries, toEntryDTO(entry))
			lines = append(lines, fmt.Sprintf("%s x%d = ₹%d", entry.Name, entry.Quantity, entry.Price*entry.Quantity))
		}

		hint := " Check offers for discounts!"
		if view.CouponCode != "" {
			hint = fmt.Sprintf(" %s coupon applied!", view.CouponCode)
		}

		responses.WriteSuccess(w, viewCartResponse{
			Entries:    entries,
			Total:      view.Total,
			CouponCode: view.CouponCode,
			Message:    fmt.Sprintf("Your cart: %s. Total: ₹%d.%s", strings.Join(lines, ". "), view.Total, hint),
		})
	}
}

type recipeRequest struct {
	Dish string `json:"dish" validate:"required"`
}

type recipeResponse struct {
	Dish    string   `json:"dish"`
	Added   []string `json:"added"`
	Message string   `json:"message"`
}

// CartAddRecipe adds one unit of every ingredient for a known dish.
func CartAddRecipe(svc cartsvc.Service, sessions session.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload recipeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := sessionFromRequest(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AddRecipeIngredients(r.Context(), sess, payload.Dish)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, recipeResponse{
			Dish:    result.Dish,
			Added:   result.Added,
			Message: fmt.Sprintf("Added ingredients for %s: %s. Check your cart!", result.Dish, strings.Join(result.Added, ", ")),
		})
	}
}

func toEntryDTO(entry session.Entry) cartEntryDTO {
	return cartEntryDTO{
		ItemID:    entry.ItemID,
		Name:      entry.Name,
		Price:     entry.Price,
		Unit:      entry.Unit,
		Quantity:  entry.Quantity,
		LineTotal: entry.Price * entry.Quantity,
	}
}
