package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/swigepto/swigepto-backend/api/responses"
	"github.com/swigepto/swigepto-backend/internal/catalog"
	pkgerrors "github.com/swigepto/swigepto-backend/pkg/errors"
	"github.com/swigepto/swigepto-backend/pkg/logger"
	"github.com/swigepto/swigepto-backend/pkg/metrics"
)

type catalogItemDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
}

type searchResponse struct {
	Items   []catalogItemDTO `json:"items"`
	Message string           `json:"message"`
}

// CatalogSearch runs the tiered fuzzy lookup. An empty result is a success
// with a suggestion message, never an error.
func CatalogSearch(index *catalog.Index, m *metrics.EngineMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		results := index.Search(query)
		m.ObserveSearch(len(results) > 0)

		if len(results) == 0 {
			responses.WriteSuccess(w, searchResponse{
				Items:   []catalogItemDTO{},
				Message: fmt.Sprintf("Couldn't find %q. Try snacks like chips or maggi, prepared food like biryani or pizza, or groceries like bread or milk.", query),
			})
			return
		}

		top := results
		if len(top) > 5 {
			top = top[:5]
		}
		names := make([]string, 0, len(top))
		for _, item := range top {
			names = append(names, fmt.Sprintf("%s (₹%d)", item.Name, item.Price))
		}
		more := ""
		if extra := len(results) - len(top); extra > 0 {
			more = fmt.Sprintf(" and %d more", extra)
		}

		responses.WriteSuccess(w, searchResponse{
			Items:   toItemDTOs(results),
			Message: fmt.Sprintf("Found %d items: %s%s. Want to add any?", len(results), strings.Join(names, ", "), more),
		})
	}
}

type categoryResponse struct {
	Category string           `json:"category"`
	Items    []catalogItemDTO `json:"items"`
	Message  string           `json:"message"`
}

// CategoryList returns every item in a category, resolving spoken names like
// "food" or "snack".
func CategoryList(index *catalog.Index, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		items, ok := index.Category(name)
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no category %q", name)).
					WithDetails(map[string]any{"categories": index.Categories()}))
			return
		}

		preview := items
		if len(preview) > 8 {
			preview = preview[:8]
		}
		names := make([]string, 0, len(preview))
		for _, item := range preview {
			names = append(names, fmt.Sprintf("%s (₹%d)", item.Name, item.Price))
		}
		more := ""
		if extra := len(items) - len(preview); extra > 0 {
			more = fmt.Sprintf(" and %d more items", extra)
		}

		responses.WriteSuccess(w, categoryResponse{
			Category: name,
			Items:    toItemDTOs(items),
			Message:  fmt.Sprintf("We have %d items in %s: %s%s. Want to add any?", len(items), name, strings.Join(names, ", "), more),
		})
	}
}

func toItemDTOs(items []catalog.Item) []catalogItemDTO {
	dtos := make([]catalogItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, catalogItemDTO{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Unit:     item.Unit,
			Category: item.Category,
		})
	}
	return dtos
}
