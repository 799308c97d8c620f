package cart

import (
	"context"
	"fmt"

	"github.com/swigepto/swigepto-backend/internal/catalog"
	"github.com/swigepto/swigepto-backend/internal/session"
	pkgerrors "github.com/swigepto/swigepto-backend/pkg/errors"
	"github.com/swigepto/swigepto-backend/pkg/metrics"
)

// Service mutates the session-owned cart. Item names are resolved through
// the catalog search, so callers can pass free text.
type Service interface {
	AddItem(ctx context.Context, sess *session.Session, query string, qty int) (*AddResult, error)
	RemoveItem(ctx context.Context, sess *session.Session, name string) (*session.Entry, error)
	SetQuantity(ctx context.Context, sess *session.Session, name string, qty int) (*UpdateResult, error)
	ViewCart(sess *session.Session) *View
	AddRecipeIngredients(ctx context.Context, sess *session.Session, dish string) (*RecipeResult, error)
}

type service struct {
	index    *catalog.Index
	sessions session.Store
	metrics  *metrics.EngineMetrics
}

// NewService builds the cart service over the catalog and session store.
func NewService(index *catalog.Index, sessions session.Store, m *metrics.EngineMetrics) (Service, error) {
	if index == nil {
		return nil, fmt.Errorf("catalog index required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	return &service{index: index, sessions: sessions, metrics: m}, nil
}

// AddResult reports the resolved item and the cart state after an add.
type AddResult struct {
	Item         catalog.Item
	LineQuantity int
	CartTotal    int
	// Suggestions surfaces up to two lower-ranked matches, non-binding.
	Suggestions []string
}

// UpdateResult reports the outcome of a quantity change.
type UpdateResult struct {
	Entry   session.Entry
	Removed bool
}

// View is the ordered cart listing with its grand total.
type View struct {
	Entries    []session.Entry
	Total      int
	CouponCode string
}

// RecipeResult lists the ingredient names added for a dish.
type RecipeResult struct {
	Dish  string
	Added []string
}

func (s *service) AddItem(ctx context.Context, sess *session.Session, query string, qty int) (*AddResult, error) {
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	results := s.index.Search(query)
	if len(results) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no catalog match for %q", query)).
			WithDetails(map[string]any{"suggestions": []string{"snacks", "groceries", "prepared food"}})
	}

	found := results[0]
	var suggestions []string
	for _, alt := range results[1:] {
		if len(suggestions) == 2 {
			break
		}
		suggestions = append(suggestions, alt.Name)
	}

	lineQty := s.upsertEntry(sess, found, qty)

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.metrics.ObserveCartOp("add")

	return &AddResult{
		Item:         found,
		LineQuantity: lineQty,
		CartTotal:    sess.Subtotal(),
		Suggestions:  suggestions,
	}, nil
}

func (s *service) RemoveItem(ctx context.Context, sess *session.Session, name string) (*session.Entry, error) {
	idx := sess.EntryIndexByName(name)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%q is not in the cart", name))
	}

	removed := sess.Entries[idx]
	sess.RemoveEntry(idx)

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.metrics.ObserveCartOp("remove")
	return &removed, nil
}

func (s *service) SetQuantity(ctx context.Context, sess *session.Session, name string, qty int) (*UpdateResult, error) {
	if qty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	idx := sess.EntryIndexByName(name)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%q is not in the cart", name))
	}

	entry := sess.Entries[idx]
	removed := qty == 0
	if removed {
		sess.RemoveEntry(idx)
	} else {
		sess.Entries[idx].Quantity = qty
		entry = sess.Entries[idx]
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.metrics.ObserveCartOp("update")
	return &UpdateResult{Entry: entry, Removed: removed}, nil
}

func (s *service) ViewCart(sess *session.Session) *View {
	return &View{
		Entries:    sess.SnapshotEntries(),
		Total:      sess.Subtotal(),
		CouponCode: sess.CouponCode,
	}
}

func (s *service) AddRecipeIngredients(ctx context.Context, sess *session.Session, dish string) (*RecipeResult, error) {
	recipe, ok := s.index.Recipe(dish)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no recipe for %q", dish)).
			WithDetails(map[string]any{"known_recipes": s.index.RecipeNames()})
	}

	var added []string
	for _, ingredientID := range recipe.Ingredients {
		item, ok := s.index.ItemByID(ingredientID)
		if !ok {
			continue
		}
		s.upsertEntry(sess, item, 1)
		added = append(added, item.Name)
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.metrics.ObserveCartOp("recipe")
	return &RecipeResult{Dish: dish, Added: added}, nil
}

// upsertEntry applies the accumulate-or-create rule and returns the new line
// quantity.
func (s *service) upsertEntry(sess *session.Session, item catalog.Item, qty int) int {
	if idx := sess.EntryIndexByItem(item.ID); idx >= 0 {
		sess.Entries[idx].Quantity += qty
		return sess.Entries[idx].Quantity
	}
	sess.Entries = append(sess.Entries, session.Entry{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Unit:     item.Unit,
		Category: item.Category,
		Tags:     append([]string(nil), item.Tags...),
		Quantity: qty,
	})
	return qty
}
