package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

//go:embed data/catalog.json
var defaultCatalog []byte

// Item is one orderable catalog entry. Immutable after load.
type Item struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    int      `json:"price"`
	Unit     string   `json:"unit"`
	Tags     []string `json:"tags"`
	Category string   `json:"-"`
}

// Recipe maps a dish to the catalog ids of its ingredients, in order.
type Recipe struct {
	Ingredients []string `json:"ingredients"`
}

type categoryDoc struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

type catalogDoc struct {
	Categories []categoryDoc       `json:"categories"`
	Aliases    map[string][]string `json:"aliases"`
	Recipes    map[string]Recipe   `json:"recipes"`
}

// Index is the immutable, load-once catalog: items in catalog order, grouped
// by category, with the alias and recipe tables.
type Index struct {
	items      []Item
	byID       map[string]Item
	byCategory map[string][]Item
	categories []string
	aliases    map[string][]string
	recipes    map[string]Recipe
}

// Load reads the catalog from path, or the embedded default when path is
// empty.
func Load(path string) (*Index, error) {
	raw := defaultCatalog
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading catalog: %w", err)
		}
		raw = data
	}
	return parse(raw)
}

func parse(raw []byte) (*Index, error) {
	var doc catalogDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("catalog has no categories")
	}

	idx := &Index{
		byID:       map[string]Item{},
		byCategory: map[string][]Item{},
		aliases:    map[string][]string{},
		recipes:    map[string]Recipe{},
	}

	for _, cat := range doc.Categories {
		name := strings.ToLower(strings.TrimSpace(cat.Name))
		if name == "" {
			return nil, fmt.Errorf("catalog category without a name")
		}
		idx.categories = append(idx.categories, name)
		for _, item := range cat.Items {
			if item.ID == "" || item.Name == "" {
				return nil, fmt.Errorf("catalog item in %q missing id or name", name)
			}
			if item.Price < 0 {
				return nil, fmt.Errorf("catalog item %q has negative price", item.ID)
			}
			if _, dup := idx.byID[item.ID]; dup {
				return nil, fmt.Errorf("duplicate catalog item id %q", item.ID)
			}
			item.Category = name
			idx.items = append(idx.items, item)
			idx.byID[item.ID] = item
			idx.byCategory[name] = append(idx.byCategory[name], item)
		}
	}

	for term, expansions := range doc.Aliases {
		idx.aliases[strings.ToLower(strings.TrimSpace(term))] = expansions
	}
	for dish, recipe := range doc.Recipes {
		for _, ingredient := range recipe.Ingredients {
			if _, ok := idx.byID[ingredient]; !ok {
				return nil, fmt.Errorf("recipe %q references unknown item %q", dish, ingredient)
			}
		}
		idx.recipes[strings.ToLower(strings.TrimSpace(dish))] = recipe
	}

	return idx, nil
}

// Items returns every item in catalog order.
func (x *Index) Items() []Item {
	return x.items
}

// ItemByID looks up a single item.
func (x *Index) ItemByID(id string) (Item, bool) {
	item, ok := x.byID[id]
	return item, ok
}

// Categories returns category names in catalog order.
func (x *Index) Categories() []string {
	return x.categories
}

// spokenCategories maps the phrases users actually say to category names.
var spokenCategories = map[string]string{
	"snack":        "snacks",
	"grocery":      "groceries",
	"food":         "prepared_food",
	"ready to eat": "prepared_food",
	"prepared":     "prepared_food",
}

// Category resolves a spoken category name and returns its items in catalog
// order. The bool reports whether the category exists.
func (x *Index) Category(name string) ([]Item, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := spokenCategories[normalized]; ok {
		normalized = mapped
	} else {
		normalized = strings.ReplaceAll(normalized, " ", "_")
	}
	items, ok := x.byCategory[normalized]
	return items, ok
}

// Recipe returns the recipe for a dish, case-insensitively.
func (x *Index) Recipe(dish string) (Recipe, bool) {
	recipe, ok := x.recipes[strings.ToLower(strings.TrimSpace(dish))]
	return recipe, ok
}

// RecipeNames lists the known dishes, sorted for stable output.
func (x *Index) RecipeNames() []string {
	names := make([]string, 0, len(x.recipes))
	for name := range x.recipes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
