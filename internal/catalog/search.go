package catalog

import "strings"

// Match tiers, in priority order. An item is classified into the first tier
// that any search term satisfies.
const (
	tierExact = iota
	tierContains
	tierTag
	tierNone
)

type matcher func(term string, item Item) bool

// Ordered matcher pipeline; index position is the tier.
var matchers = []matcher{
	matchExact,
	matchContains,
	matchTagOrCategory,
}

func matchExact(term string, item Item) bool {
	return term == strings.ToLower(item.Name)
}

func matchContains(term string, item Item) bool {
	name := strings.ToLower(item.Name)
	return strings.Contains(name, term) || strings.Contains(term, name)
}

func matchTagOrCategory(term string, item Item) bool {
	for _, tag := range item.Tags {
		lowered := strings.ToLower(tag)
		if strings.Contains(lowered, term) || strings.Contains(term, lowered) {
			return true
		}
	}
	return strings.Contains(item.Category, term)
}

// Search runs the tiered fuzzy lookup. Results come back tier-major in
// catalog order, deduplicated by id. An empty result is valid and signals the
// caller to offer generic suggestions.
func (x *Index) Search(query string) []Item {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return nil
	}

	terms := []string{normalized}
	if expansions, ok := x.aliases[normalized]; ok {
		terms = append(terms, expansions...)
	}

	tiers := make([][]Item, len(matchers))
	for _, item := range x.items {
		if tier := classify(terms, item); tier != tierNone {
			tiers[tier] = append(tiers[tier], item)
		}
	}

	var results []Item
	seen := map[string]struct{}{}
	for _, tier := range tiers {
		for _, item := range tier {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			results = append(results, item)
		}
	}
	return results
}

// classify returns the highest-priority tier any term matches for the item.
func classify(terms []string, item Item) int {
	for tier, match := range matchers {
		for _, term := range terms {
			if term == "" {
				continue
			}
			if match(term, item) {
				return tier
			}
		}
	}
	return tierNone
}
