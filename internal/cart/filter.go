package cart

import (
	dbgen "github.com/schooney/backend-portal/internal/db/gen"
)

// Type selects which slice of the cart a view is interested in.
type Type string

const (
	TypeAll     Type = "all"
	TypeTuition Type = "tuition"
	TypeCourse  Type = "course"
	TypeCamp    Type = "camp"
	TypeTrip    Type = "trip"
	TypeExam    Type = "exam"
)

// ParseType normalises a query value into a known cart type, defaulting to all.
func ParseType(value string) Type {
	switch Type(value) {
	case TypeTuition, TypeCourse, TypeCamp, TypeTrip, TypeExam:
		return Type(value)
	default:
		return TypeAll
	}
}

// Matches reports whether an item with the given kind and category belongs
// to the active cart type. The mapping is a fixed predicate table: course
// covers both course and activity kinds, camp and trip select by category.
func Matches(active Type, kind dbgen.InvoiceKind, category dbgen.NullInvoiceCategory) bool {
	switch active {
	case TypeAll:
		return true
	case TypeTuition:
		return kind == dbgen.InvoiceKindTuition
	case TypeCourse:
		return kind == dbgen.InvoiceKindCourse || kind == dbgen.InvoiceKindActivity
	case TypeCamp:
		return category.Valid && category.InvoiceCategory == dbgen.InvoiceCategorySummer
	case TypeTrip:
		return category.Valid && category.InvoiceCategory == dbgen.InvoiceCategoryTrip
	case TypeExam:
		return kind == dbgen.InvoiceKindExam
	default:
		return false
	}
}

// Filter returns the subsequence of items matching the active type,
// preserving the original order.
func Filter(items []dbgen.CartItem, active Type) []dbgen.CartItem {
	if active == TypeAll {
		return items
	}
	filtered := make([]dbgen.CartItem, 0, len(items))
	for _, it := range items {
		if Matches(active, it.Kind, it.Category) {
			filtered = append(filtered, it)
		}
	}
	return filtered
}

// Group is an ordered bucket of cart items sharing an invoice kind.
type Group struct {
	Kind  dbgen.InvoiceKind
	Items []dbgen.CartItem
}

// GroupByKind buckets items by kind. Bucket order follows the first
// occurrence of each kind and items keep their insertion order, so the
// grouping is stable for display.
func GroupByKind(items []dbgen.CartItem) []Group {
	var groups []Group
	index := make(map[dbgen.InvoiceKind]int)
	for _, it := range items {
		i, ok := index[it.Kind]
		if !ok {
			i = len(groups)
			index[it.Kind] = i
			groups = append(groups, Group{Kind: it.Kind})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}
