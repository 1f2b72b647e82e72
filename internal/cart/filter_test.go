package cart

import (
	"testing"

	dbgen "github.com/schooney/backend-portal/internal/db/gen"
)

func item(kind dbgen.InvoiceKind, category string, amount int64) dbgen.CartItem {
	it := dbgen.CartItem{Kind: kind, Amount: amount}
	if category != "" {
		it.Category = dbgen.NullInvoiceCategory{InvoiceCategory: dbgen.InvoiceCategory(category), Valid: true}
	}
	return it
}

func TestParseType(t *testing.T) {
	if got := ParseType("trip"); got != TypeTrip {
		t.Fatalf("expected trip, got %s", got)
	}
	if got := ParseType(""); got != TypeAll {
		t.Fatalf("expected all for empty value, got %s", got)
	}
	if got := ParseType("bogus"); got != TypeAll {
		t.Fatalf("expected all for unknown value, got %s", got)
	}
}

func TestFilterTrip(t *testing.T) {
	items := []dbgen.CartItem{
		item(dbgen.InvoiceKindTuition, "", 100_000),
		item(dbgen.InvoiceKindActivity, "trip", 15_000),
		item(dbgen.InvoiceKindActivity, "summer", 40_000),
		item(dbgen.InvoiceKindEvent, "trip", 8_000),
	}
	got := Filter(items, TypeTrip)
	if len(got) != 2 {
		t.Fatalf("expected 2 trip items, got %d", len(got))
	}
	if got[0].Amount != 15_000 || got[1].Amount != 8_000 {
		t.Fatalf("trip filter broke ordering: %d, %d", got[0].Amount, got[1].Amount)
	}
}

func TestFilterCourseCoversActivities(t *testing.T) {
	items := []dbgen.CartItem{
		item(dbgen.InvoiceKindCourse, "", 20_000),
		item(dbgen.InvoiceKindActivity, "", 10_000),
		item(dbgen.InvoiceKindExam, "", 5_000),
	}
	got := Filter(items, TypeCourse)
	if len(got) != 2 {
		t.Fatalf("expected course filter to include activities, got %d items", len(got))
	}
}

func TestFilterCampByCategory(t *testing.T) {
	items := []dbgen.CartItem{
		item(dbgen.InvoiceKindActivity, "summer", 40_000),
		item(dbgen.InvoiceKindActivity, "", 10_000),
	}
	got := Filter(items, TypeCamp)
	if len(got) != 1 || got[0].Amount != 40_000 {
		t.Fatalf("camp filter should select by summer category, got %d items", len(got))
	}
}

func TestFilterAllIsIdentity(t *testing.T) {
	items := []dbgen.CartItem{
		item(dbgen.InvoiceKindTuition, "", 100_000),
		item(dbgen.InvoiceKindExam, "", 5_000),
	}
	got := Filter(items, TypeAll)
	if len(got) != len(items) {
		t.Fatalf("expected all items back, got %d", len(got))
	}
}

func TestGroupByKindStableOrder(t *testing.T) {
	items := []dbgen.CartItem{
		item(dbgen.InvoiceKindTuition, "", 100_000),
		item(dbgen.InvoiceKindCourse, "", 20_000),
		item(dbgen.InvoiceKindTuition, "", 90_000),
		item(dbgen.InvoiceKindExam, "", 5_000),
	}
	groups := GroupByKind(items)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[0].Kind != dbgen.InvoiceKindTuition || groups[1].Kind != dbgen.InvoiceKindCourse || groups[2].Kind != dbgen.InvoiceKindExam {
		t.Fatalf("group order should follow first occurrence: %v", []dbgen.InvoiceKind{groups[0].Kind, groups[1].Kind, groups[2].Kind})
	}
	if len(groups[0].Items) != 2 {
		t.Fatalf("expected 2 tuition items, got %d", len(groups[0].Items))
	}
	if groups[0].Items[0].Amount != 100_000 || groups[0].Items[1].Amount != 90_000 {
		t.Fatalf("items inside a group should keep insertion order")
	}
}
