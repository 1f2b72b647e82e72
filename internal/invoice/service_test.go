package invoice

import (
	"testing"
	"time"

	dbgen "github.com/schooney/backend-portal/internal/db/gen"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverdue(t *testing.T) {
	due := date(2026, time.March, 10)
	cases := []struct {
		name   string
		status dbgen.InvoiceStatus
		at     time.Time
		want   bool
	}{
		{"before due date", dbgen.InvoiceStatusPending, date(2026, time.March, 9), false},
		{"on due date", dbgen.InvoiceStatusPending, date(2026, time.March, 10), false},
		{"after due date", dbgen.InvoiceStatusPending, date(2026, time.March, 11), true},
		{"partial after due date", dbgen.InvoiceStatusPartial, date(2026, time.April, 1), true},
		{"paid never overdue", dbgen.InvoiceStatusPaid, date(2026, time.April, 1), false},
		{"canceled never overdue", dbgen.InvoiceStatusCanceled, date(2026, time.April, 1), false},
	}
	for _, tc := range cases {
		if got := Overdue(due, tc.status, tc.at); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestOverdueIgnoresTimeOfDay(t *testing.T) {
	due := date(2026, time.March, 10)
	late := time.Date(2026, time.March, 10, 23, 59, 0, 0, time.UTC)
	if Overdue(due, dbgen.InvoiceStatusPending, late) {
		t.Fatal("invoice flagged overdue on its own due date")
	}
	early := time.Date(2026, time.March, 11, 0, 1, 0, 0, time.UTC)
	if !Overdue(due, dbgen.InvoiceStatusPending, early) {
		t.Fatal("invoice not flagged overdue the day after the due date")
	}
}
