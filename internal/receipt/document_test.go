package receipt

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestReferenceFormat(t *testing.T) {
	at := time.Date(2026, time.August, 31, 10, 30, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^RCP-20260831-[A-Z2-9]{6}$`)
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		ref, err := Reference(at)
		if err != nil {
			t.Fatalf("reference: %v", err)
		}
		if !pattern.MatchString(ref) {
			t.Fatalf("reference %q does not match expected shape", ref)
		}
		seen[ref] = true
	}
	if len(seen) < 2 {
		t.Fatal("reference suffix does not vary")
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		minor int64
		want  string
	}{
		{92_610, "926.10"},
		{100_000, "1000.00"},
		{5, "0.05"},
		{0, "0.00"},
		{-2_500, "-25.00"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.minor); got != tc.want {
			t.Fatalf("FormatAmount(%d) = %q, want %q", tc.minor, got, tc.want)
		}
	}
}

func sampleDocument() Document {
	return Document{
		SchoolName:      "Ruamrudee College",
		ReferenceNumber: "RCP-20260831-X7K2QD",
		PaidAt:          time.Date(2026, time.August, 31, 10, 30, 0, 0, time.UTC),
		GuardianName:    "Somchai Prasert",
		MethodLabel:     "Credit Card",
		Currency:        "THB",
		Lines: []Line{
			{StudentName: "Nok Prasert", Title: "Term 1 Tuition", Amount: 100_000},
			{StudentName: "Nok Prasert", Title: "Robotics Club", Amount: 20_000},
		},
		Subtotal:      120_000,
		CreditApplied: 30_000,
		Fee:           2_610,
		Total:         92_610,
	}
}

func TestDocumentRowOrder(t *testing.T) {
	rows := sampleDocument().Rows()
	labels := make([]string, len(rows))
	for i, row := range rows {
		labels[i] = row.Label
	}
	want := []string{
		"School",
		"Receipt No.",
		"Date",
		"Guardian",
		"Payment Method",
		"Nok Prasert / Term 1 Tuition",
		"Nok Prasert / Robotics Club",
		"Subtotal",
		"Credit Applied",
		"Processing Fee",
		"Total Paid",
	}
	if len(labels) != len(want) {
		t.Fatalf("expected %d rows, got %d: %v", len(want), len(labels), labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("row %d: expected %q, got %q", i, want[i], labels[i])
		}
	}
}

func TestDocumentOmitsZeroCreditAndFee(t *testing.T) {
	doc := sampleDocument()
	doc.CreditApplied = 0
	doc.Fee = 0
	for _, row := range doc.Rows() {
		if row.Label == "Credit Applied" || row.Label == "Processing Fee" {
			t.Fatalf("row %q printed for zero amount", row.Label)
		}
	}
}

func TestDocumentRenderDeterministic(t *testing.T) {
	doc := sampleDocument()
	first := doc.Render()
	second := doc.Render()
	if first != second {
		t.Fatal("render output is not stable")
	}
	if !strings.Contains(first, "Total Paid") || !strings.Contains(first, "926.10 THB") {
		t.Fatalf("rendered document missing totals:\n%s", first)
	}
}
