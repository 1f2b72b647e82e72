package receipt

import (
	"fmt"
	"strings"
	"time"
)

// Line is one paid invoice as printed on the receipt.
type Line struct {
	StudentName string
	Title       string
	Amount      int64
}

// Document is the printable receipt. Field order is fixed so every rendering
// of the same receipt is identical.
type Document struct {
	SchoolName      string
	ReferenceNumber string
	PaidAt          time.Time
	GuardianName    string
	MethodLabel     string
	Currency        string
	Lines           []Line
	Subtotal        int64
	CreditApplied   int64
	Fee             int64
	Total           int64
}

// FormatAmount renders a minor-unit amount as a decimal string, e.g. 92610
// becomes "926.10".
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

// Row is a printed label/value pair.
type Row struct {
	Label string
	Value string
}

// Rows flattens the document into its printed rows, in order: header fields,
// one row per line item, then the money summary. Credit is only printed when
// it was applied.
func (d Document) Rows() []Row {
	rows := []Row{
		{"School", d.SchoolName},
		{"Receipt No.", d.ReferenceNumber},
		{"Date", d.PaidAt.Format("2 Jan 2006 15:04")},
		{"Guardian", d.GuardianName},
		{"Payment Method", d.MethodLabel},
	}
	for _, line := range d.Lines {
		label := line.Title
		if line.StudentName != "" {
			label = line.StudentName + " / " + line.Title
		}
		rows = append(rows, Row{label, FormatAmount(line.Amount) + " " + d.Currency})
	}
	rows = append(rows, Row{"Subtotal", FormatAmount(d.Subtotal) + " " + d.Currency})
	if d.CreditApplied > 0 {
		rows = append(rows, Row{"Credit Applied", "-" + FormatAmount(d.CreditApplied) + " " + d.Currency})
	}
	if d.Fee > 0 {
		rows = append(rows, Row{"Processing Fee", FormatAmount(d.Fee) + " " + d.Currency})
	}
	rows = append(rows, Row{"Total Paid", FormatAmount(d.Total) + " " + d.Currency})
	return rows
}

// Render produces the plain-text receipt with aligned columns.
func (d Document) Render() string {
	rows := d.Rows()
	width := 0
	for _, row := range rows {
		if len(row.Label) > width {
			width = len(row.Label)
		}
	}
	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "%-*s  %s\n", width, row.Label, row.Value)
	}
	return b.String()
}
