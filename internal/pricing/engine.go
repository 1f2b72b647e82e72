package pricing

// Money represents a monetary value stored in minor units (satang).
type Money = int64

// FeeKind selects how a payment method fee is derived.
type FeeKind string

const (
	// FeePercentage charges a rate expressed in basis points of the taxable amount.
	FeePercentage FeeKind = "percentage"
	// FeeFlat charges a fixed amount in minor units.
	FeeFlat FeeKind = "flat"
)

// Method describes the fee profile of a payment method.
type Method struct {
	Code    string
	Kind    FeeKind
	FeeRate Money // basis points for percentage, minor units for flat
}

// Item describes a payable line used for totals calculation.
type Item struct {
	Amount Money
}

// Summary aggregates computed pricing components for a checkout.
type Summary struct {
	Subtotal      Money
	CreditApplied Money
	Taxable       Money
	Fee           Money
	Total         Money
}

// Subtotal sums line amounts. Negative entries are skipped; items are
// validated non-negative at insertion so a negative amount here means a
// caller bug rather than a legitimate refund line.
func Subtotal(items []Item) Money {
	var total Money
	for _, it := range items {
		if it.Amount < 0 {
			continue
		}
		total += it.Amount
	}
	return total
}

// ApplyCredit returns the portion of the credit balance usable against the
// subtotal: min(balance, subtotal), never negative.
func ApplyCredit(subtotal, balance Money) Money {
	if balance <= 0 || subtotal <= 0 {
		return 0
	}
	if balance > subtotal {
		return subtotal
	}
	return balance
}

// Fee computes the payment method surcharge on the taxable amount.
// Percentage fees use integer basis-point arithmetic to stay exact in
// minor units; flat fees apply regardless of the taxable amount.
func Fee(taxable Money, m Method) Money {
	if taxable < 0 {
		taxable = 0
	}
	switch m.Kind {
	case FeePercentage:
		return (taxable * m.FeeRate) / 10000
	case FeeFlat:
		return m.FeeRate
	default:
		return 0
	}
}

// Compute calculates checkout totals. When useCredit is false the credit
// balance is ignored entirely. Total = max(0, subtotal-credit) + fee.
func Compute(items []Item, creditBalance Money, useCredit bool, m Method) Summary {
	subtotal := Subtotal(items)
	var applied Money
	if useCredit {
		applied = ApplyCredit(subtotal, creditBalance)
	}
	taxable := subtotal - applied
	if taxable < 0 {
		taxable = 0
	}
	fee := Fee(taxable, m)
	return Summary{
		Subtotal:      subtotal,
		CreditApplied: applied,
		Taxable:       taxable,
		Fee:           fee,
		Total:         taxable + fee,
	}
}
