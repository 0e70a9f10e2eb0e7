// Package normalize coerces dirty spreadsheet cells into typed values.
//
// Every function here is total: malformed input yields a null result, never
// an error or a panic. The source workbooks are maintained by hand and
// contain placeholders ("TBD"), annotated amounts ("$3,667 ($500 for Dasher
// Board)") and stray text where numbers belong; recovery is always local.
package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// leadingAmount matches the leading dollar-like numeric token of a cell,
// leaving trailing annotations behind.
var leadingAmount = regexp.MustCompile(`^-?[\d,]+\.?\d*`)

// sentinels are cell values that denote "no amount" rather than zero.
// "$200/month" appears in the advertising sheet as a rate, not a total.
var sentinels = map[string]bool{
	"":           true,
	"TBD":        true,
	"N/A":        true,
	"$200/MONTH": true,
}

// ParseCurrency parses a dollar value that may carry a currency symbol,
// thousands separators and a trailing parenthetical annotation. Blank
// cells, sentinels and non-numeric residue all normalize to null.
func ParseCurrency(raw string) decimal.NullDecimal {
	s := strings.TrimSpace(raw)
	if sentinels[strings.ToUpper(s)] {
		return decimal.NullDecimal{}
	}

	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)

	if m := leadingAmount.FindString(s); m != "" {
		if d, err := decimal.NewFromString(strings.ReplaceAll(m, ",", "")); err == nil {
			return decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}

	// Plain numeric after stripping separators and symbols
	cleaned := strings.ReplaceAll(s, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.TrimSpace(cleaned)
	if d, err := decimal.NewFromString(cleaned); err == nil {
		return decimal.NullDecimal{Decimal: d, Valid: true}
	}

	return decimal.NullDecimal{}
}

// ParseNumber coerces a plain numeric cell, tolerating thousands
// separators and accountant-style parenthesized negatives. Unparseable
// input yields null.
func ParseNumber(raw string) decimal.NullDecimal {
	s := strings.TrimSpace(raw)
	if sentinels[strings.ToUpper(s)] {
		return decimal.NullDecimal{}
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	if negative {
		d = d.Neg()
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// NumberOrZero is ParseNumber with null collapsed to zero, for debit and
// credit columns where a blank cell means no posting.
func NumberOrZero(raw string) decimal.Decimal {
	if d := ParseNumber(raw); d.Valid {
		return d.Decimal
	}
	return decimal.Zero
}

// dateFormats covers the layouts excelize and hand-typed cells produce
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01-02-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan-06",
	"2006/01/02",
}

// ParseDate parses a date cell using the common spreadsheet layouts.
// Returns false for anything unparseable.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
