// Package variance flags budget lines whose administered figures drift
// from the proposal, grading each line RED, YELLOW or GREEN.
//
// Classification is a pure function of the proposed and actual amounts
// plus a threshold set, so the full line-item universe can be regraded
// under a different tolerance without touching source data.
package variance

import (
	"sort"

	"arena-transparency-service/internal/models"

	"github.com/shopspring/decimal"
)

// Thresholds holds the severity cutoffs. The defaults are the published
// reporting constants (50% / $10K for RED, 5% / $2K for YELLOW); only the
// YELLOW percent band is normally tuned by callers.
type Thresholds struct {
	RedPct        decimal.Decimal
	RedDollars    decimal.Decimal
	YellowPct     decimal.Decimal
	YellowDollars decimal.Decimal
}

// DefaultThresholds returns the published severity cutoffs
func DefaultThresholds() Thresholds {
	return Thresholds{
		RedPct:        decimal.NewFromFloat(0.50),
		RedDollars:    decimal.NewFromInt(10000),
		YellowPct:     decimal.NewFromFloat(0.05),
		YellowDollars: decimal.NewFromInt(2000),
	}
}

// WithYellowPct returns a copy of the thresholds with the caller-supplied
// YELLOW percent band.
func (t Thresholds) WithYellowPct(pct decimal.Decimal) Thresholds {
	t.YellowPct = pct
	return t
}

// Classification is the result of grading one line
type Classification struct {
	VarianceDollars decimal.NullDecimal
	VariancePercent decimal.NullDecimal
	Severity        models.AlertSeverity
}

// Classify grades a single proposed/actual pair. Returns false when both
// amounts are absent: such lines are excluded entirely, not graded GREEN.
// The percent leg short-circuits to null when the proposal is zero.
func Classify(proposed, actual decimal.NullDecimal, t Thresholds) (Classification, bool) {
	if !proposed.Valid && !actual.Valid {
		return Classification{}, false
	}

	var dollars, percent decimal.NullDecimal
	if proposed.Valid && actual.Valid {
		dollars = models.NullDecimal(actual.Decimal.Sub(proposed.Decimal))
		if !proposed.Decimal.IsZero() {
			percent = models.NullDecimal(dollars.Decimal.Div(proposed.Decimal.Abs()))
		}
	}

	return Classification{
		VarianceDollars: dollars,
		VariancePercent: percent,
		Severity:        severity(percent, dollars, t),
	}, true
}

// severity applies the banding with nulls treated as zero deviation
func severity(percent, dollars decimal.NullDecimal, t Thresholds) models.AlertSeverity {
	absPct := models.DecimalOrZero(percent).Abs()
	absDollars := models.DecimalOrZero(dollars).Abs()

	switch {
	case absPct.GreaterThanOrEqual(t.RedPct) || absDollars.GreaterThanOrEqual(t.RedDollars):
		return models.SeverityRed
	case absPct.GreaterThanOrEqual(t.YellowPct) || absDollars.GreaterThanOrEqual(t.YellowDollars):
		return models.SeverityYellow
	default:
		return models.SeverityGreen
	}
}

// BuildAlerts grades every non-aggregate line of the revenue and expense
// budget sheets. The sheet's own variance columns are preferred; the
// percent is computed only when the sheet leaves it blank. Output is
// sorted RED first, then by ascending variance dollars within severity.
func BuildAlerts(revenue, expense []models.LineItem, t Thresholds) []models.VarianceAlert {
	var alerts []models.VarianceAlert

	add := func(category models.AlertCategory, items []models.LineItem) {
		for i := range items {
			li := &items[i]
			if li.Name == "" || li.IsTotal() {
				continue
			}
			if !li.ProposedYTD.Valid && !li.ActualYTD.Valid {
				continue
			}

			percent := li.VariancePercent
			if !percent.Valid && li.ProposedYTD.Valid && !li.ProposedYTD.Decimal.IsZero() && li.ActualYTD.Valid {
				percent = models.NullDecimal(
					li.ActualYTD.Decimal.Sub(li.ProposedYTD.Decimal).Div(li.ProposedYTD.Decimal.Abs()))
			}

			alerts = append(alerts, models.VarianceAlert{
				Category:        category,
				LineItem:        li.Name,
				ProposedYTD:     li.ProposedYTD,
				ActualYTD:       li.ActualYTD,
				VarianceDollars: li.VarianceDollars,
				VariancePercent: percent,
				Severity:        severity(percent, li.VarianceDollars, t),
				Assessment:      li.Assessment,
			})
		}
	}

	add(models.AlertRevenue, revenue)
	add(models.AlertExpense, expense)

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Severity.Rank() != alerts[j].Severity.Rank() {
			return alerts[i].Severity.Rank() < alerts[j].Severity.Rank()
		}
		return lessNullDecimal(alerts[i].VarianceDollars, alerts[j].VarianceDollars)
	})

	return alerts
}

// lessNullDecimal orders ascending with nulls last
func lessNullDecimal(a, b decimal.NullDecimal) bool {
	switch {
	case a.Valid && b.Valid:
		return a.Decimal.LessThan(b.Decimal)
	case a.Valid:
		return true
	default:
		return false
	}
}
