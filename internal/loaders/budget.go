package loaders

import (
	"arena-transparency-service/internal/grid"
	"arena-transparency-service/internal/models"
	"arena-transparency-service/internal/normalize"
)

// revenueRegion: header block occupies rows 0-4, data starts at row 5.
// Section banners are all-caps category names; "Total ..." aggregate rows
// are kept deliberately (the KPI math sums them).
var revenueRegion = grid.Region{
	Sheet:    "Revenue Reconciliation",
	StartRow: 5,
	Headers:  budgetHeaders,
	SkipPatterns: []string{
		"TOTAL", "CONTRACT ICE", "PUBLIC PROGRAM", "OTHER BUILDING", "LEASE INCOME",
	},
	KeepPrefixes: []string{"Total"},
}

// expenseRegion: same layout, but the noise rows are the repeated section
// sub-headers and header echoes.
var expenseRegion = grid.Region{
	Sheet:    "Expense Reconciliation",
	StartRow: 5,
	Headers:  budgetHeaders,
	SkipPatterns: []string{
		"^PAYROLL EXPENSES", "^OPERATIONS EXPENSES", "^OFFICE, INSURANCE",
		"^PROGRAM SERVICE", "^Line Item",
	},
	KeepPrefixes: []string{"Total"},
}

// modificationsRegion: annualized proposal-vs-implied divergences
var modificationsRegion = grid.Region{
	Sheet:    "Unauthorized Modifications",
	StartRow: 3,
	Headers: []string{
		"Line Item", "Proposal Annual", "CSCG Annual (Implied)",
		"Annual Variance $", "Direction", "Severity", "Board Governance Impact",
	},
	SkipPatterns: []string{"REVENUE MOD", "EXPENSE MOD", "^Line Item"},
}

// hiddenCashFlowsRegion: off-budget outflows; the TOTAL row would double
// count and is dropped.
var hiddenCashFlowsRegion = grid.Region{
	Sheet:    "Hidden Cash Flows",
	StartRow: 4,
	Headers:  []string{"Item", "Monthly Amount", "Annual Impact", "Governance Concern"},
	SkipPatterns: []string{
		"TOTAL",
	},
}

// LoadRevenueReconciliation loads the revenue side of the budget
// reconciliation workbook.
func (l *Loader) LoadRevenueReconciliation() []models.LineItem {
	return l.lineItems(l.extract(FileBudgetReconciliation, revenueRegion))
}

// LoadExpenseReconciliation loads the expense side of the budget
// reconciliation workbook.
func (l *Loader) LoadExpenseReconciliation() []models.LineItem {
	return l.lineItems(l.extract(FileBudgetReconciliation, expenseRegion))
}

// lineItems converts an extracted budget table into typed line items
func (l *Loader) lineItems(table *grid.Table) []models.LineItem {
	items := make([]models.LineItem, 0, table.Len())
	for row := 0; row < table.Len(); row++ {
		items = append(items, models.LineItem{
			Name:            table.Get(row, "Line Item"),
			ProposedMonthly: normalize.ParseNumber(table.Get(row, "Proposal Monthly Budget")),
			ActualMonthly:   normalize.ParseNumber(table.Get(row, "CSCG Monthly Budget")),
			ProposedYTD:     normalize.ParseNumber(table.Get(row, "Proposal YTD Budget")),
			ActualYTD:       normalize.ParseNumber(table.Get(row, "CSCG YTD Budget")),
			VarianceDollars: normalize.ParseNumber(table.Get(row, "YTD Variance $")),
			VariancePercent: normalize.ParseNumber(table.Get(row, "YTD Variance %")),
			Assessment:      table.Get(row, "Assessment"),
		})
	}
	return items
}

// LoadUnauthorizedModifications loads the annualized modification sheet
func (l *Loader) LoadUnauthorizedModifications() []models.BudgetModification {
	table := l.extract(FileBudgetReconciliation, modificationsRegion)

	mods := make([]models.BudgetModification, 0, table.Len())
	for row := 0; row < table.Len(); row++ {
		mods = append(mods, models.BudgetModification{
			LineItem:         table.Get(row, "Line Item"),
			ProposalAnnual:   normalize.ParseNumber(table.Get(row, "Proposal Annual")),
			ImpliedAnnual:    normalize.ParseNumber(table.Get(row, "CSCG Annual (Implied)")),
			AnnualVariance:   normalize.ParseNumber(table.Get(row, "Annual Variance $")),
			Direction:        table.Get(row, "Direction"),
			Severity:         table.Get(row, "Severity"),
			GovernanceImpact: table.Get(row, "Board Governance Impact"),
		})
	}
	return mods
}

// LoadHiddenCashFlows loads the off-budget outflow sheet
func (l *Loader) LoadHiddenCashFlows() []models.HiddenCashFlow {
	table := l.extract(FileBudgetReconciliation, hiddenCashFlowsRegion)

	flows := make([]models.HiddenCashFlow, 0, table.Len())
	for row := 0; row < table.Len(); row++ {
		flows = append(flows, models.HiddenCashFlow{
			Item:              table.Get(row, "Item"),
			MonthlyAmount:     normalize.ParseNumber(table.Get(row, "Monthly Amount")),
			AnnualImpact:      normalize.ParseNumber(table.Get(row, "Annual Impact")),
			GovernanceConcern: table.Get(row, "Governance Concern"),
		})
	}
	return flows
}
