package loaders

import (
	"arena-transparency-service/internal/grid"
	"arena-transparency-service/internal/models"
	"arena-transparency-service/internal/normalize"
	"arena-transparency-service/internal/scorecard"

	"github.com/shopspring/decimal"
)

// expenseFlowRegion: the analysis sheet interleaves data with section
// banners, a summary block and several paragraphs of prose; all are
// declared noise here so tests can enumerate them.
var expenseFlowRegion = grid.Region{
	Sheet:    "Expense Flow Analysis",
	StartRow: 4,
	Headers:  expenseFlowHeaders,
	SkipPatterns: []string{
		"^Expense Category", "^Approval Method", "^BOARD-APPROVED", "^CSCG-MANAGED",
		"^FIXED OBLIGATIONS", "^SUMMARY", "^TOTAL", "^KEY",
		`^1\.`, `^2\.`, `^3\.`, `^4\.`, `^5\.`,
		"^DISCLOSURE", "^The current", "^CSCG has", "^This supports", "^The Form",
	},
}

// fixedObligationsRegion: the fixed-obligations block of the same sheet,
// addressed by its row window.
var fixedObligationsRegion = grid.Region{
	Sheet:    "Expense Flow Analysis",
	StartRow: 25,
	EndRow:   32,
	Headers:  expenseFlowHeaders,
}

// approvalSummaryRegion: the approval-method breakdown block (rows 35-39)
var approvalSummaryRegion = grid.Region{
	Sheet:        "Expense Flow Analysis",
	StartRow:     35,
	EndRow:       40,
	Headers:      []string{"Approval Method", "YTD Amount", "% of Total"},
	SkipPatterns: []string{"^Approval Method$"},
}

// cscgRelationshipRegion: contract components paid to the facility
// manager; header echoes, totals and projection rows are noise.
var cscgRelationshipRegion = grid.Region{
	Sheet:    "CSCG Relationship",
	StartRow: 3,
	Headers:  []string{"Component", "Amount", "Approval Required?", "Contract Reference"},
	SkipPatterns: []string{
		"Component", "TOTAL", "ANNUALIZED", "6-Month", "Projected", "Undisclosed", `vs\. Current`,
	},
}

// LoadExpenseFlow loads the full expense-flow analysis table
func (l *Loader) LoadExpenseFlow() []models.ExpenseFlowRecord {
	return l.flowRecords(l.extract(FileExpenseFlow, expenseFlowRegion))
}

// LoadFixedObligations loads only the fixed-obligations block
func (l *Loader) LoadFixedObligations() []models.ExpenseFlowRecord {
	return l.flowRecords(l.extract(FileExpenseFlow, fixedObligationsRegion))
}

func (l *Loader) flowRecords(table *grid.Table) []models.ExpenseFlowRecord {
	records := make([]models.ExpenseFlowRecord, 0, table.Len())
	for row := 0; row < table.Len(); row++ {
		approval := table.Get(row, "Approval Method")
		records = append(records, models.ExpenseFlowRecord{
			Category:        table.Get(row, "Expense Category"),
			FinancialActual: normalize.ParseNumber(table.Get(row, "YTD per Financials")),
			InvoiceTotal:    normalize.ParseNumber(table.Get(row, "YTD from Invoices")),
			Variance:        normalize.ParseNumber(table.Get(row, "Variance")),
			ApprovalMethod:  models.ParseApprovalMethod(approval),
			ApprovalText:    approval,
			Notes:           table.Get(row, "Notes"),
		})
	}
	return records
}

// ApprovalShare is one row of the approval-method summary block
type ApprovalShare struct {
	ApprovalMethod string              `json:"approvalMethod"`
	YTDAmount      decimal.NullDecimal `json:"ytdAmount"`
	ShareOfTotal   decimal.NullDecimal `json:"shareOfTotal"`
}

// LoadApprovalSummary loads the approval-method breakdown of total spend
func (l *Loader) LoadApprovalSummary() []ApprovalShare {
	table := l.extract(FileExpenseFlow, approvalSummaryRegion)

	shares := make([]ApprovalShare, 0, table.Len())
	for row := 0; row < table.Len(); row++ {
		shares = append(shares, ApprovalShare{
			ApprovalMethod: table.Get(row, "Approval Method"),
			YTDAmount:      normalize.ParseNumber(table.Get(row, "YTD Amount")),
			ShareOfTotal:   normalize.ParseNumber(table.Get(row, "% of Total")),
		})
	}
	return shares
}

// LoadCSCGComponents loads the CSCG relationship components used to
// resolve observed actuals on the compliance scorecard.
func (l *Loader) LoadCSCGComponents() []scorecard.Component {
	table := l.extract(FileExpenseFlow, cscgRelationshipRegion)

	components := make([]scorecard.Component, 0, table.Len())
	for row := 0; row < table.Len(); row++ {
		components = append(components, scorecard.Component{
			Name:   table.Get(row, "Component"),
			Amount: normalize.ParseNumber(table.Get(row, "Amount")),
		})
	}
	return components
}
