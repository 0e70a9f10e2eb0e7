// Package models defines the record types flowing through the
// transformation layer: budget line items and expense-flow records on the
// input side, and the derived reconciliation, variance-alert and
// compliance tables exposed to the presentation layer.
//
// All monetary fields use shopspring decimals; optional amounts are
// decimal.NullDecimal because manually maintained spreadsheets routinely
// leave cells blank or filled with placeholders like "TBD". Derived types
// are rebuilt on every query and carry no identity beyond their label.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Period identifies which reporting window a budget figure covers
type Period string

const (
	PeriodMonthly Period = "MONTHLY"
	PeriodYTD     Period = "YTD"
	PeriodAnnual  Period = "ANNUAL"
)

// String returns the string representation of Period
func (p Period) String() string {
	return string(p)
}

// IsValid checks if the period is a known value
func (p Period) IsValid() bool {
	return p == PeriodMonthly || p == PeriodYTD || p == PeriodAnnual
}

// LineItem is one row of a budget reconciliation sheet: the proposal
// figures, the figures as administered by the facility manager, and the
// sheet's own variance columns. Immutable after load.
type LineItem struct {
	Name            string              `json:"name"`
	ProposedMonthly decimal.NullDecimal `json:"proposedMonthly"`
	ActualMonthly   decimal.NullDecimal `json:"actualMonthly"`
	ProposedYTD     decimal.NullDecimal `json:"proposedYTD"`
	ActualYTD       decimal.NullDecimal `json:"actualYTD"`
	VarianceDollars decimal.NullDecimal `json:"varianceDollars"`
	VariancePercent decimal.NullDecimal `json:"variancePercent"`
	Assessment      string              `json:"assessment,omitempty"`
}

// IsTotal reports whether the row is one of the sheet's aggregate rows
// ("Total Contract Ice", "Total Income", ...). Aggregates are preserved by
// extraction but excluded from joins to avoid double counting.
func (li *LineItem) IsTotal() bool {
	return strings.HasPrefix(strings.TrimSpace(li.Name), "Total")
}

// BudgetYTD returns the year-to-date budget figure for the row, preferring
// the manager-administered column and falling back to the proposal column
// when it is blank. The fallback is per-row.
func (li *LineItem) BudgetYTD() decimal.NullDecimal {
	if li.ActualYTD.Valid {
		return li.ActualYTD
	}
	return li.ProposedYTD
}

// String returns a compact representation of the LineItem
func (li *LineItem) String() string {
	return fmt.Sprintf("LineItem{Name: %s, ProposedYTD: %s, ActualYTD: %s}",
		li.Name, formatNullDecimal(li.ProposedYTD), formatNullDecimal(li.ActualYTD))
}

// ApprovalMethod classifies how an expense category is authorized
type ApprovalMethod string

const (
	ApprovalBoardApproved   ApprovalMethod = "BOARD_APPROVED"
	ApprovalCSCGAutoPay     ApprovalMethod = "CSCG_AUTO_PAY"
	ApprovalFixedObligation ApprovalMethod = "FIXED_OBLIGATION"
	ApprovalOther           ApprovalMethod = "OTHER"
)

// String returns the string representation of ApprovalMethod
func (a ApprovalMethod) String() string {
	return string(a)
}

// IsValid checks if the approval method is a known value
func (a ApprovalMethod) IsValid() bool {
	switch a {
	case ApprovalBoardApproved, ApprovalCSCGAutoPay, ApprovalFixedObligation, ApprovalOther:
		return true
	default:
		return false
	}
}

// ParseApprovalMethod classifies the free-text approval column of the
// expense-flow sheet. The text is hand-typed, so matching is by keyword.
func ParseApprovalMethod(s string) ApprovalMethod {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(normalized, "board"):
		return ApprovalBoardApproved
	case strings.Contains(normalized, "auto"):
		return ApprovalCSCGAutoPay
	case strings.Contains(normalized, "fixed") || strings.Contains(normalized, "obligation"):
		return ApprovalFixedObligation
	default:
		return ApprovalOther
	}
}

// ExpenseFlowRecord is one expense category from the expense-flow analysis
// workbook: the year-to-date amount per the financial statements, the
// year-to-date amount supported by invoices, and how the spend was
// approved.
type ExpenseFlowRecord struct {
	Category        string              `json:"category"`
	FinancialActual decimal.NullDecimal `json:"financialActual"`
	InvoiceTotal    decimal.NullDecimal `json:"invoiceTotal"`
	Variance        decimal.NullDecimal `json:"variance"`
	ApprovalMethod  ApprovalMethod      `json:"approvalMethod"`
	ApprovalText    string              `json:"approvalText,omitempty"`
	Notes           string              `json:"notes,omitempty"`
}

// IsEmpty reports whether the record carries no amounts at all. Empty
// summary rows are dropped rather than emitted as ActualOnly.
func (ef *ExpenseFlowRecord) IsEmpty() bool {
	actual := decimalOrZero(ef.FinancialActual)
	invoice := decimalOrZero(ef.InvoiceTotal)
	return actual.IsZero() && invoice.IsZero()
}

// ReconciliationStatus classifies one reconciliation row
type ReconciliationStatus string

const (
	StatusMatched        ReconciliationStatus = "MATCHED"
	StatusMinorVariance  ReconciliationStatus = "MINOR_VARIANCE"
	StatusMajorVariance  ReconciliationStatus = "MAJOR_VARIANCE"
	StatusNoInvoiceTrail ReconciliationStatus = "NO_INVOICE_TRAIL"
	StatusBudgetOnly     ReconciliationStatus = "BUDGET_ONLY"
	StatusActualOnly     ReconciliationStatus = "ACTUAL_ONLY"
)

// String returns the string representation of ReconciliationStatus
func (s ReconciliationStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a known value
func (s ReconciliationStatus) IsValid() bool {
	switch s {
	case StatusMatched, StatusMinorVariance, StatusMajorVariance,
		StatusNoInvoiceTrail, StatusBudgetOnly, StatusActualOnly:
		return true
	default:
		return false
	}
}

// Display returns the human-readable form used in reports
func (s ReconciliationStatus) Display() string {
	switch s {
	case StatusMatched:
		return "Matched"
	case StatusMinorVariance:
		return "Minor Variance"
	case StatusMajorVariance:
		return "Major Variance"
	case StatusNoInvoiceTrail:
		return "No Invoice Trail"
	case StatusBudgetOnly:
		return "Budget-Only"
	case StatusActualOnly:
		return "Actual-Only"
	default:
		return string(s)
	}
}

// ReconciliationRow is one line of the reconciliation master table: a
// budget group joined against its expense-flow category, with both
// variance legs and a status classification. Derived, never persisted.
type ReconciliationRow struct {
	LineItemLabel         string               `json:"lineItemLabel"`
	BudgetAmount          decimal.Decimal      `json:"budgetAmount"`
	ActualAmount          decimal.Decimal      `json:"actualAmount"`
	InvoiceAmount         decimal.Decimal      `json:"invoiceAmount"`
	BudgetActualVariance  decimal.NullDecimal  `json:"budgetActualVariance"`
	ActualInvoiceVariance decimal.NullDecimal  `json:"actualInvoiceVariance"`
	ApprovalMethod        string               `json:"approvalMethod,omitempty"`
	Status                ReconciliationStatus `json:"status"`
}

// AbsBudgetActualVariance returns |BudgetActualVariance| with null treated
// as zero; used for the descending sort of the master table.
func (r *ReconciliationRow) AbsBudgetActualVariance() decimal.Decimal {
	return decimalOrZero(r.BudgetActualVariance).Abs()
}

// AlertCategory says which budget sheet an alert came from
type AlertCategory string

const (
	AlertRevenue AlertCategory = "REVENUE"
	AlertExpense AlertCategory = "EXPENSE"
)

// String returns the string representation of AlertCategory
func (c AlertCategory) String() string {
	return string(c)
}

// AlertSeverity grades a variance alert
type AlertSeverity string

const (
	SeverityRed    AlertSeverity = "RED"
	SeverityYellow AlertSeverity = "YELLOW"
	SeverityGreen  AlertSeverity = "GREEN"
)

// String returns the string representation of AlertSeverity
func (s AlertSeverity) String() string {
	return string(s)
}

// IsValid checks if the severity is a known value
func (s AlertSeverity) IsValid() bool {
	return s == SeverityRed || s == SeverityYellow || s == SeverityGreen
}

// Rank orders severities for sorting: RED before YELLOW before GREEN
func (s AlertSeverity) Rank() int {
	switch s {
	case SeverityRed:
		return 0
	case SeverityYellow:
		return 1
	default:
		return 2
	}
}

// VarianceAlert flags a budget line whose administered figures deviate
// from the proposal. Derived, never persisted.
type VarianceAlert struct {
	Category        AlertCategory       `json:"category"`
	LineItem        string              `json:"lineItem"`
	ProposedYTD     decimal.NullDecimal `json:"proposedYTD"`
	ActualYTD       decimal.NullDecimal `json:"actualYTD"`
	VarianceDollars decimal.NullDecimal `json:"varianceDollars"`
	VariancePercent decimal.NullDecimal `json:"variancePercent"`
	Severity        AlertSeverity       `json:"severity"`
	Assessment      string              `json:"assessment,omitempty"`
}

// ComplianceStatus grades a contract term against its observed payments
type ComplianceStatus string

const (
	ComplianceCompliant     ComplianceStatus = "COMPLIANT"
	ComplianceMinorVariance ComplianceStatus = "MINOR_VARIANCE"
	ComplianceNonCompliant  ComplianceStatus = "NON_COMPLIANT"
	ComplianceAutoPay       ComplianceStatus = "AUTO_PAY"
)

// String returns the string representation of ComplianceStatus
func (s ComplianceStatus) String() string {
	return string(s)
}

// IsValid checks if the compliance status is a known value
func (s ComplianceStatus) IsValid() bool {
	switch s {
	case ComplianceCompliant, ComplianceMinorVariance, ComplianceNonCompliant, ComplianceAutoPay:
		return true
	default:
		return false
	}
}

// ComplianceEntry is one contract term of the management-agreement
// scorecard with its expected and observed per-period payments.
type ComplianceEntry struct {
	ContractTerm   string              `json:"contractTerm"`
	ContractAmount decimal.NullDecimal `json:"contractAmount"`
	PeriodExpected decimal.NullDecimal `json:"periodExpected"`
	PeriodActual   decimal.Decimal     `json:"periodActual"`
	Status         ComplianceStatus    `json:"status"`
	Source         string              `json:"source,omitempty"`
}

// JournalLine is one forward-filled line of an adjusting journal entry.
// The entry number, date and memo appear only on the first physical row of
// each entry in the source workbook.
type JournalLine struct {
	EntryNum string          `json:"entryNum"`
	Date     time.Time       `json:"date"`
	Memo     string          `json:"memo"`
	Account  string          `json:"account"`
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
}

// LedgerEntry is one row of the general ledger sheet
type LedgerEntry struct {
	Date        time.Time           `json:"date"`
	AccountNum  decimal.NullDecimal `json:"accountNum"`
	AccountName string              `json:"accountName"`
	EntryType   string              `json:"entryType"`
	Bank        string              `json:"bank,omitempty"`
	Description string              `json:"description,omitempty"`
	Debit       decimal.Decimal     `json:"debit"`
	Credit      decimal.Decimal     `json:"credit"`
	Payee       string              `json:"payee,omitempty"`
}

// AccountSummary aggregates general-ledger activity for one account
type AccountSummary struct {
	AccountNum  decimal.NullDecimal `json:"accountNum"`
	AccountName string              `json:"accountName"`
	EntryType   string              `json:"entryType"`
	TotalDebit  decimal.Decimal     `json:"totalDebit"`
	TotalCredit decimal.Decimal     `json:"totalCredit"`
	Net         decimal.Decimal     `json:"net"`
	Count       int                 `json:"count"`
}

// HiddenCashFlow is one off-budget outflow (bond principal and interest,
// loan service) that never appears on the operating budget sheets.
type HiddenCashFlow struct {
	Item              string              `json:"item"`
	MonthlyAmount     decimal.NullDecimal `json:"monthlyAmount"`
	AnnualImpact      decimal.NullDecimal `json:"annualImpact"`
	GovernanceConcern string              `json:"governanceConcern,omitempty"`
}

// BudgetModification is one line of the unauthorized-modifications sheet:
// an annualized divergence between the approved proposal and the budget as
// administered.
type BudgetModification struct {
	LineItem         string              `json:"lineItem"`
	ProposalAnnual   decimal.NullDecimal `json:"proposalAnnual"`
	ImpliedAnnual    decimal.NullDecimal `json:"impliedAnnual"`
	AnnualVariance   decimal.NullDecimal `json:"annualVariance"`
	Direction        string              `json:"direction,omitempty"`
	Severity         string              `json:"severity,omitempty"`
	GovernanceImpact string              `json:"governanceImpact,omitempty"`
}

// Bill is one row of the invoice register
type Bill struct {
	Vendor      string              `json:"vendor"`
	Date        time.Time           `json:"date"`
	Category    string              `json:"category,omitempty"`
	Description string              `json:"description,omitempty"`
	Amount      decimal.NullDecimal `json:"amount"`
}

// NullDecimal constructs a valid NullDecimal from a Decimal
func NullDecimal(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// NullDecimalFromFloat constructs a valid NullDecimal from a float64
func NullDecimalFromFloat(f float64) decimal.NullDecimal {
	return NullDecimal(decimal.NewFromFloat(f))
}

func decimalOrZero(d decimal.NullDecimal) decimal.Decimal {
	if d.Valid {
		return d.Decimal
	}
	return decimal.Zero
}

// DecimalOrZero returns the decimal value with null treated as zero
func DecimalOrZero(d decimal.NullDecimal) decimal.Decimal {
	return decimalOrZero(d)
}

func formatNullDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return "null"
	}
	return d.Decimal.String()
}

// FormatNullDecimal renders a NullDecimal for display, blank when null
func FormatNullDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
