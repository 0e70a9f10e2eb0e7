// Package reporter renders the derived transparency tables for terminal,
// JSON and CSV consumption.
//
// Supported output formats:
//   - Console: human-readable tabular output for terminal display
//   - JSON: structured data for programmatic consumption
//   - CSV: comma-separated output for spreadsheet applications
//
// Report sections available:
//   - Reconciliation: the four-way budget/actual/invoice master table
//   - Alerts: variance alerts ordered by severity
//   - Scorecard: contract-term compliance grades
//   - Accounts: general-ledger account rollups
//   - KPIs: headline annualized figures and coverage ratios
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"arena-transparency-service/internal/loaders"
	"arena-transparency-service/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	// Console formatting options
	MaxRows int `json:"max_rows"`

	// CSV options
	CSVDelimiter rune `json:"csv_delimiter"`
	CSVHeaders   bool `json:"csv_headers"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:       FormatConsole,
		MaxRows:      0,
		CSVDelimiter: ',',
		CSVHeaders:   true,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("max rows cannot be negative, got %d", c.MaxRows)
	}
	return nil
}

// Report carries every derived table plus the generation timestamp.
// Sections left nil are omitted from the output.
type Report struct {
	GeneratedAt    time.Time                 `json:"generatedAt"`
	KPIs           *loaders.KPIs             `json:"kpis,omitempty"`
	Reconciliation []models.ReconciliationRow `json:"reconciliation,omitempty"`
	Alerts         []models.VarianceAlert    `json:"alerts,omitempty"`
	Scorecard      []models.ComplianceEntry  `json:"scorecard,omitempty"`
	Accounts       []models.AccountSummary   `json:"accounts,omitempty"`
	JournalLines   []models.JournalLine      `json:"journalLines,omitempty"`
}

// ReportGenerator renders a Report in the configured format
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a report generator, validating the config
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}
	return &ReportGenerator{config: config}, nil
}

// GenerateReport writes the report to the provided writer
func (rg *ReportGenerator) GenerateReport(report *Report, writer io.Writer) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}

	switch rg.config.Format {
	case FormatConsole:
		return rg.generateConsoleReport(report, writer)
	case FormatJSON:
		return rg.generateJSONReport(report, writer)
	case FormatCSV:
		return rg.generateCSVReport(report, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

func (rg *ReportGenerator) generateConsoleReport(report *Report, writer io.Writer) error {
	fmt.Fprintf(writer, "FINANCIAL TRANSPARENCY REPORT\n")
	fmt.Fprintf(writer, "Generated: %s\n\n", report.GeneratedAt.Format(time.RFC3339))

	if report.KPIs != nil {
		fmt.Fprintf(writer, "=== KEY FIGURES ===\n")
		rg.printKPIs(report.KPIs, writer)
		fmt.Fprintf(writer, "\n")
	}

	if len(report.Reconciliation) > 0 {
		fmt.Fprintf(writer, "=== BUDGET / ACTUAL / INVOICE RECONCILIATION ===\n")
		rg.printReconciliation(report.Reconciliation, writer)
		fmt.Fprintf(writer, "\n")
	}

	if len(report.Alerts) > 0 {
		fmt.Fprintf(writer, "=== VARIANCE ALERTS ===\n")
		rg.printAlerts(report.Alerts, writer)
		fmt.Fprintf(writer, "\n")
	}

	if len(report.Scorecard) > 0 {
		fmt.Fprintf(writer, "=== CONTRACT COMPLIANCE SCORECARD ===\n")
		rg.printScorecard(report.Scorecard, writer)
		fmt.Fprintf(writer, "\n")
	}

	if len(report.Accounts) > 0 {
		fmt.Fprintf(writer, "=== GENERAL LEDGER ACCOUNT SUMMARY ===\n")
		rg.printAccounts(report.Accounts, writer)
		fmt.Fprintf(writer, "\n")
	}

	if len(report.JournalLines) > 0 {
		fmt.Fprintf(writer, "=== PROPOSED JOURNAL ENTRIES ===\n")
		rg.printJournalLines(report.JournalLines, writer)
	}

	return nil
}

func (rg *ReportGenerator) generateJSONReport(report *Report, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// generateCSVReport writes every populated section as typed rows sharing
// one column set, so the output loads into a single spreadsheet.
func (rg *ReportGenerator) generateCSVReport(report *Report, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = rg.config.CSVDelimiter
	defer csvWriter.Flush()

	if rg.config.CSVHeaders {
		headers := []string{
			"Section", "Label", "Budget", "Actual", "Invoice",
			"Variance_$", "Variance_%", "Status", "Notes",
		}
		if err := csvWriter.Write(headers); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	for _, row := range report.Reconciliation {
		record := []string{
			"Reconciliation",
			row.LineItemLabel,
			row.BudgetAmount.StringFixed(2),
			row.ActualAmount.StringFixed(2),
			row.InvoiceAmount.StringFixed(2),
			models.FormatNullDecimal(row.BudgetActualVariance),
			"",
			row.Status.Display(),
			row.ApprovalMethod,
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write reconciliation record: %w", err)
		}
	}

	for _, alert := range report.Alerts {
		record := []string{
			"Alert",
			alert.LineItem,
			models.FormatNullDecimal(alert.ProposedYTD),
			models.FormatNullDecimal(alert.ActualYTD),
			"",
			models.FormatNullDecimal(alert.VarianceDollars),
			models.FormatNullDecimal(alert.VariancePercent),
			string(alert.Severity),
			alert.Assessment,
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write alert record: %w", err)
		}
	}

	for _, entry := range report.Scorecard {
		record := []string{
			"Scorecard",
			entry.ContractTerm,
			models.FormatNullDecimal(entry.PeriodExpected),
			entry.PeriodActual.StringFixed(2),
			"",
			"",
			"",
			string(entry.Status),
			entry.Source,
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write scorecard record: %w", err)
		}
	}

	for _, acct := range report.Accounts {
		record := []string{
			"Account",
			acct.AccountName,
			"",
			acct.TotalDebit.StringFixed(2),
			acct.TotalCredit.StringFixed(2),
			acct.Net.StringFixed(2),
			"",
			acct.EntryType,
			fmt.Sprintf("%d entries", acct.Count),
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write account record: %w", err)
		}
	}

	return nil
}

// Console section helpers

func (rg *ReportGenerator) printKPIs(k *loaders.KPIs, writer io.Writer) {
	fmt.Fprintf(writer, "Revenue YTD:          %s\n", k.RevenueYTD.StringFixed(2))
	fmt.Fprintf(writer, "Expense YTD:          %s\n", k.ExpenseYTD.StringFixed(2))
	fmt.Fprintf(writer, "Revenue (annualized): %s\n", k.RevenueAnnualized.StringFixed(2))
	fmt.Fprintf(writer, "Expense (annualized): %s\n", k.ExpenseAnnualized.StringFixed(2))
	fmt.Fprintf(writer, "NOI (annualized):     %s\n", k.NOIAnnualized.StringFixed(2))
	fmt.Fprintf(writer, "Hidden Outflows:      %s\n", k.HiddenAnnual.StringFixed(2))
	fmt.Fprintf(writer, "Debt Service:         %s\n", k.DebtServiceAnnual.StringFixed(2))
	if k.DebtServiceAnnual.IsPositive() {
		fmt.Fprintf(writer, "DSCR:                 %s\n", k.DSCR.StringFixed(2))
	} else {
		fmt.Fprintf(writer, "DSCR:                 n/a (no debt service identified)\n")
	}
	fmt.Fprintf(writer, "Net Cash Flow:        %s\n", k.NetCashFlow.StringFixed(2))
	fmt.Fprintf(writer, "Board-Approved Spend: %s%%\n", k.BoardApprovedPct.Mul(hundred).StringFixed(1))
}

func (rg *ReportGenerator) printReconciliation(rows []models.ReconciliationRow, writer io.Writer) {
	fmt.Fprintf(writer, "Total Line Items: %d\n\n", len(rows))

	counts := make(map[models.ReconciliationStatus]int)
	for _, row := range rows {
		counts[row.Status]++
	}
	for _, status := range []models.ReconciliationStatus{
		models.StatusMatched, models.StatusMinorVariance, models.StatusMajorVariance,
		models.StatusNoInvoiceTrail, models.StatusBudgetOnly, models.StatusActualOnly,
	} {
		if counts[status] > 0 {
			fmt.Fprintf(writer, "  %-18s %d\n", status.Display()+":", counts[status])
		}
	}
	fmt.Fprintf(writer, "\n")

	for i, row := range rows {
		fmt.Fprintf(writer, "  %d. %s\n", i+1, row.LineItemLabel)
		fmt.Fprintf(writer, "     Budget: %s  Actual: %s  Invoices: %s  Status: %s\n",
			row.BudgetAmount.StringFixed(2),
			row.ActualAmount.StringFixed(2),
			row.InvoiceAmount.StringFixed(2),
			row.Status.Display())
		if rg.truncated(i, len(rows), writer) {
			break
		}
	}
}

func (rg *ReportGenerator) printAlerts(alerts []models.VarianceAlert, writer io.Writer) {
	fmt.Fprintf(writer, "Total Alerts: %d\n\n", len(alerts))

	for i, alert := range alerts {
		fmt.Fprintf(writer, "  [%s] %s (%s)\n", alert.Severity, alert.LineItem, alert.Category)
		fmt.Fprintf(writer, "     Proposed: %s  Actual: %s  Variance: %s",
			orBlank(models.FormatNullDecimal(alert.ProposedYTD)),
			orBlank(models.FormatNullDecimal(alert.ActualYTD)),
			orBlank(models.FormatNullDecimal(alert.VarianceDollars)))
		if alert.VariancePercent.Valid {
			fmt.Fprintf(writer, " (%s%%)", alert.VariancePercent.Decimal.Mul(hundred).StringFixed(1))
		}
		fmt.Fprintf(writer, "\n")
		if rg.truncated(i, len(alerts), writer) {
			break
		}
	}
}

func (rg *ReportGenerator) printScorecard(entries []models.ComplianceEntry, writer io.Writer) {
	for _, entry := range entries {
		fmt.Fprintf(writer, "  %-45s %s\n", entry.ContractTerm, entry.Status)
		fmt.Fprintf(writer, "     Expected: %s  Actual: %s\n",
			orBlank(models.FormatNullDecimal(entry.PeriodExpected)),
			entry.PeriodActual.StringFixed(2))
	}
}

func (rg *ReportGenerator) printAccounts(accounts []models.AccountSummary, writer io.Writer) {
	fmt.Fprintf(writer, "Total Accounts: %d\n\n", len(accounts))

	for i, acct := range accounts {
		fmt.Fprintf(writer, "  %-40s Debits: %-12s Credits: %-12s Net: %s (%d entries)\n",
			acct.AccountName,
			acct.TotalDebit.StringFixed(2),
			acct.TotalCredit.StringFixed(2),
			acct.Net.StringFixed(2),
			acct.Count)
		if rg.truncated(i, len(accounts), writer) {
			break
		}
	}
}

func (rg *ReportGenerator) printJournalLines(lines []models.JournalLine, writer io.Writer) {
	fmt.Fprintf(writer, "Total Lines: %d\n\n", len(lines))

	lastEntry := ""
	for i, line := range lines {
		if line.EntryNum != lastEntry {
			fmt.Fprintf(writer, "  Entry %s (%s) %s\n", line.EntryNum,
				line.Date.Format("2006-01-02"), line.Memo)
			lastEntry = line.EntryNum
		}
		fmt.Fprintf(writer, "     %-40s Debit: %-12s Credit: %s\n",
			line.Account, line.Debit.StringFixed(2), line.Credit.StringFixed(2))
		if rg.truncated(i, len(lines), writer) {
			break
		}
	}
}

// truncated stops long console listings at the configured row cap
func (rg *ReportGenerator) truncated(i, total int, writer io.Writer) bool {
	if rg.config.MaxRows > 0 && i+1 >= rg.config.MaxRows && total > rg.config.MaxRows {
		fmt.Fprintf(writer, "  ... and %d more\n", total-rg.config.MaxRows)
		return true
	}
	return false
}

func orBlank(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
