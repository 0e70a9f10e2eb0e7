package loaders

import (
	"fmt"
	"path/filepath"
	"testing"

	"arena-transparency-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook builds an .xlsx fixture: one file, sheets given as raw row
// grids starting at A1.
func writeWorkbook(t *testing.T, path string, sheets map[string][][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("failed to rename sheet: %v", err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("failed to add sheet %s: %v", name, err)
			}
		}
		for i, row := range rows {
			cell := fmt.Sprintf("A%d", i+1)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("failed to write row %d of %s: %v", i, name, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
}

// pad returns n blank rows, for sheets whose data sits below a header block
func pad(n int) [][]interface{} {
	rows := make([][]interface{}, n)
	for i := range rows {
		rows[i] = []interface{}{""}
	}
	return rows
}

func writeBudgetWorkbook(t *testing.T, dir string) {
	t.Helper()

	expenseRows := append(pad(5),
		[]interface{}{"PAYROLL EXPENSES"},
		[]interface{}{"Office Payroll", "15000", "15000", "0", "0%", "105000", "105000", "0", "0%", "On plan"},
		[]interface{}{"Electric", "3000", "3100", "100", "3.3%", "21000", "21700", "700", "3.3%", "Running hot"},
		[]interface{}{"Total Payroll", "15000", "15000", "0", "0%", "105000", "105000", "0", "0%", ""},
		[]interface{}{"Line Item", "Proposal Monthly Budget"},
	)
	revenueRows := append(pad(5),
		[]interface{}{"CONTRACT ICE"},
		[]interface{}{"Youth Hockey", "20000", "21000", "1000", "5%", "140000", "147000", "7000", "5%", ""},
		[]interface{}{"Total Contract Ice", "20000", "21000", "1000", "5%", "140000", "147000", "7000", "5%", ""},
		[]interface{}{"TOTAL INCOME", "20000", "21000", "1000", "5%", "140000", "147000", "7000", "5%", ""},
	)
	hiddenRows := append(pad(4),
		[]interface{}{"Bond Principal", "10000", "120000", "Not on operating budget"},
		[]interface{}{"Techny Loan Payment", "5000", "60000", "Undisclosed"},
		[]interface{}{"TOTAL", "15000", "180000", ""},
	)
	modRows := append(pad(3),
		[]interface{}{"Electric", "36000", "37200", "1200", "Increase", "HIGH", "No board vote"},
	)

	writeWorkbook(t, filepath.Join(dir, FileBudgetReconciliation), map[string][][]interface{}{
		"Expense Reconciliation":   expenseRows,
		"Revenue Reconciliation":   revenueRows,
		"Hidden Cash Flows":        hiddenRows,
		"Unauthorized Modifications": modRows,
	})
}

func writeExpenseFlowWorkbook(t *testing.T, dir string) {
	t.Helper()

	flowRows := append(pad(4),
		[]interface{}{"BOARD-APPROVED"},
		[]interface{}{"Electric (Engie)", "21700", "21650", "50", "CSCG auto-pay", "meter true-up pending"},
		[]interface{}{"Security", "900", "", "", "Board approved", ""},
		[]interface{}{"SUMMARY"},
	)
	// Fixed obligations block sits at rows 26-32 of the same sheet
	for len(flowRows) < 25 {
		flowRows = append(flowRows, []interface{}{""})
	}
	flowRows = append(flowRows,
		[]interface{}{"Land Lease (Techny)", "192500.35", "192500.35", "0", "Fixed obligation", ""},
		[]interface{}{"Bond Interest (DSRF)", "188205.35", "188205.35", "0", "Fixed obligation", ""},
	)
	// Approval summary block at rows 36-40
	for len(flowRows) < 35 {
		flowRows = append(flowRows, []interface{}{""})
	}
	flowRows = append(flowRows,
		[]interface{}{"Approval Method", "YTD Amount", "% of Total"},
		[]interface{}{"Board-Approved", "100000", "25.5%"},
		[]interface{}{"CSCG-Managed (auto-pay)", "225000", "57.4%"},
	)

	cscgRows := append(pad(3),
		[]interface{}{"Management Fee", "21000", "No", "Article 7.1"},
		[]interface{}{"Office Payroll", "88000", "No", "Article 10.1"},
		[]interface{}{"TOTAL", "109000", "", ""},
	)

	writeWorkbook(t, filepath.Join(dir, FileExpenseFlow), map[string][][]interface{}{
		"Expense Flow Analysis": flowRows,
		"CSCG Relationship":     cscgRows,
	})
}

func TestLoadExpenseReconciliation(t *testing.T) {
	dir := t.TempDir()
	writeBudgetWorkbook(t, dir)
	loader := NewLoader(dir, nil)

	items := loader.LoadExpenseReconciliation()
	if len(items) != 3 {
		t.Fatalf("LoadExpenseReconciliation() = %d items, want 3", len(items))
	}

	electric := items[1]
	if electric.Name != "Electric" {
		t.Fatalf("second item = %q, want Electric", electric.Name)
	}
	if !electric.ActualYTD.Valid || !electric.ActualYTD.Decimal.Equal(decimal.NewFromInt(21700)) {
		t.Errorf("Electric actual YTD = %v, want 21700", electric.ActualYTD)
	}
	if electric.Assessment != "Running hot" {
		t.Errorf("Electric assessment = %q", electric.Assessment)
	}

	if !items[2].IsTotal() {
		t.Errorf("aggregate row %q should be kept and flagged as total", items[2].Name)
	}
}

func TestLoadRevenueReconciliation(t *testing.T) {
	dir := t.TempDir()
	writeBudgetWorkbook(t, dir)
	loader := NewLoader(dir, nil)

	items := loader.LoadRevenueReconciliation()
	if len(items) != 2 {
		t.Fatalf("LoadRevenueReconciliation() = %d items, want 2", len(items))
	}
	for _, item := range items {
		if item.Name == "CONTRACT ICE" || item.Name == "TOTAL INCOME" {
			t.Errorf("banner row %q survived extraction", item.Name)
		}
	}
}

func TestLoadHiddenCashFlows(t *testing.T) {
	dir := t.TempDir()
	writeBudgetWorkbook(t, dir)
	loader := NewLoader(dir, nil)

	flows := loader.LoadHiddenCashFlows()
	if len(flows) != 2 {
		t.Fatalf("LoadHiddenCashFlows() = %d flows, want 2", len(flows))
	}
	if flows[0].Item != "Bond Principal" {
		t.Errorf("first flow = %q, want Bond Principal", flows[0].Item)
	}
	if !flows[1].AnnualImpact.Valid || !flows[1].AnnualImpact.Decimal.Equal(decimal.NewFromInt(60000)) {
		t.Errorf("loan annual impact = %v, want 60000", flows[1].AnnualImpact)
	}
}

func TestLoadExpenseFlow(t *testing.T) {
	dir := t.TempDir()
	writeExpenseFlowWorkbook(t, dir)
	loader := NewLoader(dir, nil)

	records := loader.LoadExpenseFlow()
	// Two analysis rows plus the two fixed-obligation rows further down
	if len(records) != 4 {
		t.Fatalf("LoadExpenseFlow() = %d records, want 4", len(records))
	}

	electric := records[0]
	if electric.Category != "Electric (Engie)" {
		t.Fatalf("first record = %q, want Electric (Engie)", electric.Category)
	}
	if electric.ApprovalMethod != models.ApprovalCSCGAutoPay {
		t.Errorf("approval method = %s, want CSCG_AUTO_PAY", electric.ApprovalMethod)
	}
	if electric.ApprovalText != "CSCG auto-pay" {
		t.Errorf("approval text = %q, want raw sheet value", electric.ApprovalText)
	}

	security := records[1]
	if security.InvoiceTotal.Valid {
		t.Errorf("blank invoice cell should load as null, got %v", security.InvoiceTotal)
	}
}

func TestLoadFixedObligations(t *testing.T) {
	dir := t.TempDir()
	writeExpenseFlowWorkbook(t, dir)
	loader := NewLoader(dir, nil)

	records := loader.LoadFixedObligations()
	if len(records) != 2 {
		t.Fatalf("LoadFixedObligations() = %d records, want 2", len(records))
	}
	if records[0].Category != "Land Lease (Techny)" {
		t.Errorf("first obligation = %q", records[0].Category)
	}
	want := decimal.NewFromFloat(188205.35)
	if !records[1].FinancialActual.Valid || !records[1].FinancialActual.Decimal.Equal(want) {
		t.Errorf("bond interest actual = %v, want %s", records[1].FinancialActual, want)
	}
}

func TestLoadCSCGComponents(t *testing.T) {
	dir := t.TempDir()
	writeExpenseFlowWorkbook(t, dir)
	loader := NewLoader(dir, nil)

	components := loader.LoadCSCGComponents()
	if len(components) != 2 {
		t.Fatalf("LoadCSCGComponents() = %d components, want 2", len(components))
	}
	if components[0].Name != "Management Fee" {
		t.Errorf("first component = %q", components[0].Name)
	}
	for _, c := range components {
		if c.Name == "TOTAL" {
			t.Errorf("TOTAL row should be dropped")
		}
	}
}

func TestLoadApprovalSummary(t *testing.T) {
	dir := t.TempDir()
	writeExpenseFlowWorkbook(t, dir)
	loader := NewLoader(dir, nil)

	shares := loader.LoadApprovalSummary()
	if len(shares) != 2 {
		t.Fatalf("LoadApprovalSummary() = %d shares, want 2", len(shares))
	}
	if shares[0].ApprovalMethod != "Board-Approved" {
		t.Errorf("first share = %q", shares[0].ApprovalMethod)
	}
	want := decimal.NewFromFloat(25.5)
	if !shares[0].ShareOfTotal.Valid || !shares[0].ShareOfTotal.Decimal.Equal(want) {
		t.Errorf("share of total = %v, want 25.5", shares[0].ShareOfTotal)
	}
}

func TestLoadProposedEntries(t *testing.T) {
	dir := t.TempDir()

	rows := [][]interface{}{
		{"", "Num", "", "Date", "", "Memo", "", "Account", "", "Debit", "", "Credit"},
		{"", "1", "", "6/30/25", "", "Utility accrual", "", "Utilities Expense", "", "500", "", ""},
		{"", "", "", "", "", "", "", "Accounts Payable", "", "", "", "500"},
		{"", ""},
		{"", "2", "", "6/30/25", "", "Reclass", "", "Repairs Expense", "", "120", "", ""},
		{"", "", "", "", "", "", "", "Supplies Expense", "", "", "", "120"},
	}
	writeWorkbook(t, filepath.Join(dir, FileProposedEntries), map[string][][]interface{}{
		"Proposed Entries": rows,
	})
	loader := NewLoader(dir, nil)

	lines := loader.LoadProposedEntries()
	if len(lines) != 4 {
		t.Fatalf("LoadProposedEntries() = %d lines, want 4", len(lines))
	}

	second := lines[1]
	if second.EntryNum != "1" || second.Memo != "Utility accrual" {
		t.Errorf("second line = %+v, want forward-filled entry 1", second)
	}
	if second.Account != "Accounts Payable" {
		t.Errorf("second line account = %q", second.Account)
	}
	if !second.Credit.Equal(decimal.NewFromInt(500)) {
		t.Errorf("second line credit = %s, want 500", second.Credit)
	}
	if !second.Debit.IsZero() {
		t.Errorf("second line debit = %s, want 0", second.Debit)
	}
	if lines[3].EntryNum != "2" {
		t.Errorf("fourth line entry num = %q, want 2", lines[3].EntryNum)
	}
}

func TestLoadGeneralLedgerAndSummarize(t *testing.T) {
	dir := t.TempDir()

	rows := append(pad(4),
		[]interface{}{"6/1/25", "6010", "Utilities", "Expense", "Operating", "June power", "3100", "", "Engie"},
		[]interface{}{"6/15/25", "6010", "Utilities", "Expense", "Operating", "True-up", "", "100", "Engie"},
		[]interface{}{"6/1/25", "4010", "Contract Ice", "Income", "Operating", "League fees", "", "21000", ""},
		[]interface{}{"", "", "TOTAL", "", "", "", "3100", "21100", ""},
	)
	writeWorkbook(t, filepath.Join(dir, FileGeneralLedger), map[string][][]interface{}{
		"General_Ledger": rows,
	})
	loader := NewLoader(dir, nil)

	entries := loader.LoadGeneralLedger()
	if len(entries) != 3 {
		t.Fatalf("LoadGeneralLedger() = %d entries, want 3", len(entries))
	}
	if entries[0].AccountName != "Utilities" || entries[0].Payee != "Engie" {
		t.Errorf("first entry = %+v", entries[0])
	}

	summaries := SummarizeAccounts(entries)
	if len(summaries) != 2 {
		t.Fatalf("SummarizeAccounts() = %d accounts, want 2", len(summaries))
	}

	// Sorted by account name: Contract Ice before Utilities
	if summaries[0].AccountName != "Contract Ice" {
		t.Errorf("first summary = %q, want Contract Ice", summaries[0].AccountName)
	}
	utilities := summaries[1]
	if utilities.Count != 2 {
		t.Errorf("utilities entry count = %d, want 2", utilities.Count)
	}
	if !utilities.Net.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("utilities net = %s, want 3000", utilities.Net)
	}
}

func TestLoader_MissingFileDegradesToEmpty(t *testing.T) {
	loader := NewLoader(t.TempDir(), nil)

	if items := loader.LoadExpenseReconciliation(); len(items) != 0 {
		t.Errorf("missing workbook should load as empty, got %d items", len(items))
	}
	if flows := loader.LoadHiddenCashFlows(); len(flows) != 0 {
		t.Errorf("missing workbook should load as empty, got %d flows", len(flows))
	}
}

func TestLoader_Invalidate(t *testing.T) {
	dir := t.TempDir()
	writeBudgetWorkbook(t, dir)
	loader := NewLoader(dir, nil)

	before := loader.LoadExpenseReconciliation()
	if len(before) == 0 {
		t.Fatalf("fixture should load")
	}

	// Rewriting the workbook with fewer rows must be visible after Invalidate
	writeWorkbook(t, filepath.Join(dir, FileBudgetReconciliation), map[string][][]interface{}{
		"Expense Reconciliation": append(pad(5),
			[]interface{}{"Electric", "3000", "3100", "100", "3.3%", "21000", "21700", "700", "3.3%", ""},
		),
	})
	loader.Invalidate(FileBudgetReconciliation)

	after := loader.LoadExpenseReconciliation()
	if len(after) != 1 {
		t.Errorf("after invalidation = %d items, want 1", len(after))
	}
}
