// Command generate writes a sample set of the five source workbooks.
//
// The generated files mirror the layout quirks of the real hand-maintained
// workbooks: header blocks above the data, section banners, header echoes,
// prose paragraphs, TOTAL rows and merged journal blocks. They are meant
// for demos and manual CLI runs; unit tests build their own fixtures.
//
// Usage:
//
//	go run ./testdata/generators -output-dir=testdata/generated
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

func main() {
	var (
		outputDir = flag.String("output-dir", "generated", "Output directory for the workbooks")
		workbook  = flag.String("workbook", "all", "Workbook to generate: budget, flow, journal, ledger, bills, or 'all'")
	)
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	builders := map[string]struct {
		file  string
		build func() map[string][][]interface{}
	}{
		"budget":  {"budget_reconciliation.xlsx", budgetWorkbook},
		"flow":    {"expense_flow.xlsx", expenseFlowWorkbook},
		"journal": {"proposed_entries.xlsx", journalWorkbook},
		"ledger":  {"general_ledger.xlsx", ledgerWorkbook},
		"bills":   {"bills_summary.xlsx", billsWorkbook},
	}

	names := []string{"budget", "flow", "journal", "ledger", "bills"}
	if *workbook != "all" {
		if _, ok := builders[*workbook]; !ok {
			log.Fatalf("Unknown workbook: %s", *workbook)
		}
		names = []string{*workbook}
	}

	for _, name := range names {
		b := builders[name]
		path := filepath.Join(*outputDir, b.file)
		if err := writeWorkbook(path, b.build()); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		fmt.Printf("Wrote %s\n", path)
	}
}

// writeWorkbook writes the given sheets in declaration order. Row slices
// may be shorter than the widest row; missing cells stay empty.
func writeWorkbook(path string, sheets map[string][][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for _, name := range sheetOrder(sheets) {
		if first {
			f.SetSheetName("Sheet1", name)
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return err
			}
		}
		for i, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}

// sheetOrder keeps a stable, layout-meaningful sheet order
func sheetOrder(sheets map[string][][]interface{}) []string {
	preferred := []string{
		"Revenue Reconciliation", "Expense Reconciliation",
		"Unauthorized Modifications", "Hidden Cash Flows",
		"Expense Flow Analysis", "CSCG Relationship",
		"Proposed Entries", "General_Ledger",
		"All Bills", "Category Summary",
	}
	order := make([]string, 0, len(sheets))
	for _, name := range preferred {
		if _, ok := sheets[name]; ok {
			order = append(order, name)
		}
	}
	for name := range sheets {
		if !contains(order, name) {
			order = append(order, name)
		}
	}
	return order
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// pad returns n empty rows
func pad(n int) [][]interface{} {
	rows := make([][]interface{}, n)
	for i := range rows {
		rows[i] = []interface{}{}
	}
	return rows
}

func budgetSheet(banner string, rows [][]interface{}) [][]interface{} {
	header := [][]interface{}{
		{"Park District Ice Arena"},
		{"2025-26 Budget Reconciliation"},
		{},
		{banner},
		{"Line Item", "Proposal Monthly Budget", "CSCG Monthly Budget",
			"Monthly Variance $", "Monthly Variance %",
			"Proposal YTD Budget", "CSCG YTD Budget",
			"YTD Variance $", "YTD Variance %", "Assessment"},
	}
	return append(header, rows...)
}

func budgetWorkbook() map[string][][]interface{} {
	revenue := budgetSheet("REVENUE", [][]interface{}{
		{"CONTRACT ICE"},
		{"Youth Hockey", "$14,286", "$14,286", "$0", "0%", "$100,000", "$100,000", "$0", "0%", "On plan"},
		{"Figure Skating Club", "$5,714", "$5,714", "$0", "0%", "$40,000", "$38,500", "($1,500)", "-3.8%", "Slightly behind"},
		{"Total Contract Ice", "$20,000", "$20,000", "$0", "0%", "$140,000", "$138,500", "($1,500)", "-1.1%", ""},
		{"PUBLIC PROGRAMS"},
		{"Public Skate", "$7,143", "$7,143", "$0", "0%", "$50,000", "$52,400", "$2,400", "4.8%", "Ahead of plan"},
		{"Learn to Skate", "$4,286", "$4,286", "$0", "0%", "$30,000", "$29,100", "($900)", "-3.0%", ""},
		{"Total Public Programs", "$11,429", "$11,429", "$0", "0%", "$80,000", "$81,500", "$1,500", "1.9%", ""},
	})

	expense := budgetSheet("EXPENSES", [][]interface{}{
		{"OPERATIONS EXPENSES"},
		{"Electric", "$3,000", "$3,100", "$100", "3.3%", "$21,000", "$21,700", "$700", "3.3%", "Summer peak"},
		{"Natural Gas", "$1,200", "$1,200", "$0", "0%", "$8,400", "$8,350", "($50)", "-0.6%", ""},
		{"Snowplow", "$500", "TBD", "", "", "$3,500", "TBD", "", "", "Seasonal"},
		{"PROGRAM SERVICE EXPENSES"},
		{"On Ice Instruction", "$714", "$714", "$0", "0%", "$5,000", "$5,600", "$600", "12.0%", ""},
		{"Off Ice Instruction", "$429", "$429", "$0", "0%", "$3,000", "$2,900", "($100)", "-3.3%", ""},
		{"Total Operations", "$5,843", "$5,943", "$100", "1.7%", "$40,900", "$38,550", "($2,350)", "-5.7%", ""},
	})

	modifications := [][]interface{}{
		{"Unauthorized Budget Modifications"},
		{"Annualized divergence between the approved proposal and the implied CSCG budget"},
		{},
		{"Line Item", "Proposal Annual", "CSCG Annual (Implied)",
			"Annual Variance $", "Direction", "Severity", "Board Governance Impact"},
		{"REVENUE MODIFICATIONS"},
		{"Public Skate", "$85,714", "$89,829", "$4,114", "Increased", "Moderate",
			"Revenue target raised without board action"},
		{"EXPENSE MODIFICATIONS"},
		{"Electric", "$36,000", "$37,200", "$1,200", "Increased", "Low",
			"Within utility volatility"},
	}

	hidden := [][]interface{}{
		{"Hidden Cash Flows"},
		{"Obligations paid outside the operating budget"},
		{},
		{"Item", "Monthly Amount", "Annual Impact", "Governance Concern"},
		{"Bond Principal", "$10,000", "$120,000", "Not shown in operating statements"},
		{"Bond Interest (DSRF)", "$31,363", "$376,356", "Funded from the debt service reserve"},
		{"Techny Loan Payment", "$5,000", "$60,000", "Interfund loan, no repayment schedule published"},
		{"Scrubber Lease", "$2,000", "$24,000", "Operating lease held off budget"},
		{"TOTAL", "$48,363", "$580,356", ""},
	}

	return map[string][][]interface{}{
		"Revenue Reconciliation":     revenue,
		"Expense Reconciliation":     expense,
		"Unauthorized Modifications": modifications,
		"Hidden Cash Flows":          hidden,
	}
}

func expenseFlowWorkbook() map[string][][]interface{} {
	flow := [][]interface{}{
		{"Expense Flow Analysis"},
		{"YTD financials vs. invoice support, by approval path"},
		{},
		{"Expense Category", "YTD per Financials", "YTD from Invoices",
			"Variance", "Approval Method", "Notes"},
		{"BOARD-APPROVED EXPENSES"},
		{"Electric", "$21,700", "$21,650", "$50", "Board approved", "Engie supply contract"},
		{"Natural Gas", "$8,350", "$8,350", "$0", "Board approved", ""},
		{"CSCG-MANAGED EXPENSES"},
		{"Security Services", "$12,400", "", "", "CSCG auto-pay", "No invoices on file"},
		{"Office Supplies", "$1,850", "$1,790", "$60", "CSCG auto-pay", ""},
	}
	// The fixed-obligations block starts at row 26 and the approval
	// summary at row 36; the banner rows sit just above each window.
	flow = append(flow, pad(24-len(flow))...)
	flow = append(flow,
		[]interface{}{"FIXED OBLIGATIONS"},
		[]interface{}{"Land Lease", "$192,500", "$192,500.35", "($0.35)", "Fixed obligation", "Article 4.2"},
		[]interface{}{"Bond Interest", "$188,178", "$188,205.35", "($27.35)", "Fixed obligation", "Paid by trustee"},
	)
	flow = append(flow, pad(34-len(flow))...)
	flow = append(flow,
		[]interface{}{"SUMMARY BY APPROVAL METHOD"},
		[]interface{}{"Approval Method", "YTD Amount", "% of Total"},
		[]interface{}{"Board-Approved", "$107,500", "25.5%"},
		[]interface{}{"CSCG-Managed (auto-pay)", "$314,000", "74.5%"},
		[]interface{}{},
		[]interface{}{"KEY FINDINGS"},
		[]interface{}{"1. Most spending never reaches the board agenda."},
		[]interface{}{"2. Invoice support is incomplete for auto-pay categories."},
		[]interface{}{"DISCLOSURE GAP"},
		[]interface{}{"The current reporting package omits the fixed obligations above."},
	)

	relationship := [][]interface{}{
		{"CSCG Relationship"},
		{"Payments to the facility management company, year to date"},
		{},
		{"Component", "Amount", "Approval Required?", "Contract Reference"},
		{"Management Fee (monthly)", "$17,500", "No", "Article 7.1"},
		{"Management Fee true-up", "$3,500", "No", "Article 7.1"},
		{"Office Payroll Reimbursement", "$88,000", "No", "Article 7.3"},
		{"TOTAL", "$109,000", "", ""},
		{"ANNUALIZED", "$218,000", "", ""},
	}

	return map[string][][]interface{}{
		"Expense Flow Analysis": flow,
		"CSCG Relationship":     relationship,
	}
}

// journalWorkbook lays entries out the way the accounting export does:
// values in alternating columns, entry metadata only on the first split.
func journalWorkbook() map[string][][]interface{} {
	blank := ""
	entries := [][]interface{}{
		{blank, "Num", blank, "Date", blank, "Memo", blank, "Account", blank, "Debit", blank, "Credit"},
		{blank, "JE-101", blank, "07/31/2025", blank, "July utility accrual", blank, "Utilities Expense", blank, 3100, blank, blank},
		{blank, blank, blank, blank, blank, blank, blank, "Accrued Liabilities", blank, blank, blank, 3100},
		{blank, "JE-102", blank, "07/31/2025", blank, "Reclass lease payment", blank, "Land Lease Expense", blank, 27500, blank, blank},
		{blank, blank, blank, blank, blank, blank, blank, "Prepaid Expenses", blank, blank, blank, 27500},
	}
	return map[string][][]interface{}{"Proposed Entries": entries}
}

func ledgerWorkbook() map[string][][]interface{} {
	ledger := [][]interface{}{
		{"Park District Ice Arena"},
		{"General Ledger Export"},
		{"January 1 through July 31, 2025"},
		{"Date", "GL #", "GL Account Name", "Type", "Bank",
			"Description", "Debit", "Credit", "Payee"},
		{"07/03/2025", 6120, "Utilities", "Bill", "Operating", "Electric service June", 3100, "", "Engie"},
		{"07/10/2025", 6120, "Utilities", "Credit", "Operating", "Deposit refund", "", 100, "Engie"},
		{"07/15/2025", 6210, "Ice Maintenance", "Bill", "Operating", "Blade sharpening", 450, "", "Zamboni Services Inc"},
		{"07/31/2025", "", "TOTAL", "", "", "", 3550, 100, ""},
	}
	return map[string][][]interface{}{"General_Ledger": ledger}
}

func billsWorkbook() map[string][][]interface{} {
	bills := [][]interface{}{
		{"Vendor", "Date", "Category", "Description", "Amount"},
		{"Engie", "07/03/2025", "Utilities", "Electric service June", "$3,100"},
		{"Zamboni Services Inc", "07/15/2025", "Ice Maintenance", "Blade sharpening", "$450"},
		{"North Shore Printing", "07/22/2025", "Office", "Program flyers", "$185"},
	}
	summary := [][]interface{}{
		{"Category", "Total Amount", "Bill Count"},
		{"Utilities", "$3,100", 1},
		{"Ice Maintenance", "$450", 1},
		{"Office", "$185", 1},
		{"TOTAL", "$3,735", 3},
	}
	return map[string][][]interface{}{
		"All Bills":        bills,
		"Category Summary": summary,
	}
}
