package loaders

import (
	"sort"

	"arena-transparency-service/internal/grid"
	"arena-transparency-service/internal/models"
	"arena-transparency-service/internal/normalize"

	"github.com/shopspring/decimal"
)

// proposedEntriesRegion: the journal workbook lays entries out in merged
// blocks with the values in alternating columns (B, D, F, H, J, L). The
// entry number, date and memo appear only on the first line of each block
// and forward-fill across the rest.
var proposedEntriesRegion = grid.Region{
	Sheet:        "Proposed Entries",
	Columns:      []int{1, 3, 5, 7, 9, 11},
	Headers:      []string{"Num", "Date", "Memo", "Account", "Debit", "Credit"},
	KeyColumn:    "Account",
	SkipPatterns: []string{"^Account$"},
	ForwardFill:  []string{"Num", "Date", "Memo"},
}

var generalLedgerRegion = grid.Region{
	Sheet:    "General_Ledger",
	StartRow: 4,
	Headers: []string{
		"Date", "GL #", "GL Account Name", "Type", "Bank",
		"Description", "Debit", "Credit", "Payee",
	},
	KeyColumn:    "GL Account Name",
	SkipPatterns: []string{"TOTAL"},
}

var billsRegion = grid.Region{
	Sheet:        "All Bills",
	StartRow:     1,
	Headers:      []string{"Vendor", "Date", "Category", "Description", "Amount"},
	SkipPatterns: []string{"TOTAL"},
}

var billsByCategoryRegion = grid.Region{
	Sheet:        "Category Summary",
	StartRow:     1,
	Headers:      []string{"Category", "Total Amount", "Bill Count"},
	SkipPatterns: []string{"TOTAL"},
}

// LoadProposedEntries loads the draft journal entries prepared for the
// auditor, one line per account split.
func (l *Loader) LoadProposedEntries() []models.JournalLine {
	table := l.extract(FileProposedEntries, proposedEntriesRegion)

	lines := make([]models.JournalLine, 0, table.Len())
	for row := 0; row < table.Len(); row++ {
		date, _ := normalize.ParseDate(table.Get(row, "Date"))
		lines = append(lines, models.JournalLine{
			EntryNum: table.Get(row, "Num"),
			Date:     date,
			Memo:     table.Get(row, "Memo"),
			Account:  table.Get(row, "Account"),
			Debit:    normalize.NumberOrZero(table.Get(row, "Debit")),
			Credit:   normalize.NumberOrZero(table.Get(row, "Credit")),
		})
	}
	return lines
}

// LoadGeneralLedger loads the transaction-level general ledger export
func (l *Loader) LoadGeneralLedger() []models.LedgerEntry {
	table := l.extract(FileGeneralLedger, generalLedgerRegion)

	entries := make([]models.LedgerEntry, 0, table.Len())
	for row := 0; row < table.Len(); row++ {
		date, _ := normalize.ParseDate(table.Get(row, "Date"))
		entries = append(entries, models.LedgerEntry{
			Date:        date,
			AccountNum:  normalize.ParseNumber(table.Get(row, "GL #")),
			AccountName: table.Get(row, "GL Account Name"),
			EntryType:   table.Get(row, "Type"),
			Bank:        table.Get(row, "Bank"),
			Description: table.Get(row, "Description"),
			Debit:       normalize.NumberOrZero(table.Get(row, "Debit")),
			Credit:      normalize.NumberOrZero(table.Get(row, "Credit")),
			Payee:       table.Get(row, "Payee"),
		})
	}
	return entries
}

// SummarizeAccounts rolls ledger activity up to one row per account,
// ordered by account name. Net is debits minus credits.
func SummarizeAccounts(entries []models.LedgerEntry) []models.AccountSummary {
	byName := make(map[string]*models.AccountSummary)
	order := make([]string, 0)

	for _, e := range entries {
		s, ok := byName[e.AccountName]
		if !ok {
			s = &models.AccountSummary{
				AccountNum:  e.AccountNum,
				AccountName: e.AccountName,
				EntryType:   e.EntryType,
			}
			byName[e.AccountName] = s
			order = append(order, e.AccountName)
		}
		s.TotalDebit = s.TotalDebit.Add(e.Debit)
		s.TotalCredit = s.TotalCredit.Add(e.Credit)
		s.Net = s.TotalDebit.Sub(s.TotalCredit)
		s.Count++
	}

	sort.Strings(order)
	summaries := make([]models.AccountSummary, 0, len(order))
	for _, name := range order {
		summaries = append(summaries, *byName[name])
	}
	return summaries
}

// LoadBills loads the flat list of vendor bills
func (l *Loader) LoadBills() []models.Bill {
	table := l.extract(FileBillsSummary, billsRegion)

	bills := make([]models.Bill, 0, table.Len())
	for row := 0; row < table.Len(); row++ {
		date, _ := normalize.ParseDate(table.Get(row, "Date"))
		bills = append(bills, models.Bill{
			Vendor:      table.Get(row, "Vendor"),
			Date:        date,
			Category:    table.Get(row, "Category"),
			Description: table.Get(row, "Description"),
			Amount:      normalize.ParseCurrency(table.Get(row, "Amount")),
		})
	}
	return bills
}

// BillCategoryTotal is one row of the bill category rollup sheet
type BillCategoryTotal struct {
	Category  string              `json:"category"`
	Total     decimal.NullDecimal `json:"total"`
	BillCount int                 `json:"billCount"`
}

// LoadBillsByCategory loads the pre-rolled category totals
func (l *Loader) LoadBillsByCategory() []BillCategoryTotal {
	table := l.extract(FileBillsSummary, billsByCategoryRegion)

	totals := make([]BillCategoryTotal, 0, table.Len())
	for row := 0; row < table.Len(); row++ {
		count := 0
		if n := normalize.ParseNumber(table.Get(row, "Bill Count")); n.Valid {
			count = int(n.Decimal.IntPart())
		}
		totals = append(totals, BillCategoryTotal{
			Category:  table.Get(row, "Category"),
			Total:     normalize.ParseCurrency(table.Get(row, "Total Amount")),
			BillCount: count,
		})
	}
	return totals
}
