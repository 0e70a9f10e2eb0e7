// Package loaders turns the raw source workbooks into typed tables.
//
// Each loader pairs a declarative region descriptor (where the table lives
// in its sheet, which rows are noise) with the normalizer, mirroring one
// sheet of the manually maintained source workbooks. Loaders never fail on
// dirty or missing data: a renamed sheet or shifted layout degrades to an
// empty slice, and malformed cells become nulls.
package loaders

import (
	"path/filepath"

	"arena-transparency-service/internal/grid"
	"arena-transparency-service/pkg/logger"
)

// Source file names inside the data directory
const (
	FileBudgetReconciliation = "budget_reconciliation.xlsx"
	FileExpenseFlow          = "expense_flow.xlsx"
	FileProposedEntries      = "proposed_entries.xlsx"
	FileGeneralLedger        = "general_ledger.xlsx"
	FileBillsSummary         = "bills_summary.xlsx"
)

// budgetHeaders are the logical columns of both budget reconciliation
// sheets. The physical header rows repeat and misalign, so they are
// declared here rather than read from the sheet.
var budgetHeaders = []string{
	"Line Item",
	"Proposal Monthly Budget", "CSCG Monthly Budget",
	"Monthly Variance $", "Monthly Variance %",
	"Proposal YTD Budget", "CSCG YTD Budget",
	"YTD Variance $", "YTD Variance %",
	"Assessment",
}

var expenseFlowHeaders = []string{
	"Expense Category", "YTD per Financials", "YTD from Invoices",
	"Variance", "Approval Method", "Notes",
}

// Loader reads and caches the source workbooks
type Loader struct {
	dataDir string
	cache   *grid.Cache
	logger  logger.Logger
}

// NewLoader creates a Loader over the given data directory. A nil cache
// gets a fresh one with default (soft-fail) extraction.
func NewLoader(dataDir string, cache *grid.Cache) *Loader {
	if cache == nil {
		cache = grid.NewCache(nil)
	}
	return &Loader{
		dataDir: dataDir,
		cache:   cache,
		logger:  logger.GetGlobalLogger().WithComponent("loaders"),
	}
}

// Invalidate drops cached extractions for one source file name
func (l *Loader) Invalidate(filename string) {
	l.cache.Invalidate(l.path(filename))
}

func (l *Loader) path(filename string) string {
	return filepath.Join(l.dataDir, filename)
}

// extract runs one region against its source file, degrading to an empty
// table when the file itself is unreadable. Region drift inside a readable
// file is already handled by the extractor.
func (l *Loader) extract(filename string, region grid.Region) *grid.Table {
	table, err := l.cache.ExtractFile(l.path(filename), region)
	if err != nil {
		l.logger.WithError(err).WithFields(logger.Fields{
			"file":  filename,
			"sheet": region.Sheet,
		}).Warn("Source unavailable; continuing with empty table")
		return grid.NewTable(region.Headers)
	}
	return table
}
