// Package grid extracts typed, named-column tables from loosely structured
// spreadsheet sheets.
//
// The source workbooks are not clean exports: headers sit at arbitrary
// offsets, section banners and subtotal echoes interleave with data, and
// some logical records span several physical rows. A Region is the
// declarative descriptor for one rectangular slice of a sheet; Extract
// applies it to a raw cell grid and produces a Table, skipping noise rows
// and forward-filling multi-row records.
//
// Extraction fails soft by default: a region that no longer lines up with
// the sheet (renamed sheet, shifted rows) yields an empty table and a
// warning, and downstream consumers treat empty as "no data". The
// StrictRegions option upgrades layout drift to an error for tests.
package grid

import (
	"fmt"
	"regexp"
	"strings"

	"arena-transparency-service/pkg/errors"
	"arena-transparency-service/pkg/logger"
)

// Grid is a raw two-dimensional cell view of one sheet. Rows may be ragged;
// Cell treats anything out of range as blank.
type Grid [][]string

// Rows returns the number of physical rows in the grid
func (g Grid) Rows() int {
	return len(g)
}

// Cell returns the trimmed cell value at (row, col), or "" when the
// coordinates fall outside the grid.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	if col < 0 || col >= len(g[row]) {
		return ""
	}
	return strings.TrimSpace(g[row][col])
}

// width returns the widest physical row of the grid
func (g Grid) width() int {
	w := 0
	for _, row := range g {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Region declaratively describes where a table lives inside a sheet and
// which rows of it are noise.
type Region struct {
	// Sheet is the workbook sheet the region belongs to
	Sheet string

	// StartRow is the zero-based first data row (headers are not read from
	// the sheet; fixed-offset sources repeat and misalign them)
	StartRow int

	// EndRow bounds the region exclusively; zero means "to the end"
	EndRow int

	// Columns lists the physical column index for each header. When nil,
	// columns FirstCol..FirstCol+len(Headers)-1 are used.
	Columns  []int
	FirstCol int

	// Headers names the extracted columns, in order
	Headers []string

	// KeyColumn designates the column whose blank cells mark skippable
	// rows. Defaults to the first header.
	KeyColumn string

	// SkipPatterns are case-insensitive regexes matched against the key
	// column; matching rows are dropped as banners or subtotal echoes.
	SkipPatterns []string

	// KeepPrefixes exempts rows from SkipPatterns when the key cell starts
	// with one of these prefixes. This is how a caller keeps "Total
	// Contract Ice" aggregate rows while dropping "TOTAL INCOME" banners.
	KeepPrefixes []string

	// ForwardFill lists columns whose blank cells inherit the nearest
	// non-blank value above them, for records spanning several rows.
	ForwardFill []string
}

// Validate checks that the descriptor is internally consistent
func (r *Region) Validate() error {
	if len(r.Headers) == 0 {
		return fmt.Errorf("region has no headers")
	}
	if r.Columns != nil && len(r.Columns) != len(r.Headers) {
		return fmt.Errorf("region has %d columns for %d headers", len(r.Columns), len(r.Headers))
	}
	if r.StartRow < 0 {
		return fmt.Errorf("start row cannot be negative")
	}
	if r.EndRow != 0 && r.EndRow <= r.StartRow {
		return fmt.Errorf("end row %d must be after start row %d", r.EndRow, r.StartRow)
	}
	if r.KeyColumn != "" && r.headerIndex(r.KeyColumn) == -1 {
		return fmt.Errorf("key column %q is not a region header", r.KeyColumn)
	}
	for _, name := range r.ForwardFill {
		if r.headerIndex(name) == -1 {
			return fmt.Errorf("forward-fill column %q is not a region header", name)
		}
	}
	return nil
}

// Fingerprint returns a stable identity for the region, used as part of
// the extraction cache key and in diagnostics.
func (r *Region) Fingerprint() string {
	cols := r.Columns
	if cols == nil {
		cols = make([]int, len(r.Headers))
		for i := range cols {
			cols[i] = r.FirstCol + i
		}
	}
	return fmt.Sprintf("%s[%d:%d]%v/%s", r.Sheet, r.StartRow, r.EndRow, cols, strings.Join(r.Headers, ","))
}

func (r *Region) headerIndex(name string) int {
	for i, h := range r.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// columnFor returns the physical column index of the i-th header
func (r *Region) columnFor(i int) int {
	if r.Columns != nil {
		return r.Columns[i]
	}
	return r.FirstCol + i
}

// keyIndex returns the header index of the key column
func (r *Region) keyIndex() int {
	if r.KeyColumn == "" {
		return 0
	}
	return r.headerIndex(r.KeyColumn)
}

// Table is an ordered, named-column table of string cells. Typed views are
// built by the loaders on top of the normalizer.
type Table struct {
	Headers []string
	Rows    [][]string

	index map[string]int
}

// NewTable creates an empty table with the given headers
func NewTable(headers []string) *Table {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}
	return &Table{Headers: headers, index: index}
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table carries no data rows
func (t *Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// Get returns the cell at the given row for the named column, or "" when
// the column does not exist.
func (t *Table) Get(row int, column string) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	i, ok := t.index[column]
	if !ok || i >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][i]
}

// Append adds a data row; short rows are padded to the header width
func (t *Table) Append(row []string) {
	for len(row) < len(t.Headers) {
		row = append(row, "")
	}
	t.Rows = append(t.Rows, row)
}

// Config holds extraction options
type Config struct {
	// StrictRegions turns layout drift (missing sheet, region outside the
	// data) into an error instead of an empty table.
	StrictRegions bool
}

// DefaultConfig returns the default extraction configuration
func DefaultConfig() *Config {
	return &Config{StrictRegions: false}
}

// Extractor applies region descriptors to grids
type Extractor struct {
	config *Config
	logger logger.Logger
}

// NewExtractor creates an Extractor with the given configuration
func NewExtractor(config *Config) *Extractor {
	if config == nil {
		config = DefaultConfig()
	}
	return &Extractor{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("extractor"),
	}
}

// Extract produces a table from the region of the grid. A region that does
// not line up with the grid yields an empty table (or an error in strict
// mode); an invalid descriptor or an uncompilable skip pattern is always an
// error because it is caller misuse, not source drift.
func (ex *Extractor) Extract(g Grid, region Region) (*Table, error) {
	if err := region.Validate(); err != nil {
		return nil, errors.ExtractError(errors.CodeBadDescriptor, region.Sheet, region.Fingerprint(), err)
	}

	skip, err := compilePatterns(region.SkipPatterns)
	if err != nil {
		return nil, errors.ExtractError(errors.CodeBadDescriptor, region.Sheet, region.Fingerprint(), err)
	}

	table := NewTable(region.Headers)

	if g.Rows() == 0 || region.StartRow >= g.Rows() {
		return table, ex.drift(errors.CodeRegionOutside, region)
	}
	if minColumn(&region) >= g.width() {
		return table, ex.drift(errors.CodeColumnMissing, region)
	}

	end := g.Rows()
	if region.EndRow != 0 && region.EndRow < end {
		end = region.EndRow
	}

	keyIdx := region.keyIndex()
	fill := make(map[int]string)
	fillIdx := make([]int, 0, len(region.ForwardFill))
	for _, name := range region.ForwardFill {
		fillIdx = append(fillIdx, region.headerIndex(name))
	}

	for rowNum := region.StartRow; rowNum < end; rowNum++ {
		record := make([]string, len(region.Headers))
		for i := range region.Headers {
			record[i] = g.Cell(rowNum, region.columnFor(i))
		}

		key := record[keyIdx]
		if key == "" {
			continue
		}
		if matchesAny(skip, key) && !hasAnyPrefix(key, region.KeepPrefixes) {
			continue
		}

		// Forward-fill runs over kept rows only, so values never leak
		// through dropped banner rows into the next record.
		for _, i := range fillIdx {
			if record[i] == "" {
				record[i] = fill[i]
			} else {
				fill[i] = record[i]
			}
		}

		table.Append(record)
	}

	return table, nil
}

// drift handles a region that no longer matches the sheet: warn and return
// nil by default, error in strict mode.
func (ex *Extractor) drift(code errors.ErrorCode, region Region) error {
	if ex.config.StrictRegions {
		return errors.ExtractError(code, region.Sheet, region.Fingerprint(), nil)
	}
	ex.logger.WithFields(logger.Fields{
		"sheet":  region.Sheet,
		"region": region.Fingerprint(),
		"code":   string(code),
	}).Warn("Region does not match sheet layout; returning empty table")
	return nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("bad skip pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func minColumn(region *Region) int {
	min := region.columnFor(0)
	for i := range region.Headers {
		if c := region.columnFor(i); c < min {
			min = c
		}
	}
	return min
}
