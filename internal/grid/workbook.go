package grid

import (
	"encoding/csv"
	"io"
	"os"

	"arena-transparency-service/pkg/errors"
	"arena-transparency-service/pkg/logger"

	"github.com/xuri/excelize/v2"
)

// Workbook is an in-memory snapshot of one spreadsheet file, decoded once
// and then treated as immutable grids per sheet.
type Workbook struct {
	path   string
	sheets map[string]Grid
}

// LoadWorkbook decodes an .xlsx file into per-sheet grids
func LoadWorkbook(path string) (*Workbook, error) {
	log := logger.GetGlobalLogger().WithComponent("workbook")

	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileError(errors.CodeFileNotFound, path, err)
		}
		return nil, errors.FileError(errors.CodeFileCorrupted, path, err)
	}
	defer f.Close()

	wb := &Workbook{
		path:   path,
		sheets: make(map[string]Grid),
	}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, errors.FileError(errors.CodeFileCorrupted, path, err)
		}
		wb.sheets[name] = Grid(rows)
	}

	log.WithFields(logger.Fields{
		"path":   path,
		"sheets": len(wb.sheets),
	}).Debug("Loaded workbook")

	return wb, nil
}

// Path returns the source file path of the workbook
func (w *Workbook) Path() string {
	return w.path
}

// HasSheet reports whether the workbook contains the named sheet
func (w *Workbook) HasSheet(name string) bool {
	_, ok := w.sheets[name]
	return ok
}

// Sheet returns the grid for the named sheet. A missing sheet yields a nil
// grid, which extracts to an empty table.
func (w *Workbook) Sheet(name string) Grid {
	return w.sheets[name]
}

// SheetNames lists the sheets in the workbook
func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.sheets))
	for name := range w.sheets {
		names = append(names, name)
	}
	return names
}

// LoadCSV reads a CSV file into a single grid
func LoadCSV(path string) (Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileError(errors.CodeFileNotFound, path, err)
		}
		if os.IsPermission(err) {
			return nil, errors.FileError(errors.CodeFilePermission, path, err)
		}
		return nil, errors.FileError(errors.CodeFileCorrupted, path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var g Grid
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.FileError(errors.CodeFileCorrupted, path, err)
		}
		g = append(g, record)
	}

	return g, nil
}
