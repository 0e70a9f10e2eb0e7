// Package config assembles component configurations from CLI flag values.
package config

import (
	"arena-transparency-service/internal/grid"
	"arena-transparency-service/internal/mapping"
	"arena-transparency-service/internal/reconciler"
	"arena-transparency-service/internal/reporter"
	"arena-transparency-service/internal/scorecard"
	"arena-transparency-service/internal/variance"

	"github.com/shopspring/decimal"
)

// CreateGridConfig creates an extraction configuration. Strict mode turns
// region drift into hard errors instead of empty tables.
func CreateGridConfig(strict bool) *grid.Config {
	config := grid.DefaultConfig()
	config.StrictRegions = strict
	return config
}

// CreateStatusThresholds creates reconciliation status bands, zero values
// falling back to the defaults.
func CreateStatusThresholds(minor, major float64) (*reconciler.StatusThresholds, error) {
	thresholds := reconciler.DefaultStatusThresholds()
	if minor > 0 {
		thresholds.Minor = decimal.NewFromFloat(minor)
	}
	if major > 0 {
		thresholds.Major = decimal.NewFromFloat(major)
	}
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	return &thresholds, nil
}

// CreateVarianceThresholds creates alert thresholds with an optional
// yellow-percentage override. The override is expressed as a fraction
// (0.05 means 5%).
func CreateVarianceThresholds(yellowPct float64) variance.Thresholds {
	thresholds := variance.DefaultThresholds()
	if yellowPct > 0 {
		thresholds = thresholds.WithYellowPct(decimal.NewFromFloat(yellowPct))
	}
	return thresholds
}

// CreateCategoryMap loads the category map from the given file, or the
// built-in mapping when no file is specified.
func CreateCategoryMap(path string) (*mapping.CategoryMap, error) {
	if path == "" {
		return mapping.Default(), nil
	}
	return mapping.LoadFile(path)
}

// CreateContractTerms loads contract terms from the given file, or the
// built-in term list when no file is specified.
func CreateContractTerms(path string) ([]scorecard.ContractTerm, error) {
	if path == "" {
		return scorecard.DefaultTerms(), nil
	}
	return scorecard.LoadTermsFile(path)
}

// CreateReportConfig creates a report configuration for the specified
// output format
func CreateReportConfig(format string, maxRows int) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()

	switch format {
	case "json":
		config.Format = reporter.FormatJSON
	case "csv":
		config.Format = reporter.FormatCSV
		config.CSVHeaders = true
		config.CSVDelimiter = ','
	default:
		config.Format = reporter.FormatConsole
		config.MaxRows = maxRows
	}

	return config
}
