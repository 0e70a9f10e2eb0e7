package cmd

import (
	"fmt"
	"os"
	"time"

	"arena-transparency-service/cmd/arenadash/config"
	"arena-transparency-service/internal/grid"
	"arena-transparency-service/internal/loaders"
	"arena-transparency-service/internal/reporter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Output flags shared by every reporting subcommand
var (
	outputFormat  string
	outputFile    string
	maxRows       int
	strictRegions bool
)

// addReportFlags registers the shared output flags on a subcommand
func addReportFlags(c *cobra.Command) {
	c.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	c.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")
	c.Flags().IntVar(&maxRows, "max-rows", 0, "truncate console listings after this many rows (0 = unlimited)")
	c.Flags().BoolVar(&strictRegions, "strict", false, "fail on sheet layout drift instead of degrading to empty tables")
}

// validateOutputFormat checks the shared --output-format value
func validateOutputFormat() error {
	validFormats := map[string]bool{"console": true, "json": true, "csv": true}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}
	return nil
}

// validateDataDir checks that the configured data directory exists
func validateDataDir() error {
	dir := viper.GetString("data-dir")
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("data directory does not exist: %s", dir)
	}
	if err != nil {
		return fmt.Errorf("error accessing data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data-dir is not a directory: %s", dir)
	}
	return nil
}

// newLoader builds a workbook loader over the configured data directory
func newLoader() *loaders.Loader {
	extractor := grid.NewExtractor(config.CreateGridConfig(strictRegions))
	return loaders.NewLoader(viper.GetString("data-dir"), grid.NewCache(extractor))
}

// newReport returns a Report stamped with the current time
func newReport() *reporter.Report {
	return &reporter.Report{GeneratedAt: time.Now()}
}

// writeReport renders the report to the configured destination
func writeReport(report *reporter.Report) error {
	reportConfig := config.CreateReportConfig(outputFormat, maxRows)
	generator, err := reporter.NewReportGenerator(reportConfig)
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	output := os.Stdout
	if outputFile != "" {
		output, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	}

	if err := generator.GenerateReport(report, output); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	return nil
}
