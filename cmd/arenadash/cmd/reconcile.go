package cmd

import (
	"fmt"
	"os"

	"arena-transparency-service/cmd/arenadash/config"
	"arena-transparency-service/internal/reconciler"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the reconcile command
var (
	categoryMapFile string
	minorThreshold  float64
	majorThreshold  float64
)

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Cross-check budget lines against invoice-backed actuals",
	Long: `Reconcile joins the expense reconciliation sheet with the expense
flow analysis and classifies every line item: does the budget figure have
matching invoice-level support, and how far apart are the three amounts.

Budget line items that feed one flow category are grouped before the
comparison, so instruction sub-lines reconcile against the combined
invoice total.

Examples:
  # Reconcile with the built-in category map
  arenadash reconcile --data-dir ./data

  # Custom mapping and variance bands
  arenadash reconcile --data-dir ./data --category-map categories.yaml \
    --minor-threshold 250 --major-threshold 2500

  # Machine-readable output
  arenadash reconcile --data-dir ./data --output-format json -o recon.json`,

	PreRunE: validateReconcileFlags,
	RunE:    runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVar(&categoryMapFile, "category-map", "", "YAML file mapping budget line items to flow categories")
	reconcileCmd.Flags().Float64Var(&minorThreshold, "minor-threshold", 0, "dollar gap above which a line is a minor variance (default 500)")
	reconcileCmd.Flags().Float64Var(&majorThreshold, "major-threshold", 0, "dollar gap above which a line is a major variance (default 5000)")
	addReportFlags(reconcileCmd)

	viper.BindPFlag("category-map", reconcileCmd.Flags().Lookup("category-map"))
}

func validateReconcileFlags(cmd *cobra.Command, args []string) error {
	categoryMapFile = viper.GetString("category-map")

	if err := validateDataDir(); err != nil {
		return err
	}
	if err := validateOutputFormat(); err != nil {
		return err
	}
	if categoryMapFile != "" {
		if _, err := os.Stat(categoryMapFile); os.IsNotExist(err) {
			return fmt.Errorf("category map file does not exist: %s", categoryMapFile)
		}
	}
	if minorThreshold < 0 || majorThreshold < 0 {
		return fmt.Errorf("thresholds cannot be negative")
	}
	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Reconciling budget against expense flow...\n")
		fmt.Fprintf(os.Stderr, "Data directory: %s\n", viper.GetString("data-dir"))
	}

	catMap, err := config.CreateCategoryMap(categoryMapFile)
	if err != nil {
		return err
	}

	thresholds, err := config.CreateStatusThresholds(minorThreshold, majorThreshold)
	if err != nil {
		return err
	}

	loader := newLoader()
	budget := loader.LoadExpenseReconciliation()
	flow := loader.LoadExpenseFlow()

	engine := reconciler.NewEngine(thresholds)
	rows := engine.Reconcile(budget, flow, catMap)

	report := newReport()
	report.Reconciliation = rows

	if err := writeReport(report); err != nil {
		return err
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nReconciled %d budget lines and %d flow categories into %d rows.\n",
			len(budget), len(flow), len(rows))
	}
	return nil
}
