package cmd

import (
	"fmt"
	"os"

	"arena-transparency-service/cmd/arenadash/config"
	"arena-transparency-service/internal/variance"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the alerts command
var alertThreshold float64

// alertsCmd represents the alerts command
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Flag budget lines with material proposal-vs-actual variance",
	Long: `Alerts scans the revenue and expense reconciliation sheets and flags
every line whose actual YTD figure diverged from the proposal. RED means
the divergence exceeds 50% or $10,000; YELLOW means it exceeds the
configured percentage threshold or $2,000.

Examples:
  arenadash alerts --data-dir ./data
  arenadash alerts --data-dir ./data --threshold 0.04
  arenadash alerts --data-dir ./data --output-format csv -o alerts.csv`,

	PreRunE: validateAlertsFlags,
	RunE:    runAlerts,
}

func init() {
	rootCmd.AddCommand(alertsCmd)

	alertsCmd.Flags().Float64VarP(&alertThreshold, "threshold", "t", 0, "yellow alert percentage threshold as a fraction (default 0.05)")
	addReportFlags(alertsCmd)

	viper.BindPFlag("threshold", alertsCmd.Flags().Lookup("threshold"))
}

func validateAlertsFlags(cmd *cobra.Command, args []string) error {
	alertThreshold = viper.GetFloat64("threshold")

	if err := validateDataDir(); err != nil {
		return err
	}
	if err := validateOutputFormat(); err != nil {
		return err
	}
	if alertThreshold < 0 || alertThreshold > 1 {
		return fmt.Errorf("threshold must be a fraction between 0 and 1, got %v", alertThreshold)
	}
	return nil
}

func runAlerts(cmd *cobra.Command, args []string) error {
	loader := newLoader()
	revenue := loader.LoadRevenueReconciliation()
	expense := loader.LoadExpenseReconciliation()

	thresholds := config.CreateVarianceThresholds(alertThreshold)
	alerts := variance.BuildAlerts(revenue, expense, thresholds)

	report := newReport()
	report.Alerts = alerts

	if err := writeReport(report); err != nil {
		return err
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nScanned %d revenue and %d expense lines, %d alerts raised.\n",
			len(revenue), len(expense), len(alerts))
	}
	return nil
}
